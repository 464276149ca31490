package cpu

import "fmt"

// Operand is the resolved data of one instruction. It lives for a single
// step.
type Operand struct {
	Lo     uint32 // effective address of the low byte
	Hi     uint32 // effective address of the high byte
	Target uint32 // jump or branch destination
	Data   uint16 // immediate value or word computed by the mode
	Src    uint32 // block move source
	Dst    uint32 // block move destination

	Immediate bool // Data holds the operand; Lo/Hi are unused
	Crossed   bool // indexing or branching changed the page
}

// operandByte reads the n-th byte after the opcode at opPC.
func (cpu *CPU) operandByte(opPC uint16, n uint16) uint8 {
	return cpu.read(cpu.programAddress(opPC + n))
}

func (cpu *CPU) operandWord(opPC uint16) uint16 {
	return cpu.readWord(cpu.programAddress(opPC+1), cpu.programAddress(opPC+2))
}

func (cpu *CPU) operandLong(opPC uint16) uint32 {
	word := uint32(cpu.operandWord(opPC))
	return uint32(cpu.operandByte(opPC, 3))<<16 | word
}

// readBank0Long reads a 24-bit pointer from bank 0 with 16-bit wrap.
func (cpu *CPU) readBank0Long(address uint16) uint32 {
	word := uint32(cpu.readBank0Word(address))
	return uint32(cpu.read(uint32(address+2)))<<16 | word
}

// direct forms a direct-page pair. Both bytes stay in bank 0 and wrap at
// 16 bits, so DP=$FF00 with offset $FF gives $00FFFF and $000000.
func direct(address uint16) Operand {
	return Operand{Lo: uint32(address), Hi: uint32(address + 1)}
}

// data forms a pair in a data bank. The high byte is one further in the full
// 24-bit space.
func data(bank uint8, offset uint16) Operand {
	lo := bankAddress(bank, offset)
	return Operand{Lo: lo, Hi: (lo + 1) & addressMask}
}

// long forms a pair from a full 24-bit address.
func long(address uint32) Operand {
	address &= addressMask
	return Operand{Lo: address, Hi: (address + 1) & addressMask}
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// resolve computes the operand of in, whose opcode was fetched at opPC in the
// current program bank.
func (cpu *CPU) resolve(in Instruction, opPC uint16) Operand {
	switch in.Mode {
	case Implied, Accumulator:
		return Operand{}

	case ImmediateM:
		return cpu.immediate(opPC, !cpu.memory8())

	case ImmediateX:
		return cpu.immediate(opPC, !cpu.index8())

	case Immediate8:
		return cpu.immediate(opPC, false)

	case Direct:
		d := uint16(cpu.operandByte(opPC, 1))
		return direct(cpu.DP + d)

	case DirectX:
		d := uint16(cpu.operandByte(opPC, 1))
		return direct(cpu.DP + d + cpu.index(RegX))

	case DirectY:
		d := uint16(cpu.operandByte(opPC, 1))
		return direct(cpu.DP + d + cpu.index(RegY))

	case DirectIndirect:
		d := uint16(cpu.operandByte(opPC, 1))
		return data(cpu.DBR, cpu.readBank0Word(cpu.DP+d))

	case DirectIndirectX:
		d := uint16(cpu.operandByte(opPC, 1))
		return data(cpu.DBR, cpu.readBank0Word(cpu.DP+d+cpu.index(RegX)))

	case DirectIndirectY:
		d := uint16(cpu.operandByte(opPC, 1))
		base := cpu.readBank0Word(cpu.DP + d)
		effective := base + cpu.index(RegY)
		op := data(cpu.DBR, effective)
		op.Crossed = pageCrossed(base, effective)
		return op

	case DirectIndirectLong:
		d := uint16(cpu.operandByte(opPC, 1))
		return long(cpu.readBank0Long(cpu.DP + d))

	case DirectIndirectLongY:
		d := uint16(cpu.operandByte(opPC, 1))
		return long(cpu.readBank0Long(cpu.DP+d) + uint32(cpu.index(RegY)))

	case Absolute:
		w := cpu.operandWord(opPC)
		op := data(cpu.DBR, w)
		op.Target = bankAddress(cpu.PBR, w)
		return op

	case AbsoluteX, AbsoluteY:
		w := cpu.operandWord(opPC)
		r := RegX
		if in.Mode == AbsoluteY {
			r = RegY
		}
		effective := w + cpu.index(r)
		op := data(cpu.DBR, effective)
		op.Crossed = pageCrossed(w, effective)
		return op

	case AbsoluteLong:
		l := cpu.operandLong(opPC)
		op := long(l)
		op.Target = l
		return op

	case AbsoluteLongX:
		return long(cpu.operandLong(opPC) + uint32(cpu.index(RegX)))

	case AbsoluteIndirect:
		pointer := cpu.operandWord(opPC)
		return Operand{Target: bankAddress(cpu.PBR, cpu.readBank0Word(pointer))}

	case AbsoluteIndirectX:
		pointer := cpu.operandWord(opPC) + cpu.index(RegX)
		target := cpu.readWord(cpu.programAddress(pointer), cpu.programAddress(pointer+1))
		return Operand{Target: bankAddress(cpu.PBR, target)}

	case AbsoluteIndirectLong:
		pointer := cpu.operandWord(opPC)
		return Operand{Target: cpu.readBank0Long(pointer)}

	case StackRelative:
		d := uint16(cpu.operandByte(opPC, 1))
		return direct(cpu.SP + d)

	case StackRelativeIndirectY:
		d := uint16(cpu.operandByte(opPC, 1))
		base := cpu.readBank0Word(cpu.SP + d)
		return data(cpu.DBR, base+cpu.index(RegY))

	case Relative:
		displacement := int8(cpu.operandByte(opPC, 1))
		next := opPC + 2
		target := next + uint16(int16(displacement))
		return Operand{
			Target:  bankAddress(cpu.PBR, target),
			Crossed: pageCrossed(next, target),
		}

	case RelativeLong:
		next := opPC + 3
		target := next + cpu.operandWord(opPC)
		return Operand{Target: bankAddress(cpu.PBR, target)}

	case BlockMove:
		// Operand bytes are destination bank then source bank.
		dstBank := cpu.operandByte(opPC, 1)
		srcBank := cpu.operandByte(opPC, 2)
		return Operand{
			Src: bankAddress(srcBank, cpu.index(RegX)),
			Dst: bankAddress(dstBank, cpu.index(RegY)),
		}

	case StackAbsolute:
		return Operand{Data: cpu.operandWord(opPC), Immediate: true}

	case StackDirectIndirect:
		d := uint16(cpu.operandByte(opPC, 1))
		return Operand{Data: cpu.readBank0Word(cpu.DP + d), Immediate: true}

	case StackRelativeLong:
		next := opPC + 3
		return Operand{Data: next + cpu.operandWord(opPC), Immediate: true}
	}

	panic(fmt.Sprintf("cpu: no resolver for addressing mode %s", in.Mode))
}

// immediate reads a one- or two-byte immediate operand.
func (cpu *CPU) immediate(opPC uint16, wide bool) Operand {
	op := Operand{Immediate: true, Lo: cpu.programAddress(opPC + 1)}
	if wide {
		op.Data = cpu.operandWord(opPC)
	} else {
		op.Data = uint16(cpu.operandByte(opPC, 1))
	}
	return op
}

// load reads the operand, one byte or a little-endian word.
func (cpu *CPU) load(op Operand, wide bool) uint16 {
	if op.Immediate {
		if wide {
			return op.Data
		}
		return op.Data & 0xFF
	}
	lo := uint16(cpu.read(op.Lo))
	if !wide {
		return lo
	}
	return uint16(cpu.read(op.Hi))<<8 | lo
}

// store writes one byte or a little-endian word to the operand address.
func (cpu *CPU) store(op Operand, value uint16, wide bool) {
	cpu.write(op.Lo, uint8(value))
	if wide {
		cpu.write(op.Hi, uint8(value>>8))
	}
}
