package cpu

import "fmt"

// Length returns the byte length of in under the flags in p. Immediate
// operands grow by one byte when their register is 16-bit.
func Length(in Instruction, p Status) int {
	switch in.Mode {
	case Implied, Accumulator:
		return 1
	case ImmediateM:
		if p.Test(FlagMemory8) {
			return 2
		}
		return 3
	case ImmediateX:
		if p.Test(FlagIndex8) {
			return 2
		}
		return 3
	case Immediate8, Direct, DirectX, DirectY, DirectIndirect, DirectIndirectX,
		DirectIndirectY, DirectIndirectLong, DirectIndirectLongY,
		StackRelative, StackRelativeIndirectY, Relative, StackDirectIndirect:
		return 2
	case Absolute, AbsoluteX, AbsoluteY, AbsoluteIndirect, AbsoluteIndirectX,
		AbsoluteIndirectLong, RelativeLong, BlockMove, StackAbsolute, StackRelativeLong:
		return 3
	case AbsoluteLong, AbsoluteLongX:
		return 4
	}
	panic(fmt.Sprintf("cpu: no length for addressing mode %s", in.Mode))
}

// widthClass says which status bit sizes an instruction's data.
type widthClass uint8

const (
	widthNone widthClass = iota
	widthMemory
	widthModify // read-modify-write at accumulator width
	widthIndex
)

func classify(m Mnemonic) widthClass {
	switch m {
	case ADC, AND, BIT, CMP, EOR, LDA, ORA, SBC, STA, STZ, PHA, PLA:
		return widthMemory
	case ASL, LSR, ROL, ROR, INC, DEC, TSB, TRB:
		return widthModify
	case LDX, LDY, STX, STY, CPX, CPY, PHX, PHY, PLX, PLY:
		return widthIndex
	}
	return widthNone
}

// indexedRead reports whether in pays for a page cross on its index add.
// Stores and read-modify-write forms already include that cycle in the base.
func indexedRead(in Instruction) bool {
	switch in.Mode {
	case AbsoluteX, AbsoluteY, DirectIndirectY:
	default:
		return false
	}
	switch in.Mnemonic {
	case ADC, AND, BIT, CMP, EOR, LDA, LDX, LDY, ORA, SBC:
		return true
	}
	return false
}

// instructionCycles is the cost of in under the current flags. Branch-taken
// penalties are returned by the branch handlers themselves.
func (cpu *CPU) instructionCycles(in Instruction, op Operand) int {
	n := int(in.Cycles)

	// Extra bus cycle when the direct page is not page aligned.
	if in.Mode.isDirectPage() && cpu.DP&0xFF != 0 {
		n++
	}

	switch classify(in.Mnemonic) {
	case widthMemory:
		if !cpu.memory8() {
			n++
		}
	case widthModify:
		if !cpu.memory8() && in.Mode != Accumulator {
			n += 2
		}
	case widthIndex:
		if !cpu.index8() {
			n++
		}
	}

	if indexedRead(in) && (!cpu.index8() || op.Crossed) {
		n++
	}

	switch in.Mnemonic {
	case BRK, COP, RTI:
		if !cpu.emulation() {
			n++
		}
	}

	return n
}
