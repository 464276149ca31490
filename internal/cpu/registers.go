package cpu

// Registers is the 65816 register file. A, X and Y always hold 16 bits;
// the visible width comes from the m and x status bits.
type Registers struct {
	PC  uint16 // Program counter, offset inside PBR
	A   uint16 // Accumulator (C); B is the high byte
	X   uint16
	Y   uint16
	SP  uint16 // Stack pointer
	DP  uint16 // Direct page base
	PBR uint8  // Program bank
	DBR uint8  // Data bank
	MDR uint8  // Last byte driven on the data bus (open-bus latch)
}

// IndexRegister selects X or Y for the width-aware accessors.
type IndexRegister int

const (
	RegX IndexRegister = iota
	RegY
)

// memory8 reports whether the accumulator and memory operations are 8-bit.
func (cpu *CPU) memory8() bool {
	return cpu.P.Test(FlagMemory8)
}

// index8 reports whether X and Y are 8-bit.
func (cpu *CPU) index8() bool {
	return cpu.P.Test(FlagIndex8)
}

// emulation reports whether the CPU is in 6502 emulation mode.
func (cpu *CPU) emulation() bool {
	return cpu.P.Test(FlagEmulation)
}

// acc returns the accumulator at its current width.
func (cpu *CPU) acc() uint16 {
	if cpu.memory8() {
		return cpu.A & 0xFF
	}
	return cpu.A
}

// setAcc writes the accumulator at its current width. In 8-bit mode the
// hidden high byte (B) is kept.
func (cpu *CPU) setAcc(value uint16) {
	if cpu.memory8() {
		cpu.A = cpu.A&0xFF00 | value&0xFF
	} else {
		cpu.A = value
	}
}

// index returns X or Y at the current index width.
func (cpu *CPU) index(r IndexRegister) uint16 {
	v := cpu.X
	if r == RegY {
		v = cpu.Y
	}
	if cpu.index8() {
		return v & 0xFF
	}
	return v
}

// setIndex writes X or Y at the current index width, keeping the high byte
// in 8-bit mode.
func (cpu *CPU) setIndex(r IndexRegister, value uint16) {
	p := &cpu.X
	if r == RegY {
		p = &cpu.Y
	}
	if cpu.index8() {
		*p = *p&0xFF00 | value&0xFF
	} else {
		*p = value
	}
}

// memoryMask and memorySign describe the accumulator width.
func (cpu *CPU) memoryMask() (mask, sign uint16) {
	if cpu.memory8() {
		return 0xFF, 0x80
	}
	return 0xFFFF, 0x8000
}

// indexMask and indexSign describe the index width.
func (cpu *CPU) indexMask() (mask, sign uint16) {
	if cpu.index8() {
		return 0xFF, 0x80
	}
	return 0xFFFF, 0x8000
}

// syncModes re-applies the invariants that emulation mode imposes on the
// register file. It runs after every instruction that can rewrite the status
// word and once more at the end of each step. The high bytes of X and Y are
// left alone: index() masks them while x is set and a 16-bit transfer can
// still see them.
func (cpu *CPU) syncModes() {
	if cpu.emulation() {
		cpu.P.Set(FlagMemory8 | FlagIndex8)
		cpu.SP = 0x0100 | cpu.SP&0xFF
	}
}

// setZN sets Zero and Negative from value at the given sign bit.
func (cpu *CPU) setZN(value, mask, sign uint16) {
	cpu.P.Assign(FlagZero, value&mask == 0)
	cpu.P.Assign(FlagNegative, value&sign != 0)
}

// setZNMemory sets Zero and Negative at the accumulator width.
func (cpu *CPU) setZNMemory(value uint16) {
	mask, sign := cpu.memoryMask()
	cpu.setZN(value, mask, sign)
}

// setZNIndex sets Zero and Negative at the index width.
func (cpu *CPU) setZNIndex(value uint16) {
	mask, sign := cpu.indexMask()
	cpu.setZN(value, mask, sign)
}
