package cpu

// logical applies a bitwise operation between the accumulator and memory.
func (cpu *CPU) logical(op Operand, f func(a, m uint16) uint16) {
	m := cpu.load(op, !cpu.memory8())
	result := f(cpu.acc(), m)
	cpu.setAcc(result)
	cpu.setZNMemory(result)
}

// bit tests accumulator bits against memory. The immediate form only
// touches Z; the others also copy the operand's top two bits into N and V.
func (cpu *CPU) bit(op Operand) {
	mask, sign := cpu.memoryMask()
	m := cpu.load(op, mask == 0xFFFF)
	cpu.P.Assign(FlagZero, cpu.acc()&m == 0)
	if op.Immediate {
		return
	}
	cpu.P.Assign(FlagNegative, m&sign != 0)
	cpu.P.Assign(FlagOverflow, m&(sign>>1) != 0)
}

// testAndModify implements TSB (set) and TRB (reset). Z reflects A AND m
// before the write.
func (cpu *CPU) testAndModify(op Operand, set bool) {
	wide := !cpu.memory8()
	m := cpu.load(op, wide)
	a := cpu.acc()
	cpu.P.Assign(FlagZero, a&m == 0)
	if set {
		m |= a
	} else {
		m &^= a
	}
	cpu.store(op, m, wide)
}
