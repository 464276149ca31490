package cpu

// modifier computes a read-modify-write result at the given width and sets
// any flags besides Z and N itself.
type modifier func(value, mask, sign uint16) uint16

// modify runs f on the accumulator or on memory, at accumulator width.
func (cpu *CPU) modify(in Instruction, op Operand, f modifier) {
	mask, sign := cpu.memoryMask()
	if in.Mode == Accumulator {
		result := f(cpu.acc(), mask, sign) & mask
		cpu.setAcc(result)
		cpu.setZN(result, mask, sign)
		return
	}
	wide := mask == 0xFFFF
	result := f(cpu.load(op, wide), mask, sign) & mask
	cpu.store(op, result, wide)
	cpu.setZN(result, mask, sign)
}

func (cpu *CPU) asl(v, mask, sign uint16) uint16 {
	cpu.P.Assign(FlagCarry, v&sign != 0)
	return (v << 1) & mask
}

func (cpu *CPU) lsr(v, mask, _ uint16) uint16 {
	cpu.P.Assign(FlagCarry, v&1 != 0)
	return (v & mask) >> 1
}

func (cpu *CPU) rol(v, mask, sign uint16) uint16 {
	c := carryIn(&cpu.P)
	cpu.P.Assign(FlagCarry, v&sign != 0)
	return (v<<1 | c) & mask
}

func (cpu *CPU) ror(v, mask, sign uint16) uint16 {
	var c uint16
	if cpu.P.Test(FlagCarry) {
		c = sign
	}
	cpu.P.Assign(FlagCarry, v&1 != 0)
	return ((v&mask)>>1 | c) & mask
}
