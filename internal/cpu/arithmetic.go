package cpu

func carryIn(p *Status) uint16 {
	if p.Test(FlagCarry) {
		return 1
	}
	return 0
}

// nibbles is the number of BCD digits at a width.
func nibbles(mask uint16) int {
	if mask == 0xFF {
		return 2
	}
	return 4
}

// adc adds memory and carry to the accumulator.
func (cpu *CPU) adc(op Operand) {
	mask, _ := cpu.memoryMask()
	m := cpu.load(op, mask == 0xFFFF)
	cpu.addToAcc(m)
}

// sbc subtracts memory and borrow from the accumulator.
func (cpu *CPU) sbc(op Operand) {
	mask, _ := cpu.memoryMask()
	m := cpu.load(op, mask == 0xFFFF)
	if cpu.P.Test(FlagDecimal) {
		result, carry := subtractDecimal(cpu.acc(), m, cpu.P.Test(FlagCarry), nibbles(mask))
		cpu.P.Assign(FlagCarry, carry)
		cpu.P.Clear(FlagOverflow)
		cpu.setAcc(result)
		cpu.setZNMemory(result)
		return
	}
	// Binary subtraction is addition of the one's complement.
	cpu.addToAcc(^m & mask)
}

func (cpu *CPU) addToAcc(m uint16) {
	mask, sign := cpu.memoryMask()
	a := cpu.acc()

	var result uint16
	if cpu.P.Test(FlagDecimal) {
		var carry bool
		result, carry = addDecimal(a, m, cpu.P.Test(FlagCarry), nibbles(mask))
		cpu.P.Assign(FlagCarry, carry)
		// V is not meaningful for BCD results.
		cpu.P.Clear(FlagOverflow)
	} else {
		sum := uint32(a) + uint32(m) + uint32(carryIn(&cpu.P))
		result = uint16(sum) & mask
		cpu.P.Assign(FlagCarry, sum > uint32(mask))
		cpu.P.Assign(FlagOverflow, ^(a^m)&(a^result)&sign != 0)
	}

	cpu.setAcc(result)
	cpu.setZNMemory(result)
}

// addDecimal adds two BCD numbers digit by digit. Each digit above 9 is
// corrected by 6 and carries into the next.
func addDecimal(a, b uint16, carry bool, digits int) (uint16, bool) {
	var result uint16
	c := 0
	if carry {
		c = 1
	}
	for i := 0; i < digits; i++ {
		shift := uint(4 * i)
		d := int(a>>shift&0xF) + int(b>>shift&0xF) + c
		c = 0
		if d > 9 {
			d += 6
		}
		if d > 0xF {
			c = 1
		}
		result |= uint16(d&0xF) << shift
	}
	return result, c == 1
}

// subtractDecimal subtracts two BCD numbers digit by digit. Carry set means
// no borrow, as in binary SBC.
func subtractDecimal(a, b uint16, carry bool, digits int) (uint16, bool) {
	var result uint16
	borrow := 1
	if carry {
		borrow = 0
	}
	for i := 0; i < digits; i++ {
		shift := uint(4 * i)
		d := int(a>>shift&0xF) - int(b>>shift&0xF) - borrow
		borrow = 0
		if d < 0 {
			d += 10
			borrow = 1
		}
		result |= uint16(d&0xF) << shift
	}
	return result, borrow == 0
}

// compare sets C, Z and N from reg - m without storing.
func (cpu *CPU) compare(reg, m, mask, sign uint16) {
	result := (reg - m) & mask
	cpu.P.Assign(FlagCarry, reg >= m)
	cpu.setZN(result, mask, sign)
}

func (cpu *CPU) compareMemory(op Operand) {
	mask, sign := cpu.memoryMask()
	m := cpu.load(op, mask == 0xFFFF)
	cpu.compare(cpu.acc(), m, mask, sign)
}

func (cpu *CPU) compareIndex(r IndexRegister, op Operand) {
	mask, sign := cpu.indexMask()
	m := cpu.load(op, mask == 0xFFFF)
	cpu.compare(cpu.index(r), m, mask, sign)
}

// stepIndex adds delta (1 or -1 as $FFFF) to an index register.
func (cpu *CPU) stepIndex(r IndexRegister, delta uint16) {
	cpu.setIndex(r, cpu.index(r)+delta)
	cpu.setZNIndex(cpu.index(r))
}
