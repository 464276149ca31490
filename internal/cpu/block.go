package cpu

// blockMove copies one byte for MVN (delta 1) or MVP (delta $FFFF). The
// accumulator counts down at full 16 bits; until it wraps to $FFFF the PC is
// moved back onto the instruction so the next step repeats it.
func (cpu *CPU) blockMove(in Instruction, op Operand, delta uint16) {
	cpu.write(op.Dst, cpu.read(op.Src))
	cpu.DBR = uint8(op.Dst >> 16)

	cpu.setIndex(RegX, cpu.index(RegX)+delta)
	cpu.setIndex(RegY, cpu.index(RegY)+delta)
	cpu.A--

	if cpu.A != 0xFFFF {
		cpu.PC -= uint16(Length(in, cpu.P))
	}
}
