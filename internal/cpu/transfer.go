package cpu

// Register transfers. The destination width decides how many bits move and
// which bit is N.

func (cpu *CPU) transferToIndex(r IndexRegister, value uint16) {
	cpu.setIndex(r, value)
	cpu.setZNIndex(cpu.index(r))
}

func (cpu *CPU) transferToAcc(value uint16) {
	cpu.setAcc(value)
	cpu.setZNMemory(cpu.acc())
}

// txs copies X to SP without touching flags.
func (cpu *CPU) txs() {
	if cpu.emulation() {
		cpu.SP = 0x0100 | cpu.X&0xFF
		return
	}
	cpu.SP = cpu.X
}

// tcs copies the full 16-bit accumulator to SP without touching flags.
func (cpu *CPU) tcs() {
	cpu.SP = cpu.A
	if cpu.emulation() {
		cpu.SP = 0x0100 | cpu.SP&0xFF
	}
}

// xba swaps A and B. Flags follow the new low byte regardless of m.
func (cpu *CPU) xba() {
	cpu.A = cpu.A<<8 | cpu.A>>8
	cpu.setZN(cpu.A, 0xFF, 0x80)
}
