package cpu

// rep clears the status bits named by its operand. m and x cannot be
// cleared in emulation mode.
func (cpu *CPU) rep(op Operand) {
	cpu.P.ClearBits(uint8(op.Data))
	cpu.syncModes()
}

// sep sets the status bits named by its operand. Setting x drops the high
// bytes of X and Y.
func (cpu *CPU) sep(op Operand) {
	cpu.P.SetBits(uint8(op.Data))
	cpu.syncModes()
}

// xce exchanges carry and emulation. Entering emulation forces 8-bit
// registers and a page-1 stack.
func (cpu *CPU) xce() {
	carry := cpu.P.Test(FlagCarry)
	cpu.P.Assign(FlagCarry, cpu.emulation())
	cpu.P.Assign(FlagEmulation, carry)
	cpu.syncModes()
}
