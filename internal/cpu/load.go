package cpu

func (cpu *CPU) lda(op Operand) {
	value := cpu.load(op, !cpu.memory8())
	cpu.setAcc(value)
	cpu.setZNMemory(value)
}

func (cpu *CPU) ldIndex(r IndexRegister, op Operand) {
	value := cpu.load(op, !cpu.index8())
	cpu.setIndex(r, value)
	cpu.setZNIndex(value)
}
