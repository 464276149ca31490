package cpu

// branch jumps to the resolved target when taken. A taken branch costs one
// cycle, plus one in emulation mode when it lands on another page.
func (cpu *CPU) branch(op Operand, taken bool) int {
	if !taken {
		return 0
	}
	cpu.PC = uint16(op.Target)
	if cpu.emulation() && op.Crossed {
		return 2
	}
	return 1
}

func (cpu *CPU) jumpLong(target uint32) {
	cpu.PBR = uint8(target >> 16)
	cpu.PC = uint16(target)
}

// jsr pushes the address of its own last byte and jumps within the bank.
// JSR (a,x) is a 65816 addition and does not wrap the stack in page 1.
func (cpu *CPU) jsr(in Instruction, op Operand) {
	if in.Mode == AbsoluteIndirectX {
		cpu.pushLinearWord(cpu.PC - 1)
	} else {
		cpu.pushWord(cpu.PC - 1)
	}
	cpu.PC = uint16(op.Target)
}

// jsl also pushes the program bank, before the return address.
func (cpu *CPU) jsl(op Operand) {
	cpu.pushLinear(cpu.PBR)
	cpu.pushLinearWord(cpu.PC - 1)
	cpu.jumpLong(op.Target)
}

func (cpu *CPU) rts() {
	cpu.PC = cpu.pullWord() + 1
}

func (cpu *CPU) rtl() {
	cpu.PC = cpu.pullLinearWord() + 1
	cpu.PBR = cpu.pullLinear()
}
