package cpu

// pushSized pushes one byte or a word, high byte first.
func (cpu *CPU) pushSized(value uint16, wide bool) {
	if wide {
		cpu.pushWord(value)
		return
	}
	cpu.push(uint8(value))
}

func (cpu *CPU) pullSized(wide bool) uint16 {
	if wide {
		return cpu.pullWord()
	}
	return uint16(cpu.pull())
}

func (cpu *CPU) pla() {
	value := cpu.pullSized(!cpu.memory8())
	cpu.setAcc(value)
	cpu.setZNMemory(value)
}

func (cpu *CPU) plIndex(r IndexRegister) {
	value := cpu.pullSized(!cpu.index8())
	cpu.setIndex(r, value)
	cpu.setZNIndex(value)
}

func (cpu *CPU) plb() {
	cpu.DBR = cpu.pullLinear()
	cpu.setZN(uint16(cpu.DBR), 0xFF, 0x80)
}

func (cpu *CPU) pld() {
	cpu.DP = cpu.pullLinearWord()
	cpu.setZN(cpu.DP, 0xFFFF, 0x8000)
}

// php pushes the status byte. In emulation bits 4 and 5 read back as 1.
func (cpu *CPU) php() {
	value := cpu.P.Byte()
	if cpu.emulation() {
		value |= uint8(FlagBreak | FlagMemory8)
	}
	cpu.push(value)
}

func (cpu *CPU) plp() {
	cpu.P.SetByte(cpu.pull())
	cpu.syncModes()
}
