package cpu

import "fmt"

// execute runs the handler for in and returns cycles beyond the accounted
// cost (taken branches only).
func (cpu *CPU) execute(in Instruction, op Operand) int {
	switch in.Mnemonic {
	// Arithmetic
	case ADC:
		cpu.adc(op)
	case SBC:
		cpu.sbc(op)
	case CMP:
		cpu.compareMemory(op)
	case CPX:
		cpu.compareIndex(RegX, op)
	case CPY:
		cpu.compareIndex(RegY, op)
	case INC:
		cpu.modify(in, op, func(v, _, _ uint16) uint16 { return v + 1 })
	case DEC:
		cpu.modify(in, op, func(v, _, _ uint16) uint16 { return v - 1 })
	case INX:
		cpu.stepIndex(RegX, 1)
	case INY:
		cpu.stepIndex(RegY, 1)
	case DEX:
		cpu.stepIndex(RegX, 0xFFFF)
	case DEY:
		cpu.stepIndex(RegY, 0xFFFF)

	// Logical
	case AND:
		cpu.logical(op, func(a, m uint16) uint16 { return a & m })
	case ORA:
		cpu.logical(op, func(a, m uint16) uint16 { return a | m })
	case EOR:
		cpu.logical(op, func(a, m uint16) uint16 { return a ^ m })
	case BIT:
		cpu.bit(op)
	case TSB:
		cpu.testAndModify(op, true)
	case TRB:
		cpu.testAndModify(op, false)

	// Shifts and rotates
	case ASL:
		cpu.modify(in, op, cpu.asl)
	case LSR:
		cpu.modify(in, op, cpu.lsr)
	case ROL:
		cpu.modify(in, op, cpu.rol)
	case ROR:
		cpu.modify(in, op, cpu.ror)

	// Loads and stores
	case LDA:
		cpu.lda(op)
	case LDX:
		cpu.ldIndex(RegX, op)
	case LDY:
		cpu.ldIndex(RegY, op)
	case STA:
		cpu.store(op, cpu.acc(), !cpu.memory8())
	case STX:
		cpu.store(op, cpu.index(RegX), !cpu.index8())
	case STY:
		cpu.store(op, cpu.index(RegY), !cpu.index8())
	case STZ:
		cpu.store(op, 0, !cpu.memory8())

	// Branches
	case BCC:
		return cpu.branch(op, !cpu.P.Test(FlagCarry))
	case BCS:
		return cpu.branch(op, cpu.P.Test(FlagCarry))
	case BEQ:
		return cpu.branch(op, cpu.P.Test(FlagZero))
	case BNE:
		return cpu.branch(op, !cpu.P.Test(FlagZero))
	case BMI:
		return cpu.branch(op, cpu.P.Test(FlagNegative))
	case BPL:
		return cpu.branch(op, !cpu.P.Test(FlagNegative))
	case BVC:
		return cpu.branch(op, !cpu.P.Test(FlagOverflow))
	case BVS:
		return cpu.branch(op, cpu.P.Test(FlagOverflow))
	case BRA:
		return cpu.branch(op, true)
	case BRL:
		cpu.PC = uint16(op.Target)

	// Jumps, calls and returns
	case JMP:
		cpu.PC = uint16(op.Target)
	case JML:
		cpu.jumpLong(op.Target)
	case JSR:
		cpu.jsr(in, op)
	case JSL:
		cpu.jsl(op)
	case RTS:
		cpu.rts()
	case RTL:
		cpu.rtl()

	// Stack
	case PHA:
		cpu.pushSized(cpu.acc(), !cpu.memory8())
	case PHX:
		cpu.pushSized(cpu.index(RegX), !cpu.index8())
	case PHY:
		cpu.pushSized(cpu.index(RegY), !cpu.index8())
	case PHB:
		cpu.pushLinear(cpu.DBR)
	case PHD:
		cpu.pushLinearWord(cpu.DP)
	case PHK:
		cpu.pushLinear(cpu.PBR)
	case PHP:
		cpu.php()
	case PLA:
		cpu.pla()
	case PLX:
		cpu.plIndex(RegX)
	case PLY:
		cpu.plIndex(RegY)
	case PLB:
		cpu.plb()
	case PLD:
		cpu.pld()
	case PLP:
		cpu.plp()
	case PEA, PEI, PER:
		cpu.pushLinearWord(op.Data)

	// Transfers
	case TAX:
		cpu.transferToIndex(RegX, cpu.A)
	case TAY:
		cpu.transferToIndex(RegY, cpu.A)
	case TXA:
		cpu.transferToAcc(cpu.X)
	case TYA:
		cpu.transferToAcc(cpu.Y)
	case TXY:
		cpu.transferToIndex(RegY, cpu.X)
	case TYX:
		cpu.transferToIndex(RegX, cpu.Y)
	case TSX:
		cpu.transferToIndex(RegX, cpu.SP)
	case TXS:
		cpu.txs()
	case TCD:
		cpu.DP = cpu.A
		cpu.setZN(cpu.DP, 0xFFFF, 0x8000)
	case TDC:
		cpu.A = cpu.DP
		cpu.setZN(cpu.A, 0xFFFF, 0x8000)
	case TCS:
		cpu.tcs()
	case TSC:
		cpu.A = cpu.SP
		cpu.setZN(cpu.A, 0xFFFF, 0x8000)
	case XBA:
		cpu.xba()

	// Block moves
	case MVN:
		cpu.blockMove(in, op, 1)
	case MVP:
		cpu.blockMove(in, op, 0xFFFF)

	// Flags and modes
	case CLC:
		cpu.P.Clear(FlagCarry)
	case SEC:
		cpu.P.Set(FlagCarry)
	case CLD:
		cpu.P.Clear(FlagDecimal)
	case SED:
		cpu.P.Set(FlagDecimal)
	case CLI:
		cpu.P.Clear(FlagIRQDisable)
	case SEI:
		cpu.P.Set(FlagIRQDisable)
	case CLV:
		cpu.P.Clear(FlagOverflow)
	case REP:
		cpu.rep(op)
	case SEP:
		cpu.sep(op)
	case XCE:
		cpu.xce()

	// Interrupts and halts
	case BRK, COP:
		cpu.enterInterrupt(in.Vector, true)
	case RTI:
		cpu.rti()
	case WAI:
		cpu.waiting = true
	case STP:
		cpu.stopped = true

	case NOP, WDM:

	default:
		panic(fmt.Sprintf("cpu: no handler for %s", in.Mnemonic))
	}
	return 0
}
