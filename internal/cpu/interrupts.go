package cpu

import "sync/atomic"

// Cycles taken by a hardware interrupt entry.
const (
	interruptCyclesEmulation = 7
	interruptCyclesNative    = 8
)

// Signals carries the interrupt request lines into the CPU. Other components
// raise requests from any goroutine; the CPU consumes each request at most
// once, at the start of a step.
type Signals struct {
	nmi atomic.Bool
	irq atomic.Bool
}

// NewSignals creates a Signals with no request pending.
func NewSignals() *Signals {
	return &Signals{}
}

// RaiseNMI requests a non-maskable interrupt.
func (s *Signals) RaiseNMI() {
	s.nmi.Store(true)
}

// RaiseIRQ requests a maskable interrupt.
func (s *Signals) RaiseIRQ() {
	s.irq.Store(true)
}

// ClearIRQ withdraws a pending IRQ that has not been serviced yet.
func (s *Signals) ClearIRQ() {
	s.irq.Store(false)
}

// NMIPending reports whether an NMI is waiting to be serviced.
func (s *Signals) NMIPending() bool {
	return s.nmi.Load()
}

// IRQPending reports whether an IRQ is waiting to be serviced.
func (s *Signals) IRQPending() bool {
	return s.irq.Load()
}

func (s *Signals) takeNMI() bool {
	return s.nmi.Swap(false)
}

func (s *Signals) takeIRQ() bool {
	return s.irq.CompareAndSwap(true, false)
}

// serviceInterrupts enters a pending interrupt handler and returns its cost,
// or 0 when execution should continue normally. NMI wins over IRQ. A masked
// IRQ stays pending but still ends a WAI stall.
func (cpu *CPU) serviceInterrupts(signals *Signals) int {
	if signals == nil {
		return 0
	}

	if signals.takeNMI() {
		cpu.waiting = false
		return cpu.hardwareInterrupt(VectorNMI)
	}

	if !signals.IRQPending() {
		return 0
	}
	cpu.waiting = false
	if cpu.P.Test(FlagIRQDisable) {
		return 0
	}
	if signals.takeIRQ() {
		return cpu.hardwareInterrupt(VectorIRQ)
	}
	return 0
}

func (cpu *CPU) hardwareInterrupt(v Vector) int {
	n := interruptCyclesNative
	if cpu.emulation() {
		n = interruptCyclesEmulation
	}
	cpu.enterInterrupt(v, false)
	return n
}

// enterInterrupt pushes the return state and jumps through vector v. PC
// already points past the interrupted or interrupting instruction.
// Emulation mode pushes no program bank, and the pushed status marks
// software interrupts with the Break bit.
func (cpu *CPU) enterInterrupt(v Vector, software bool) {
	emulation := cpu.emulation()
	status := cpu.P.Byte()

	if emulation {
		status |= uint8(FlagMemory8)
		if software {
			status |= uint8(FlagBreak)
		} else {
			status &^= uint8(FlagBreak)
		}
	} else {
		cpu.push(cpu.PBR)
	}
	cpu.pushWord(cpu.PC)
	cpu.push(status)

	cpu.P.Set(FlagIRQDisable)
	cpu.P.Clear(FlagDecimal)
	cpu.PBR = 0
	cpu.PC = cpu.readBank0Word(v.Address(emulation))
}

// rti restores status, PC and, in native mode, the program bank.
func (cpu *CPU) rti() {
	cpu.P.SetByte(cpu.pull())
	cpu.syncModes()
	cpu.PC = cpu.pullWord()
	if !cpu.emulation() {
		cpu.PBR = cpu.pull()
	}
}
