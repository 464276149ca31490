// Package cpu implements the 65816 CPU core of the Super NES.
package cpu

import (
	"fmt"
	"log"
)

const (
	// 24-bit address space
	addressMask = 0xFFFFFF
	// Cycles spent by the reset sequence before the first fetch
	resetCycles = 7
	// Native-mode stack after reset keeps the 6502 page
	resetStack = 0x01FF
)

// MemoryInterface is the CPU's view of the system bus. Read reports ok=false
// when nothing drives the bus at address; the CPU then sees its own open-bus
// latch instead of value.
type MemoryInterface interface {
	Read(address uint32) (value uint8, ok bool)
	Write(address uint32, value uint8)
}

// CPU represents the 65816 processor.
type CPU struct {
	Registers
	P Status

	memory MemoryInterface

	// Cycle counter
	cycles uint64
	// Cycles left before the next fetch when driven by Tick
	waitCycles int

	waiting bool // WAI: no fetch until an interrupt is pending
	stopped bool // STP: no fetch until reset

	logger *log.Logger

	// Debug and loop detection fields
	enableDebugLogging  bool
	enableLoopDetection bool
	lastPC              uint32
	pcStayCount         int
}

// New creates a new CPU instance. Call Reset before stepping.
func New(memory MemoryInterface) *CPU {
	return &CPU{
		memory: memory,
		P:      Status{bits: resetStatus},
		Registers: Registers{
			SP: resetStack,
		},
		logger: log.Default(),
	}
}

// SetLogger replaces the destination of trace and loop-detection output.
func (cpu *CPU) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	cpu.logger = logger
}

// Reset puts the processor in emulation mode and loads PC from the reset
// vector at $00:FFFC.
func (cpu *CPU) Reset() {
	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.SP = resetStack
	cpu.DP = 0
	cpu.DBR = 0
	cpu.PBR = 0
	cpu.P = Status{bits: resetStatus}

	cpu.waiting = false
	cpu.stopped = false
	cpu.waitCycles = 0

	vector := uint32(VectorReset.Address(true))
	cpu.PC = cpu.readWord(vector, vector+1)
	cpu.cycles += resetCycles
}

// Tick advances the CPU by one clock unit. A new instruction is fetched only
// once the cycles of the previous one have been paid off.
func (cpu *CPU) Tick(signals *Signals) {
	if cpu.waitCycles > 0 {
		cpu.waitCycles--
		return
	}
	cpu.waitCycles = cpu.Step(signals) - 1
}

// Step services a pending interrupt or executes one instruction and returns
// the cycles it took.
func (cpu *CPU) Step(signals *Signals) int {
	if cpu.stopped {
		cpu.cycles++
		return 1
	}

	if n := cpu.serviceInterrupts(signals); n > 0 {
		cpu.syncModes()
		cpu.cycles += uint64(n)
		return n
	}

	if cpu.waiting {
		cpu.cycles++
		return 1
	}

	opPC := cpu.PC
	address := cpu.programAddress(opPC)
	in := Decode(cpu.read(address))

	if cpu.enableLoopDetection {
		cpu.detectInfiniteLoop(address, in)
	}
	if cpu.enableDebugLogging {
		cpu.logInstruction(address)
	}

	// PC moves past the instruction before it executes, so control flow
	// handlers assign their targets directly and MVN/MVP rewind by Length.
	cpu.PC = opPC + uint16(Length(in, cpu.P))
	op := cpu.resolve(in, opPC)
	n := cpu.instructionCycles(in, op)
	n += cpu.execute(in, op)

	cpu.syncModes()
	cpu.cycles += uint64(n)
	return n
}

// Cycles returns the total cycles executed since construction.
func (cpu *CPU) Cycles() uint64 {
	return cpu.cycles
}

// Waiting reports whether the CPU is halted by WAI.
func (cpu *CPU) Waiting() bool {
	return cpu.waiting
}

// Stopped reports whether the CPU is halted by STP.
func (cpu *CPU) Stopped() bool {
	return cpu.stopped
}

// ProgramCounter returns the 24-bit address of the next instruction.
func (cpu *CPU) ProgramCounter() uint32 {
	return cpu.programAddress(cpu.PC)
}

func (cpu *CPU) programAddress(pc uint16) uint32 {
	return bankAddress(cpu.PBR, pc)
}

func bankAddress(bank uint8, offset uint16) uint32 {
	return uint32(bank)<<16 | uint32(offset)
}

// read performs a bus read and updates the open-bus latch. An unmapped read
// returns the latch unchanged.
func (cpu *CPU) read(address uint32) uint8 {
	if value, ok := cpu.memory.Read(address & addressMask); ok {
		cpu.MDR = value
	}
	return cpu.MDR
}

func (cpu *CPU) write(address uint32, value uint8) {
	cpu.MDR = value
	cpu.memory.Write(address&addressMask, value)
}

// readWord composes a little-endian word from two independently addressed
// bytes, so callers choose the wrap of the high byte.
func (cpu *CPU) readWord(lo, hi uint32) uint16 {
	low := uint16(cpu.read(lo))
	high := uint16(cpu.read(hi))
	return high<<8 | low
}

// readBank0Word reads a word from bank 0 with 16-bit wrap of the high byte.
func (cpu *CPU) readBank0Word(address uint16) uint16 {
	return cpu.readWord(uint32(address), uint32(address+1))
}

// Stack operations. In emulation mode the pointer stays in page 1.
func (cpu *CPU) push(value uint8) {
	cpu.write(uint32(cpu.SP), value)
	cpu.SP--
	if cpu.emulation() {
		cpu.SP = 0x0100 | cpu.SP&0xFF
	}
}

func (cpu *CPU) pull() uint8 {
	cpu.SP++
	if cpu.emulation() {
		cpu.SP = 0x0100 | cpu.SP&0xFF
	}
	return cpu.read(uint32(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8)) // High byte first
	cpu.push(uint8(value))
}

func (cpu *CPU) pullWord() uint16 {
	low := uint16(cpu.pull())
	high := uint16(cpu.pull())
	return high<<8 | low
}

// The 65816-only stack instructions move SP as a full 16-bit pointer even in
// emulation mode, so a multi-byte push or pull can leave page 1. syncModes
// re-pins SP once the instruction retires.
func (cpu *CPU) pushLinear(value uint8) {
	cpu.write(uint32(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pullLinear() uint8 {
	cpu.SP++
	return cpu.read(uint32(cpu.SP))
}

func (cpu *CPU) pushLinearWord(value uint16) {
	cpu.pushLinear(uint8(value >> 8))
	cpu.pushLinear(uint8(value))
}

func (cpu *CPU) pullLinearWord() uint16 {
	low := uint16(cpu.pullLinear())
	high := uint16(cpu.pullLinear())
	return high<<8 | low
}

// State is a copy of the programmer-visible CPU state.
type State struct {
	PC      uint16
	PBR     uint8
	DBR     uint8
	A       uint16
	X       uint16
	Y       uint16
	SP      uint16
	DP      uint16
	P       uint16
	MDR     uint8
	Cycles  uint64
	Waiting bool
	Stopped bool
}

// State returns a snapshot of the registers.
func (cpu *CPU) State() State {
	return State{
		PC:      cpu.PC,
		PBR:     cpu.PBR,
		DBR:     cpu.DBR,
		A:       cpu.A,
		X:       cpu.X,
		Y:       cpu.Y,
		SP:      cpu.SP,
		DP:      cpu.DP,
		P:       cpu.P.Word(),
		MDR:     cpu.MDR,
		Cycles:  cpu.cycles,
		Waiting: cpu.waiting,
		Stopped: cpu.stopped,
	}
}

// Restore loads a snapshot taken with State. Cycles owed to Tick are
// dropped.
func (cpu *CPU) Restore(s State) {
	cpu.PC = s.PC
	cpu.PBR = s.PBR
	cpu.DBR = s.DBR
	cpu.A = s.A
	cpu.X = s.X
	cpu.Y = s.Y
	cpu.SP = s.SP
	cpu.DP = s.DP
	cpu.MDR = s.MDR
	cpu.P = Status{bits: Flag(s.P)}
	cpu.cycles = s.Cycles
	cpu.waiting = s.Waiting
	cpu.stopped = s.Stopped
	cpu.waitCycles = 0
	cpu.syncModes()
}

func (s State) String() string {
	p := Status{bits: Flag(s.P)}
	return fmt.Sprintf("PC=%02X:%04X A=%04X X=%04X Y=%04X SP=%04X DP=%04X DB=%02X P=%s",
		s.PBR, s.PC, s.A, s.X, s.Y, s.SP, s.DP, s.DBR, p.String())
}

// CPU Debug Methods

// EnableDebugLogging enables/disables CPU instruction logging
func (cpu *CPU) EnableDebugLogging(enable bool) {
	cpu.enableDebugLogging = enable
}

// EnableLoopDetection enables/disables infinite loop detection
func (cpu *CPU) EnableLoopDetection(enable bool) {
	cpu.enableLoopDetection = enable
}

// detectInfiniteLoop detects when CPU is stuck at the same PC. MVN/MVP
// legitimately repeat, so they are not counted.
func (cpu *CPU) detectInfiniteLoop(pc uint32, in Instruction) {
	if pc == cpu.lastPC && in.Mode != BlockMove {
		cpu.pcStayCount++
		if cpu.pcStayCount > 100 {
			cpu.logger.Printf("[CPU_LOOP] CPU stuck at PC=$%06X executing %s for %d steps",
				pc, in.Mnemonic, cpu.pcStayCount)
			if cpu.pcStayCount%1000 == 0 {
				cpu.logger.Printf("[CPU_STATE] %s | Cycles=%d", cpu.State(), cpu.cycles)
			}
		}
	} else {
		cpu.pcStayCount = 0
	}
	cpu.lastPC = pc
}

// logInstruction logs CPU instruction execution
func (cpu *CPU) logInstruction(pc uint32) {
	text, _ := Disassemble(cpu.memory, pc, cpu.P)
	cpu.logger.Printf("[CPU_DEBUG] $%06X: %-16s | A=$%04X X=$%04X Y=$%04X SP=$%04X D=$%04X DB=$%02X | %s",
		pc, text, cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.DP, cpu.DBR, cpu.P.String())
}
