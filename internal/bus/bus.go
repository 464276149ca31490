// Package bus implements the system bus that connects the Super NES CPU to
// memory, the cartridge and the interrupt sources.
package bus

import (
	"log"

	"gosnes/internal/cartridge"
	"gosnes/internal/cpu"
	"gosnes/internal/memory"
)

const (
	// NTSC: 1364 master clocks per line, 262 lines, 6 master clocks per
	// CPU cycle on the fast bus
	DefaultCyclesPerFrame = 1364 * 262 / 6
	// Vblank starts after the last visible line
	visibleLines = 225
	totalLines   = 262
)

// CPU register ports decoded by the bus
const (
	regNMITIMEN = 0x4200
	regRDNMI    = 0x4210
	regTIMEUP   = 0x4211

	// RDNMI low bits report the CPU revision
	cpuRevision = 0x02
)

// Bus connects all system components together
type Bus struct {
	// Core components
	CPU       *cpu.CPU
	Memory    *memory.Memory
	Signals   *cpu.Signals
	Cartridge *cartridge.Cartridge

	// System state
	cpuCycles  uint64
	frameCount uint64

	// Frame timer standing in for the PPU
	cyclesPerFrame uint64
	vblankCycle    uint64
	frameCycle     uint64
	inVBlank       bool

	// Interrupt registers
	nmiEnabled bool
	nmiFlag    bool
	irqFlag    bool

	frameCallback func(frame uint64)
	stepCallback  func(pc uint32)

	// Execution logging for testing
	executionLog   []ExecutionEvent
	loggingEnabled bool

	// Memory monitoring for debugging
	memoryWatchpoints map[uint32]uint8 // Address -> previous value
	watchpointLogging bool

	logger *log.Logger
}

// New creates a new system bus with all components
func New() *Bus {
	b := &Bus{
		Signals:           cpu.NewSignals(),
		memoryWatchpoints: make(map[uint32]uint8),
		logger:            log.Default(),
	}
	b.SetCyclesPerFrame(DefaultCyclesPerFrame)

	b.Memory = memory.New(b, nil)
	b.CPU = cpu.New(b.Memory)

	b.Reset()
	return b
}

// SetLogger replaces the destination of bus and CPU log output.
func (b *Bus) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	b.logger = logger
	b.CPU.SetLogger(logger)
}

// SetCyclesPerFrame sets the length of a frame in CPU cycles.
func (b *Bus) SetCyclesPerFrame(cycles uint64) {
	if cycles == 0 {
		cycles = DefaultCyclesPerFrame
	}
	b.cyclesPerFrame = cycles
	b.vblankCycle = cycles * visibleLines / totalLines
}

// Reset resets all components to their initial state
func (b *Bus) Reset() {
	b.Signals = cpu.NewSignals()
	b.CPU.Reset()

	b.cpuCycles = 0
	b.frameCount = 0
	b.frameCycle = 0
	b.inVBlank = false
	b.nmiEnabled = false
	b.nmiFlag = false
	b.irqFlag = false

	b.executionLog = b.executionLog[:0]
}

// LoadCartridge inserts a cartridge and resets the system
func (b *Bus) LoadCartridge(cart *cartridge.Cartridge) {
	b.Cartridge = cart
	b.Memory.SetCartridge(cart)
	b.Reset()
	b.logger.Printf("[BUS] Loaded %s cartridge, %d KB ROM, reset vector $%04X",
		cart.Kind(), cart.ROMSize()/1024, b.CPU.PC)
}

// SetFrameCallback registers a function called at the end of every frame
func (b *Bus) SetFrameCallback(callback func(frame uint64)) {
	b.frameCallback = callback
}

// SetStepCallback registers a function called before every instruction with
// its 24-bit address
func (b *Bus) SetStepCallback(callback func(pc uint32)) {
	b.stepCallback = callback
}

// Step executes one CPU instruction (or interrupt entry) and advances the
// frame timer by the cycles it took
func (b *Bus) Step() int {
	pc := b.CPU.ProgramCounter()
	if b.stepCallback != nil {
		b.stepCallback(pc)
	}
	preFrame := b.frameCount

	n := b.CPU.Step(b.Signals)
	b.advance(uint64(n))

	if b.loggingEnabled {
		opcode, _ := b.Memory.Peek(pc)
		b.executionLog = append(b.executionLog, ExecutionEvent{
			StepNumber:    len(b.executionLog) + 1,
			CPUCycles:     b.cpuCycles,
			FrameCount:    b.frameCount,
			FrameEnded:    b.frameCount > preFrame,
			PC:            pc,
			InstructionOp: opcode,
			Cycles:        n,
		})
	}
	return n
}

// Tick advances the system by one CPU cycle
func (b *Bus) Tick() {
	b.CPU.Tick(b.Signals)
	b.advance(1)
}

// advance moves the frame timer and raises vblank NMI and frame end
func (b *Bus) advance(cycles uint64) {
	b.cpuCycles += cycles
	b.frameCycle += cycles

	if !b.inVBlank && b.frameCycle >= b.vblankCycle {
		b.inVBlank = true
		b.nmiFlag = true
		if b.nmiEnabled {
			b.Signals.RaiseNMI()
		}
	}

	for b.frameCycle >= b.cyclesPerFrame {
		b.frameCycle -= b.cyclesPerFrame
		b.inVBlank = false
		b.nmiFlag = false
		b.frameCount++
		b.handleFrameComplete()
	}
}

func (b *Bus) handleFrameComplete() {
	if b.watchpointLogging {
		b.CheckMemoryWatchpoints()
	}
	if b.frameCallback != nil {
		b.frameCallback(b.frameCount)
	}
}

// Frame runs until the current frame completes
func (b *Bus) Frame() {
	target := b.frameCount + 1
	for b.frameCount < target {
		if b.CPU.Stopped() {
			// Nothing left to run; finish the frame in one go.
			b.advance(b.cyclesPerFrame - b.frameCycle)
			continue
		}
		b.Step()
	}
}

// Run runs the emulator for a specified number of frames
func (b *Bus) Run(frames int) {
	for i := 0; i < frames; i++ {
		b.Frame()
	}
}

// RunCycles runs the emulator for a specified number of CPU cycles
func (b *Bus) RunCycles(cycles uint64) {
	target := b.cpuCycles + cycles
	for b.cpuCycles < target {
		b.Step()
	}
}

// RaiseIRQ asserts the external IRQ line and latches TIMEUP
func (b *Bus) RaiseIRQ() {
	b.irqFlag = true
	b.Signals.RaiseIRQ()
}

// RaiseNMI requests an NMI regardless of NMITIMEN
func (b *Bus) RaiseNMI() {
	b.Signals.RaiseNMI()
}

// ReadRegister serves the CPU ports at $4200-$421F.
func (b *Bus) ReadRegister(address uint16) (uint8, bool) {
	switch address {
	case regRDNMI:
		value := uint8(cpuRevision)
		if b.nmiFlag {
			value |= 0x80
		}
		b.nmiFlag = false
		return value, true
	case regTIMEUP:
		var value uint8
		if b.irqFlag {
			value = 0x80
		}
		b.irqFlag = false
		b.Signals.ClearIRQ()
		return value, true
	}
	return 0, false
}

// WriteRegister serves the CPU ports at $4200-$421F.
func (b *Bus) WriteRegister(address uint16, value uint8) {
	switch address {
	case regNMITIMEN:
		enable := value&0x80 != 0
		// Enabling NMI during vblank with the flag still set fires at once.
		if enable && !b.nmiEnabled && b.nmiFlag {
			b.Signals.RaiseNMI()
		}
		b.nmiEnabled = enable
	}
}

// GetCycleCount returns the current CPU cycle count
func (b *Bus) GetCycleCount() uint64 {
	return b.cpuCycles
}

// GetFrameCount returns the current frame count
func (b *Bus) GetFrameCount() uint64 {
	return b.frameCount
}

// InVBlank reports whether the frame timer is in vertical blank
func (b *Bus) InVBlank() bool {
	return b.inVBlank
}

// NMIEnabled reports the NMITIMEN enable bit
func (b *Bus) NMIEnabled() bool {
	return b.nmiEnabled
}

// GetCPUState returns the current CPU state
func (b *Bus) GetCPUState() cpu.State {
	return b.CPU.State()
}
