package bus

import (
	"fmt"

	"gosnes/internal/cpu"
)

// State is everything needed to resume the system where it was saved
type State struct {
	CPU        cpu.State `json:"cpu"`
	WRAM       []uint8   `json:"wram"`
	SRAM       []uint8   `json:"sram,omitempty"`
	CPUCycles  uint64    `json:"cpu_cycles"`
	FrameCount uint64    `json:"frame_count"`
	FrameCycle uint64    `json:"frame_cycle"`
	NMIEnabled bool      `json:"nmi_enabled"`
	NMIFlag    bool      `json:"nmi_flag"`
	IRQFlag    bool      `json:"irq_flag"`
}

// SaveState captures the system state. Pending interrupt signals are not
// part of it.
func (b *Bus) SaveState() State {
	s := State{
		CPU:        b.CPU.State(),
		WRAM:       append([]uint8(nil), b.Memory.WRAM()...),
		CPUCycles:  b.cpuCycles,
		FrameCount: b.frameCount,
		FrameCycle: b.frameCycle,
		NMIEnabled: b.nmiEnabled,
		NMIFlag:    b.nmiFlag,
		IRQFlag:    b.irqFlag,
	}
	if b.Cartridge != nil && b.Cartridge.SRAM() != nil {
		s.SRAM = append([]uint8(nil), b.Cartridge.SRAM()...)
	}
	return s
}

// LoadState restores a state captured by SaveState
func (b *Bus) LoadState(s State) error {
	if len(s.WRAM) != len(b.Memory.WRAM()) {
		return fmt.Errorf("state has %d bytes of WRAM, want %d", len(s.WRAM), len(b.Memory.WRAM()))
	}
	if s.FrameCycle >= b.cyclesPerFrame {
		return fmt.Errorf("state frame cycle %d outside a %d-cycle frame", s.FrameCycle, b.cyclesPerFrame)
	}
	if s.SRAM != nil {
		if b.Cartridge == nil || len(s.SRAM) != len(b.Cartridge.SRAM()) {
			return fmt.Errorf("state SRAM size %d does not match the cartridge", len(s.SRAM))
		}
		copy(b.Cartridge.SRAM(), s.SRAM)
	}

	copy(b.Memory.WRAM(), s.WRAM)
	b.Signals = cpu.NewSignals()
	b.CPU.Restore(s.CPU)
	b.cpuCycles = s.CPUCycles
	b.frameCount = s.FrameCount
	b.frameCycle = s.FrameCycle
	b.inVBlank = s.FrameCycle >= b.vblankCycle
	b.nmiEnabled = s.NMIEnabled
	b.nmiFlag = s.NMIFlag
	b.irqFlag = s.IRQFlag
	return nil
}
