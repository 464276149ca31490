package bus

// ExecutionEvent represents a single execution step for testing
type ExecutionEvent struct {
	StepNumber    int
	CPUCycles     uint64
	FrameCount    uint64
	FrameEnded    bool
	PC            uint32
	InstructionOp uint8
	Cycles        int
}

// WatchEvent describes a watched byte that changed
type WatchEvent struct {
	Frame    uint64
	Address  uint32
	Previous uint8
	Current  uint8
}

// GetExecutionLog returns execution log for integration testing
func (b *Bus) GetExecutionLog() []ExecutionEvent {
	return b.executionLog
}

// EnableExecutionLogging enables execution logging for testing
func (b *Bus) EnableExecutionLogging() {
	b.loggingEnabled = true
}

// DisableExecutionLogging disables execution logging
func (b *Bus) DisableExecutionLogging() {
	b.loggingEnabled = false
}

// ClearExecutionLog clears the execution log
func (b *Bus) ClearExecutionLog() {
	b.executionLog = b.executionLog[:0]
}

// AddMemoryWatchpoint adds a memory address to monitor for changes
func (b *Bus) AddMemoryWatchpoint(address uint32) {
	address &= 0xFFFFFF
	value, _ := b.Memory.Peek(address)
	b.memoryWatchpoints[address] = value
}

// RemoveMemoryWatchpoint stops monitoring address
func (b *Bus) RemoveMemoryWatchpoint(address uint32) {
	delete(b.memoryWatchpoints, address&0xFFFFFF)
}

// EnableWatchpointLogging enables/disables memory watchpoint logging at the
// end of every frame
func (b *Bus) EnableWatchpointLogging(enabled bool) {
	b.watchpointLogging = enabled
}

// CheckMemoryWatchpoints checks all watchpoints for changes, logs them and
// returns what changed
func (b *Bus) CheckMemoryWatchpoints() []WatchEvent {
	var events []WatchEvent
	for address, previous := range b.memoryWatchpoints {
		current, _ := b.Memory.Peek(address)
		if current == previous {
			continue
		}
		b.logger.Printf("[MEMORY_WATCH] Frame %d: $%06X changed from $%02X to $%02X (%s)",
			b.frameCount, address, previous, current, describeAddress(address))
		b.memoryWatchpoints[address] = current
		events = append(events, WatchEvent{
			Frame:    b.frameCount,
			Address:  address,
			Previous: previous,
			Current:  current,
		})
	}
	return events
}

// describeAddress returns a human-readable description of memory addresses
func describeAddress(address uint32) string {
	bank := uint8(address >> 16)
	offset := uint16(address)
	switch {
	case bank == 0x7E || bank == 0x7F:
		return "WRAM"
	case bank&0x40 == 0 && offset < 0x0100:
		return "Direct page"
	case bank&0x40 == 0 && offset < 0x0200:
		return "Stack page"
	case bank&0x40 == 0 && offset < 0x2000:
		return "Low RAM"
	case bank&0x40 == 0 && offset < 0x6000:
		return "I/O"
	}
	return "Cartridge"
}
