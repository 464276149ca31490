// Package memory implements the 24-bit system bus of the Super NES.
package memory

import (
	"errors"

	"gosnes/internal/cartridge"
)

const (
	// 128KB work RAM in banks $7E-$7F
	wramSize = 0x20000
	// First 8KB of WRAM appear at $0000-$1FFF of every system bank
	lowRAMSize = 0x2000

	ioStart = 0x2000
	ioEnd   = 0x5FFF
)

// CartridgeInterface is the cartridge window of the bus. Read and Write
// return a *cartridge.UnmappedError for addresses the board does not decode.
type CartridgeInterface interface {
	Read(address uint32) (uint8, error)
	Write(address uint32, value uint8) error
}

// IOInterface serves the register window at $2000-$5FFF of the system banks.
// ReadRegister reports false for registers nothing drives.
type IOInterface interface {
	ReadRegister(address uint16) (uint8, bool)
	WriteRegister(address uint16, value uint8)
}

// Memory represents the CPU address space
type Memory struct {
	wram [wramSize]uint8

	io        IOInterface
	cartridge CartridgeInterface

	// Open-bus accounting
	unmappedReads  uint64
	unmappedWrites uint64
}

// New creates a new memory instance. Either collaborator may be nil, in
// which case its window reads as open bus.
func New(io IOInterface, cart CartridgeInterface) *Memory {
	m := &Memory{
		io:        io,
		cartridge: cart,
	}
	m.initializePowerUpRAM()
	return m
}

// SetIO attaches the register window handler.
func (m *Memory) SetIO(io IOInterface) {
	m.io = io
}

// SetCartridge attaches the cartridge window.
func (m *Memory) SetCartridge(cart CartridgeInterface) {
	m.cartridge = cart
}

// initializePowerUpRAM fills WRAM with the striped pattern seen on real
// consoles instead of zeros, so programs that forget to clear RAM behave
// the same way they do on hardware.
func (m *Memory) initializePowerUpRAM() {
	for i := range m.wram {
		switch (i >> 8) & 3 {
		case 0:
			// alternating $00/$FF
			if i%2 == 0 {
				m.wram[i] = 0x00
			} else {
				m.wram[i] = 0xFF
			}
		case 1:
			m.wram[i] = 0x55
		case 2:
			// checkerboard
			if (i/8)%2 == (i%8)/4 {
				m.wram[i] = 0xAA
			} else {
				m.wram[i] = 0x55
			}
		default:
			if i%8 == 0 {
				m.wram[i] = 0x00
			} else {
				m.wram[i] = 0xFF
			}
		}
	}
}

// ClearWRAM zeroes work RAM.
func (m *Memory) ClearWRAM() {
	m.wram = [wramSize]uint8{}
}

// wramIndex maps address to a WRAM offset when it falls in WRAM or one of
// its low-bank mirrors.
func wramIndex(address uint32) (int, bool) {
	bank := uint8(address >> 16)
	offset := uint16(address)
	switch {
	case bank == 0x7E || bank == 0x7F:
		return int(address & (wramSize - 1)), true
	case bank&0x40 == 0 && offset < lowRAMSize:
		return int(offset), true
	}
	return 0, false
}

// ioRegister reports whether address is in a system bank's register window.
func ioRegister(address uint32) (uint16, bool) {
	bank := uint8(address >> 16)
	offset := uint16(address)
	if bank&0x40 == 0 && offset >= ioStart && offset <= ioEnd {
		return offset, true
	}
	return 0, false
}

// Read reads a byte from the 24-bit address space. ok is false when nothing
// drives the bus.
func (m *Memory) Read(address uint32) (uint8, bool) {
	address &= 0xFFFFFF
	if i, ok := wramIndex(address); ok {
		return m.wram[i], true
	}
	if reg, ok := ioRegister(address); ok {
		if m.io == nil {
			m.unmappedReads++
			return 0, false
		}
		value, ok := m.io.ReadRegister(reg)
		if !ok {
			m.unmappedReads++
		}
		return value, ok
	}
	return m.readCartridge(address)
}

// Peek reads like Read but never touches the register window, whose reads
// can have side effects. Debug views and watchpoints use it.
func (m *Memory) Peek(address uint32) (uint8, bool) {
	address &= 0xFFFFFF
	if i, ok := wramIndex(address); ok {
		return m.wram[i], true
	}
	if _, ok := ioRegister(address); ok {
		return 0, false
	}
	if m.cartridge == nil {
		return 0, false
	}
	value, err := m.cartridge.Read(address)
	return value, err == nil
}

func (m *Memory) readCartridge(address uint32) (uint8, bool) {
	if m.cartridge == nil {
		m.unmappedReads++
		return 0, false
	}
	value, err := m.cartridge.Read(address)
	if err != nil {
		if !errors.Is(err, cartridge.ErrUnmapped) {
			panic(err)
		}
		m.unmappedReads++
		return 0, false
	}
	return value, true
}

// Write writes a byte to the 24-bit address space. Writes nothing decodes
// are dropped.
func (m *Memory) Write(address uint32, value uint8) {
	address &= 0xFFFFFF
	if i, ok := wramIndex(address); ok {
		m.wram[i] = value
		return
	}
	if reg, ok := ioRegister(address); ok {
		if m.io != nil {
			m.io.WriteRegister(reg, value)
		} else {
			m.unmappedWrites++
		}
		return
	}
	if m.cartridge == nil {
		m.unmappedWrites++
		return
	}
	if err := m.cartridge.Write(address, value); err != nil {
		if !errors.Is(err, cartridge.ErrUnmapped) {
			panic(err)
		}
		m.unmappedWrites++
	}
}

// LoadWRAM copies data into work RAM starting at offset (0-$1FFFF), wrapping
// at the end of WRAM.
func (m *Memory) LoadWRAM(offset uint32, data []uint8) {
	for i, b := range data {
		m.wram[(offset+uint32(i))&(wramSize-1)] = b
	}
}

// WRAM returns the work RAM backing array.
func (m *Memory) WRAM() []uint8 {
	return m.wram[:]
}

// UnmappedReads returns the number of open-bus reads seen so far.
func (m *Memory) UnmappedReads() uint64 {
	return m.unmappedReads
}

// UnmappedWrites returns the number of dropped writes seen so far.
func (m *Memory) UnmappedWrites() uint64 {
	return m.unmappedWrites
}
