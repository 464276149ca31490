// Package cartridge implements ROM loading and the address decoding of Super
// NES cartridge boards.
package cartridge

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	// Copier devices prepend a 512-byte header to dumps
	copierHeaderSize = 512
	// ROM dumps are a whole number of 1KB units without it
	romUnit = 1024

	// Largest board we decode (ExHiROM)
	maxROMSize = 0x800000
	// Cartridge SRAM is at most 128KB on the boards we model
	maxSRAMSize = 0x20000
)

// ErrUnmapped is matched by every UnmappedError via errors.Is.
var ErrUnmapped = errors.New("address unmapped")

// UnmappedError reports an access to an address the board does not decode.
type UnmappedError struct {
	Address uint32
}

func (e *UnmappedError) Error() string {
	return fmt.Sprintf("cartridge: address $%06X unmapped", e.Address)
}

// Is makes errors.Is(err, ErrUnmapped) true for any UnmappedError.
func (e *UnmappedError) Is(target error) bool {
	return target == ErrUnmapped
}

func unmapped(address uint32) error {
	return &UnmappedError{Address: address}
}

// Kind selects the board's address decoding.
type Kind uint8

const (
	KindLoROM Kind = iota
	KindHiROM
	KindExHiROM
)

func (k Kind) String() string {
	switch k {
	case KindLoROM:
		return "lorom"
	case KindHiROM:
		return "hirom"
	case KindExHiROM:
		return "exhirom"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind parses a mapping name as written in configuration files.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lorom", "lo":
		return KindLoROM, nil
	case "hirom", "hi":
		return KindHiROM, nil
	case "exhirom", "exhi":
		return KindExHiROM, nil
	}
	return 0, errors.Errorf("unknown mapper %q", name)
}

// Mapper decodes 24-bit CPU addresses into ROM and SRAM offsets.
type Mapper interface {
	Read(address uint32) (uint8, error)
	Write(address uint32, value uint8) error
}

// Cartridge represents a Super NES cartridge
type Cartridge struct {
	rom  []uint8
	sram []uint8

	kind   Kind
	mapper Mapper

	// Set when a copier header was stripped on load
	copierHeader bool
}

// LoadFromFile loads a cartridge image from disk.
func LoadFromFile(filename string, kind Kind, sramSize int) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open ROM")
	}
	defer file.Close()

	cart, err := LoadFromReader(file, kind, sramSize)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", filename)
	}
	return cart, nil
}

// LoadFromReader loads a cartridge image from an io.Reader.
func LoadFromReader(r io.Reader, kind Kind, sramSize int) (*Cartridge, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxROMSize+copierHeaderSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read ROM")
	}
	return New(data, kind, sramSize)
}

// New builds a cartridge around a ROM image. A copier header is detected by
// size alone and stripped.
func New(image []uint8, kind Kind, sramSize int) (*Cartridge, error) {
	cart := &Cartridge{kind: kind}

	if len(image)%romUnit == copierHeaderSize {
		image = image[copierHeaderSize:]
		cart.copierHeader = true
	}
	if len(image) == 0 {
		return nil, errors.New("invalid ROM: image is empty")
	}
	if len(image) > maxROMSize {
		return nil, errors.Errorf("invalid ROM: %d bytes exceeds %d", len(image), maxROMSize)
	}
	if sramSize < 0 || sramSize > maxSRAMSize {
		return nil, errors.Errorf("invalid SRAM size %d", sramSize)
	}

	cart.rom = make([]uint8, len(image))
	copy(cart.rom, image)
	if sramSize > 0 {
		cart.sram = make([]uint8, sramSize)
	}

	mapper, err := createMapper(kind, cart)
	if err != nil {
		return nil, err
	}
	cart.mapper = mapper
	return cart, nil
}

// createMapper creates the mapper for the given kind
func createMapper(kind Kind, cart *Cartridge) (Mapper, error) {
	switch kind {
	case KindLoROM:
		return NewLoROM(cart), nil
	case KindHiROM:
		return NewHiROM(cart), nil
	case KindExHiROM:
		return NewExHiROM(cart), nil
	}
	return nil, errors.Errorf("unsupported mapper %s", kind)
}

// Read reads a byte through the board's mapper.
func (c *Cartridge) Read(address uint32) (uint8, error) {
	return c.mapper.Read(address & 0xFFFFFF)
}

// Write writes a byte through the board's mapper. ROM writes are ignored.
func (c *Cartridge) Write(address uint32, value uint8) error {
	return c.mapper.Write(address&0xFFFFFF, value)
}

// Kind returns the board's address decoding.
func (c *Cartridge) Kind() Kind {
	return c.kind
}

// ROMSize returns the size of the ROM image without any copier header.
func (c *Cartridge) ROMSize() int {
	return len(c.rom)
}

// SRAM returns the battery RAM backing slice, nil when the board has none.
func (c *Cartridge) SRAM() []uint8 {
	return c.sram
}

// HadCopierHeader reports whether a copier header was stripped on load.
func (c *Cartridge) HadCopierHeader() bool {
	return c.copierHeader
}

// romByte reads ROM with mirroring for images smaller than the window.
func (c *Cartridge) romByte(offset uint32) uint8 {
	return c.rom[int(offset)%len(c.rom)]
}

func (c *Cartridge) sramIndex(offset uint32) (int, bool) {
	if len(c.sram) == 0 {
		return 0, false
	}
	return int(offset) % len(c.sram), true
}
