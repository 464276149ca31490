package cartridge

// LoROM maps 32KB ROM pages into the upper half of each bank.
//
// Memory map:
//   $00-$7D,$80-$FF:$8000-$FFFF  ROM, page = bank & $7F
//   $40-$6F,$C0-$EF:$0000-$7FFF  ROM mirror of the same page
//   $70-$7D,$F0-$FF:$0000-$7FFF  SRAM
type LoROM struct {
	cart *Cartridge
}

// NewLoROM creates a new LoROM mapper
func NewLoROM(cart *Cartridge) *LoROM {
	return &LoROM{cart: cart}
}

func (m *LoROM) decode(address uint32) (offset uint32, sram, ok bool) {
	bank := uint8(address>>16) & 0x7F
	lo := address & 0xFFFF
	switch {
	case lo >= 0x8000:
		return uint32(bank)<<15 | (lo & 0x7FFF), false, true
	case bank >= 0x70:
		return uint32(bank&0x0F)<<15 | lo, true, true
	case bank >= 0x40:
		return uint32(bank)<<15 | lo, false, true
	}
	return 0, false, false
}

// Read reads from ROM/SRAM
func (m *LoROM) Read(address uint32) (uint8, error) {
	return readDecoded(m.cart, address, m.decode)
}

// Write writes to SRAM
func (m *LoROM) Write(address uint32, value uint8) error {
	return writeDecoded(m.cart, address, value, m.decode)
}

// HiROM maps 64KB ROM banks linearly.
//
// Memory map:
//   $40-$7D,$C0-$FF:$0000-$FFFF  ROM, bank & $3F
//   $00-$3F,$80-$BF:$8000-$FFFF  ROM mirror of the upper half
//   $20-$3F,$A0-$BF:$6000-$7FFF  SRAM, 8KB per bank
type HiROM struct {
	cart *Cartridge
}

// NewHiROM creates a new HiROM mapper
func NewHiROM(cart *Cartridge) *HiROM {
	return &HiROM{cart: cart}
}

func (m *HiROM) decode(address uint32) (offset uint32, sram, ok bool) {
	bank := uint8(address >> 16)
	lo := address & 0xFFFF
	switch {
	case bank&0x40 != 0:
		return uint32(bank&0x3F)<<16 | lo, false, true
	case lo >= 0x8000:
		return uint32(bank&0x3F)<<16 | lo, false, true
	case bank&0x20 != 0 && lo >= 0x6000:
		return uint32(bank&0x1F)<<13 | (lo - 0x6000), true, true
	}
	return 0, false, false
}

// Read reads from ROM/SRAM
func (m *HiROM) Read(address uint32) (uint8, error) {
	return readDecoded(m.cart, address, m.decode)
}

// Write writes to SRAM
func (m *HiROM) Write(address uint32, value uint8) error {
	return writeDecoded(m.cart, address, value, m.decode)
}

// ExHiROM extends HiROM to 8MB. Banks $C0-$FF hold the first 4MB and banks
// $40-$7D the second; the system-bank mirrors follow the same split.
//
// Memory map:
//   $C0-$FF:$0000-$FFFF          ROM $000000-$3FFFFF
//   $40-$7D:$0000-$FFFF          ROM $400000-$7DFFFF
//   $80-$BF:$8000-$FFFF          mirror of $C0-$FF upper halves
//   $00-$3F:$8000-$FFFF          mirror of $40-$7F upper halves
//   $80-$BF:$6000-$7FFF          SRAM, 8KB per bank
type ExHiROM struct {
	cart *Cartridge
}

// NewExHiROM creates a new ExHiROM mapper
func NewExHiROM(cart *Cartridge) *ExHiROM {
	return &ExHiROM{cart: cart}
}

func (m *ExHiROM) decode(address uint32) (offset uint32, sram, ok bool) {
	bank := uint8(address >> 16)
	lo := address & 0xFFFF
	half := uint32(0x400000)
	if bank&0x80 != 0 {
		half = 0
	}
	switch {
	case bank&0x40 != 0:
		return half | uint32(bank&0x3F)<<16 | lo, false, true
	case lo >= 0x8000:
		return half | uint32(bank&0x3F)<<16 | lo, false, true
	case bank&0x80 != 0 && lo >= 0x6000:
		return uint32(bank&0x1F)<<13 | (lo - 0x6000), true, true
	}
	return 0, false, false
}

// Read reads from ROM/SRAM
func (m *ExHiROM) Read(address uint32) (uint8, error) {
	return readDecoded(m.cart, address, m.decode)
}

// Write writes to SRAM
func (m *ExHiROM) Write(address uint32, value uint8) error {
	return writeDecoded(m.cart, address, value, m.decode)
}

type decoder func(address uint32) (offset uint32, sram, ok bool)

func readDecoded(cart *Cartridge, address uint32, decode decoder) (uint8, error) {
	offset, sram, ok := decode(address)
	if !ok {
		return 0, unmapped(address)
	}
	if !sram {
		return cart.romByte(offset), nil
	}
	i, ok := cart.sramIndex(offset)
	if !ok {
		return 0, unmapped(address)
	}
	return cart.sram[i], nil
}

func writeDecoded(cart *Cartridge, address uint32, value uint8, decode decoder) error {
	offset, sram, ok := decode(address)
	if !ok {
		return unmapped(address)
	}
	if !sram {
		// ROM is read-only; the write is absorbed by the board.
		return nil
	}
	i, ok := cart.sramIndex(offset)
	if !ok {
		return unmapped(address)
	}
	cart.sram[i] = value
	return nil
}
