package cartridge

import (
	"errors"
	"testing"
)

type mappingTest struct {
	name    string
	address uint32
	offset  int // ROM offset, or -1 when unmapped
}

func runMappingTests(t *testing.T, cart *Cartridge, rom []uint8, tests []mappingTest) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			value, err := cart.Read(test.address)
			if test.offset < 0 {
				if !errors.Is(err, ErrUnmapped) {
					t.Errorf("Expected $%06X unmapped, got value 0x%02X err %v", test.address, value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read($%06X) failed: %v", test.address, err)
			}
			if want := rom[test.offset%len(rom)]; value != want {
				t.Errorf("Read($%06X) = 0x%02X, want ROM[0x%06X] = 0x%02X", test.address, value, test.offset, want)
			}
		})
	}
}

func TestLoROMMapping(t *testing.T) {
	rom := makeROM(0x100000)
	cart, err := New(rom, KindLoROM, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	runMappingTests(t, cart, rom, []mappingTest{
		{"Bank 00 reset vector", 0x00FFFC, 0x7FFC},
		{"Bank 00 start", 0x008000, 0x0000},
		{"Bank 01", 0x018000, 0x8000},
		{"Bank 80 mirror", 0x818123, 0x8123},
		{"Bank 40 low mirror", 0x401234, 0x201234},
		{"Bank 1F", 0x1FFFFF, 0x0FFFFF},
		{"Wraps small ROM", 0x3F8000, 0x1F8000},
		{"Low half of system bank", 0x006000, -1},
		{"No SRAM", 0x700000, -1},
	})
}

func TestHiROMMapping(t *testing.T) {
	rom := makeROM(0x200000)
	cart, err := New(rom, KindHiROM, 0x2000)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	runMappingTests(t, cart, rom, []mappingTest{
		{"Bank C0 start", 0xC00000, 0x000000},
		{"Bank C1", 0xC11234, 0x011234},
		{"Bank 40", 0x400010, 0x000010},
		{"Bank 00 upper mirror", 0x00FFFC, 0x00FFFC},
		{"Bank 81 upper mirror", 0x81ABCD, 0x01ABCD},
		{"Bank 00 low half", 0x001000 + 0x4000, -1},
	})

	t.Run("SRAM", func(t *testing.T) {
		if err := cart.Write(0x306000, 0x42); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if got, _ := cart.Read(0xB06000); got != 0x42 {
			t.Errorf("Expected SRAM mirror in $B0, got 0x%02X", got)
		}
		if cart.SRAM()[0] != 0x42 {
			t.Errorf("Expected SRAM[0] = 0x42, got 0x%02X", cart.SRAM()[0])
		}
	})
}

func TestExHiROMMapping(t *testing.T) {
	rom := makeROM(0x600000)
	cart, err := New(rom, KindExHiROM, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	runMappingTests(t, cart, rom, []mappingTest{
		{"Bank C0 first half", 0xC00000, 0x000000},
		{"Bank FF", 0xFF0001, 0x3F0001},
		{"Bank 40 second half", 0x400000, 0x400000},
		{"Bank 00 upper mirror", 0x00FFFC, 0x40FFFC},
		{"Bank 80 upper mirror", 0x80FFFC, 0x00FFFC},
		{"No SRAM", 0x806000, -1},
	})
}

func TestROMWritesIgnored(t *testing.T) {
	rom := makeROM(0x8000)
	cart, err := New(rom, KindLoROM, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := cart.Write(0x008000, 0xFF); err != nil {
		t.Fatalf("ROM write should be absorbed, got %v", err)
	}
	if got, _ := cart.Read(0x008000); got != rom[0] {
		t.Errorf("ROM changed by write: got 0x%02X", got)
	}
	if err := cart.Write(0x006000, 0xFF); !errors.Is(err, ErrUnmapped) {
		t.Errorf("Expected unmapped write error, got %v", err)
	}
}

func TestLoROMSRAM(t *testing.T) {
	cart, err := New(makeROM(0x8000), KindLoROM, 0x800)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := cart.Write(0x700000, 0x5A); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	// 2KB SRAM mirrors through the 32KB window
	if got, _ := cart.Read(0x700800); got != 0x5A {
		t.Errorf("Expected SRAM mirror at $700800, got 0x%02X", got)
	}
	if got, _ := cart.Read(0xF00000); got != 0x5A {
		t.Errorf("Expected SRAM mirror at $F00000, got 0x%02X", got)
	}
}
