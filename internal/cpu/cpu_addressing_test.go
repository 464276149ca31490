package cpu

import (
	"testing"
)

// AddressingTest checks the effective addresses resolved for one opcode
type AddressingTest struct {
	Name       string
	Setup      func(*CPUTestHelper)
	Program    []uint8
	ExpectedLo uint32
	ExpectedHi uint32
}

func TestAddressResolution(t *testing.T) {
	tests := []AddressingTest{
		{
			Name:       "Direct_WrapsInBank0",
			Setup:      func(h *CPUTestHelper) { native(h); h.CPU.DP = 0xFF00 },
			Program:    []uint8{0xA5, 0xFF}, // LDA $FF
			ExpectedLo: 0x00FFFF,
			ExpectedHi: 0x000000,
		},
		{
			Name:       "DirectX_WrapsAt16Bits",
			Setup:      func(h *CPUTestHelper) { native(h); h.CPU.DP = 0xFFF0; h.CPU.X = 0x0020 },
			Program:    []uint8{0xB5, 0x00}, // LDA $00,X
			ExpectedLo: 0x000010,
			ExpectedHi: 0x000011,
		},
		{
			Name:       "DirectY",
			Setup:      func(h *CPUTestHelper) { h.CPU.DP = 0x0100; h.CPU.Y = 0x05 },
			Program:    []uint8{0xB6, 0x10}, // LDX $10,Y
			ExpectedLo: 0x000115,
			ExpectedHi: 0x000116,
		},
		{
			Name:       "Absolute_DataBank",
			Setup:      func(h *CPUTestHelper) { h.CPU.DBR = 0x7E },
			Program:    []uint8{0xAD, 0x34, 0x12}, // LDA $1234
			ExpectedLo: 0x7E1234,
			ExpectedHi: 0x7E1235,
		},
		{
			Name:       "Absolute_HighByteCrossesBank",
			Setup:      func(h *CPUTestHelper) { h.CPU.DBR = 0x7E },
			Program:    []uint8{0xAD, 0xFF, 0xFF}, // LDA $FFFF
			ExpectedLo: 0x7EFFFF,
			ExpectedHi: 0x7F0000,
		},
		{
			Name:       "AbsoluteX_NoBankCarry",
			Setup:      func(h *CPUTestHelper) { native(h); h.CPU.DBR = 0x7E; h.CPU.X = 0x0001 },
			Program:    []uint8{0xBD, 0xFF, 0xFF}, // LDA $FFFF,X
			ExpectedLo: 0x7E0000,
			ExpectedHi: 0x7E0001,
		},
		{
			Name:       "AbsoluteY",
			Setup:      func(h *CPUTestHelper) { h.CPU.DBR = 0x01; h.CPU.Y = 0x10 },
			Program:    []uint8{0xB9, 0x00, 0x20}, // LDA $2000,Y
			ExpectedLo: 0x012010,
			ExpectedHi: 0x012011,
		},
		{
			Name:       "AbsoluteLong",
			Program:    []uint8{0xAF, 0x56, 0x34, 0x12}, // LDA $123456
			ExpectedLo: 0x123456,
			ExpectedHi: 0x123457,
		},
		{
			Name:       "AbsoluteLongX_Carries",
			Setup:      func(h *CPUTestHelper) { h.CPU.X = 0x01 },
			Program:    []uint8{0xBF, 0xFF, 0xFF, 0x7E}, // LDA $7EFFFF,X
			ExpectedLo: 0x7F0000,
			ExpectedHi: 0x7F0001,
		},
		{
			Name:       "AbsoluteLong_WrapsAt24Bits",
			Program:    []uint8{0xAF, 0xFF, 0xFF, 0xFF}, // LDA $FFFFFF
			ExpectedLo: 0xFFFFFF,
			ExpectedHi: 0x000000,
		},
		{
			Name: "DirectIndirect",
			Setup: func(h *CPUTestHelper) {
				h.CPU.DBR = 0x7E
				h.Memory.SetBytes(0x0020, 0x00, 0x30)
			},
			Program:    []uint8{0xB2, 0x20}, // LDA ($20)
			ExpectedLo: 0x7E3000,
			ExpectedHi: 0x7E3001,
		},
		{
			Name: "DirectIndirectX",
			Setup: func(h *CPUTestHelper) {
				h.CPU.X = 0x04
				h.Memory.SetBytes(0x0024, 0x00, 0x40)
			},
			Program:    []uint8{0xA1, 0x20}, // LDA ($20,X)
			ExpectedLo: 0x004000,
			ExpectedHi: 0x004001,
		},
		{
			Name: "DirectIndirectY",
			Setup: func(h *CPUTestHelper) {
				h.CPU.DBR = 0x02
				h.CPU.Y = 0x10
				h.Memory.SetBytes(0x0020, 0xF8, 0x30)
			},
			Program:    []uint8{0xB1, 0x20}, // LDA ($20),Y
			ExpectedLo: 0x023108,
			ExpectedHi: 0x023109,
		},
		{
			Name: "DirectIndirectLong",
			Setup: func(h *CPUTestHelper) {
				h.Memory.SetBytes(0x0020, 0x00, 0x80, 0x7F)
			},
			Program:    []uint8{0xA7, 0x20}, // LDA [$20]
			ExpectedLo: 0x7F8000,
			ExpectedHi: 0x7F8001,
		},
		{
			Name: "DirectIndirectLongY",
			Setup: func(h *CPUTestHelper) {
				native(h)
				h.CPU.Y = 0x0100
				h.Memory.SetBytes(0x0020, 0x00, 0xFF, 0x7E)
			},
			Program:    []uint8{0xB7, 0x20}, // LDA [$20],Y
			ExpectedLo: 0x7F0000,
			ExpectedHi: 0x7F0001,
		},
		{
			Name:       "StackRelative",
			Setup:      func(h *CPUTestHelper) { h.CPU.SP = 0x01F0 },
			Program:    []uint8{0xA3, 0x03}, // LDA $03,S
			ExpectedLo: 0x0001F3,
			ExpectedHi: 0x0001F4,
		},
		{
			Name: "StackRelativeIndirectY",
			Setup: func(h *CPUTestHelper) {
				h.CPU.SP = 0x01F0
				h.CPU.DBR = 0x7E
				h.CPU.Y = 0x02
				h.Memory.SetBytes(0x0001F1, 0x00, 0x50)
			},
			Program:    []uint8{0xB3, 0x01}, // LDA ($01,S),Y
			ExpectedLo: 0x7E5002,
			ExpectedHi: 0x7E5003,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			helper := NewCPUTestHelper()
			helper.SetupResetVector(0x8000)
			if test.Setup != nil {
				test.Setup(helper)
			}
			helper.LoadProgram(0x8000, test.Program...)

			in := Decode(test.Program[0])
			op := helper.CPU.resolve(in, 0x8000)

			if op.Lo != test.ExpectedLo {
				t.Errorf("Expected low address 0x%06X, got 0x%06X", test.ExpectedLo, op.Lo)
			}
			if op.Hi != test.ExpectedHi {
				t.Errorf("Expected high address 0x%06X, got 0x%06X", test.ExpectedHi, op.Hi)
			}
		})
	}
}

func TestDirectPageWordRead(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupNative(0x8000)
	helper.CPU.DP = 0xFF00
	helper.Memory.SetByte(0x00FFFF, 0x34)
	helper.Memory.SetByte(0x000000, 0x12)
	helper.LoadProgram(0x8000, 0xA5, 0xFF) // LDA $FF

	helper.Step()

	if helper.CPU.A != 0x1234 {
		t.Errorf("Expected A=0x1234, got 0x%04X", helper.CPU.A)
	}
}

func TestDirectIndirectPointerWraps(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0x8000)
	helper.CPU.DBR = 0x7E
	helper.Memory.SetByte(0x00FFFF, 0x00)
	helper.Memory.SetByte(0x000000, 0x20)
	helper.LoadProgram(0x8000, 0xB2, 0xFF) // LDA ($FF)
	helper.CPU.DP = 0xFF00

	op := helper.CPU.resolve(Decode(0xB2), 0x8000)

	if op.Lo != 0x7E2000 {
		t.Errorf("Expected pointer from $00FFFF/$000000, got 0x%06X", op.Lo)
	}
}

func TestImmediateWidth(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		opcode   uint8
		expected int
	}{
		{"LDA 8-bit", NewStatus(FlagMemory8), 0xA9, 2},
		{"LDA 16-bit", NewStatus(0), 0xA9, 3},
		{"LDX 8-bit", NewStatus(FlagIndex8), 0xA2, 2},
		{"LDX 16-bit", NewStatus(FlagMemory8), 0xA2, 3},
		{"REP ignores width", NewStatus(0), 0xC2, 2},
		{"Implied", NewStatus(0), 0xEA, 1},
		{"Long", NewStatus(0), 0xAF, 4},
		{"Block move", NewStatus(0), 0x54, 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Length(Decode(test.opcode), test.status); got != test.expected {
				t.Errorf("Expected length %d, got %d", test.expected, got)
			}
		})
	}
}

func TestOpcodeTableComplete(t *testing.T) {
	for i := 0; i < 256; i++ {
		in := Decode(uint8(i))
		if in.Cycles == 0 {
			t.Errorf("Opcode 0x%02X (%s) has no base cycles", i, in)
		}
		// Length panics on an unknown mode.
		Length(in, NewStatus(0))
	}
}

func TestBlockMoveMVN(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupNative(0x8000)
	helper.CPU.A = 3 // count N: N+1 bytes
	helper.CPU.X = 0x1000
	helper.CPU.Y = 0x2000
	helper.LoadProgram(0x8000, 0x54, 0x7F, 0x7E) // MVN $7E,$7F
	helper.Memory.SetBytes(0x7E1000, 0x11, 0x22, 0x33, 0x44, 0x55)

	transfers := 0
	for helper.CPU.PC == 0x8000 && transfers < 10 {
		helper.Step()
		transfers++
	}

	if transfers != 4 {
		t.Errorf("Expected 4 transfers, got %d", transfers)
	}
	helper.AssertRegisters(t, "MVN", 0xFFFF, 0x1004, 0x2004, 0x01FF, 0x8003)
	if helper.CPU.DBR != 0x7F {
		t.Errorf("Expected DBR=0x7F, got 0x%02X", helper.CPU.DBR)
	}
	for i, want := range []uint8{0x11, 0x22, 0x33, 0x44} {
		helper.AssertMemory(t, "MVN", 0x7F2000+uint32(i), want)
	}
	helper.AssertMemory(t, "MVN", 0x7F2004, 0x00)
}

func TestBlockMoveMVP(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupNative(0x8000)
	helper.CPU.A = 1
	helper.CPU.X = 0x1001
	helper.CPU.Y = 0x2001
	helper.LoadProgram(0x8000, 0x44, 0x00, 0x00) // MVP $00,$00
	helper.Memory.SetBytes(0x1000, 0xAA, 0xBB)

	helper.StepN(2)

	helper.AssertRegisters(t, "MVP", 0xFFFF, 0x0FFF, 0x1FFF, 0x01FF, 0x8003)
	helper.AssertMemory(t, "MVP", 0x002000, 0xAA)
	helper.AssertMemory(t, "MVP", 0x002001, 0xBB)
}

func TestBlockMoveInterruptible(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupNative(0x8000)
	helper.CPU.SP = 0x1FFF
	helper.CPU.A = 2
	helper.LoadProgram(0x8000, 0x54, 0x00, 0x00)
	helper.Memory.SetBytes(0xFFEA, 0x00, 0x90) // native NMI

	helper.Step()
	helper.Signals.RaiseNMI()
	helper.Step()

	if helper.CPU.PC != 0x9000 {
		t.Fatalf("Expected NMI between transfers, PC=0x%04X", helper.CPU.PC)
	}
	// The pushed return address is the MVN itself.
	helper.AssertMemory(t, "MVN", 0x001FFE, 0x80)
	helper.AssertMemory(t, "MVN", 0x001FFD, 0x00)
}
