package cpu

import (
	"testing"
)

func TestStatusOperations(t *testing.T) {
	var p Status

	p.Set(FlagCarry | FlagZero)
	if !p.Test(FlagCarry) || !p.Test(FlagZero) {
		t.Errorf("Expected C and Z set, got 0x%02X", p.Byte())
	}

	p.Clear(FlagCarry)
	if p.Test(FlagCarry) {
		t.Errorf("Expected C clear")
	}

	p.Assign(FlagOverflow, true)
	p.Assign(FlagZero, false)
	if p.Byte() != 0x40 {
		t.Errorf("Expected 0x40, got 0x%02X", p.Byte())
	}

	p.SetBits(0x30)
	if p.Byte() != 0x70 {
		t.Errorf("SetBits: expected 0x70, got 0x%02X", p.Byte())
	}

	p.ClearBits(0x60)
	if p.Byte() != 0x10 {
		t.Errorf("ClearBits: expected 0x10, got 0x%02X", p.Byte())
	}
}

func TestStatusSerialization(t *testing.T) {
	p := NewStatus(FlagEmulation | FlagCarry)

	p.SetByte(0x82)
	if !p.Test(FlagEmulation) {
		t.Errorf("SetByte must keep the emulation bit")
	}
	if p.Test(FlagCarry) {
		t.Errorf("SetByte must replace the low byte")
	}
	if p.Byte() != 0x82 {
		t.Errorf("Expected byte 0x82, got 0x%02X", p.Byte())
	}
	if p.Word() != 0x182 {
		t.Errorf("Expected word 0x182, got 0x%03X", p.Word())
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected string
	}{
		{"Reset", ResetStatus(), "nvMXdIzc E"},
		{"Native clear", NewStatus(0), "nvmxdizc e"},
		{"Native NZC", NewStatus(FlagNegative | FlagZero | FlagCarry), "NvmxdiZC e"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.status.String(); got != test.expected {
				t.Errorf("Expected %q, got %q", test.expected, got)
			}
		})
	}
}

func TestFlagInstructions(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		steps   int
		setup   func(*CPUTestHelper)
		flag    Flag
		want    bool
	}{
		{"SEC then CLC", []uint8{0x38, 0x18}, 2, nil, FlagCarry, false},
		{"SEC then SEP #$01", []uint8{0x38, 0xE2, 0x01}, 2, nil, FlagCarry, true},
		{"SED", []uint8{0xF8}, 1, nil, FlagDecimal, true},
		{"CLD", []uint8{0xF8, 0xD8}, 2, nil, FlagDecimal, false},
		{"CLI", []uint8{0x58}, 1, nil, FlagIRQDisable, false},
		{"SEI", []uint8{0x58, 0x78}, 2, nil, FlagIRQDisable, true},
		{"CLV", []uint8{0xB8}, 1, func(h *CPUTestHelper) { h.CPU.P.Set(FlagOverflow) }, FlagOverflow, false},
		{"REP #$01", []uint8{0x38, 0xC2, 0x01}, 2, nil, FlagCarry, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			helper := NewCPUTestHelper()
			helper.SetupResetVector(0x8000)
			helper.LoadProgram(0x8000, test.program...)
			if test.setup != nil {
				test.setup(helper)
			}

			helper.StepN(test.steps)

			if got := helper.CPU.P.Test(test.flag); got != test.want {
				t.Errorf("Expected flag 0x%02X=%v, got %v", test.flag, test.want, got)
			}
		})
	}
}

func TestREPCannotWidenInEmulation(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0x8000)
	helper.LoadProgram(0x8000, 0xC2, 0x30) // REP #$30

	helper.Step()

	if !helper.CPU.P.Test(FlagMemory8) || !helper.CPU.P.Test(FlagIndex8) {
		t.Errorf("Expected m and x to stay set in emulation mode, got %s", helper.CPU.P.String())
	}
}

func TestSEPIndexKeepsHighBytes(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupNative(0x8000)
	helper.CPU.X = 0x1234
	helper.CPU.Y = 0xABCD
	helper.LoadProgram(0x8000, 0xE2, 0x10) // SEP #$10

	helper.Step()

	if helper.CPU.X != 0x1234 || helper.CPU.Y != 0xABCD {
		t.Errorf("Expected X=0x1234 Y=0xABCD, got X=0x%04X Y=0x%04X", helper.CPU.X, helper.CPU.Y)
	}
	if got := helper.CPU.index(RegX); got != 0x34 {
		t.Errorf("Expected 8-bit X view 0x34, got 0x%04X", got)
	}
	if got := helper.CPU.index(RegY); got != 0xCD {
		t.Errorf("Expected 8-bit Y view 0xCD, got 0x%04X", got)
	}
}

func TestHiddenIndexByteSurvivesModeSwitch(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupNative(0x8000)
	helper.CPU.X = 0x1234
	helper.CPU.A = 0xABCD
	helper.LoadProgram(0x8000,
		0xE2, 0x30, // SEP #$30
		0xE8,       // INX
		0xC2, 0x30, // REP #$30
		0x8A, // TXA
	)

	helper.StepN(2)
	if helper.CPU.X != 0x1235 {
		t.Errorf("Expected 8-bit INX to keep the high byte, got X=0x%04X", helper.CPU.X)
	}

	helper.Step()
	if helper.CPU.A != 0xABCD || helper.CPU.X != 0x1235 {
		t.Errorf("Expected A=0xABCD X=0x1235 after REP, got A=0x%04X X=0x%04X", helper.CPU.A, helper.CPU.X)
	}

	helper.Step()
	if helper.CPU.A != 0x1235 {
		t.Errorf("Expected TXA to expose the kept high byte, got A=0x%04X", helper.CPU.A)
	}
}

func TestXCE(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0x8000)
	helper.LoadProgram(0x8000,
		0x18,       // CLC
		0xFB,       // XCE -> native
		0xC2, 0x30, // REP #$30
		0xA2, 0x34, 0x12, // LDX #$1234
		0x38, // SEC
		0xFB, // XCE -> emulation
	)

	helper.StepN(2)
	if helper.CPU.emulation() {
		t.Fatalf("Expected native mode after CLC; XCE")
	}
	if !helper.CPU.P.Test(FlagCarry) {
		t.Errorf("Expected carry to receive the old emulation bit")
	}
	if !helper.CPU.memory8() || !helper.CPU.index8() {
		t.Errorf("Expected m and x to remain set on entering native mode")
	}

	helper.StepN(2)
	if helper.CPU.X != 0x1234 {
		t.Errorf("Expected X=0x1234 in native 16-bit mode, got 0x%04X", helper.CPU.X)
	}

	helper.CPU.SP = 0x1FF0
	helper.StepN(2)
	if !helper.CPU.emulation() {
		t.Fatalf("Expected emulation mode after SEC; XCE")
	}
	if helper.CPU.P.Test(FlagCarry) {
		t.Errorf("Expected carry clear after leaving native mode")
	}
	if helper.CPU.SP != 0x01F0 {
		t.Errorf("Expected SP pinned to page 1, got 0x%04X", helper.CPU.SP)
	}
	if helper.CPU.X != 0x1234 || helper.CPU.index(RegX) != 0x34 {
		t.Errorf("Expected X=0x1234 with 8-bit view 0x34, got 0x%04X", helper.CPU.X)
	}
}

func TestPHPPLP(t *testing.T) {
	t.Run("Emulation push sets bits 4 and 5", func(t *testing.T) {
		helper := NewCPUTestHelper()
		helper.SetupResetVector(0x8000)
		helper.LoadProgram(0x8000, 0x08) // PHP

		helper.Step()

		helper.AssertMemory(t, "PHP", 0x0001FF, 0x34)
	})

	t.Run("Native round trip", func(t *testing.T) {
		helper := NewCPUTestHelper()
		helper.SetupNative(0x8000)
		helper.CPU.P.Set(FlagCarry | FlagNegative)
		helper.LoadProgram(0x8000,
			0x08,       // PHP
			0xC2, 0x81, // REP #$81
			0x28, // PLP
		)

		helper.StepN(2)
		if helper.CPU.P.Test(FlagCarry) {
			t.Fatalf("Expected REP to clear carry")
		}
		helper.Step()
		if !helper.CPU.P.Test(FlagCarry) || !helper.CPU.P.Test(FlagNegative) {
			t.Errorf("Expected PLP to restore C and N, got %s", helper.CPU.P.String())
		}
	})

	t.Run("Emulation pull keeps 8-bit registers", func(t *testing.T) {
		helper := NewCPUTestHelper()
		helper.SetupResetVector(0x8000)
		helper.Memory.SetByte(0x0001FF, 0x00)
		helper.CPU.SP = 0x01FE
		helper.LoadProgram(0x8000, 0x28) // PLP

		helper.Step()

		if !helper.CPU.memory8() || !helper.CPU.index8() {
			t.Errorf("Expected m and x forced in emulation, got %s", helper.CPU.P.String())
		}
		if helper.CPU.P.Test(FlagIRQDisable) {
			t.Errorf("Expected I cleared by PLP")
		}
	})
}
