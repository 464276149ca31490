package cpu

import (
	"strings"
	"testing"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		name     string
		bytes    []uint8
		status   Status
		expected string
		length   int
	}{
		{"Implied", []uint8{0xEA}, ResetStatus(), "NOP", 1},
		{"Accumulator", []uint8{0x0A}, ResetStatus(), "ASL A", 1},
		{"Immediate 8-bit", []uint8{0xA9, 0x12}, ResetStatus(), "LDA #$12", 2},
		{"Immediate 16-bit", []uint8{0xA9, 0x34, 0x12}, NewStatus(0), "LDA #$1234", 3},
		{"Index immediate follows x", []uint8{0xA2, 0x34, 0x12}, NewStatus(FlagMemory8), "LDX #$1234", 3},
		{"Direct indexed", []uint8{0xB5, 0x10}, ResetStatus(), "LDA $10,X", 2},
		{"Indirect long Y", []uint8{0xB7, 0x10}, ResetStatus(), "LDA [$10],Y", 2},
		{"Stack relative indirect", []uint8{0xB3, 0x03}, ResetStatus(), "LDA ($03,S),Y", 2},
		{"Long indexed", []uint8{0xBF, 0x56, 0x34, 0x12}, ResetStatus(), "LDA $123456,X", 4},
		{"Jump indirect long", []uint8{0xDC, 0x00, 0x03}, ResetStatus(), "JML [$0300]", 3},
		{"Branch back", []uint8{0xD0, 0xFE}, ResetStatus(), "BNE $8000", 2},
		{"Branch long", []uint8{0x82, 0x00, 0x10}, ResetStatus(), "BRL $9003", 3},
		{"Block move", []uint8{0x54, 0x7F, 0x7E}, ResetStatus(), "MVN $7E,$7F", 3},
		{"PEA", []uint8{0xF4, 0x34, 0x12}, ResetStatus(), "PEA $1234", 3},
		{"PEI", []uint8{0xD4, 0x20}, ResetStatus(), "PEI ($20)", 2},
		{"BRK", []uint8{0x00, 0x01}, ResetStatus(), "BRK #$01", 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			memory := NewMockMemory()
			memory.SetBytes(0x008000, test.bytes...)

			text, length := Disassemble(memory, 0x008000, test.status)

			if text != test.expected {
				t.Errorf("Expected %q, got %q", test.expected, text)
			}
			if length != test.length {
				t.Errorf("Expected length %d, got %d", test.length, length)
			}
		})
	}
}

func TestListingTracksWidths(t *testing.T) {
	memory := NewMockMemory()
	memory.SetBytes(0x008000,
		0x18,             // CLC
		0xFB,             // XCE
		0xC2, 0x30,       // REP #$30
		0xA9, 0x34, 0x12, // LDA #$1234
		0xE2, 0x20, // SEP #$20
		0xA9, 0x01, // LDA #$01
	)

	lines := Listing(memory, 0x008000, 6, ResetStatus())

	want := []string{"CLC", "XCE", "REP #$30", "LDA #$1234", "SEP #$20", "LDA #$01"}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d", len(want), len(lines))
	}
	for i, line := range lines {
		if line.Text != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], line.Text)
		}
	}
	if lines[3].Address != 0x008004 || len(lines[3].Bytes) != 3 {
		t.Errorf("Unexpected line %v", lines[3])
	}
	if !strings.Contains(lines[3].String(), "A9 34 12") {
		t.Errorf("Expected raw bytes in %q", lines[3].String())
	}
}

func TestLogInstructionTrace(t *testing.T) {
	var out strings.Builder
	helper := NewCPUTestHelper()
	helper.CPU.SetLogger(newTestLogger(&out))
	helper.CPU.EnableDebugLogging(true)
	helper.SetupResetVector(0x8000)
	helper.LoadProgram(0x8000, 0xA9, 0x42)

	helper.Step()

	if !strings.Contains(out.String(), "[CPU_DEBUG] $008000: LDA #$42") {
		t.Errorf("Unexpected trace output %q", out.String())
	}
}

func TestLoopDetection(t *testing.T) {
	var out strings.Builder
	helper := NewCPUTestHelper()
	helper.CPU.SetLogger(newTestLogger(&out))
	helper.CPU.EnableLoopDetection(true)
	helper.SetupResetVector(0x8000)
	helper.LoadProgram(0x8000, 0x80, 0xFE) // BRA *

	helper.StepN(105)

	if !strings.Contains(out.String(), "[CPU_LOOP] CPU stuck at PC=$008000") {
		t.Errorf("Expected loop report, got %q", out.String())
	}
}
