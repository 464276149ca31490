package cpu

import (
	"testing"
)

// flatMemory is a bank-0 only memory for benchmarks, where map lookups
// would dominate.
type flatMemory struct {
	data [0x10000]uint8
}

func (m *flatMemory) Read(address uint32) (uint8, bool) {
	return m.data[uint16(address)], true
}

func (m *flatMemory) Write(address uint32, value uint8) {
	m.data[uint16(address)] = value
}

func benchmarkProgram(b *testing.B, native bool, program ...uint8) {
	memory := &flatMemory{}
	memory.data[0xFFFC] = 0x00
	memory.data[0xFFFD] = 0x80
	copy(memory.data[0x8000:], program)

	cpu := New(memory)
	cpu.Reset()
	if native {
		cpu.P = NewStatus(0)
	}
	signals := NewSignals()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		cpu.Step(signals)
	}

	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "instructions/sec")
}

func BenchmarkBasicInstructions(b *testing.B) {
	b.Run("NOP", func(b *testing.B) {
		benchmarkProgram(b, false, 0xEA, 0x4C, 0x00, 0x80) // NOP; JMP $8000
	})

	b.Run("ADC 16-bit", func(b *testing.B) {
		benchmarkProgram(b, true, 0x69, 0x01, 0x00, 0x80, 0xFB) // ADC #1; BRA
	})

	b.Run("Decimal ADC", func(b *testing.B) {
		benchmarkProgram(b, false, 0xF8, 0x69, 0x01, 0x80, 0xFB) // SED; ADC #1; BRA
	})

	b.Run("Stack", func(b *testing.B) {
		benchmarkProgram(b, true, 0x48, 0x68, 0x80, 0xFC) // PHA; PLA; BRA
	})

	b.Run("Block move", func(b *testing.B) {
		benchmarkProgram(b, true, 0x54, 0x00, 0x00, 0x80, 0xFB) // MVN $00,$00; BRA
	})
}
