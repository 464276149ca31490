package script

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"gosnes/internal/bus"
	"gosnes/internal/cartridge"
)

// newTestBus boots a LoROM image that loops on BRA at $8000.
func newTestBus(t *testing.T) *bus.Bus {
	t.Helper()
	rom := make([]uint8, 0x8000)
	rom[0], rom[1] = 0x80, 0xFE // loop: BRA loop
	rom[0x7FFC], rom[0x7FFD] = 0x00, 0x80

	cart, err := cartridge.New(rom, cartridge.KindLoROM, 0)
	if err != nil {
		t.Fatalf("cartridge.New failed: %v", err)
	}
	b := bus.New()
	b.SetLogger(log.New(io.Discard, "", 0))
	b.LoadCartridge(cart)
	return b
}

func newTestEngine(t *testing.T, b *bus.Bus) (*Engine, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	e := New(b, log.New(&out, "", 0))
	t.Cleanup(e.Close)
	return e, &out
}

func TestRegisters(t *testing.T) {
	b := newTestBus(t)
	e, _ := newTestEngine(t, b)

	tests := []struct {
		name string
		want string
	}{
		{"pc", "32768"},
		{"sp", "511"},
		{"PBR", "0"},
		{"frame", "0"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := e.LoadString(`result = tostring(snes.reg("` + test.name + `"))`)
			if err != nil {
				t.Fatalf("LoadString failed: %v", err)
			}
			if got := e.state.GetGlobal("result").String(); got != test.want {
				t.Errorf("snes.reg(%q) = %s, want %s", test.name, got, test.want)
			}
		})
	}

	if err := e.LoadString(`snes.reg("q")`); err == nil {
		t.Errorf("Expected error for unknown register")
	}
}

func TestReadWrite(t *testing.T) {
	b := newTestBus(t)
	e, _ := newTestEngine(t, b)

	err := e.LoadString(`
		snes.write(0x7E0010, 0x42)
		low = snes.read(0x000010)
		rom = snes.read(0x008000)
		open = snes.read(0x006000)
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	if got := e.state.GetGlobal("low").String(); got != "66" {
		t.Errorf("Expected mirrored WRAM read 66, got %s", got)
	}
	if got := e.state.GetGlobal("rom").String(); got != "128" {
		t.Errorf("Expected ROM byte 128, got %s", got)
	}
	if got := e.state.GetGlobal("open").String(); got != "nil" {
		t.Errorf("Expected open bus to read nil, got %s", got)
	}
}

func TestInterrupts(t *testing.T) {
	b := newTestBus(t)
	e, _ := newTestEngine(t, b)

	if err := e.LoadString(`snes.irq(); snes.nmi()`); err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	if !b.Signals.IRQPending() || !b.Signals.NMIPending() {
		t.Errorf("Expected IRQ and NMI pending")
	}
}

func TestFrameHook(t *testing.T) {
	b := newTestBus(t)
	e, _ := newTestEngine(t, b)

	err := e.LoadString(`
		frames = 0
		function on_frame(frame)
			frames = frame
			if frame == 2 then snes.stop() end
		end
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	e.Attach()

	b.Run(2)

	if got := e.state.GetGlobal("frames").String(); got != "2" {
		t.Errorf("Expected on_frame called with 2, got %s", got)
	}
	if !e.StopRequested() {
		t.Errorf("Expected stop requested")
	}
}

func TestStepHook(t *testing.T) {
	b := newTestBus(t)
	e, _ := newTestEngine(t, b)

	err := e.LoadString(`
		steps = 0
		function on_step(pc) steps = steps + 1; last = pc end
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	e.Attach()

	b.Step()
	b.Step()

	if got := e.state.GetGlobal("steps").String(); got != "2" {
		t.Errorf("Expected 2 steps, got %s", got)
	}
	if got := e.state.GetGlobal("last").String(); got != "32768" {
		t.Errorf("Expected last pc 32768, got %s", got)
	}
}

func TestHookErrorDisablesHooks(t *testing.T) {
	b := newTestBus(t)
	e, out := newTestEngine(t, b)

	err := e.LoadString(`
		calls = 0
		function on_frame(frame) calls = calls + 1; error("boom") end
	`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	e.Attach()

	b.Run(3)

	if e.Err() == nil || !strings.Contains(e.Err().Error(), "on_frame") {
		t.Errorf("Expected hook error, got %v", e.Err())
	}
	if got := e.state.GetGlobal("calls").String(); got != "1" {
		t.Errorf("Expected hook called once, got %s", got)
	}
	if !strings.Contains(out.String(), "[SCRIPT]") {
		t.Errorf("Expected [SCRIPT] log line, got %q", out.String())
	}
}

func TestLogAndWatch(t *testing.T) {
	b := newTestBus(t)
	e, out := newTestEngine(t, b)

	if err := e.LoadString(`snes.log("hello"); snes.watch(0x7E0000)`); err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	if !strings.Contains(out.String(), "[SCRIPT] hello") {
		t.Errorf("Expected log output, got %q", out.String())
	}

	b.Memory.Write(0x7E0000, b.Memory.WRAM()[0]+1)
	if len(b.CheckMemoryWatchpoints()) != 1 {
		t.Errorf("Expected the script's watchpoint to fire")
	}
}

func TestLoadFile(t *testing.T) {
	b := newTestBus(t)
	e, _ := newTestEngine(t, b)

	path := filepath.Join(t.TempDir(), "test.lua")
	if err := os.WriteFile(path, []byte("loaded = true"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := e.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if e.state.GetGlobal("loaded") != lua.LTrue {
		t.Errorf("Expected loaded = true")
	}

	if err := e.LoadFile(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Errorf("Expected error for missing file")
	}
}
