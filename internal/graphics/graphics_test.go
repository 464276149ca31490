package graphics

import (
	"bytes"
	"strings"
	"testing"

	"gosnes/internal/cpu"
)

// fakeSource is a sparse memory for snapshot tests
type fakeSource map[uint32]uint8

func (f fakeSource) Peek(address uint32) (uint8, bool) {
	v, ok := f[address]
	return v, ok
}

func testSnapshot() *Snapshot {
	src := fakeSource{
		0x008000: 0xA9, 0x008001: 0x42, // LDA #$42
		0x008002: 0xEA, // NOP
		0x7E0000: 0x12,
	}
	p := cpu.ResetStatus()
	state := cpu.State{PC: 0x8000, SP: 0x01FF, P: p.Word()}
	return Capture(5, state, src, 0x7E0000, 2)
}

func TestCapture(t *testing.T) {
	s := testSnapshot()

	if len(s.Listing) != 2 {
		t.Fatalf("Expected 2 listing lines, got %d", len(s.Listing))
	}
	if s.Listing[0].Text != "LDA #$42" || s.Listing[1].Text != "NOP" {
		t.Errorf("Unexpected listing %q, %q", s.Listing[0].Text, s.Listing[1].Text)
	}
	if !s.Mapped[0] || s.Page[0] != 0x12 {
		t.Errorf("Expected page byte 0 = 0x12")
	}
	if s.Mapped[1] {
		t.Errorf("Expected page byte 1 unmapped")
	}
}

func TestSnapshotLines(t *testing.T) {
	s := testSnapshot()
	lines := s.Lines()

	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"Header", 0, "Frame 000005  RUNNING"},
		{"Registers", 1, "PC=00:8000"},
		{"Listing", 3, "$008000  A9 42"},
		{"Page title", 6, "Page $7E0000"},
		{"First row", 7, "7E0000: 12 -- --"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.index >= len(lines) {
				t.Fatalf("Only %d lines", len(lines))
			}
			if !strings.HasPrefix(lines[test.index], test.want) {
				t.Errorf("Line %d = %q, want prefix %q", test.index, lines[test.index], test.want)
			}
		})
	}

	if got := len(lines); got != 7+PageSize/rowBytes {
		t.Errorf("Expected %d lines, got %d", 7+PageSize/rowBytes, got)
	}
}

func TestSnapshotStatus(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Snapshot)
		want  string
	}{
		{"Paused", func(s *Snapshot) { s.Paused = true }, "PAUSED"},
		{"Stopped", func(s *Snapshot) { s.CPU.Stopped = true; s.Paused = true }, "STOPPED"},
		{"Waiting", func(s *Snapshot) { s.CPU.Waiting = true }, "WAITING"},
		{"Tracing", func(s *Snapshot) { s.Tracing = true }, "RUNNING TRACE"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := testSnapshot()
			test.setup(s)
			if header := s.Lines()[0]; !strings.Contains(header, test.want) {
				t.Errorf("Header %q does not contain %q", header, test.want)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	tests := []struct {
		backendType BackendType
		name        string
	}{
		{BackendHeadless, "Headless"},
		{BackendTerminal, "Terminal"},
	}

	for _, test := range tests {
		t.Run(string(test.backendType), func(t *testing.T) {
			backend, err := CreateBackend(test.backendType)
			if err != nil {
				t.Fatalf("CreateBackend failed: %v", err)
			}
			if backend.GetName() != test.name {
				t.Errorf("Expected %s, got %s", test.name, backend.GetName())
			}
		})
	}
}

func TestHeadlessWindow(t *testing.T) {
	backend := NewHeadlessBackend()
	if _, err := backend.CreateWindow("test", 1, 1); err == nil {
		t.Fatalf("Expected error before Initialize")
	}
	if err := backend.Initialize(Config{Headless: true}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := backend.Initialize(Config{}); err == nil {
		t.Errorf("Expected error on second Initialize")
	}

	window, err := backend.CreateWindow("test", 640, 480)
	if err != nil {
		t.Fatalf("CreateWindow failed: %v", err)
	}
	headless := window.(*HeadlessWindow)

	var out bytes.Buffer
	headless.SetOutput(&out, 2)

	s := testSnapshot()
	for i := 0; i < 3; i++ {
		if err := window.RenderSnapshot(s); err != nil {
			t.Fatalf("RenderSnapshot failed: %v", err)
		}
	}

	if headless.GetFrameCount() != 3 {
		t.Errorf("Expected 3 frames, got %d", headless.GetFrameCount())
	}
	if headless.LastSnapshot() != s {
		t.Errorf("Expected last snapshot kept")
	}
	if strings.Count(out.String(), "Frame 000005") != 1 {
		t.Errorf("Expected exactly one dump, got %q", out.String())
	}

	window.Cleanup()
	if !window.ShouldClose() {
		t.Errorf("Expected window closed after Cleanup")
	}
}

func TestTerminalRenderClipsToSize(t *testing.T) {
	var out bytes.Buffer
	w := newTerminalWindow(&out, -1, "test", 20, 5)

	if err := w.RenderSnapshot(testSnapshot()); err != nil {
		t.Fatalf("RenderSnapshot failed: %v", err)
	}

	body := strings.TrimPrefix(out.String(), "\033[2J\033[H")
	rows := strings.Split(strings.TrimSuffix(body, "\r\n"), "\r\n")
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d: %q", len(rows), rows)
	}
	for _, row := range rows {
		if len(row) > 20 {
			t.Errorf("Row %q exceeds width", row)
		}
	}
}

func TestTerminalDefaultSize(t *testing.T) {
	w := newTerminalWindow(&bytes.Buffer{}, -1, "test", 0, 0)
	if width, height := w.GetSize(); width != defaultTerminalWidth || height != defaultTerminalHeight {
		t.Errorf("Expected default size, got %dx%d", width, height)
	}
	if w.PollEvents() != nil {
		t.Errorf("Expected no events without keyboard input")
	}
}

func TestTerminalKey(t *testing.T) {
	tests := []struct {
		input byte
		want  Key
	}{
		{'q', KeyEscape},
		{0x1B, KeyEscape},
		{' ', KeySpace},
		{'n', KeyN},
		{'\r', KeyEnter},
		{']', KeyPageDown},
		{'x', KeyUnknown},
	}

	for _, test := range tests {
		if got := terminalKey(test.input); got != test.want {
			t.Errorf("terminalKey(%q) = %d, want %d", test.input, got, test.want)
		}
	}
}

func TestActionEvents(t *testing.T) {
	raw := []InputEvent{
		{Type: InputEventTypeKey, Key: KeyEscape, Pressed: true},
		{Type: InputEventTypeKey, Key: KeyN, Pressed: true},
		{Type: InputEventTypeKey, Key: KeyN, Pressed: false},
	}

	events := actionEvents(raw)

	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if events[0].Type != InputEventTypeQuit {
		t.Errorf("Expected ESC to quit, got %+v", events[0])
	}
	if events[1].Type != InputEventTypeAction || events[1].Action != ActionStep {
		t.Errorf("Expected N to step, got %+v", events[1])
	}
	if events[2].Type != InputEventTypeKey {
		t.Errorf("Expected release passed through, got %+v", events[2])
	}
	if ActionStep.String() != "step" {
		t.Errorf("Unexpected action name %q", ActionStep.String())
	}
}
