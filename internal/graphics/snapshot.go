package graphics

import (
	"fmt"
	"strings"

	"gosnes/internal/cpu"
)

const (
	// PageSize is the number of bytes shown by the memory view
	PageSize = 0x100
	// bytes per dump row
	rowBytes = 16
)

// Source is the side-effect-free view of the bus the snapshot reads from.
type Source interface {
	Peek(address uint32) (uint8, bool)
}

// peekMemory adapts a Source to the CPU memory interface for the
// disassembler. Writes are dropped.
type peekMemory struct {
	src Source
}

func (p peekMemory) Read(address uint32) (uint8, bool) {
	return p.src.Peek(address)
}

func (p peekMemory) Write(uint32, uint8) {}

// Snapshot is the machine state shown by a view for one frame
type Snapshot struct {
	Frame   uint64
	Paused  bool
	Tracing bool
	CPU     cpu.State
	Listing []cpu.Line

	PageBase uint32
	Page     [PageSize]uint8
	Mapped   [PageSize]bool
}

// Capture builds a snapshot of state with a listing of the next lines
// instructions and the memory page starting at page.
func Capture(frame uint64, state cpu.State, src Source, page uint32, lines int) *Snapshot {
	s := &Snapshot{
		Frame:    frame,
		CPU:      state,
		PageBase: page & 0xFFFF00,
	}
	pc := uint32(state.PBR)<<16 | uint32(state.PC)
	s.Listing = cpu.Listing(peekMemory{src}, pc, lines, cpu.NewStatus(cpu.Flag(state.P)))
	for i := range s.Page {
		s.Page[i], s.Mapped[i] = src.Peek((s.PageBase + uint32(i)) & 0xFFFFFF)
	}
	return s
}

// Lines renders the snapshot as text rows.
func (s *Snapshot) Lines() []string {
	status := "RUNNING"
	switch {
	case s.CPU.Stopped:
		status = "STOPPED"
	case s.Paused:
		status = "PAUSED"
	case s.CPU.Waiting:
		status = "WAITING"
	}
	if s.Tracing {
		status += " TRACE"
	}

	lines := []string{
		fmt.Sprintf("Frame %06d  %s  Cycles=%d", s.Frame, status, s.CPU.Cycles),
		s.CPU.String(),
		"",
	}
	for _, l := range s.Listing {
		lines = append(lines, l.String())
	}
	lines = append(lines, "", fmt.Sprintf("Page $%06X", s.PageBase))
	return append(lines, s.dumpRows()...)
}

func (s *Snapshot) dumpRows() []string {
	rows := make([]string, 0, PageSize/rowBytes)
	var sb strings.Builder
	for row := 0; row < PageSize; row += rowBytes {
		sb.Reset()
		fmt.Fprintf(&sb, "%06X:", s.PageBase+uint32(row))
		for i := row; i < row+rowBytes; i++ {
			if s.Mapped[i] {
				fmt.Fprintf(&sb, " %02X", s.Page[i])
			} else {
				sb.WriteString(" --")
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// Text renders the snapshot as a single newline-terminated string.
func (s *Snapshot) Text() string {
	return strings.Join(s.Lines(), "\n") + "\n"
}
