package graphics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	defaultTerminalWidth  = 80
	defaultTerminalHeight = 24
)

// TerminalBackend implements the Backend interface for terminal-based rendering
type TerminalBackend struct {
	initialized bool
	config      Config
}

// TerminalWindow implements the Window interface for terminal rendering
type TerminalWindow struct {
	title   string
	width   int
	height  int
	running bool

	out   io.Writer
	outFd int
	inFd  int

	// Raw-mode keyboard input, only when stdin is a terminal
	oldState *term.State
	keys     chan Key
	stopOnce sync.Once
}

// NewTerminalBackend creates a new terminal graphics backend
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

// Initialize initializes the terminal backend
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates a terminal "window". Width and height are in
// characters and are replaced by the real terminal size when stdout is a
// terminal.
func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	w := newTerminalWindow(os.Stdout, int(os.Stdout.Fd()), title, width, height)
	w.inFd = int(os.Stdin.Fd())
	if !b.config.Headless && term.IsTerminal(w.inFd) {
		if err := w.startInput(os.Stdin); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func newTerminalWindow(out io.Writer, fd int, title string, width, height int) *TerminalWindow {
	if width <= 0 {
		width = defaultTerminalWidth
	}
	if height <= 0 {
		height = defaultTerminalHeight
	}
	w := &TerminalWindow{
		title:   title,
		width:   width,
		height:  height,
		running: true,
		out:     out,
		outFd:   fd,
		inFd:    -1,
	}
	w.refreshSize()
	return w
}

// refreshSize picks up the terminal size when output is a terminal
func (w *TerminalWindow) refreshSize() {
	if w.outFd < 0 || !term.IsTerminal(w.outFd) {
		return
	}
	if width, height, err := term.GetSize(w.outFd); err == nil && width > 0 && height > 0 {
		w.width, w.height = width, height
	}
}

// startInput switches stdin to raw mode and reads keys in the background
func (w *TerminalWindow) startInput(in io.Reader) error {
	oldState, err := term.MakeRaw(w.inFd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	w.oldState = oldState
	w.keys = make(chan Key, 16)

	go func() {
		reader := bufio.NewReader(in)
		for {
			b, err := reader.ReadByte()
			if err != nil {
				return
			}
			key := terminalKey(b)
			if key == KeyUnknown {
				continue
			}
			select {
			case w.keys <- key:
			default:
			}
		}
	}()
	return nil
}

// terminalKey maps a raw input byte to a key
func terminalKey(b byte) Key {
	switch b {
	case 0x1B, 'q', 0x03: // ESC, q, Ctrl-C
		return KeyEscape
	case ' ':
		return KeySpace
	case '\r', '\n':
		return KeyEnter
	case 'n':
		return KeyN
	case 'f':
		return KeyF
	case 'r':
		return KeyR
	case 't':
		return KeyT
	case '[':
		return KeyPageUp
	case ']':
		return KeyPageDown
	}
	return KeyUnknown
}

// Cleanup releases all terminal resources
func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns false (terminal has basic output)
func (b *TerminalBackend) IsHeadless() bool {
	return false
}

// GetName returns the backend name
func (b *TerminalBackend) GetName() string {
	return "Terminal"
}

// SetTitle sets the window title (for terminal title)
func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	fmt.Fprintf(w.out, "\033]0;%s\007", title)
}

// GetSize returns window dimensions
func (w *TerminalWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if window should close
func (w *TerminalWindow) ShouldClose() bool {
	return !w.running
}

// SwapBuffers does nothing for terminal
func (w *TerminalWindow) SwapBuffers() {}

// PollEvents drains the keys read since the last call
func (w *TerminalWindow) PollEvents() []InputEvent {
	if w.keys == nil {
		return nil
	}
	var raw []InputEvent
	for {
		select {
		case key := <-w.keys:
			raw = append(raw, InputEvent{Type: InputEventTypeKey, Key: key, Pressed: true})
		default:
			return actionEvents(raw)
		}
	}
}

// RenderSnapshot redraws the screen with the snapshot clipped to the
// terminal size
func (w *TerminalWindow) RenderSnapshot(snapshot *Snapshot) error {
	w.refreshSize()

	var sb strings.Builder
	// Clear screen
	sb.WriteString("\033[2J\033[H")
	lines := snapshot.Lines()
	if len(lines) > w.height-1 {
		lines = lines[:w.height-1]
	}
	for _, line := range lines {
		if len(line) > w.width {
			line = line[:w.width]
		}
		sb.WriteString(line)
		// Raw mode does not translate LF
		sb.WriteString("\r\n")
	}

	_, err := io.WriteString(w.out, sb.String())
	return err
}

// Cleanup releases window resources and restores the terminal
func (w *TerminalWindow) Cleanup() error {
	w.running = false
	var err error
	w.stopOnce.Do(func() {
		if w.oldState != nil {
			err = term.Restore(w.inFd, w.oldState)
			w.oldState = nil
		}
	})
	return err
}
