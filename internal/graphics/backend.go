// Package graphics provides an abstraction layer over the debug views that
// display the running machine.
package graphics

// Backend represents a display backend (Ebitengine, terminal, headless)
type Backend interface {
	// Initialize initializes the backend
	Initialize(config Config) error

	// CreateWindow creates a window for rendering
	CreateWindow(title string, width, height int) (Window, error)

	// Cleanup releases all resources
	Cleanup() error

	// IsHeadless returns true if nothing is displayed
	IsHeadless() bool

	// GetName returns the backend name for identification
	GetName() string
}

// Window represents a rendering window
type Window interface {
	// SetTitle sets the window title
	SetTitle(title string)

	// GetSize returns window dimensions
	GetSize() (width, height int)

	// ShouldClose returns true if window should close
	ShouldClose() bool

	// SwapBuffers presents the rendered frame
	SwapBuffers()

	// PollEvents processes input events
	PollEvents() []InputEvent

	// RenderSnapshot renders the machine state captured for one frame
	RenderSnapshot(snapshot *Snapshot) error

	// Cleanup releases window resources
	Cleanup() error
}

// Config contains configuration for graphics backends
type Config struct {
	// Window configuration
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool

	// Integer scale of the memory page view
	Scale int

	// Backend-specific options
	Headless bool
	Debug    bool
}

// InputEvent represents an input event from the window
type InputEvent struct {
	Type    InputEventType
	Key     Key
	Action  Action
	Pressed bool
}

// InputEventType represents the type of input event
type InputEventType int

const (
	InputEventTypeKey InputEventType = iota
	InputEventTypeAction
	InputEventTypeQuit
)

// Key represents keyboard keys
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyN
	KeyF
	KeyR
	KeyT
	KeyPageUp
	KeyPageDown
)

// Action is a debugger command bound to a key
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTogglePause
	ActionStep
	ActionFrame
	ActionReset
	ActionToggleTrace
	ActionPageUp
	ActionPageDown
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionTogglePause:
		return "pause"
	case ActionStep:
		return "step"
	case ActionFrame:
		return "frame"
	case ActionReset:
		return "reset"
	case ActionToggleTrace:
		return "trace"
	case ActionPageUp:
		return "page-up"
	case ActionPageDown:
		return "page-down"
	}
	return "none"
}

var keyActions = map[Key]Action{
	KeyEscape:   ActionQuit,
	KeySpace:    ActionTogglePause,
	KeyN:        ActionStep,
	KeyEnter:    ActionFrame,
	KeyF:        ActionFrame,
	KeyR:        ActionReset,
	KeyT:        ActionToggleTrace,
	KeyPageUp:   ActionPageUp,
	KeyPageDown: ActionPageDown,
}

// actionEvents converts raw key events into action events. Releases and
// unbound keys pass through unchanged.
func actionEvents(raw []InputEvent) []InputEvent {
	var events []InputEvent
	for _, event := range raw {
		action, ok := keyActions[event.Key]
		switch {
		case ok && action == ActionQuit && event.Pressed:
			events = append(events, InputEvent{Type: InputEventTypeQuit, Key: event.Key, Action: action, Pressed: true})
		case ok && event.Pressed:
			events = append(events, InputEvent{Type: InputEventTypeAction, Key: event.Key, Action: action, Pressed: true})
		default:
			events = append(events, event)
		}
	}
	return events
}

// BackendType represents different graphics backend types
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend creates a graphics backend of the specified type
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendEbitengine:
		return NewEbitengineBackend(), nil
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	default:
		// Default to Ebitengine for GUI mode
		return NewEbitengineBackend(), nil
	}
}

// AsEbitengineWindow tries to cast a Window to EbitengineWindow
func AsEbitengineWindow(window Window) (*EbitengineWindow, bool) {
	if ebitengineWindow, ok := window.(*EbitengineWindow); ok {
		return ebitengineWindow, true
	}
	return nil, false
}
