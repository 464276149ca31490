package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"gosnes/internal/bus"
	"gosnes/internal/cartridge"
	"gosnes/internal/graphics"
	"gosnes/internal/script"
)

const windowTitle = "gosnes - Super NES CPU debugger"

// Log levels in increasing severity
const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// Application is the emulator host: it owns the bus, the display and the
// debugger controls around them.
type Application struct {
	bus *bus.Bus

	graphicsBackend graphics.Backend
	window          graphics.Window

	config *Config
	states *StateManager
	script *script.Engine

	// Control flags. running is cleared from signal handlers.
	running     atomic.Bool
	paused      bool
	tracing     bool
	initialized bool
	headless    bool
	stopLogged  bool

	frameCount uint64
	startTime  time.Time
	page       uint32

	romPath   string
	cartridge *cartridge.Cartridge

	logger   *log.Logger
	logLevel int
	logFile  *os.File
}

// ApplicationError represents application-specific errors
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("Application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// NewApplication creates a new application using the configured backend
func NewApplication(configPath string) (*Application, error) {
	return NewApplicationWithMode(configPath, false)
}

// NewApplicationWithMode creates a new application, optionally forcing the
// headless backend
func NewApplicationWithMode(configPath string, headless bool) (*Application, error) {
	config := NewConfig()
	if configPath != "" {
		if err := config.LoadFromFile(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "[APP] Could not load config from %s, using defaults: %v\n", configPath, err)
			config = NewConfig()
		}
	}
	return NewApplicationWithConfig(config, headless)
}

// NewApplicationWithConfig creates a new application from an existing
// configuration
func NewApplicationWithConfig(config *Config, headless bool) (*Application, error) {
	if err := config.validate(); err != nil {
		return nil, &ApplicationError{Component: "config", Operation: "validate", Err: err}
	}

	app := &Application{
		config:    config,
		headless:  headless,
		startTime: time.Now(),
		paused:    config.Emulation.StartPaused,
		tracing:   config.Debug.CPUTracing,
	}

	if err := app.initializeComponents(headless); err != nil {
		app.closeLog()
		return nil, &ApplicationError{
			Component: "initialization",
			Operation: "component setup",
			Err:       err,
		}
	}

	return app, nil
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents(headless bool) error {
	if err := app.initializeLogging(); err != nil {
		return err
	}

	app.bus = bus.New()
	app.bus.SetLogger(app.logger)
	app.bus.SetCyclesPerFrame(app.config.Emulation.CyclesPerFrame)

	page, err := parseAddress(app.config.Debug.Page)
	if err != nil {
		return err
	}
	app.page = page & 0xFFFF00

	if err := app.initializeGraphicsBackend(headless); err != nil {
		return fmt.Errorf("failed to initialize graphics backend: %w", err)
	}

	app.states = NewStateManager(app.config.Paths.SaveStates)
	app.initialized = true
	return nil
}

// initializeLogging sets up the shared logger. With logging enabled the
// output is copied to a file in the logs directory.
func (app *Application) initializeLogging() error {
	switch app.config.Debug.LogLevel {
	case "DEBUG":
		app.logLevel = levelDebug
	case "WARN":
		app.logLevel = levelWarn
	case "ERROR":
		app.logLevel = levelError
	default:
		app.logLevel = levelInfo
	}

	var out io.Writer = os.Stderr
	if app.config.Debug.EnableLogging && app.config.Paths.Logs != "" {
		if err := os.MkdirAll(app.config.Paths.Logs, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(app.config.Paths.Logs, "gosnes.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		app.logFile = f
		out = io.MultiWriter(os.Stderr, f)
	}
	app.logger = log.New(out, "", log.LstdFlags)
	return nil
}

func (app *Application) logf(level int, format string, args ...interface{}) {
	if level < app.logLevel {
		return
	}
	app.logger.Printf(format, args...)
}

func (app *Application) closeLog() {
	if app.logFile != nil {
		app.logFile.Close()
		app.logFile = nil
	}
}

// initializeGraphicsBackend initializes the graphics backend based on configuration
func (app *Application) initializeGraphicsBackend(headless bool) error {
	backendType := graphics.BackendType(app.config.Video.Backend)
	if headless {
		backendType = graphics.BackendHeadless
	}

	var err error
	app.graphicsBackend, err = graphics.CreateBackend(backendType)
	if err != nil {
		return fmt.Errorf("failed to create graphics backend: %w", err)
	}

	graphicsConfig := graphics.Config{
		WindowTitle:  windowTitle,
		WindowWidth:  app.config.Window.Width,
		WindowHeight: app.config.Window.Height,
		Fullscreen:   app.config.Window.Fullscreen,
		VSync:        app.config.Video.VSync,
		Scale:        app.config.Video.Scale,
		Headless:     backendType == graphics.BackendHeadless,
		Debug:        app.config.Debug.EnableLogging,
	}

	if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
		// No display or no terminal: keep running without a view
		if backendType == graphics.BackendHeadless {
			return fmt.Errorf("failed to initialize graphics backend: %w", err)
		}
		app.logf(levelWarn, "[APP] %s backend failed (%v), falling back to headless mode", backendType, err)
		app.graphicsBackend = graphics.NewHeadlessBackend()
		graphicsConfig.Headless = true
		if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
			return fmt.Errorf("failed to initialize fallback headless backend: %w", err)
		}
		app.headless = true
	}

	app.window, err = app.graphicsBackend.CreateWindow(
		graphicsConfig.WindowTitle,
		graphicsConfig.WindowWidth,
		graphicsConfig.WindowHeight,
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	if hw, ok := app.window.(*graphics.HeadlessWindow); ok && app.config.Video.DumpInterval > 0 {
		hw.SetOutput(os.Stdout, app.config.Video.DumpInterval)
	}

	return nil
}

// LoadROM loads a ROM image with the configured mapper and resets the system
func (app *Application) LoadROM(romPath string) error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	kind, err := app.config.MapperKind()
	if err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "select mapper", Err: err}
	}

	cart, err := cartridge.LoadFromFile(romPath, kind, app.config.Emulation.SRAMSize)
	if err != nil {
		return &ApplicationError{
			Component: "cartridge",
			Operation: "load ROM",
			Err:       err,
		}
	}

	app.cartridge = cart
	app.romPath = romPath
	if err := app.loadSRAM(); err != nil {
		app.logf(levelWarn, "[APP] Could not load SRAM: %v", err)
	}

	app.bus.LoadCartridge(cart)
	app.ApplyDebugSettings()
	app.stopLogged = false

	if app.window != nil {
		app.window.SetTitle(fmt.Sprintf("gosnes - %s", filepath.Base(romPath)))
	}

	app.logf(levelInfo, "[APP] %s loaded (%s, %d KB ROM)", filepath.Base(romPath), kind, cart.ROMSize()/1024)
	return nil
}

// LoadScript loads a Lua script and attaches it to the bus. Any previous
// script is closed.
func (app *Application) LoadScript(path string) error {
	if app.script != nil {
		app.script.Close()
		app.script = nil
	}

	engine := script.New(app.bus, app.logger)
	if err := engine.LoadFile(path); err != nil {
		engine.Close()
		return &ApplicationError{Component: "script", Operation: "load", Err: err}
	}
	engine.Attach()
	app.script = engine
	app.logf(levelInfo, "[APP] Script %s attached", filepath.Base(path))
	return nil
}

// sramPath returns the battery save path for the loaded ROM
func (app *Application) sramPath() string {
	if app.romPath == "" || app.config.Paths.SaveData == "" {
		return ""
	}
	name := filepath.Base(app.romPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(app.config.Paths.SaveData, name+".srm")
}

func (app *Application) loadSRAM() error {
	path := app.sramPath()
	if !app.config.Emulation.SaveSRAM || path == "" || app.cartridge.SRAM() == nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	copy(app.cartridge.SRAM(), data)
	app.logf(levelDebug, "[APP] SRAM loaded from %s", path)
	return nil
}

// SaveSRAM writes cartridge SRAM to the save data directory
func (app *Application) SaveSRAM() error {
	path := app.sramPath()
	if !app.config.Emulation.SaveSRAM || path == "" || app.cartridge == nil || app.cartridge.SRAM() == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	if err := os.WriteFile(path, app.cartridge.SRAM(), 0644); err != nil {
		return fmt.Errorf("failed to write SRAM: %w", err)
	}
	app.logf(levelDebug, "[APP] SRAM saved to %s", path)
	return nil
}

// Run starts the main application loop and returns when the application
// stops
func (app *Application) Run() error {
	if !app.initialized {
		return errors.New("application not initialized")
	}
	if app.cartridge == nil {
		return errors.New("no ROM loaded")
	}

	app.running.Store(true)
	app.startTime = time.Now()
	app.logf(levelDebug, "[APP] Starting with %s backend", app.graphicsBackend.GetName())

	if ebitengineWindow, ok := graphics.AsEbitengineWindow(app.window); ok {
		ebitengineWindow.SetEmulatorUpdateFunc(func() error {
			if err := app.frame(); err != nil {
				return err
			}
			if !app.running.Load() {
				ebitengineWindow.Cleanup()
			}
			return nil
		})
		return ebitengineWindow.Run()
	}

	for app.running.Load() {
		if err := app.frame(); err != nil {
			app.logf(levelError, "[APP] %v", err)
		}
		if !app.headless {
			time.Sleep(16 * time.Millisecond)
		}
	}

	app.logf(levelDebug, "[APP] Main loop ended after %d frames", app.frameCount)
	return nil
}

// RunFrames runs n host frames without starting the main loop
func (app *Application) RunFrames(n int) error {
	if app.cartridge == nil {
		return errors.New("no ROM loaded")
	}
	app.running.Store(true)
	for i := 0; i < n && app.running.Load(); i++ {
		if err := app.frame(); err != nil {
			return err
		}
	}
	return nil
}

// frame is one pass of the host loop
func (app *Application) frame() error {
	app.processInput()

	if err := app.updateEmulator(); err != nil {
		return err
	}
	if err := app.render(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	app.checkStopConditions()
	return nil
}

// updateEmulator runs one emulated frame unless paused
func (app *Application) updateEmulator() error {
	if app.paused || app.cartridge == nil {
		return nil
	}

	app.bus.Frame()
	app.frameCount++

	if app.bus.CPU.Stopped() && !app.stopLogged {
		app.logf(levelInfo, "[APP] CPU stopped: %s", app.bus.GetCPUState())
		app.stopLogged = true
	}
	return nil
}

func (app *Application) checkStopConditions() {
	if app.window != nil && app.window.ShouldClose() {
		app.Stop()
	}
	if limit := app.config.Emulation.FrameLimit; limit > 0 && app.frameCount >= uint64(limit) {
		app.logf(levelDebug, "[APP] Frame limit %d reached", limit)
		app.Stop()
	}
	if app.script != nil {
		if app.script.StopRequested() {
			app.logf(levelInfo, "[APP] Script requested stop")
			app.Stop()
		}
	}
}

// processInput applies debugger actions from the window
func (app *Application) processInput() {
	if app.window == nil {
		return
	}

	for _, event := range app.window.PollEvents() {
		switch event.Type {
		case graphics.InputEventTypeQuit:
			app.Stop()
		case graphics.InputEventTypeAction:
			app.handleAction(event.Action)
		}
	}
}

// handleAction performs a debugger command
func (app *Application) handleAction(action graphics.Action) {
	app.logf(levelDebug, "[APP] Action %s", action)

	switch action {
	case graphics.ActionQuit:
		app.Stop()
	case graphics.ActionTogglePause:
		app.TogglePause()
	case graphics.ActionStep:
		if app.paused {
			app.StepInstruction()
		}
	case graphics.ActionFrame:
		if app.paused {
			app.StepFrame()
		}
	case graphics.ActionReset:
		app.Reset()
	case graphics.ActionToggleTrace:
		app.SetTracing(!app.tracing)
	case graphics.ActionPageUp:
		app.page = (app.page - graphics.PageSize) & 0xFFFF00
	case graphics.ActionPageDown:
		app.page = (app.page + graphics.PageSize) & 0xFFFF00
	}
}

// render captures the machine state and hands it to the window
func (app *Application) render() error {
	if app.window == nil {
		return nil
	}

	snapshot := graphics.Capture(app.bus.GetFrameCount(), app.bus.GetCPUState(),
		app.bus.Memory, app.page, app.config.Debug.ListingLines)
	snapshot.Paused = app.paused
	snapshot.Tracing = app.tracing

	if err := app.window.RenderSnapshot(snapshot); err != nil {
		return err
	}
	app.window.SwapBuffers()
	return nil
}

// StepInstruction executes a single instruction
func (app *Application) StepInstruction() {
	if app.cartridge == nil {
		return
	}
	app.bus.Step()
}

// StepFrame runs one full frame, also while paused
func (app *Application) StepFrame() {
	if app.cartridge == nil {
		return
	}
	app.bus.Frame()
	app.frameCount++
}

// Stop stops the application
func (app *Application) Stop() {
	app.running.Store(false)
}

// Pause pauses emulation
func (app *Application) Pause() {
	app.paused = true
}

// Resume resumes emulation
func (app *Application) Resume() {
	app.paused = false
}

// TogglePause toggles pause state
func (app *Application) TogglePause() {
	app.paused = !app.paused
}

// SetTracing turns per-instruction CPU logging on or off
func (app *Application) SetTracing(enabled bool) {
	app.tracing = enabled
	app.bus.CPU.EnableDebugLogging(enabled)
}

// SetPage selects the memory page shown by the view
func (app *Application) SetPage(address uint32) {
	app.page = address & 0xFFFF00
}

// SaveState saves emulator state to a slot
func (app *Application) SaveState(slot int) error {
	if app.cartridge == nil {
		return errors.New("no ROM loaded")
	}
	return app.states.SaveState(app.bus, slot, app.romPath)
}

// LoadState loads emulator state from a slot
func (app *Application) LoadState(slot int) error {
	if app.cartridge == nil {
		return errors.New("no ROM loaded")
	}
	if err := app.states.LoadState(app.bus, slot, app.romPath); err != nil {
		return err
	}
	app.stopLogged = false
	return nil
}

// Reset resets the system
func (app *Application) Reset() {
	if app.cartridge == nil {
		return
	}
	app.bus.Reset()
	app.stopLogged = false
	app.logf(levelInfo, "[APP] Reset")
}

// IsRunning returns whether the main loop is running
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// IsPaused returns whether emulation is paused
func (app *Application) IsPaused() bool {
	return app.paused
}

// IsTracing returns whether CPU tracing is on
func (app *Application) IsTracing() bool {
	return app.tracing
}

// GetFrameCount returns the number of frames run by the host loop
func (app *Application) GetFrameCount() uint64 {
	return app.frameCount
}

// GetUptime returns time since the main loop started
func (app *Application) GetUptime() time.Duration {
	return time.Since(app.startTime)
}

// GetPage returns the first address of the displayed memory page
func (app *Application) GetPage() uint32 {
	return app.page
}

// GetROMPath returns the loaded ROM path
func (app *Application) GetROMPath() string {
	return app.romPath
}

// GetConfig returns the application configuration
func (app *Application) GetConfig() *Config {
	return app.config
}

// GetBus returns the system bus
func (app *Application) GetBus() *bus.Bus {
	return app.bus
}

// GetWindow returns the display window
func (app *Application) GetWindow() graphics.Window {
	return app.window
}

// GetStateManager returns the save state manager
func (app *Application) GetStateManager() *StateManager {
	return app.states
}

// ApplyDebugSettings applies debug settings to the bus and CPU
func (app *Application) ApplyDebugSettings() {
	app.SetTracing(app.tracing)
	app.bus.CPU.EnableLoopDetection(app.config.Debug.LoopDetection)

	addresses, err := app.config.WatchpointAddresses()
	if err != nil {
		app.logf(levelWarn, "[APP] %v", err)
		return
	}
	for _, address := range addresses {
		app.bus.AddMemoryWatchpoint(address)
	}
	if len(addresses) > 0 {
		app.bus.EnableWatchpointLogging(true)
		app.logf(levelDebug, "[APP] %d memory watchpoints set", len(addresses))
	}
}

// Cleanup saves SRAM and releases all resources
func (app *Application) Cleanup() error {
	app.logf(levelDebug, "[APP] Cleaning up application resources")

	var lastErr error

	if err := app.SaveSRAM(); err != nil {
		lastErr = err
		app.logf(levelError, "[APP] SRAM save error: %v", err)
	}

	if app.script != nil {
		if err := app.script.Err(); err != nil {
			app.logf(levelWarn, "[APP] Script ended with error: %v", err)
		}
		app.script.Close()
		app.script = nil
	}

	if app.window != nil {
		if err := app.window.Cleanup(); err != nil {
			lastErr = err
			app.logf(levelError, "[APP] Window cleanup error: %v", err)
		}
	}

	if app.graphicsBackend != nil {
		if err := app.graphicsBackend.Cleanup(); err != nil {
			lastErr = err
			app.logf(levelError, "[APP] Graphics backend cleanup error: %v", err)
		}
	}

	app.initialized = false
	app.closeLog()
	return lastErr
}
