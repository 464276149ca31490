//go:build !headless
// +build !headless

package graphics

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	// basicfont.Face7x13 line advance
	lineHeight = 13
	panelX     = 8
	// memory page view is 16x16 cells
	pageSide = 16
)

var (
	panelColor   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	headerColor  = color.RGBA{R: 0, G: 220, B: 90, A: 255}
	pausedColor  = color.RGBA{R: 240, G: 180, B: 0, A: 255}
	unmappedCell = color.RGBA{R: 60, G: 0, B: 0, A: 255}
)

// EbitengineBackend implements the Backend interface using Ebitengine
type EbitengineBackend struct {
	initialized bool
	config      Config
	game        *EbitengineGame
}

// EbitengineWindow implements the Window interface for Ebitengine
type EbitengineWindow struct {
	backend            *EbitengineBackend
	title              string
	width              int
	height             int
	game               *EbitengineGame
	running            bool
	events             []InputEvent
	emulatorUpdateFunc func() error
}

// EbitengineGame implements ebiten.Game for the debugger view
type EbitengineGame struct {
	window       *EbitengineWindow
	snapshot     *Snapshot
	pageImage    *ebiten.Image
	pagePixels   []byte
	windowWidth  int
	windowHeight int
	scale        int
	drawCount    int
}

// NewEbitengineBackend creates a new Ebitengine graphics backend
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Initialize initializes the Ebitengine backend
func (b *EbitengineBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("Ebitengine backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates an Ebitengine window
func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	if b.config.Headless {
		return nil, fmt.Errorf("cannot create window in headless mode")
	}

	scale := b.config.Scale
	if scale <= 0 {
		scale = 8
	}

	game := &EbitengineGame{
		windowWidth:  width,
		windowHeight: height,
		scale:        scale,
		pageImage:    ebiten.NewImage(pageSide, pageSide),
		pagePixels:   make([]byte, pageSide*pageSide*4),
	}

	window := &EbitengineWindow{
		backend: b,
		title:   title,
		width:   width,
		height:  height,
		game:    game,
		running: true,
	}

	game.window = window
	b.game = game

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)

	if b.config.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return window, nil
}

// Cleanup releases all Ebitengine resources
func (b *EbitengineBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true if running in headless mode
func (b *EbitengineBackend) IsHeadless() bool {
	return b.config.Headless
}

// GetName returns the backend name
func (b *EbitengineBackend) GetName() string {
	return "Ebitengine"
}

// SetTitle sets the window title
func (w *EbitengineWindow) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

// GetSize returns window dimensions
func (w *EbitengineWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if window should close
func (w *EbitengineWindow) ShouldClose() bool {
	return !w.running
}

// SwapBuffers is handled automatically by Ebitengine
func (w *EbitengineWindow) SwapBuffers() {}

// PollEvents returns the events gathered since the last call
func (w *EbitengineWindow) PollEvents() []InputEvent {
	events := w.events
	w.events = nil
	return events
}

// RenderSnapshot stores the snapshot for Draw and refreshes the page view
func (w *EbitengineWindow) RenderSnapshot(snapshot *Snapshot) error {
	if w.game == nil {
		return fmt.Errorf("game not initialized")
	}

	w.game.snapshot = snapshot
	pix := w.game.pagePixels
	for i := 0; i < PageSize; i++ {
		c := unmappedCell
		if snapshot.Mapped[i] {
			v := snapshot.Page[i]
			c = color.RGBA{R: v, G: v, B: v, A: 255}
		}
		pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = c.R, c.G, c.B, c.A
	}
	w.game.pageImage.WritePixels(pix)
	return nil
}

// Cleanup releases window resources
func (w *EbitengineWindow) Cleanup() error {
	w.running = false
	return nil
}

// Run starts the Ebitengine game loop
func (w *EbitengineWindow) Run() error {
	if w.game == nil {
		return fmt.Errorf("game not initialized")
	}
	return ebiten.RunGame(w.game)
}

// SetEmulatorUpdateFunc sets the emulator update function
func (w *EbitengineWindow) SetEmulatorUpdateFunc(updateFunc func() error) {
	w.emulatorUpdateFunc = updateFunc
}

// Update implements ebiten.Game.Update
func (g *EbitengineGame) Update() error {
	if g.window == nil {
		return nil
	}
	if !g.window.running {
		return ebiten.Termination
	}

	g.processInput()

	if g.window.emulatorUpdateFunc != nil {
		if err := g.window.emulatorUpdateFunc(); err != nil {
			// Log error but don't stop the game
			log.Printf("[Ebitengine] Emulator update error: %v", err)
		}
	}
	return nil
}

// Draw implements ebiten.Game.Draw
func (g *EbitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{A: 255})
	g.drawCount++

	if g.snapshot == nil {
		ebitenutil.DebugPrint(screen, "waiting for first frame")
		return
	}

	lines := g.snapshot.Lines()
	y := lineHeight + 4
	for i, line := range lines {
		c := color.Color(panelColor)
		if i == 0 {
			c = headerColor
			if g.snapshot.Paused || g.snapshot.CPU.Stopped {
				c = pausedColor
			}
		}
		text.Draw(screen, line, basicfont.Face7x13, panelX, y, c)
		y += lineHeight
	}

	// Page view to the right of the text panel
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	op.GeoM.Translate(float64(g.windowWidth-pageSide*g.scale-panelX), float64(panelX))
	screen.DrawImage(g.pageImage, op)

	ebitenutil.DebugPrintAt(screen, "SPACE pause  N step  F frame  R reset  T trace  [ ] page  ESC quit",
		panelX, g.windowHeight-lineHeight-4)
}

// Layout implements ebiten.Game.Layout
func (g *EbitengineGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	g.windowWidth = outsideWidth
	g.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}

var ebitenKeys = map[ebiten.Key]Key{
	ebiten.KeyEscape:   KeyEscape,
	ebiten.KeyEnter:    KeyEnter,
	ebiten.KeySpace:    KeySpace,
	ebiten.KeyN:        KeyN,
	ebiten.KeyF:        KeyF,
	ebiten.KeyR:        KeyR,
	ebiten.KeyT:        KeyT,
	ebiten.KeyPageUp:   KeyPageUp,
	ebiten.KeyPageDown: KeyPageDown,

	ebiten.KeyBracketLeft:  KeyPageUp,
	ebiten.KeyBracketRight: KeyPageDown,
}

// processInput turns key transitions into debugger events
func (g *EbitengineGame) processInput() {
	var raw []InputEvent
	for ebitenKey, key := range ebitenKeys {
		if inpututil.IsKeyJustPressed(ebitenKey) {
			raw = append(raw, InputEvent{Type: InputEventTypeKey, Key: key, Pressed: true})
		} else if inpututil.IsKeyJustReleased(ebitenKey) {
			raw = append(raw, InputEvent{Type: InputEventTypeKey, Key: key, Pressed: false})
		}
	}
	g.window.events = append(g.window.events, actionEvents(raw)...)
}
