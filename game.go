package stellar

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// GameOptions configures NewGame.
type GameOptions struct {
	// Keys defaults to DefaultKeyBindings.
	Keys *KeyBindings
	// Script optionally drives the run one step per frame.
	Script *ScriptRunner
	// ScreenshotDir receives screenshot PNGs. Defaults to "screenshots".
	ScreenshotDir string
	// ExitOnScriptDone ends the game loop once Script finishes.
	ExitOnScriptDone bool
}

// Game hosts a Controller inside an Ebitengine window. It implements
// ebiten.Game and ScriptHost.
type Game struct {
	ctrl      *Controller
	container *BasicContainer
	keys      *KeyBindings
	script    *ScriptRunner
	shots     screenshotQueue
	exit      bool
}

// NewGame creates a Game for ctrl. The controller is initialized on the
// first Update, once the window size is known.
func NewGame(ctrl *Controller, opts GameOptions) *Game {
	if opts.Keys == nil {
		opts.Keys = DefaultKeyBindings()
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = "screenshots"
	}
	return &Game{
		ctrl:      ctrl,
		container: NewBasicContainer(0, 0),
		keys:      opts.Keys,
		script:    opts.Script,
		shots:     screenshotQueue{dir: opts.ScreenshotDir},
		exit:      opts.ExitOnScriptDone,
	}
}

// Controller returns the hosted controller.
func (g *Game) Controller() *Controller {
	return g.ctrl
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if !g.ctrl.Initialized() {
		// Errors are logged by the controller; a zero-size window retries
		// on the next resize.
		_ = g.ctrl.Init(g.container)
	}
	if g.script != nil {
		g.script.Step(g)
		if g.exit && g.script.Done() && !g.shots.pending() {
			return ebiten.Termination
		}
	}
	g.keys.Update(g.ctrl)
	return nil
}

// Draw implements ebiten.Game. The frame is simulated here so the loop
// runs at the display's frame rate.
func (g *Game) Draw(screen *ebiten.Image) {
	g.ctrl.Tick()
	if s, ok := g.ctrl.Surface().(*EbitenSurface); ok && g.ctrl.Active() {
		screen.DrawImage(s.Image(), nil)
	}
	if g.shots.pending() {
		g.shots.flush(captureImage(screen))
	}
}

// Layout implements ebiten.Game. The canvas always matches the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.container.SetSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// SetPaused implements ScriptHost.
func (g *Game) SetPaused(paused bool) {
	g.ctrl.Engine().SetPaused(paused)
}

// ToggleDebug implements ScriptHost.
func (g *Game) ToggleDebug() {
	g.ctrl.ToggleDebug()
}

// Resize implements ScriptHost by resizing the window.
func (g *Game) Resize(w, h int) {
	ebiten.SetWindowSize(w, h)
}

// InjectKey implements ScriptHost.
func (g *Game) InjectKey(key ebiten.Key) {
	g.keys.InjectKey(key)
}

// PendingKeys implements ScriptHost.
func (g *Game) PendingKeys() int {
	return g.keys.PendingKeys()
}

// Screenshot implements ScriptHost. The PNG is written after the current
// frame is drawn.
func (g *Game) Screenshot(label string) {
	g.shots.push(label)
}

// Run opens a window titled title and blocks until it closes.
func (g *Game) Run(title string, w, h int) error {
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer g.ctrl.Destroy()
	return ebiten.RunGame(g)
}
