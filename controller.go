package stellar

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ListenerID identifies a registered resize listener.
type ListenerID int

// Container is the host element a Controller mounts its surface into.
type Container interface {
	// Size returns the current layout size in pixels.
	Size() (width, height int)
	// Attach mounts s so it fills the container.
	Attach(s Surface)
	// Detach unmounts a surface previously passed to Attach.
	Detach(s Surface)
	// AddResizeListener registers fn to be called after every resize.
	AddResizeListener(fn func(width, height int)) ListenerID
	// RemoveResizeListener unregisters a listener.
	RemoveResizeListener(id ListenerID)
}

// SurfaceFactory creates a drawing surface of exactly w×h pixels.
type SurfaceFactory func(w, h int) (Surface, error)

// Controller binds an Engine to a host Container and exposes the host
// lifecycle: Init, Activate, Deactivate, Destroy, pause and debug
// toggles, and Tick. Misuse such as activating twice is a no-op.
type Controller struct {
	id      string
	engine  *Engine
	factory SurfaceFactory

	container   Container
	surface     Surface
	listener    ListenerID
	listening   bool
	initialized bool
	active      bool
}

// NewController creates a controller for cfg. Surfaces are created with
// factory whenever the container is sized or resized.
func NewController(cfg Config, factory SurfaceFactory, opts EngineOptions) (*Controller, error) {
	if factory == nil {
		return nil, errors.New("stellar: nil surface factory")
	}
	e, err := NewEngine(cfg, opts)
	if err != nil {
		return nil, err
	}
	return &Controller{
		id:      uuid.NewString(),
		engine:  e,
		factory: factory,
	}, nil
}

// ID returns the controller's unique instance ID.
func (c *Controller) ID() string {
	return c.id
}

// Engine returns the underlying engine.
func (c *Controller) Engine() *Engine {
	return c.engine
}

// Surface returns the current drawing surface, or nil before activation.
func (c *Controller) Surface() Surface {
	return c.surface
}

// Active reports whether the render loop is running.
func (c *Controller) Active() bool {
	return c.active
}

// Initialized reports whether Init has run since the last Destroy.
func (c *Controller) Initialized() bool {
	return c.initialized
}

func (c *Controller) log() *log.Logger {
	return logger().With("controller", c.id[:8])
}

// Init mounts the controller into container and activates it. Calling Init
// again before Destroy does nothing.
func (c *Controller) Init(container Container) error {
	if c.initialized {
		return nil
	}
	if container == nil {
		return fmt.Errorf("%w: nil container", ErrNotInitialized)
	}
	c.container = container
	c.initialized = true
	c.listen()
	return c.Activate()
}

func (c *Controller) listen() {
	if c.listening {
		return
	}
	c.listener = c.container.AddResizeListener(c.onResize)
	c.listening = true
}

// Activate sizes the surface, lays out the text and starts a fresh
// sequence. A zero-area container aborts activation with ErrZeroArea.
func (c *Controller) Activate() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.active {
		return nil
	}
	w, h := c.container.Size()
	if w <= 0 || h <= 0 {
		err := fmt.Errorf("%w: container is %dx%d", ErrZeroArea, w, h)
		c.log().Error("activation aborted", "err", err)
		c.engine.debug.addError(err.Error())
		return err
	}
	if err := c.mount(w, h); err != nil {
		c.log().Error("activation aborted", "err", err)
		return err
	}
	if err := c.engine.Start(c.surface); err != nil {
		c.log().Error("activation aborted", "err", err)
		return err
	}
	c.listen()
	c.active = true
	c.log().Info("activated", "width", w, "height", h, "particles", len(c.engine.Particles()))
	return nil
}

// mount replaces the surface unless the current one already has size w×h.
func (c *Controller) mount(w, h int) error {
	if c.surface != nil {
		if sw, sh := c.surface.Size(); sw == w && sh == h {
			return nil
		}
	}
	s, err := c.factory(w, h)
	if err != nil {
		return fmt.Errorf("stellar: failed to create surface: %w", err)
	}
	if c.surface != nil {
		c.container.Detach(c.surface)
	}
	c.surface = s
	c.container.Attach(s)
	return nil
}

// Deactivate stops the loop, releases every particle, line and flare, and
// removes the resize listener. It is safe to call repeatedly.
func (c *Controller) Deactivate() {
	if c.listening {
		c.container.RemoveResizeListener(c.listener)
		c.listening = false
	}
	if !c.active {
		return
	}
	c.engine.Stop()
	c.active = false
	c.log().Info("deactivated")
}

// Destroy deactivates, detaches the surface and resets the controller so
// Init can run again.
func (c *Controller) Destroy() {
	if !c.initialized {
		return
	}
	c.Deactivate()
	if c.surface != nil {
		c.container.Detach(c.surface)
		c.surface = nil
	}
	c.container = nil
	c.initialized = false
	c.log().Info("destroyed")
}

// onResize regenerates the surface, particles and lines. An inactive
// controller that is still listening, typically one whose container had
// no area at Init, retries activation instead.
func (c *Controller) onResize(w, h int) {
	if !c.initialized {
		return
	}
	if !c.active {
		_ = c.Activate()
		return
	}
	if w <= 0 || h <= 0 {
		c.log().Error("resize ignored", "err", fmt.Errorf("%w: container is %dx%d", ErrZeroArea, w, h))
		return
	}
	if err := c.mount(w, h); err != nil {
		c.log().Error("resize failed", "err", err)
		return
	}
	if err := c.engine.Resize(c.surface); err != nil {
		c.log().Error("resize failed", "err", err)
		return
	}
	c.log().Info("resized", "width", w, "height", h, "particles", len(c.engine.Particles()))
}

// TogglePause flips the paused state. Resuming shifts the phase clock by
// the pause duration.
func (c *Controller) TogglePause() {
	c.engine.TogglePause()
}

// ToggleDebug flips the debug overlay.
func (c *Controller) ToggleDebug() {
	c.engine.ToggleDebug()
}

// Tick runs one frame. It does nothing while inactive.
func (c *Controller) Tick() {
	if !c.active {
		return
	}
	c.engine.Tick()
}

// Telemetry returns a snapshot of the engine state.
func (c *Controller) Telemetry() Telemetry {
	return c.engine.Telemetry()
}
