package stellar

import (
	"errors"
	"testing"
	"time"
)

// memContainer is a Container that counts listener registrations.
type memContainer struct {
	w, h      int
	attached  []Surface
	detached  int
	adds      int
	removes   int
	listeners map[ListenerID]func(w, h int)
	next      ListenerID
}

func newMemContainer(w, h int) *memContainer {
	return &memContainer{w: w, h: h, listeners: make(map[ListenerID]func(w, h int))}
}

func (m *memContainer) Size() (int, int) { return m.w, m.h }

func (m *memContainer) Attach(s Surface) { m.attached = append(m.attached, s) }

func (m *memContainer) Detach(Surface) { m.detached++ }

func (m *memContainer) AddResizeListener(fn func(w, h int)) ListenerID {
	m.adds++
	m.next++
	m.listeners[m.next] = fn
	return m.next
}

func (m *memContainer) RemoveResizeListener(id ListenerID) {
	m.removes++
	delete(m.listeners, id)
}

func (m *memContainer) resize(w, h int) {
	m.w, m.h = w, h
	for _, fn := range m.listeners {
		fn(w, h)
	}
}

func recordingFactory(w, h int) (Surface, error) {
	return NewRecordingSurface(w, h), nil
}

func newTestController(t *testing.T) (*Controller, *ManualClock) {
	t.Helper()
	clock := NewManualClock(time.Time{})
	c, err := NewController(engineConfig(), recordingFactory, EngineOptions{Clock: clock})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Destroy)
	return c, clock
}

func TestNewControllerNilFactory(t *testing.T) {
	if _, err := NewController(DefaultConfig(), nil, EngineOptions{}); err == nil {
		t.Error("expected error for nil factory")
	}
}

func TestControllerIDsUnique(t *testing.T) {
	a, _ := newTestController(t)
	b, _ := newTestController(t)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("ids %q and %q", a.ID(), b.ID())
	}
}

func TestControllerInit(t *testing.T) {
	c, _ := newTestController(t)
	m := newMemContainer(320, 200)
	if err := c.Init(m); err != nil {
		t.Fatal(err)
	}
	if !c.Active() || !c.Initialized() {
		t.Fatal("controller not active after Init")
	}
	if len(m.attached) != 1 || m.attached[0] != c.Surface() {
		t.Error("surface not attached")
	}
	if w, h := c.Surface().Size(); w != 320 || h != 200 {
		t.Errorf("surface = %dx%d", w, h)
	}
	// Repeated calls are no-ops.
	if err := c.Init(m); err != nil || m.adds != 1 {
		t.Errorf("second Init: err=%v adds=%d", err, m.adds)
	}
	if err := c.Activate(); err != nil || len(m.attached) != 1 {
		t.Errorf("second Activate: err=%v attached=%d", err, len(m.attached))
	}
}

func TestControllerDeactivateTwice(t *testing.T) {
	c, _ := newTestController(t)
	m := newMemContainer(320, 200)
	if err := c.Init(m); err != nil {
		t.Fatal(err)
	}
	c.Deactivate()
	c.Deactivate()
	if m.adds != 1 || m.removes != 1 {
		t.Errorf("adds = %d removes = %d, want 1 and 1", m.adds, m.removes)
	}
	if c.Active() || c.Engine().Active() || c.Engine().Particles() != nil {
		t.Error("deactivated controller kept running")
	}
}

func TestControllerActivateBeforeInit(t *testing.T) {
	c, _ := newTestController(t)
	if err := c.Activate(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want ErrNotInitialized", err)
	}
	if err := c.Init(nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Init(nil) = %v", err)
	}
	c.Tick()
	c.Deactivate()
}

func TestControllerZeroAreaThenResize(t *testing.T) {
	c, _ := newTestController(t)
	m := newMemContainer(0, 0)
	err := c.Init(m)
	if !errors.Is(err, ErrZeroArea) {
		t.Fatalf("Init = %v, want ErrZeroArea", err)
	}
	if c.Active() || c.Surface() != nil {
		t.Error("zero-area container activated")
	}
	if tel := c.Telemetry(); tel.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", tel.ErrorCount)
	}
	// The listener stays registered and activates once there is room.
	m.resize(240, 160)
	if !c.Active() {
		t.Fatal("resize did not activate")
	}
	if len(c.Engine().Particles()) == 0 {
		t.Error("no particles after late activation")
	}
	if m.adds != 1 {
		t.Errorf("adds = %d, want 1", m.adds)
	}
}

func TestControllerResize(t *testing.T) {
	c, clock := newTestController(t)
	m := newMemContainer(240, 160)
	if err := c.Init(m); err != nil {
		t.Fatal(err)
	}
	first := c.Surface()
	before := len(c.Engine().Particles())

	m.resize(640, 400)
	if c.Surface() == first {
		t.Fatal("surface not replaced")
	}
	if w, h := c.Surface().Size(); w != 640 || h != 400 {
		t.Errorf("surface = %dx%d", w, h)
	}
	if m.detached != 1 || len(m.attached) != 2 {
		t.Errorf("detached = %d attached = %d", m.detached, len(m.attached))
	}
	if after := len(c.Engine().Particles()); after <= before {
		t.Errorf("particles %d -> %d, want more on a larger canvas", before, after)
	}

	// Zero-size resizes are ignored.
	m.resize(0, 400)
	if !c.Active() || c.Surface().(*RecordingSurface).W != 640 {
		t.Error("zero-size resize changed the controller")
	}

	clock.Advance(16 * time.Millisecond)
	c.Tick()
	if rs := c.Surface().(*RecordingSurface); rs.Count(OpClear) != 1 {
		t.Errorf("clears = %d", rs.Count(OpClear))
	}
}

func TestControllerDestroyAndReinit(t *testing.T) {
	c, _ := newTestController(t)
	m := newMemContainer(240, 160)
	if err := c.Init(m); err != nil {
		t.Fatal(err)
	}
	c.Destroy()
	if c.Initialized() || c.Active() || c.Surface() != nil {
		t.Error("Destroy kept state")
	}
	if m.detached != 1 || len(m.listeners) != 0 {
		t.Errorf("detached = %d listeners = %d", m.detached, len(m.listeners))
	}
	c.Destroy()

	if err := c.Init(m); err != nil {
		t.Fatal(err)
	}
	if !c.Active() || m.adds != 2 {
		t.Errorf("reinit: active=%v adds=%d", c.Active(), m.adds)
	}
}

func TestControllerReactivate(t *testing.T) {
	c, _ := newTestController(t)
	m := newMemContainer(240, 160)
	if err := c.Init(m); err != nil {
		t.Fatal(err)
	}
	c.Deactivate()
	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	if !c.Active() || len(m.listeners) != 1 {
		t.Errorf("active=%v listeners=%d", c.Active(), len(m.listeners))
	}
}

func TestControllerToggles(t *testing.T) {
	c, _ := newTestController(t)
	if err := c.Init(newMemContainer(240, 160)); err != nil {
		t.Fatal(err)
	}
	c.TogglePause()
	c.ToggleDebug()
	tel := c.Telemetry()
	if !tel.Paused || !c.Engine().DebugEnabled() {
		t.Errorf("paused=%v debug=%v", tel.Paused, c.Engine().DebugEnabled())
	}
	c.TogglePause()
	if c.Telemetry().Paused {
		t.Error("still paused")
	}
}
