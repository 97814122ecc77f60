package stellar

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"
)

// ErrNotInitialized is returned by operations that need a started engine.
var ErrNotInitialized = errors.New("stellar: not initialized")

// maxFrameDelta caps the simulated step after a stall.
const maxFrameDelta = 100 * time.Millisecond

// EngineOptions configures NewEngine.
type EngineOptions struct {
	// Clock defaults to SystemClock.
	Clock Clock
	// Observer defaults to NopObserver.
	Observer Observer
	// FontData is a TTF/OTF font. Nil loads Config.Glyph.FontPath, or Go
	// Regular when that is empty.
	FontData []byte
	// Formations overrides the default WordFormations resolver built from
	// Config.Formations.
	Formations FormationResolver
}

// Engine is the per-frame simulation and render loop. It is driven by the
// host calling Tick once per frame and is not safe for concurrent use.
type Engine struct {
	cfg   Config
	pal   palette
	clock Clock
	obs   Observer

	raster   *GlyphRasterizer
	layouter *Layouter

	surface Surface
	layout  *Layout
	motion  *Motion
	phases  *PhaseManager
	flares  *FlarePool
	rng     *rand.Rand
	style   LineStyle

	debug   *debugOverlay
	fps     fpsMeter
	visible *fader

	active   bool
	lastTick time.Time
	simTime  float64 // oscillation clock in seconds, excludes pauses
	phase    Phase
	progress float64
	global   float64
	calls    int
}

// NewEngine validates cfg and prepares an engine. The engine does nothing
// until Start.
func NewEngine(cfg Config, opts EngineOptions) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pal, err := cfg.Palette.resolve()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}

	fontData := opts.FontData
	if fontData == nil && cfg.Glyph.FontPath != "" {
		fontData, err = os.ReadFile(cfg.Glyph.FontPath)
		if err != nil {
			return nil, fmt.Errorf("stellar: failed to read font: %w", err)
		}
	}
	raster, err := NewGlyphRasterizer(fontData, cfg.Glyph.Step, cfg.Glyph.Threshold)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:   cfg,
		pal:   pal,
		clock: opts.Clock,
		obs:   opts.Observer,
		debug: newDebugOverlay(cfg.Debug),
	}
	formations := opts.Formations
	if formations == nil && len(cfg.Formations) > 0 {
		formations = &WordFormations{Words: cfg.Formations, Raster: raster, Glyph: cfg.Glyph}
	}
	e.raster = raster
	e.layouter = NewLayouter(&e.cfg, raster, formations)
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Start lays out the text for s and begins a fresh sequence.
func (e *Engine) Start(s Surface) error {
	if err := e.regenerate(s); err != nil {
		return err
	}
	e.phases = NewPhaseManager(PhaseManagerOptions{
		Phases:   e.cfg.Phases,
		Loop:     e.cfg.Loop,
		Grace:    time.Duration(e.cfg.CompleteDelayMS) * time.Millisecond,
		Clock:    e.clock,
		Observer: e.obs,
	})
	e.phase, e.progress = e.phases.Phase(), 0
	e.flares = NewFlarePool(e.cfg.Flare, e.rng, e.pal.flareFrom, e.pal.flareTo)
	e.visible = newFader(0, 1, 0.6, easeOutQuad)
	e.fps.reset()
	e.simTime = 0
	e.lastTick = e.clock.Now()
	e.active = true
	return nil
}

// Resize rebuilds particles and lines from scratch for the new surface.
// Phase timing carries on unchanged. While paused the new particles are
// placed at the frozen phase and progress so the paused frame stays intact.
func (e *Engine) Resize(s Surface) error {
	if !e.active {
		return ErrNotInitialized
	}
	if err := e.regenerate(s); err != nil {
		return err
	}
	e.flares = NewFlarePool(e.cfg.Flare, e.rng, e.pal.flareFrom, e.pal.flareTo)
	if e.Paused() {
		e.updateParticles()
	}
	return nil
}

func (e *Engine) regenerate(s Surface) error {
	w, h := s.Size()
	layout, err := e.layouter.Layout(w, h)
	if err != nil {
		return err
	}
	for _, msg := range layout.Warnings {
		e.warn(msg)
	}
	if len(layout.Particles) == 0 {
		e.warn(fmt.Sprintf("layout of %q produced no particles", e.cfg.Text))
	}
	e.surface = s
	e.layout = layout
	e.motion = NewMotion(e.cfg.Particle, w, h)
	e.rng = rand.New(rand.NewPCG(e.cfg.Seed, 0x5eed))
	e.style = LineStyle{
		LineConfig:  e.cfg.Line,
		Color:       toColor(e.pal.line),
		FadeStart:   e.cfg.Particle.DriftStart,
		SettleStart: settleStart(e.cfg.Particle.Breathing),
	}
	logger().Debug("layout", "width", w, "height", h, "fontSize", layout.FontSize,
		"particles", len(layout.Particles), "lines", len(layout.Lines))
	return nil
}

// settleStart returns the Breathing progress where the last settle step
// begins, or 1 when there is none.
func settleStart(steps []BreathStep) float64 {
	start := 0.0
	found := 1.0
	for _, s := range steps {
		if s.Kind == StepSettle {
			found = start
		}
		start = s.End
	}
	return found
}

// Stop halts the loop and releases every particle, line and flare.
func (e *Engine) Stop() {
	e.active = false
	e.layout = nil
	e.flares = nil
	e.surface = nil
	e.motion = nil
}

// Close stops the engine and releases font resources.
func (e *Engine) Close() error {
	e.Stop()
	return e.raster.Close()
}

// Active reports whether the loop is running.
func (e *Engine) Active() bool {
	return e.active
}

// Paused reports whether phase time is frozen.
func (e *Engine) Paused() bool {
	return e.phases != nil && e.phases.Paused()
}

// SetPaused pauses or resumes the sequence.
func (e *Engine) SetPaused(paused bool) {
	if e.phases == nil || paused == e.phases.Paused() {
		return
	}
	if paused {
		e.phases.Pause()
		logger().Info("paused", "phase", e.phase, "progress", e.progress)
		return
	}
	d := e.phases.Resume()
	e.lastTick = e.clock.Now()
	logger().Info("resumed", "phase", e.phase, "pause", d)
}

// TogglePause flips the paused state.
func (e *Engine) TogglePause() {
	e.SetPaused(!e.Paused())
}

// DebugEnabled reports whether the overlay is drawn.
func (e *Engine) DebugEnabled() bool {
	return e.debug.enabled
}

// SetDebug shows or hides the overlay.
func (e *Engine) SetDebug(on bool) {
	e.debug.enabled = on
}

// ToggleDebug flips the overlay.
func (e *Engine) ToggleDebug() {
	e.debug.enabled = !e.debug.enabled
}

// Particles returns the live particle slice. Callers must not retain it
// across a resize.
func (e *Engine) Particles() []Particle {
	if e.layout == nil {
		return nil
	}
	return e.layout.Particles
}

// Lines returns the live line slice.
func (e *Engine) Lines() []ConstellationLine {
	if e.layout == nil {
		return nil
	}
	return e.layout.Lines
}

// Phase returns the phase and progress rendered by the last Tick.
func (e *Engine) Phase() (Phase, float64) {
	return e.phase, e.progress
}

// Telemetry returns a snapshot of the engine state.
func (e *Engine) Telemetry() Telemetry {
	t := Telemetry{
		FPS:       e.fps.FPS(),
		Phase:     e.phase,
		Progress:  e.progress,
		DrawCalls: e.calls,
		Paused:    e.Paused(),
		Active:    e.active,
	}
	if e.phases != nil {
		t.Pass = e.phases.Pass()
	}
	if e.layout != nil {
		t.Particles = len(e.layout.Particles)
		t.Lines = len(e.layout.Lines)
	}
	if e.flares != nil {
		t.Flares = e.flares.AliveCount()
	}
	e.debug.fill(&t)
	return t
}

// Tick runs one frame: advance, update and draw. It does nothing while
// the engine is inactive and never returns an error or panics because of
// a single entity.
func (e *Engine) Tick() {
	if !e.active || e.surface == nil {
		return
	}
	now := e.clock.Now()
	dt := now.Sub(e.lastTick)
	e.lastTick = now
	dt = min(max(dt, 0), maxFrameDelta)
	secs := dt.Seconds()
	e.fps.tick(secs)

	s := e.surface
	s.Clear(toColor(e.pal.background))
	e.calls = 1

	paused := e.phases.Paused()
	if !paused {
		e.simTime += secs
		e.phase, e.progress = e.phases.Update()
		e.global = envelope(e.cfg.Envelope, e.phase, e.progress) * e.visible.Update(secs)
	}

	e.drawParticles(s, !paused)
	if !paused {
		e.flares.Update(secs, e.failer("flare.update"))
	}
	e.calls += e.flares.Draw(s, e.global, e.failer("flare.draw"))
	e.drawLines(s)
	if !paused {
		e.spawnFlares(secs)
	}

	if e.debug.enabled {
		t := e.Telemetry()
		e.calls += e.debug.draw(s, now, &t)
	}
}

// updateParticle moves particle i to the current phase state.
func (e *Engine) updateParticle(i int) bool {
	p := &e.layout.Particles[i]
	err := protect(func() error {
		return p.Update(e.motion, e.phase, e.progress, e.simTime)
	})
	if err != nil {
		e.fail("particle.update", i, err)
		return false
	}
	return true
}

func (e *Engine) updateParticles() {
	for i := range e.layout.Particles {
		e.updateParticle(i)
	}
}

func (e *Engine) drawParticles(s Surface, advance bool) {
	particles := e.layout.Particles
	for i := range particles {
		p := &particles[i]
		if advance && !e.updateParticle(i) {
			continue
		}
		err := protect(func() error {
			e.calls += p.Draw(s, e.particleColor(p), e.global)
			return nil
		})
		if err != nil {
			e.fail("particle.draw", i, err)
		}
	}
}

func (e *Engine) drawLines(s Surface) {
	e.style.Global = e.global
	e.style.Clock = e.simTime
	lines := e.layout.Lines
	for i := range lines {
		l := &lines[i]
		err := protect(func() error {
			e.calls += l.Draw(s, e.layout.Particles, &e.style, e.phase, e.progress)
			return nil
		})
		if err != nil {
			e.fail("line.draw", i, err)
		}
	}
}

func (e *Engine) particleColor(p *Particle) Color {
	switch {
	case p.Special:
		return toColor(e.pal.special)
	case p.Emphasized:
		return toColor(e.pal.emphasis)
	default:
		return toColor(e.pal.particle)
	}
}

// flaring reports whether the current phase window is explosive.
func (e *Engine) flaring() bool {
	switch e.phase {
	case PhaseMaterialization:
		return e.progress < e.cfg.Particle.ExplodeEnd
	case PhaseBreathing:
		start := 0.0
		for _, st := range e.cfg.Particle.Breathing {
			if e.progress <= st.End {
				return st.Kind == StepExplode && e.progress >= start
			}
			start = st.End
		}
	case PhaseDissolution:
		return e.progress < 0.5
	}
	return false
}

// spawnFlares advances every particle's cooldown by dt and rolls for new
// flares from the ones that are ready.
func (e *Engine) spawnFlares(dt float64) {
	flaring := e.flaring()
	cooldown := float64(e.cfg.Flare.CooldownMS) / 1000
	chance := e.cfg.Flare.Chance * dt
	particles := e.layout.Particles
	full := false
	for i := range particles {
		p := &particles[i]
		p.sinceFlare += dt
		if full || !flaring || p.sinceFlare < cooldown || p.Opacity <= 0 {
			continue
		}
		if e.rng.Float64() >= chance {
			continue
		}
		p.sinceFlare = 0
		full = !e.flares.Spawn(p.Pos(), p.Explosion)
	}
}

// failer adapts fail for entity pools.
func (e *Engine) failer(loc string) func(int, error) {
	return func(i int, err error) { e.fail(loc, i, err) }
}

// fail records a per-entity failure without interrupting the frame.
func (e *Engine) fail(loc string, index int, err error) {
	logger().Error("entity failed", "loc", loc, "index", index, "phase", e.phase, "err", err)
	e.debug.addError(fmt.Sprintf("%s[%d]: %v", loc, index, err))
}

func (e *Engine) warn(msg string) {
	logger().Warn(msg)
	e.debug.addWarning(msg)
}

// envelope is the scene-wide opacity: a fade in over the start of
// Materialization and a fade out over the end of Dissolution.
func envelope(cfg EnvelopeConfig, phase Phase, progress float64) float64 {
	switch phase {
	case PhaseMaterialization:
		if cfg.FadeIn <= 0 {
			return 1
		}
		return easeNorm(easeInOutSine, progress/cfg.FadeIn)
	case PhaseDissolution:
		if cfg.FadeOut <= 0 {
			return 1
		}
		return 1 - easeNorm(easeInQuad, window(progress, 1-cfg.FadeOut, 1))
	case PhaseComplete:
		return 0
	}
	return 1
}
