package stellar

import (
	"errors"
	"fmt"
	"math"
)

// maxFormations bounds the number of alternate formations a particle can
// carry targets for.
const maxFormations = 4

// referenceSide is the canvas side length at which ParticleConfig radii
// are expressed.
const referenceSide = 600.0

// ErrNonFinite is returned when an update would produce NaN or infinite
// coordinates. The particle keeps its previous state.
var ErrNonFinite = errors.New("stellar: non-finite particle state")

// Particle is one animated point standing in for a sampled pixel of a
// glyph. Position, opacity and size are rewritten every frame by Update;
// every other field is fixed at creation.
type Particle struct {
	X, Y    float64
	Opacity float64
	Size    float64

	// Origin is the burst point used during Materialization.
	Origin Vec2
	// Target is the particle's place in the laid-out text.
	Target Vec2
	// Explosion is a fixed unit direction for outward bursts.
	Explosion Vec2

	BaseSize   float64
	Emphasized bool
	Special    bool

	Char  rune
	Word  string
	Glyph int // index of the laid-out glyph this particle samples

	alt    [maxFormations]Vec2
	altSet [maxFormations]bool
	seed   float64 // per-particle oscillation offset

	sinceFlare float64
}

// SetAlt assigns the particle's target within formation i.
func (p *Particle) SetAlt(i int, v Vec2) {
	if i < 0 || i >= maxFormations {
		return
	}
	p.alt[i] = v
	p.altSet[i] = true
}

// Alt returns the particle's target within formation i. Particles that do
// not take part in the formation fall back to their primary target and
// report false.
func (p *Particle) Alt(i int) (Vec2, bool) {
	if i < 0 || i >= maxFormations || !p.altSet[i] {
		return p.Target, false
	}
	return p.alt[i], true
}

// Pos returns the current position.
func (p *Particle) Pos() Vec2 {
	return Vec2{p.X, p.Y}
}

// Label identifies the particle in logs and the debug panel.
func (p *Particle) Label() string {
	if p.Word != "" {
		return fmt.Sprintf("%q in %q (glyph %d)", p.Char, p.Word, p.Glyph)
	}
	return fmt.Sprintf("%q (glyph %d)", p.Char, p.Glyph)
}

// Motion carries the canvas-dependent parameters shared by every particle
// for one layout. It is rebuilt whenever the canvas is resized.
type Motion struct {
	ParticleConfig
	// Scale converts reference radii into canvas pixels.
	Scale  float64
	Center Vec2
	// Orbit is the swirl radius in pixels.
	Orbit float64
}

// NewMotion derives a Motion for a w×h canvas.
func NewMotion(cfg ParticleConfig, w, h int) *Motion {
	side := math.Min(float64(w), float64(h))
	return &Motion{
		ParticleConfig: cfg,
		Scale:          side / referenceSide,
		Center:         Vec2{float64(w) / 2, float64(h) / 2},
		Orbit:          side * cfg.OrbitRadius,
	}
}

// Update moves the particle for the given phase and progress in [0,1].
// clock is a slow time base in seconds that drives shimmer and pulse.
// The result depends only on the arguments and the particle's fixed fields.
func (p *Particle) Update(m *Motion, phase Phase, progress, clock float64) error {
	progress = clamp01(progress)
	prevX, prevY, prevO, prevS := p.X, p.Y, p.Opacity, p.Size

	var pos Vec2
	var opacity, size float64
	switch phase {
	case PhaseMaterialization:
		pos, opacity, size = p.materialize(m, progress)
	case PhaseConstellation:
		pos, opacity, size = p.constellate(m, progress, clock)
	case PhaseBreathing:
		pos, opacity, size = p.breathe(m, progress)
	case PhaseDissolution:
		pos, opacity, size = p.dissolve(m, progress)
	default:
		pos, opacity, size = p.dissolve(m, 1)
	}

	// Slow pulse shared by every phase.
	size *= 1 + 0.08*math.Sin(clock*1.3+p.seed)

	if !pos.finite() || math.IsNaN(opacity) || math.IsNaN(size) {
		p.X, p.Y, p.Opacity, p.Size = prevX, prevY, prevO, prevS
		return fmt.Errorf("%w: %s in %s at %.3f", ErrNonFinite, p.Label(), phase, progress)
	}

	p.X, p.Y = pos.X, pos.Y
	p.Opacity = clamp01(opacity)
	p.Size = math.Max(size, minParticleSize)
	return nil
}

// minParticleSize keeps every particle drawable.
const minParticleSize = 0.1

func (p *Particle) materialize(m *Motion, progress float64) (Vec2, float64, float64) {
	burst := p.Origin.Add(p.Explosion.Scale(m.ExplodeRadius * m.Scale))
	if progress < m.ExplodeEnd {
		t := progress / m.ExplodeEnd
		pos := p.Origin.Lerp(burst, easeNorm(easeOutQuad, t))
		return pos, 0.5 * t, p.BaseSize * (0.5 + 0.25*t)
	}
	t := window(progress, m.ExplodeEnd, 1)
	pos := burst.Lerp(p.Target, easeNorm(easeOutCubic, t))
	return pos, 0.5 + 0.5*t, p.BaseSize * (0.75 + 0.25*t)
}

// constellationEnd is where Constellation leaves the particle, and so
// where Breathing picks it up.
func (p *Particle) constellationEnd(m *Motion) Vec2 {
	return p.Target.Add(p.Explosion.Scale(m.DriftRadius * m.Scale))
}

func (p *Particle) constellate(m *Motion, progress, clock float64) (Vec2, float64, float64) {
	drift := easeNorm(easeInOutSine, window(progress, m.DriftStart, 1))
	// Shimmer ramps in over the first 5% and out while drifting so both
	// phase boundaries stay continuous.
	amp := m.ShimmerAmplitude * math.Min(1, progress/0.05) * (1 - drift)
	jx := math.Sin(clock*1.7+p.Target.Y*0.05+p.seed) + 0.5*math.Sin(clock*2.9+p.Target.X*0.031)
	jy := math.Cos(clock*1.3+p.Target.X*0.05+p.seed) + 0.5*math.Sin(clock*2.3+p.Target.Y*0.027)
	pos := p.Target.
		Add(Vec2{jx, jy}.Scale(amp / 1.5)).
		Add(p.Explosion.Scale(m.DriftRadius * m.Scale * drift))
	return pos, 1, p.BaseSize
}

// keyframe returns where step leaves the particle, and whether the
// particle takes part in the step's formation.
func (p *Particle) keyframe(m *Motion, s BreathStep) (Vec2, bool) {
	switch s.Kind {
	case StepExplode:
		return p.Target.Add(p.Explosion.Scale(m.BurstRadius * m.Scale)), true
	case StepReform:
		if v, ok := p.Alt(s.Formation); ok {
			return v, true
		}
		return p.orbitPoint(m, 0), false
	default:
		return p.Target, true
	}
}

// orbitPoint returns the point on the swirl circle at the particle's base
// angle advanced by turn revolutions.
func (p *Particle) orbitPoint(m *Motion, turn float64) Vec2 {
	a := math.Atan2(p.Explosion.Y, p.Explosion.X) + turn*2*math.Pi
	return m.Center.Add(Vec2{math.Cos(a), math.Sin(a)}.Scale(m.Orbit))
}

func (p *Particle) breathe(m *Motion, progress float64) (Vec2, float64, float64) {
	from := p.constellationEnd(m)
	if len(m.Breathing) == 0 {
		return from.Lerp(p.Target, easeNorm(easeInOutSine, progress)), 1, p.BaseSize
	}

	start := 0.0
	for i, s := range m.Breathing {
		to, member := p.keyframe(m, s)
		if progress > s.End && i < len(m.Breathing)-1 {
			from, start = to, s.End
			continue
		}
		t := window(progress, start, s.End)
		bump := math.Sin(math.Pi * t) // zero at both ends of the step
		switch s.Kind {
		case StepExplode:
			pos := from.Lerp(to, easeNorm(easeOutCubic, t))
			return pos, 1 - 0.35*bump, p.BaseSize * (1 + 0.35*bump)
		case StepReform:
			pos := from.Lerp(to, easeNorm(easeInOutCubic, t))
			if !member {
				turns := float64(m.OrbitTurns)
				pos = pos.Add(p.orbitPoint(m, turns*t).Sub(p.orbitPoint(m, 0)))
				return pos, 1 - 0.55*bump, p.BaseSize * (1 - 0.3*bump)
			}
			return pos, 1, p.BaseSize * (1 + 0.35*bump)
		default:
			pos := from.Lerp(to, easeNorm(easeInOutSine, t))
			return pos, 1 - 0.2*bump, p.BaseSize
		}
	}
	return from, 1, p.BaseSize
}

func (p *Particle) dissolve(m *Motion, progress float64) (Vec2, float64, float64) {
	angle := math.Atan2(p.Explosion.Y, p.Explosion.X) + progress*math.Pi
	radius := progress * progress * m.DissolveRadius * m.Scale
	pos := p.Target.Add(Vec2{math.Cos(angle), math.Sin(angle)}.Scale(radius))
	return pos, 1 - progress*progress, p.BaseSize * (1 - 0.5*progress)
}

// Draw renders the particle and returns the number of draw calls issued.
func (p *Particle) Draw(s Surface, c Color, global float64) int {
	a := p.Opacity * global
	if a <= 0 {
		return 0
	}
	calls := 0
	if p.Emphasized || p.Special {
		s.FillCircle(p.Pos(), p.Size*2.6, c.WithAlpha(a*0.18))
		calls++
	}
	s.FillCircle(p.Pos(), p.Size, c.WithAlpha(a))
	return calls + 1
}
