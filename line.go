package stellar

import "math"

// LineKind separates key-word lines from the small in-glyph lines.
type LineKind uint8

const (
	LinePrimary LineKind = iota // joins consecutive characters of a key word
	LineMini                    // joins sample points inside one emphasized glyph
)

// ConstellationLine is a curved connector between two particles. Start and
// End index the live particle slice; lines never own particles and are
// rebuilt whenever particles are.
type ConstellationLine struct {
	Start, End int
	Kind       LineKind
	// Bend offsets the control point along the perpendicular of the chord,
	// as a fraction of chord length. Fixed at creation.
	Bend float64
	// Delay staggers the reveal, in phase-progress units.
	Delay float64
	// Seed offsets the pulse and the traveling marker.
	Seed float64

	Opacity float64
	Reveal  float64
}

// LineStyle bundles the per-frame inputs shared by every line.
type LineStyle struct {
	LineConfig
	Color Color
	// Global is the scene opacity envelope.
	Global float64
	// Clock is the slow time base in seconds.
	Clock float64
	// FadeStart is the Constellation progress where primary lines fade
	// out ahead of Breathing.
	FadeStart float64
	// SettleStart is the Breathing progress where mini lines draw in.
	SettleStart float64
}

// update computes reveal progress and opacity for the phase.
func (l *ConstellationLine) update(st *LineStyle, phase Phase, progress float64) {
	l.Reveal, l.Opacity = 0, 0
	switch l.Kind {
	case LinePrimary:
		if phase != PhaseConstellation {
			return
		}
		l.Reveal = window(progress, st.RevealStart+l.Delay, st.RevealEnd+l.Delay)
		fade := window(progress, st.FadeStart, 1)
		l.Opacity = math.Min(1, l.Reveal*3) * (1 - fade)
	case LineMini:
		switch phase {
		case PhaseBreathing:
			l.Reveal = window(progress, st.SettleStart+l.Delay*0.5, 1)
			l.Opacity = 0.6 * math.Min(1, l.Reveal*2)
		case PhaseDissolution:
			l.Reveal = 1
			l.Opacity = 0.6 * (1 - window(progress, 0, 0.3))
		}
	}
}

// control returns the curve's control point for the current endpoints.
func (l *ConstellationLine) control(p0, p1 Vec2) Vec2 {
	d := p1.Sub(p0)
	mid := p0.Lerp(p1, 0.5)
	return mid.Add(Vec2{-d.Y, d.X}.Scale(l.Bend))
}

// Draw updates the line for phase/progress and renders it from the
// particles' current positions. It returns the number of draw calls; a
// line with no opacity issues none.
func (l *ConstellationLine) Draw(s Surface, particles []Particle, st *LineStyle, phase Phase, progress float64) int {
	l.update(st, phase, progress)
	alpha := l.Opacity * st.Global
	if alpha <= 0 || l.Reveal <= 0 {
		return 0
	}
	if l.Start < 0 || l.End < 0 || l.Start >= len(particles) || l.End >= len(particles) {
		return 0
	}

	p0, p1 := particles[l.Start].Pos(), particles[l.End].Pos()
	ctrl := l.control(p0, p1)
	subCtrl, tip := splitQuad(p0, ctrl, p1, l.Reveal)
	pulse := 0.5 + 0.5*math.Sin(st.Clock*st.PulseSpeed+l.Seed)

	calls := 0
	s.StrokeQuad(p0, subCtrl, tip, st.GlowWidth, st.Color.WithAlpha(alpha*0.25*(0.6+0.4*pulse)))
	s.StrokeQuad(p0, subCtrl, tip, st.Width, st.Color.WithAlpha(alpha*0.8))
	calls += 2

	// Energy marker travelling along the revealed part of the curve.
	_, frac := math.Modf(st.Clock*st.TravelSpeed + l.Seed)
	marker := quadPoint(p0, ctrl, p1, frac*l.Reveal)
	s.FillCircle(marker, st.Width*1.8, ColorWhite.WithAlpha(alpha*(0.5+0.5*pulse)))
	calls++

	if l.Reveal < 1 {
		s.FillCircle(tip, st.Width*2, ColorWhite.WithAlpha(alpha))
		calls++
		for i := 1; i <= st.TrailDots; i++ {
			t := l.Reveal - float64(i)*0.025
			if t <= 0 {
				break
			}
			fade := 1 - float64(i)/float64(st.TrailDots+1)
			s.FillCircle(quadPoint(p0, ctrl, p1, t), st.Width*(0.6+fade), st.Color.WithAlpha(alpha*fade))
			calls++
		}
	}
	return calls
}
