package stellar

import (
	"math"
	"math/rand/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a surface submits the draw.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default particle tint.
var ColorWhite = Color{1, 1, 1, 1}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(c.A * a)
	return c
}

// toRGBA converts a Color to a premultiplied color.Color.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for surface submission.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

// Vec2 is a 2D vector used for positions, offsets and directions.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Lerp interpolates from v to o by t.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{lerp(v.X, o.X, t), lerp(v.Y, o.Y, t)}
}

// finite reports whether both components are real numbers.
func (v Vec2) finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Range is a general-purpose min/max range.
type Range struct {
	Min float64 `yaml:"min" toml:"min"`
	Max float64 `yaml:"max" toml:"max"`
}

// Random returns a random float64 in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Phase names a timed stage of the animation sequence.
type Phase uint8

const (
	PhaseMaterialization Phase = iota // particles burst from the origin and settle on the text
	PhaseConstellation                // text holds with shimmer while key-word lines draw in
	PhaseBreathing                    // explode, reform into alternate shapes, settle
	PhaseDissolution                  // particles spiral outward and fade
	PhaseComplete                     // terminal pseudo-phase of a non-looping sequence
)

var phaseNames = [...]string{
	PhaseMaterialization: "materialization",
	PhaseConstellation:   "constellation",
	PhaseBreathing:       "breathing",
	PhaseDissolution:     "dissolution",
	PhaseComplete:        "complete",
}

// String returns the lower-case phase name.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// ParsePhase maps a phase name back to its Phase value.
func ParsePhase(name string) (Phase, bool) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), true
		}
	}
	return 0, false
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// window maps progress p into the local [0,1] progress of the sub-window
// [from, to). Values outside the window clamp.
func window(p, from, to float64) float64 {
	if to <= from {
		if p >= to {
			return 1
		}
		return 0
	}
	return clamp01((p - from) / (to - from))
}
