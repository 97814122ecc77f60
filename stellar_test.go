package stellar

import (
	"math"
	"math/rand/v2"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestVec2Ops(t *testing.T) {
	a := Vec2{3, 4}
	b := Vec2{1, -2}
	assertVec(t, "Add", a.Add(b), Vec2{4, 2})
	assertVec(t, "Sub", a.Sub(b), Vec2{2, 6})
	assertVec(t, "Scale", a.Scale(0.5), Vec2{1.5, 2})
	assertNear(t, "Len", a.Len(), 5)
	assertVec(t, "Lerp(0)", a.Lerp(b, 0), a)
	assertVec(t, "Lerp(1)", a.Lerp(b, 1), b)
	assertVec(t, "Lerp(0.5)", a.Lerp(b, 0.5), Vec2{2, 1})
}

func TestVec2Finite(t *testing.T) {
	tests := []struct {
		v    Vec2
		want bool
	}{
		{Vec2{0, 0}, true},
		{Vec2{-1e300, 1e300}, true},
		{Vec2{math.NaN(), 0}, false},
		{Vec2{0, math.Inf(1)}, false},
		{Vec2{math.Inf(-1), math.NaN()}, false},
	}
	for _, tt := range tests {
		if got := tt.v.finite(); got != tt.want {
			t.Errorf("%v.finite() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestRangeRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	r := Range{Min: 2, Max: 5}
	for range 200 {
		v := r.Random(rng)
		if v < 2 || v > 5 {
			t.Fatalf("Random = %v, want in [2,5]", v)
		}
	}
	assertNear(t, "degenerate", Range{3, 3}.Random(rng), 3)
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		p    Phase
		want string
	}{
		{PhaseMaterialization, "materialization"},
		{PhaseConstellation, "constellation"},
		{PhaseBreathing, "breathing"},
		{PhaseDissolution, "dissolution"},
		{PhaseComplete, "complete"},
		{Phase(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
		if tt.want == "unknown" {
			continue
		}
		back, ok := ParsePhase(tt.want)
		if !ok || back != tt.p {
			t.Errorf("ParsePhase(%q) = %v, %v", tt.want, back, ok)
		}
	}
	if _, ok := ParsePhase("nebula"); ok {
		t.Error("ParsePhase accepted an unknown name")
	}
}

func TestPhaseUnmarshalText(t *testing.T) {
	var p Phase
	if err := p.UnmarshalText([]byte("Breathing")); err != nil {
		t.Fatal(err)
	}
	if p != PhaseBreathing {
		t.Errorf("p = %v, want breathing", p)
	}
	if err := p.UnmarshalText([]byte("complete")); err == nil {
		t.Error("complete should not be configurable")
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		p, from, to, want float64
	}{
		{0.5, 0, 1, 0.5},
		{0.1, 0.2, 0.6, 0},
		{0.4, 0.2, 0.6, 0.5},
		{0.9, 0.2, 0.6, 1},
		{0.5, 0.5, 0.5, 1},
		{0.4, 0.5, 0.5, 0},
	}
	for _, tt := range tests {
		assertNear(t, "window", window(tt.p, tt.from, tt.to), tt.want)
	}
}

func TestClamp01(t *testing.T) {
	assertNear(t, "below", clamp01(-3), 0)
	assertNear(t, "inside", clamp01(0.25), 0.25)
	assertNear(t, "above", clamp01(7), 1)
}

func TestColorToRGBA(t *testing.T) {
	c := Color{1, 0.5, 0, 0.5}.toRGBA()
	if c.A != 127 || c.R != 127 || c.G != 63 || c.B != 0 {
		t.Errorf("toRGBA = %+v", c)
	}
	assertNear(t, "WithAlpha", ColorWhite.WithAlpha(0.25).A, 0.25)
	assertNear(t, "WithAlpha clamps", Color{A: 0.8}.WithAlpha(2).A, 1)
}
