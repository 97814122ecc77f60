package stellar

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestEaseNormEndpoints(t *testing.T) {
	for name, fn := range map[string]ease.TweenFunc{
		"outCubic":   easeOutCubic,
		"inOutCubic": easeInOutCubic,
		"inOutSine":  easeInOutSine,
		"outQuad":    easeOutQuad,
		"inQuad":     easeInQuad,
	} {
		assertNear(t, name+"(0)", easeNorm(fn, 0), 0)
		assertNear(t, name+"(1)", easeNorm(fn, 1), 1)
		assertNear(t, name+"(-1)", easeNorm(fn, -1), 0)
		assertNear(t, name+"(2)", easeNorm(fn, 2), 1)
		if v := easeNorm(fn, 0.5); v <= 0 || v >= 1 {
			t.Errorf("%s(0.5) = %v, want in (0,1)", name, v)
		}
	}
}

func TestEaseNormMonotonic(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := easeNorm(easeInOutSine, float64(i)/100)
		if v+1e-6 < prev {
			t.Fatalf("not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestFaderReachesTarget(t *testing.T) {
	f := newFader(0, 1, 0.5, ease.Linear)
	if f.Done() {
		t.Fatal("fader done before update")
	}
	f.Update(0.25)
	if v := f.Value(); v <= 0 || v >= 1 {
		t.Errorf("mid value = %v", v)
	}
	f.Update(0.25)
	if !f.Done() {
		t.Fatal("expected Done after full duration")
	}
	if f.Value() < 0.99 {
		t.Errorf("final value = %v, want ~1", f.Value())
	}
	// Further updates hold the end value.
	assertNear(t, "held", f.Update(1), f.Value())
}

func TestFaderZeroDuration(t *testing.T) {
	f := newFader(0, 1, 0, ease.Linear)
	if !f.Done() {
		t.Error("zero-duration fader should be done")
	}
	assertNear(t, "value", f.Value(), 1)
}
