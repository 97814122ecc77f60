package stellar

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Easing functions used by the simulation. All are gween ease.TweenFunc
// values evaluated over a normalized [0,1] domain by easeNorm.
var (
	easeOutCubic   ease.TweenFunc = ease.OutCubic
	easeInOutCubic ease.TweenFunc = ease.InOutCubic
	easeInOutSine  ease.TweenFunc = ease.InOutSine
	easeOutQuad    ease.TweenFunc = ease.OutQuad
	easeInQuad     ease.TweenFunc = ease.InQuad
)

// easeNorm evaluates fn at t in [0,1] mapping to [0,1]. t is clamped.
func easeNorm(fn ease.TweenFunc, t float64) float64 {
	t = clamp01(t)
	if t == 0 || t == 1 {
		// Exact endpoints keep sub-window boundaries continuous.
		return t
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// fader animates a single scalar between two values, used for the scene
// visibility fade on activate. Update is driven by the render loop's frame
// delta, so no timers run outside the loop.
type fader struct {
	tween *gween.Tween
	value float64
	done  bool
}

// newFader creates a fader from -> to over duration seconds.
func newFader(from, to float64, duration float32, fn ease.TweenFunc) *fader {
	if duration <= 0 {
		return &fader{value: to, done: true}
	}
	return &fader{
		tween: gween.New(float32(from), float32(to), duration, fn),
		value: from,
	}
}

// Update advances the fader by dt seconds and returns the current value.
func (f *fader) Update(dt float64) float64 {
	if f.done {
		return f.value
	}
	v, finished := f.tween.Update(float32(dt))
	f.value = float64(v)
	f.done = finished
	return f.value
}

// Value returns the most recent value without advancing.
func (f *fader) Value() float64 {
	return f.value
}

// Done reports whether the fader reached its end value.
func (f *fader) Done() bool {
	return f.done
}
