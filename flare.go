package stellar

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// flare holds per-flare simulation state. Unexported; managed by FlarePool.
type flare struct {
	pos, vel Vec2
	life     float64 // elapsed fraction of lifetime in [0,1]
	rate     float64 // life gained per second
	size0    float64
	color    Color
}

// FlarePool manages a fixed-capacity pool of short-lived burst flares.
// New flares are silently dropped when the pool is full.
type FlarePool struct {
	config FlareConfig
	flares []flare
	alive  int
	rng    *rand.Rand

	from, to colorful.Color
}

// NewFlarePool creates a pool with capacity cfg.Max. Colors are blended
// between from and to in HCL space.
func NewFlarePool(cfg FlareConfig, rng *rand.Rand, from, to colorful.Color) *FlarePool {
	return &FlarePool{
		config: cfg,
		flares: make([]flare, max(cfg.Max, 0)),
		rng:    rng,
		from:   from,
		to:     to,
	}
}

// AliveCount returns the number of live flares.
func (fp *FlarePool) AliveCount() int {
	return fp.alive
}

// Cap returns the pool capacity.
func (fp *FlarePool) Cap() int {
	return len(fp.flares)
}

// Reset kills every live flare.
func (fp *FlarePool) Reset() {
	fp.alive = 0
}

// Spawn emits a flare at pos heading roughly along dir. It reports false
// when the pool is full.
func (fp *FlarePool) Spawn(pos, dir Vec2) bool {
	if fp.alive >= len(fp.flares) {
		return false
	}
	f := &fp.flares[fp.alive]

	angle := math.Atan2(dir.Y, dir.X) + (fp.rng.Float64()-0.5)*0.8
	speed := fp.config.Speed.Random(fp.rng)
	f.pos = pos
	f.vel = Vec2{math.Cos(angle) * speed, math.Sin(angle) * speed}

	lifetime := fp.config.Lifetime.Random(fp.rng)
	if lifetime <= 0 {
		lifetime = 1
	}
	f.life = 0
	f.rate = 1 / lifetime
	f.size0 = fp.config.Size.Random(fp.rng)
	f.color = toColor(fp.from.BlendHcl(fp.to, fp.rng.Float64()))

	fp.alive++
	return true
}

// Update advances every flare by dt seconds and swap-removes expired ones.
// A flare whose update fails is removed and reported through fail.
func (fp *FlarePool) Update(dt float64, fail func(i int, err error)) {
	i := 0
	for i < fp.alive {
		f := &fp.flares[i]
		err := protect(func() error { return f.step(dt) })
		if err != nil && fail != nil {
			fail(i, err)
		}
		if err != nil || f.life >= 1 {
			fp.alive--
			fp.flares[i] = fp.flares[fp.alive]
			continue
		}
		i++
	}
}

func (f *flare) step(dt float64) error {
	f.life = math.Min(1, f.life+f.rate*dt)
	f.vel = f.vel.Scale(math.Max(0, 1-1.5*dt)) // drag
	f.pos = f.pos.Add(f.vel.Scale(dt))
	if !f.pos.finite() {
		return fmt.Errorf("%w: flare at life %.2f", ErrNonFinite, f.life)
	}
	return nil
}

// Draw renders every live flare and returns the number of draw calls.
func (fp *FlarePool) Draw(s Surface, global float64, fail func(i int, err error)) int {
	calls := 0
	for i := 0; i < fp.alive; i++ {
		f := &fp.flares[i]
		err := protect(func() error {
			a := (1 - f.life) * global
			if a <= 0 {
				return nil
			}
			size := f.size0 * (1 - f.life)
			if size <= 0 {
				return nil
			}
			s.FillCircle(f.pos, size, f.color.WithAlpha(a))
			calls++
			return nil
		})
		if err != nil && fail != nil {
			fail(i, err)
		}
	}
	return calls
}

// protect runs fn, converting a panic into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
