package stellar

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func testFlarePool(capacity int) *FlarePool {
	cfg := DefaultConfig().Flare
	cfg.Max = capacity
	from, _ := colorful.Hex("#ffb36b")
	to, _ := colorful.Hex("#8a7bff")
	return NewFlarePool(cfg, rand.New(rand.NewPCG(7, 7)), from, to)
}

func TestFlarePoolCapUnderSustainedSpawn(t *testing.T) {
	fp := testFlarePool(16)
	for frame := range 2000 {
		for range 10 {
			fp.Spawn(Vec2{50, 50}, Vec2{1, 0})
		}
		if fp.AliveCount() > fp.Cap() {
			t.Fatalf("frame %d: %d alive, cap %d", frame, fp.AliveCount(), fp.Cap())
		}
		fp.Update(1.0/60, nil)
	}
	if fp.Cap() != 16 {
		t.Errorf("Cap = %d, want 16", fp.Cap())
	}
}

func TestFlarePoolSpawnFull(t *testing.T) {
	fp := testFlarePool(2)
	if !fp.Spawn(Vec2{}, Vec2{1, 0}) || !fp.Spawn(Vec2{}, Vec2{0, 1}) {
		t.Fatal("spawn into free slots failed")
	}
	if fp.Spawn(Vec2{}, Vec2{1, 1}) {
		t.Error("spawn into a full pool succeeded")
	}
	fp.Reset()
	if fp.AliveCount() != 0 {
		t.Errorf("after Reset: %d alive", fp.AliveCount())
	}
}

func TestFlarePoolZeroCapacity(t *testing.T) {
	fp := testFlarePool(-3)
	if fp.Cap() != 0 || fp.Spawn(Vec2{}, Vec2{1, 0}) {
		t.Error("negative max should give an empty pool")
	}
}

func TestFlareExpires(t *testing.T) {
	fp := testFlarePool(4)
	fp.Spawn(Vec2{10, 10}, Vec2{1, 0})
	// Longest configured lifetime is 0.9s.
	for range 10 {
		fp.Update(0.1, nil)
	}
	if fp.AliveCount() != 0 {
		t.Errorf("alive = %d after lifetime elapsed", fp.AliveCount())
	}
}

func TestFlareMovesAlongDirection(t *testing.T) {
	fp := testFlarePool(1)
	fp.Spawn(Vec2{0, 0}, Vec2{0, 1})
	fp.Update(0.05, nil)
	p := fp.flares[0].pos
	// Heading jitter is at most ±0.4 rad around straight down.
	if p.Y <= 0 || math.Abs(math.Atan2(p.X, p.Y)) > 0.4+epsilon {
		t.Errorf("flare at %v, want heading roughly +Y", p)
	}
}

func TestFlareDrawFades(t *testing.T) {
	fp := testFlarePool(1)
	fp.Spawn(Vec2{5, 5}, Vec2{1, 0})
	s := NewRecordingSurface(20, 20)
	if n := fp.Draw(s, 1, nil); n != 1 {
		t.Fatalf("Draw = %d calls, want 1", n)
	}
	fresh := s.Calls[0]
	fp.Update(0.2, nil)
	s.Reset()
	fp.Draw(s, 1, nil)
	if aged := s.Calls[0]; aged.Color.A >= fresh.Color.A || aged.Radius >= fresh.Radius {
		t.Errorf("flare did not fade: %v/%v -> %v/%v", fresh.Color.A, fresh.Radius, aged.Color.A, aged.Radius)
	}
	s.Reset()
	if n := fp.Draw(s, 0, nil); n != 0 {
		t.Errorf("invisible scene drew %d flares", n)
	}
}

func TestFlareNonFiniteRemoved(t *testing.T) {
	fp := testFlarePool(2)
	fp.Spawn(Vec2{}, Vec2{1, 0})
	fp.Spawn(Vec2{}, Vec2{1, 0})
	fp.flares[0].vel = Vec2{math.Inf(1), 0}

	var failed []int
	fp.Update(0.01, func(i int, err error) {
		if !errors.Is(err, ErrNonFinite) {
			t.Errorf("err = %v", err)
		}
		failed = append(failed, i)
	})
	if len(failed) != 1 || failed[0] != 0 {
		t.Errorf("failures = %v, want [0]", failed)
	}
	if fp.AliveCount() != 1 {
		t.Errorf("alive = %d, want the healthy flare only", fp.AliveCount())
	}
}

func TestProtectRecoversPanic(t *testing.T) {
	err := protect(func() error { panic("boom") })
	if err == nil || err.Error() != "panic: boom" {
		t.Errorf("err = %v", err)
	}
	want := errors.New("plain")
	if got := protect(func() error { return want }); got != want {
		t.Errorf("err = %v, want passthrough", got)
	}
}
