package stellar

import "testing"

func newTestRaster(t *testing.T) *GlyphRasterizer {
	t.Helper()
	g, err := NewGlyphRasterizer(nil, 2, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// newConfigRaster builds a rasterizer with the sampling settings of cfg.
func newConfigRaster(t *testing.T, cfg GlyphConfig) *GlyphRasterizer {
	t.Helper()
	g, err := NewGlyphRasterizer(nil, cfg.Step, cfg.Threshold)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestSampleWhitespace(t *testing.T) {
	g := newTestRaster(t)
	for _, r := range []rune{' ', '\t', '\n'} {
		if pts := g.Sample(r, 32); pts != nil {
			t.Errorf("Sample(%q) = %d points, want none", r, len(pts))
		}
	}
	if pts := g.Sample('A', 0); pts != nil {
		t.Error("zero size should sample nothing")
	}
}

func TestSampleInk(t *testing.T) {
	g := newTestRaster(t)
	pts := g.Sample('H', 40)
	if len(pts) < 10 {
		t.Fatalf("Sample('H') = %d points, want a dense cloud", len(pts))
	}
	ascent := g.Ascent(40)
	adv := g.Advance('H', 40)
	for _, p := range pts {
		// Offsets are relative to the pen on the baseline.
		if p.Y > 1 || p.Y < -ascent-2 {
			t.Fatalf("point %v outside the ascent band", p)
		}
		if p.X < -2 || p.X > adv+2 {
			t.Fatalf("point %v outside the advance %v", p, adv)
		}
	}
}

func TestSampleCached(t *testing.T) {
	g := newTestRaster(t)
	a := g.Sample('e', 24)
	b := g.Sample('e', 24)
	if len(a) == 0 || &a[0] != &b[0] {
		t.Error("expected the cached slice on the second call")
	}
	if c := g.Sample('e', 48); len(c) <= len(a) {
		t.Errorf("larger size gave %d points, small gave %d", len(c), len(a))
	}
}

func TestSampleTinyFallsBackToStrongestPixel(t *testing.T) {
	g, err := NewGlyphRasterizer(nil, 64, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	if pts := g.Sample('i', 12); len(pts) != 1 {
		t.Errorf("Sample = %d points, want exactly the strongest pixel", len(pts))
	}
}

func TestAdvanceAndAscent(t *testing.T) {
	g := newTestRaster(t)
	if g.Advance('W', 30) <= g.Advance('i', 30) {
		t.Error("W should be wider than i")
	}
	if a := g.Ascent(30); a <= 0 || a > 60 {
		t.Errorf("Ascent = %v", a)
	}
}

func TestNewGlyphRasterizerBadFont(t *testing.T) {
	if _, err := NewGlyphRasterizer([]byte("not a font"), 2, 0.5); err == nil {
		t.Error("expected parse error")
	}
}
