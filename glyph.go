package stellar

import (
	"fmt"
	"image"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// glyphPad is the transparent border around a rasterized glyph so
// antialiased edges are not clipped.
const glyphPad = 2

type glyphKey struct {
	r    rune
	size float64
}

// GlyphRasterizer renders single characters into a scratch alpha bitmap
// and extracts a sparse point cloud of ink pixels. It is not safe for
// concurrent use.
type GlyphRasterizer struct {
	primary  *opentype.Font
	fallback *opentype.Font
	step     int
	thresh   uint8

	faces   map[float64]font.Face
	fbFaces map[float64]font.Face
	cache   map[glyphKey][]Vec2
	scratch []uint8
}

// NewGlyphRasterizer parses fontData (TTF/OTF). Nil fontData uses Go
// Regular. step is the sampling stride in pixels; threshold is the alpha
// in (0,1) a pixel must exceed to count as ink.
func NewGlyphRasterizer(fontData []byte, step int, threshold float64) (*GlyphRasterizer, error) {
	fallback, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("stellar: failed to parse fallback font: %w", err)
	}
	primary := fallback
	if fontData != nil {
		primary, err = opentype.Parse(fontData)
		if err != nil {
			return nil, fmt.Errorf("stellar: failed to parse font data: %w", err)
		}
	}
	if step < 1 {
		step = 1
	}
	return &GlyphRasterizer{
		primary:  primary,
		fallback: fallback,
		step:     step,
		thresh:   uint8(clamp01(threshold) * 255),
		faces:    make(map[float64]font.Face),
		fbFaces:  make(map[float64]font.Face),
		cache:    make(map[glyphKey][]Vec2),
	}, nil
}

// face returns the primary font face at size, or the fallback face when
// the primary has no usable advance for r.
func (g *GlyphRasterizer) face(r rune, size float64) (font.Face, error) {
	f, err := g.faceFor(g.faces, g.primary, size)
	if err != nil {
		return nil, err
	}
	if adv, ok := f.GlyphAdvance(r); ok && adv > 0 {
		return f, nil
	}
	return g.faceFor(g.fbFaces, g.fallback, size)
}

func (g *GlyphRasterizer) faceFor(cache map[float64]font.Face, src *opentype.Font, size float64) (font.Face, error) {
	if f, ok := cache[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("stellar: failed to create face at size %v: %w", size, err)
	}
	cache[size] = f
	return f, nil
}

// Advance returns the horizontal advance of r at size in pixels. Unknown
// glyphs report 0.
func (g *GlyphRasterizer) Advance(r rune, size float64) float64 {
	f, err := g.face(r, size)
	if err != nil {
		return 0
	}
	adv, ok := f.GlyphAdvance(r)
	if !ok {
		return 0
	}
	return float64(adv) / 64
}

// Kern returns the kerning adjustment between a and b at size in pixels.
func (g *GlyphRasterizer) Kern(a, b rune, size float64) float64 {
	f, err := g.face(b, size)
	if err != nil {
		return 0
	}
	return float64(f.Kern(a, b)) / 64
}

// Ascent returns the font ascent at size in pixels.
func (g *GlyphRasterizer) Ascent(size float64) float64 {
	f, err := g.faceFor(g.faces, g.primary, size)
	if err != nil {
		return size
	}
	return float64(f.Metrics().Ascent) / 64
}

// Sample returns ink-pixel offsets for r relative to its draw origin (the
// pen position on the baseline). Whitespace and glyphs that fail to render
// yield an empty result. Results are cached per (rune, size).
func (g *GlyphRasterizer) Sample(r rune, size float64) []Vec2 {
	if unicode.IsSpace(r) || size <= 0 {
		return nil
	}
	key := glyphKey{r, size}
	if pts, ok := g.cache[key]; ok {
		return pts
	}
	pts, err := g.rasterize(r, size)
	if err != nil {
		logger().Warn("glyph rasterization failed", "rune", string(r), "size", size, "err", err)
		pts = nil
	}
	g.cache[key] = pts
	return pts
}

func (g *GlyphRasterizer) rasterize(r rune, size float64) ([]Vec2, error) {
	f, err := g.face(r, size)
	if err != nil {
		return nil, err
	}
	bounds, _, ok := f.GlyphBounds(r)
	if !ok {
		return nil, fmt.Errorf("no glyph for %q", r)
	}
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	w := bounds.Max.X.Ceil() - minX + 2*glyphPad
	h := bounds.Max.Y.Ceil() - minY + 2*glyphPad
	if w <= 2*glyphPad || h <= 2*glyphPad {
		return nil, nil
	}

	img := g.scratchAlpha(w, h)
	ox, oy := glyphPad-minX, glyphPad-minY
	d := font.Drawer{
		Dst:  img,
		Src:  image.Opaque,
		Face: f,
		Dot:  fixed.P(ox, oy),
	}
	d.DrawString(string(r))

	var pts []Vec2
	bestA, bestX, bestY := uint8(0), 0, 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x, a := range row {
			if a > bestA {
				bestA, bestX, bestY = a, x, y
			}
			if y%g.step != 0 || x%g.step != 0 {
				continue
			}
			if a > g.thresh {
				pts = append(pts, Vec2{float64(x - ox), float64(y - oy)})
			}
		}
	}
	// Thin strokes can fall between grid lines; keep the strongest pixel.
	if len(pts) == 0 && bestA > g.thresh {
		pts = append(pts, Vec2{float64(bestX - ox), float64(bestY - oy)})
	}
	return pts, nil
}

// scratchAlpha returns a cleared w×h alpha bitmap backed by the reusable
// scratch buffer.
func (g *GlyphRasterizer) scratchAlpha(w, h int) *image.Alpha {
	n := w * h
	if cap(g.scratch) < n {
		g.scratch = make([]uint8, n)
	}
	buf := g.scratch[:n]
	clear(buf)
	return &image.Alpha{Pix: buf, Stride: w, Rect: image.Rect(0, 0, w, h)}
}

// Purge drops every cached face and point cloud. Layouts call it first so
// only the sizes of the current canvas stay resident.
func (g *GlyphRasterizer) Purge() {
	for _, m := range []map[float64]font.Face{g.faces, g.fbFaces} {
		for size, f := range m {
			_ = f.Close()
			delete(m, size)
		}
	}
	clear(g.cache)
}

// Close releases the cached font faces.
func (g *GlyphRasterizer) Close() error {
	g.Purge()
	return nil
}
