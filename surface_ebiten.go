package stellar

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"
)

// EbitenSurface is a Surface backed by a persistent offscreen
// *ebiten.Image. The host composites Image onto the screen each frame.
type EbitenSurface struct {
	image *ebiten.Image
	w, h  int
	path  []Vec2 // scratch for curve flattening
}

// NewEbitenSurface creates an offscreen surface of the given size.
func NewEbitenSurface(w, h int) *EbitenSurface {
	return &EbitenSurface{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// NewEbitenSurfaceFactory returns a SurfaceFactory producing EbitenSurfaces.
func NewEbitenSurfaceFactory() SurfaceFactory {
	return func(w, h int) (Surface, error) {
		return NewEbitenSurface(w, h), nil
	}
}

// Image returns the underlying *ebiten.Image.
func (s *EbitenSurface) Image() *ebiten.Image {
	return s.image
}

func (s *EbitenSurface) Size() (int, int) { return s.w, s.h }

func (s *EbitenSurface) Clear(c Color) {
	s.image.Fill(c.toRGBA())
}

func (s *EbitenSurface) FillCircle(center Vec2, radius float64, c Color) {
	if radius <= 0 || c.A <= 0 {
		return
	}
	vector.DrawFilledCircle(s.image, float32(center.X), float32(center.Y), float32(radius), c.toRGBA(), true)
}

// StrokeQuad flattens the curve and strokes each segment.
func (s *EbitenSurface) StrokeQuad(p0, ctrl, p1 Vec2, width float64, c Color) {
	if width <= 0 || c.A <= 0 {
		return
	}
	s.path = flattenQuad(s.path[:0], p0, ctrl, p1)
	col := c.toRGBA()
	for i := 1; i < len(s.path); i++ {
		a, b := s.path[i-1], s.path[i]
		vector.StrokeLine(s.image, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), col, true)
	}
}

func (s *EbitenSurface) FillRect(x, y, w, h float64, c Color) {
	vector.DrawFilledRect(s.image, float32(x), float32(y), float32(w), float32(h), c.toRGBA(), true)
}

func (s *EbitenSurface) DrawText(str string, x, y float64, c Color) {
	face, err := debugFace()
	if err != nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	text.Draw(s.image, str, face, op)
}

// Dispose deallocates the underlying image. The surface must not be used
// afterwards.
func (s *EbitenSurface) Dispose() {
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}

var (
	debugFaceOnce sync.Once
	debugFaceVal  *text.GoTextFace
	debugFaceErr  error
)

// debugFace returns the shared monospace face used for overlay text.
func debugFace() (*text.GoTextFace, error) {
	debugFaceOnce.Do(func() {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
		if err != nil {
			debugFaceErr = fmt.Errorf("stellar: failed to parse overlay font: %w", err)
			return
		}
		debugFaceVal = &text.GoTextFace{Source: source, Size: 12}
	})
	return debugFaceVal, debugFaceErr
}
