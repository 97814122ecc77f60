package stellar

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"
)

// ImageSurface is a CPU Surface backed by a fogleman/gg context. It needs
// no window or GPU, so offline renderers use it to write PNG frames.
type ImageSurface struct {
	dc *gg.Context
}

// NewImageSurface creates a w×h image surface.
func NewImageSurface(w, h int) *ImageSurface {
	return &ImageSurface{dc: gg.NewContext(w, h)}
}

// NewImageSurfaceFactory returns a SurfaceFactory producing ImageSurfaces.
func NewImageSurfaceFactory() SurfaceFactory {
	return func(w, h int) (Surface, error) {
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", ErrZeroArea, w, h)
		}
		return NewImageSurface(w, h), nil
	}
}

func (s *ImageSurface) Size() (int, int) { return s.dc.Width(), s.dc.Height() }

func (s *ImageSurface) setColor(c Color) {
	s.dc.SetRGBA(clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A))
}

func (s *ImageSurface) Clear(c Color) {
	s.setColor(c)
	s.dc.Clear()
}

func (s *ImageSurface) FillCircle(center Vec2, radius float64, c Color) {
	if radius <= 0 || c.A <= 0 {
		return
	}
	s.setColor(c)
	s.dc.DrawCircle(center.X, center.Y, radius)
	s.dc.Fill()
}

func (s *ImageSurface) StrokeQuad(p0, ctrl, p1 Vec2, width float64, c Color) {
	if width <= 0 || c.A <= 0 {
		return
	}
	s.setColor(c)
	s.dc.SetLineWidth(width)
	s.dc.SetLineCapRound()
	s.dc.MoveTo(p0.X, p0.Y)
	s.dc.QuadraticTo(ctrl.X, ctrl.Y, p1.X, p1.Y)
	s.dc.Stroke()
}

func (s *ImageSurface) FillRect(x, y, w, h float64, c Color) {
	s.setColor(c)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

// DrawText uses gg's built-in fixed face, anchored at its top-left.
func (s *ImageSurface) DrawText(str string, x, y float64, c Color) {
	s.setColor(c)
	s.dc.DrawStringAnchored(str, x, y, 0, 1)
}

// Image returns the rendered frame.
func (s *ImageSurface) Image() image.Image {
	return s.dc.Image()
}

// SavePNG writes the frame to path.
func (s *ImageSurface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("stellar: failed to save %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes the frame to w.
func (s *ImageSurface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}
