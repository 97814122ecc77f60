package stellar

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// CellWriter is the part of tcell.Screen a TerminalSurface draws into.
type CellWriter interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}

// TerminalSurface rasterizes into a small RGB framebuffer and presents it
// as half-block cells, two pixels per terminal cell vertically. A cols×rows
// terminal gives a cols×(2·rows) surface.
type TerminalSurface struct {
	w, h int
	pix  []Color // opaque, row-major
	text map[[2]int]textCell
	path []Vec2
}

type textCell struct {
	r rune
	c Color
}

// NewTerminalSurface creates a surface for a cols×rows terminal.
func NewTerminalSurface(cols, rows int) *TerminalSurface {
	w, h := max(cols, 0), max(rows*2, 0)
	return &TerminalSurface{
		w:    w,
		h:    h,
		pix:  make([]Color, w*h),
		text: make(map[[2]int]textCell),
	}
}

// NewTerminalSurfaceFactory returns a SurfaceFactory whose sizes are in
// surface pixels, two per terminal row.
func NewTerminalSurfaceFactory() SurfaceFactory {
	return func(w, h int) (Surface, error) {
		return NewTerminalSurface(w, (h+1)/2), nil
	}
}

func (s *TerminalSurface) Size() (int, int) { return s.w, s.h }

func (s *TerminalSurface) Clear(c Color) {
	c.A = 1
	for i := range s.pix {
		s.pix[i] = c
	}
	clear(s.text)
}

// blend composites c over pixel (x, y).
func (s *TerminalSurface) blend(x, y int, c Color) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h || c.A <= 0 {
		return
	}
	p := &s.pix[y*s.w+x]
	a := clamp01(c.A)
	p.R = lerp(p.R, c.R, a)
	p.G = lerp(p.G, c.G, a)
	p.B = lerp(p.B, c.B, a)
	p.A = 1
}

// At returns the pixel at (x, y).
func (s *TerminalSurface) At(x, y int) Color {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return Color{}
	}
	return s.pix[y*s.w+x]
}

// FillCircle always covers at least the pixel under the center so
// sub-pixel particles stay visible.
func (s *TerminalSurface) FillCircle(center Vec2, radius float64, c Color) {
	if radius <= 0 || c.A <= 0 || !center.finite() {
		return
	}
	cx, cy := int(math.Floor(center.X)), int(math.Floor(center.Y))
	if radius < 1 {
		s.blend(cx, cy, c.WithAlpha(radius))
		return
	}
	r := int(math.Ceil(radius))
	r2 := radius * radius
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := float64(x)+0.5-center.X, float64(y)+0.5-center.Y
			if dx*dx+dy*dy <= r2 {
				s.blend(x, y, c)
			}
		}
	}
}

// StrokeQuad plots the flattened curve one pixel wide; width only scales
// the intensity.
func (s *TerminalSurface) StrokeQuad(p0, ctrl, p1 Vec2, width float64, c Color) {
	if width <= 0 || c.A <= 0 {
		return
	}
	c = c.WithAlpha(math.Min(1, width))
	s.path = flattenQuad(s.path[:0], p0, ctrl, p1)
	for i := 1; i < len(s.path); i++ {
		s.plotLine(s.path[i-1], s.path[i], c)
	}
}

func (s *TerminalSurface) plotLine(a, b Vec2, c Color) {
	if !a.finite() || !b.finite() {
		return
	}
	n := int(math.Ceil(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))))
	n = min(max(n, 1), 4096)
	for i := 0; i <= n; i++ {
		p := a.Lerp(b, float64(i)/float64(n))
		s.blend(int(math.Floor(p.X)), int(math.Floor(p.Y)), c)
	}
}

func (s *TerminalSurface) FillRect(x, y, w, h float64, c Color) {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := int(math.Ceil(x+w)), int(math.Ceil(y+h))
	for py := max(y0, 0); py < min(y1, s.h); py++ {
		for px := max(x0, 0); px < min(x1, s.w); px++ {
			s.blend(px, py, c)
		}
	}
}

// DrawText places one rune per cell starting at the cell containing
// (x, y). The overlay's pixel layout is compressed to cell rows.
func (s *TerminalSurface) DrawText(str string, x, y float64, c Color) {
	col, row := int(x)/debugCharWidth, int(y)/debugLineHeight
	for _, r := range str {
		if col >= s.w {
			break
		}
		s.text[[2]int{col, row}] = textCell{r, c}
		col++
	}
}

// Present writes the framebuffer to screen. Callers follow with Show.
func (s *TerminalSurface) Present(screen CellWriter) {
	rows := s.h / 2
	for row := 0; row < rows; row++ {
		for col := 0; col < s.w; col++ {
			if t, ok := s.text[[2]int{col, row}]; ok {
				bg := s.At(col, row*2)
				style := tcell.StyleDefault.Foreground(tcellColor(t.c)).Background(tcellColor(bg))
				screen.SetContent(col, row, t.r, nil, style)
				continue
			}
			top, bottom := s.At(col, row*2), s.At(col, row*2+1)
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			screen.SetContent(col, row, '▀', nil, style)
		}
	}
}

func tcellColor(c Color) tcell.Color {
	return tcell.NewRGBColor(
		int32(clamp01(c.R)*255),
		int32(clamp01(c.G)*255),
		int32(clamp01(c.B)*255),
	)
}
