package stellar

import "math"

// Surface is a drawable 2D canvas of known pixel dimensions. The engine
// issues every draw through it; hosts supply the implementation.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)
	// Clear fills the surface with c.
	Clear(c Color)
	// FillCircle draws a filled disc.
	FillCircle(center Vec2, radius float64, c Color)
	// StrokeQuad strokes the quadratic Bézier p0 → p1 with control point ctrl.
	StrokeQuad(p0, ctrl, p1 Vec2, width float64, c Color)
	// FillRect draws an axis-aligned filled rectangle.
	FillRect(x, y, w, h float64, c Color)
	// DrawText draws a single line of text with its top-left at (x, y).
	DrawText(s string, x, y float64, c Color)
}

// quadPoint evaluates the quadratic Bézier p0, ctrl, p1 at t.
func quadPoint(p0, ctrl, p1 Vec2, t float64) Vec2 {
	u := 1 - t
	return Vec2{
		X: u*u*p0.X + 2*u*t*ctrl.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*ctrl.Y + t*t*p1.Y,
	}
}

// splitQuad returns the control point and end point of the sub-curve of
// p0, ctrl, p1 over [0, t] (de Casteljau). The sub-curve starts at p0.
func splitQuad(p0, ctrl, p1 Vec2, t float64) (Vec2, Vec2) {
	c := p0.Lerp(ctrl, t)
	end := quadPoint(p0, ctrl, p1, t)
	return c, end
}

// flattenQuad appends line-segment vertices approximating the curve.
// The segment count follows the control polygon length.
func flattenQuad(dst []Vec2, p0, ctrl, p1 Vec2) []Vec2 {
	n := int(math.Ceil((ctrl.Sub(p0).Len() + p1.Sub(ctrl).Len()) / 6))
	n = max(2, min(n, 48))
	for i := 0; i <= n; i++ {
		dst = append(dst, quadPoint(p0, ctrl, p1, float64(i)/float64(n)))
	}
	return dst
}

// DrawOp identifies one recorded draw call.
type DrawOp uint8

const (
	OpClear DrawOp = iota
	OpCircle
	OpQuad
	OpRect
	OpText
)

// RecordedCall is one draw captured by RecordingSurface.
type RecordedCall struct {
	Op     DrawOp
	Points []Vec2
	Radius float64
	Width  float64
	Color  Color
	Text   string
}

// RecordingSurface is a Surface that stores every call instead of drawing.
// Used by tests and by hosts that want to inspect a frame.
type RecordingSurface struct {
	W, H  int
	Calls []RecordedCall
}

// NewRecordingSurface creates a w×h RecordingSurface.
func NewRecordingSurface(w, h int) *RecordingSurface {
	return &RecordingSurface{W: w, H: h}
}

func (r *RecordingSurface) Size() (int, int) { return r.W, r.H }

func (r *RecordingSurface) Clear(c Color) {
	r.Calls = append(r.Calls, RecordedCall{Op: OpClear, Color: c})
}

func (r *RecordingSurface) FillCircle(center Vec2, radius float64, c Color) {
	r.Calls = append(r.Calls, RecordedCall{Op: OpCircle, Points: []Vec2{center}, Radius: radius, Color: c})
}

func (r *RecordingSurface) StrokeQuad(p0, ctrl, p1 Vec2, width float64, c Color) {
	r.Calls = append(r.Calls, RecordedCall{Op: OpQuad, Points: []Vec2{p0, ctrl, p1}, Width: width, Color: c})
}

func (r *RecordingSurface) FillRect(x, y, w, h float64, c Color) {
	r.Calls = append(r.Calls, RecordedCall{Op: OpRect, Points: []Vec2{{x, y}, {x + w, y + h}}, Color: c})
}

func (r *RecordingSurface) DrawText(s string, x, y float64, c Color) {
	r.Calls = append(r.Calls, RecordedCall{Op: OpText, Points: []Vec2{{x, y}}, Text: s, Color: c})
}

// Count returns how many recorded calls have the given op.
func (r *RecordingSurface) Count(op DrawOp) int {
	n := 0
	for i := range r.Calls {
		if r.Calls[i].Op == op {
			n++
		}
	}
	return n
}

// Reset drops every recorded call.
func (r *RecordingSurface) Reset() {
	r.Calls = r.Calls[:0]
}
