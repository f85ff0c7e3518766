package geom

import "math"

// Size is a viewport extent in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether either dimension is zero or negative.
func (s Size) IsZero() bool { return s.Width <= 0 || s.Height <= 0 }

// Rect is a rectangle in normalized chart space. Both axes span [0,1] over
// the full unscrolled, unscaled chart. Y grows downward so Y is the top edge.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge of the rectangle.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge of the rectangle.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Normalized reports whether every edge lies inside [0,1].
func (r Rect) Normalized() bool {
	return in01(r.X) && in01(r.Y) && in01(r.Right()) && in01(r.Bottom()) &&
		r.Width >= 0 && r.Height >= 0
}

func in01(v float64) bool {
	const eps = 1e-9
	return !math.IsNaN(v) && v >= -eps && v <= 1+eps
}
