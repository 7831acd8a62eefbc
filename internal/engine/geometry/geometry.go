// Package geometry provides the point and rectangle primitives the map
// engine is built on. Everything here is a pure function over float64s.
package geometry

import "math"

// Point is a location in world units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle. A valid Rect has MinX < MaxX and
// MinY < MaxY.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// IsFinite reports whether both components of p are finite. A point with a
// NaN or infinite component is invalid and must be rejected by callers, never
// silently propagated.
func IsFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Clamp limits value to the range [minValue, maxValue].
func Clamp(value, minValue, maxValue float64) float64 {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}

// IsValid reports whether r has positive extent on both axes.
func (r Rect) IsValid() bool {
	return r.MinX < r.MaxX && r.MinY < r.MaxY
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the vertical extent of r.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// ContainsRect reports whether other lies entirely inside r, edges included.
func (r Rect) ContainsRect(other Rect) bool {
	return other.MinX >= r.MinX && other.MaxX <= r.MaxX &&
		other.MinY >= r.MinY && other.MaxY <= r.MaxY
}

// Expand returns r grown outward by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{
		MinX: r.MinX - pad,
		MinY: r.MinY - pad,
		MaxX: r.MaxX + pad,
		MaxY: r.MaxY + pad,
	}
}
