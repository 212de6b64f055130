// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"errors"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Round returns the nearest integer point, rounding halves away from zero.
func (p Point2D) Round() PointInt {
	return PointInt{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for PointInt{x, y}.
func Pt(x, y int) PointInt {
	return PointInt{X: x, Y: y}
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// Add returns p+q.
func (p PointInt) Add(q PointInt) PointInt {
	return PointInt{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p PointInt) Sub(q PointInt) PointInt {
	return PointInt{X: p.X - q.X, Y: p.Y - q.Y}
}

// Neg returns -p.
func (p PointInt) Neg() PointInt {
	return PointInt{X: -p.X, Y: -p.Y}
}

// Mul returns p scaled by an integer factor.
func (p PointInt) Mul(k int) PointInt {
	return PointInt{X: p.X * k, Y: p.Y * k}
}

// MulF scales p by factor and rounds the result.
func (p PointInt) MulF(factor float64) PointInt {
	return p.ToFloat().Scale(factor).Round()
}

// IsZero reports whether p is the origin.
func (p PointInt) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// SizeInt is an integer width and height.
type SizeInt struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Sz is shorthand for SizeInt{w, h}.
func Sz(w, h int) SizeInt {
	return SizeInt{Width: w, Height: h}
}

// Half returns the integer center offset of a box of this size.
func (s SizeInt) Half() PointInt {
	return PointInt{X: s.Width / 2, Y: s.Height / 2}
}

// IsEmpty reports whether either dimension is not positive.
func (s SizeInt) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Corners returns the four corners, clockwise from the top-left.
func (r Rect) Corners() [4]Point2D {
	return [4]Point2D{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRectInt creates a new RectInt.
func NewRectInt(x, y, width, height int) RectInt {
	return RectInt{X: x, Y: y, Width: width, Height: height}
}

// ToFloat converts to Rect.
func (r RectInt) ToFloat() Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
}

// IsEmpty reports whether the rectangle has no area.
func (r RectInt) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// TopLeft returns the top-left corner.
func (r RectInt) TopLeft() PointInt {
	return PointInt{X: r.X, Y: r.Y}
}

// Size returns the rectangle dimensions.
func (r RectInt) Size() SizeInt {
	return SizeInt{Width: r.Width, Height: r.Height}
}

// Translate returns r moved by d.
func (r RectInt) Translate(d PointInt) RectInt {
	return RectInt{X: r.X + d.X, Y: r.Y + d.Y, Width: r.Width, Height: r.Height}
}

// Union returns the smallest rectangle containing both rectangles.
// An empty operand contributes nothing.
func (r RectInt) Union(other RectInt) RectInt {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	x2 := max(r.X+r.Width, other.X+other.Width)
	y2 := max(r.Y+r.Height, other.Y+other.Height)
	return RectInt{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Intersect returns the overlap of two rectangles, or an empty rectangle.
func (r RectInt) Intersect(other RectInt) RectInt {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	x2 := min(r.X+r.Width, other.X+other.Width)
	y2 := min(r.Y+r.Height, other.Y+other.Height)
	if x2 <= x || y2 <= y {
		return RectInt{}
	}
	return RectInt{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Image converts to an image.Rectangle.
func (r RectInt) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// AffineTransform represents a 2x3 affine transformation matrix.
// [a b tx]
// [c d ty]
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Identity returns the identity transform.
func Identity() AffineTransform {
	return AffineTransform{A: 1, D: 1}
}

// Translation returns a translation transform.
func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// Rotation returns a rotation transform around the origin.
// With y pointing down, positive angles turn clockwise on screen.
func Rotation(radians float64) AffineTransform {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return AffineTransform{A: cos, B: -sin, C: sin, D: cos}
}

// RotationDegrees is Rotation with the angle in degrees.
func RotationDegrees(degrees float64) AffineTransform {
	return Rotation(degrees * math.Pi / 180.0)
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// Apply applies the transform to a point.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// ApplyRect returns the integer bounding box of r after transformation.
func (t AffineTransform) ApplyRect(r Rect) RectInt {
	if r.IsEmpty() {
		return RectInt{}
	}
	corners := r.Corners()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := t.Apply(c)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	x, y := int(math.Floor(snap(minX))), int(math.Floor(snap(minY)))
	x2, y2 := int(math.Ceil(snap(maxX))), int(math.Ceil(snap(maxY)))
	return RectInt{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// snap removes trigonometric noise so exact edges stay exact.
func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < 1e-9 {
		return r
	}
	return v
}

// Then returns the transform that applies t first and next afterwards.
func (t AffineTransform) Then(next AffineTransform) AffineTransform {
	var m mat.Dense
	m.Mul(next.dense(), t.dense())
	return fromDense(&m)
}

// Inverse returns the inverse transform, if it exists.
func (t AffineTransform) Inverse() (AffineTransform, bool) {
	d := t.dense()
	if math.Abs(mat.Det(d)) < 1e-12 {
		return AffineTransform{}, false
	}

	var inv mat.Dense
	if err := inv.Inverse(d); err != nil {
		// Ill-conditioned matrices still produce a usable result.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return AffineTransform{}, false
		}
	}
	return fromDense(&inv), true
}

// dense returns the homogeneous 3x3 form.
func (t AffineTransform) dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		t.A, t.B, t.TX,
		t.C, t.D, t.TY,
		0, 0, 1,
	})
}

func fromDense(m mat.Matrix) AffineTransform {
	return AffineTransform{
		A: m.At(0, 0), B: m.At(0, 1), TX: m.At(0, 2),
		C: m.At(1, 0), D: m.At(1, 1), TY: m.At(1, 2),
	}
}
