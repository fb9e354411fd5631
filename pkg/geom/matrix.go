package geom

import "fmt"

// Matrix is a 2D affine transform stored as [a b c d e f]:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
//
// A point (x, y) maps to (a*x + c*y + e, b*x + d*y + f).
type Matrix [6]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Multiply returns m * o, the transform that applies o first and then m.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Then returns the transform that applies m first and then next.
func (m Matrix) Then(next Matrix) Matrix {
	return next.Multiply(m)
}

// Apply maps the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyRect maps both corners of r. The result is only axis-aligned for
// matrices without rotation or skew, which is all this module produces.
func (m Matrix) ApplyRect(r Rect) Rect {
	l, t := m.Apply(r.Left, r.Top)
	rr, b := m.Apply(r.Right, r.Bottom)
	return Rect{Left: min(l, rr), Top: min(t, b), Right: max(l, rr), Bottom: max(t, b)}
}

// Invert returns the inverse of m. The boolean is false when m is singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return Matrix{}, false
	}
	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, true
}

// ScaleX returns the horizontal scale factor of a matrix without rotation.
func (m Matrix) ScaleX() float64 { return m[0] }

// ScaleY returns the vertical scale factor of a matrix without rotation.
func (m Matrix) ScaleY() float64 { return m[3] }

func (m Matrix) String() string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", m[0], m[1], m[2], m[3], m[4], m[5])
}
