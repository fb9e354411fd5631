package geom

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left   float64 `json:"left" toml:"left"`
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
}

// FromSize returns the rectangle (0,0)-(w,h).
func FromSize(w, h float64) Rect {
	return Rect{Right: w, Bottom: h}
}

// FromCenter returns the rectangle of size w x h centered on (cx, cy).
func FromCenter(cx, cy, w, h float64) Rect {
	left := cx - w/2
	top := cy - h/2
	return Rect{Left: left, Top: top, Right: left + w, Bottom: top + h}
}

func (r Rect) Width() float64   { return r.Right - r.Left }
func (r Rect) Height() float64  { return r.Bottom - r.Top }
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Ratio returns width/height. It is meaningless for degenerate rectangles.
func (r Rect) Ratio() float64 { return r.Width() / r.Height() }

// Empty reports whether r has zero or negative area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Valid reports whether r has finite coordinates and a positive area.
func (r Rect) Valid() bool {
	for _, v := range [...]float64{r.Left, r.Top, r.Right, r.Bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return !r.Empty()
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Contains reports whether o lies entirely within r (edges inclusive).
func (r Rect) Contains(o Rect) bool {
	return o.Left >= r.Left && o.Top >= r.Top && o.Right <= r.Right && o.Bottom <= r.Bottom
}

// Equal reports whether r and o have identical edges.
func (r Rect) Equal(o Rect) bool { return r == o }

// ApproxEqual reports whether every edge of r and o differ by at most eps.
func (r Rect) ApproxEqual(o Rect, eps float64) bool {
	return math.Abs(r.Left-o.Left) <= eps &&
		math.Abs(r.Top-o.Top) <= eps &&
		math.Abs(r.Right-o.Right) <= eps &&
		math.Abs(r.Bottom-o.Bottom) <= eps
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Left, r.Top, r.Right, r.Bottom)
}

// Intersect returns the overlap of a and b. The boolean is false when the
// rectangles do not overlap, in which case the returned Rect is the zero value.
func Intersect(a, b Rect) (Rect, bool) {
	r := Rect{
		Left:   max(a.Left, b.Left),
		Top:    max(a.Top, b.Top),
		Right:  min(a.Right, b.Right),
		Bottom: min(a.Bottom, b.Bottom),
	}
	if r.Empty() {
		return Rect{}, false
	}
	return r, true
}

// Inscribe returns the largest rectangle with the given aspect ratio that fits
// inside bounds, anchored at the bounds' top-left corner.
func Inscribe(bounds Rect, ratio float64) Rect {
	w, h := inscribedSize(bounds, ratio)
	return Rect{Left: bounds.Left, Top: bounds.Top, Right: bounds.Left + w, Bottom: bounds.Top + h}
}

// Center returns the largest rectangle with the given aspect ratio that fits
// inside bounds, centered on the bounds' center.
func Center(bounds Rect, ratio float64) Rect {
	w, h := inscribedSize(bounds, ratio)
	return FromCenter(bounds.CenterX(), bounds.CenterY(), w, h)
}

func inscribedSize(bounds Rect, ratio float64) (w, h float64) {
	if bounds.Ratio() > ratio {
		// bounds are wider than the target: height is the limiting dimension
		h = bounds.Height()
		return h * ratio, h
	}
	w = bounds.Width()
	return w, w / ratio
}
