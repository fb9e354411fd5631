package geom

import "math"

const (
	// DefaultRatioPrecision is the number of decimals aspect ratios are
	// truncated to before comparison.
	DefaultRatioPrecision = 3

	// RatioTolerance is the largest accepted difference between two truncated
	// aspect ratios.
	RatioTolerance = 0.01
)

// Ratio returns the aspect ratio (width/height) of r.
func Ratio(r Rect) float64 {
	return r.Ratio()
}

// Truncate rounds v to the given number of decimal places.
func Truncate(v float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(v*shift) / shift
}

// SameAspectRatio reports whether a and b share an aspect ratio within
// [RatioTolerance], after truncating both ratios to [DefaultRatioPrecision].
func SameAspectRatio(a, b Rect) bool {
	return SameAspectRatioAt(a, b, DefaultRatioPrecision)
}

// SameAspectRatioAt is [SameAspectRatio] with an explicit truncation precision.
func SameAspectRatioAt(a, b Rect, decimals int) bool {
	ra := Truncate(a.Ratio(), decimals)
	rb := Truncate(b.Ratio(), decimals)
	return math.Abs(ra-rb) <= RatioTolerance
}
