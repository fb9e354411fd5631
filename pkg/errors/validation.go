package errors

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// ValidateDimensions checks that a width/height pair describes a non-degenerate area.
// NaN and infinite values are rejected along with zero and negative sizes.
//
// The what argument names the geometry in the message (e.g. "viewport", "image").
func ValidateDimensions(what string, width, height float64) error {
	if !finite(width) || !finite(height) {
		return New(ErrCodeInvalidGeometry, "%s dimensions must be finite (got %gx%g)", what, width, height)
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidGeometry, "%s must have positive width and height (got %gx%g)", what, width, height)
	}
	return nil
}

// ValidateDuration checks that a transition duration is strictly positive.
func ValidateDuration(d time.Duration) error {
	if d <= 0 {
		return New(ErrCodeInvalidDuration, "duration must be positive (got %s)", d)
	}
	return nil
}

// ValidateFactor checks that a minimum rect factor lies in (0, 1].
func ValidateFactor(f float64) error {
	if !finite(f) || f <= 0 || f > 1 {
		return New(ErrCodeInvalidConfig, "min factor must be in (0, 1] (got %g)", f)
	}
	return nil
}

// ValidatePath validates a local file path supplied by a user or API client.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
