// Package ease provides easing functions that reparameterize animation
// progress.
//
// Every [Func] maps [0,1] onto [0,1], is monotonic, and satisfies f(0) = 0 and
// f(1) = 1. Transitions rely on the endpoints: a transition evaluated at its
// full duration must land exactly on its destination rectangle.
//
// Functions are addressable by name so hosts can configure them from flags or
// config files:
//
//	fn, err := ease.Lookup("accelerate-decelerate")
package ease

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Func is an easing function.
type Func func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return t
}

// AccelerateDecelerate starts and ends slowly and moves fastest in the middle.
// It is the default easing for transitions.
func AccelerateDecelerate(t float64) float64 {
	return math.Cos((t+1)*math.Pi)/2 + 0.5
}

// Accelerate starts slowly and speeds up.
func Accelerate(t float64) float64 {
	return t * t
}

// Decelerate starts quickly and slows down.
func Decelerate(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// InOutCubic is a steeper symmetric curve than [AccelerateDecelerate].
func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Default is the easing used when none is configured.
const Default = "accelerate-decelerate"

var registry = map[string]Func{
	"linear":                Linear,
	"accelerate":            Accelerate,
	"decelerate":            Decelerate,
	"accelerate-decelerate": AccelerateDecelerate,
	"in-out-cubic":          InOutCubic,
	"ease":                  CubicBezier(0.25, 0.1, 0.25, 1),
}

// Lookup returns the easing function registered under name. Names are case
// insensitive; an empty name resolves to [Default].
func Lookup(name string) (Func, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q (must be one of: %s)", name, strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Names returns the registered easing names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
