package transition

import (
	"strings"

	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
)

// Generator produces the next transition for a viewport and image bounds.
type Generator interface {
	// Next returns a transition for the given viewport and image bounds. The
	// previous destination becomes the new source unless the image bounds
	// changed or the viewport's aspect ratio no longer matches.
	Next(viewport, image geom.Rect) (*Transition, error)

	// IsCroppingImage reports whether generated rectangles may be rendered
	// with center-crop. Generators that keep rectangles inside the image
	// return false and require fit-center.
	IsCroppingImage() bool
}

// Resetter is implemented by generators that can drop their chain so the
// next transition starts from a fresh source, e.g. when the image changes
// but its bounds do not.
type Resetter interface {
	Reset()
}

// Variant names a built-in generator.
type Variant string

const (
	VariantFullToRandom Variant = "full-to-random"
	VariantRandom       Variant = "random"
)

// Variants lists the built-in generator names.
var Variants = []Variant{VariantFullToRandom, VariantRandom}

func (v Variant) String() string { return string(v) }

// ParseVariant resolves a generator name. Matching is case-insensitive and an
// empty name selects [VariantFullToRandom].
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantFullToRandom:
		return VariantFullToRandom, nil
	case VariantRandom:
		return VariantRandom, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown generator %q (want %s or %s)", s, VariantFullToRandom, VariantRandom)
}

// NewGenerator builds the named variant.
func NewGenerator(v Variant, opts ...Option) (Generator, error) {
	switch v {
	case VariantFullToRandom:
		return NewFullToRandom(opts...)
	case VariantRandom:
		return NewRandom(opts...)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown generator %q", string(v))
}

// chain holds the state shared by both variants.
type chain struct {
	settings
	last       *Transition
	lastBounds geom.Rect
}

// Reset forgets the previous transition.
func (c *chain) Reset() {
	c.last = nil
	c.lastBounds = geom.Rect{}
}

// source returns the previous destination when the chain can continue.
func (c *chain) source(viewport, image geom.Rect) (geom.Rect, bool) {
	if c.last == nil || !c.lastBounds.Equal(image) {
		return geom.Rect{}, false
	}
	dst := c.last.Destination()
	if !geom.SameAspectRatioAt(dst, viewport, c.precision) {
		return geom.Rect{}, false
	}
	return dst, true
}

// sample picks a random viewport-shaped rectangle inside image, scaled by a
// factor in [minFactor, 1].
func (c *chain) sample(viewport, image geom.Rect) geom.Rect {
	base := geom.Inscribe(image, viewport.Ratio())

	r := geom.Truncate(c.rng.Float64(), 2)
	factor := c.minFactor + (1-c.minFactor)*r
	w := base.Width() * factor
	h := base.Height() * factor

	var left, top float64
	if diff := int(image.Width() - w); diff > 0 {
		left = float64(c.rng.IntN(diff))
	}
	if diff := int(image.Height() - h); diff > 0 {
		top = float64(c.rng.IntN(diff))
	}

	return geom.FromSize(w, h).Offset(image.Left+left, image.Top+top)
}

func (c *chain) commit(src, dst, image geom.Rect) (*Transition, error) {
	t, err := New(src, dst, c.duration, c.easing)
	if err != nil {
		return nil, err
	}
	c.last = t
	c.lastBounds = image
	return t, nil
}

func validateBounds(viewport, image geom.Rect) error {
	if err := errors.ValidateDimensions("viewport", viewport.Width(), viewport.Height()); err != nil {
		return err
	}
	if err := errors.ValidateDimensions("image", image.Width(), image.Height()); err != nil {
		return err
	}
	return nil
}
