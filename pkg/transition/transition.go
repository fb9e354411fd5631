package transition

import (
	"time"

	"github.com/matzehuels/kenburns/pkg/ease"
	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
)

// DefaultDuration is the duration of generated transitions.
const DefaultDuration = 10 * time.Second

// Transition is a timed move from a source to a destination rectangle.
type Transition struct {
	src      geom.Rect
	dst      geom.Rect
	duration time.Duration
	easing   ease.Func

	widthDiff   float64
	heightDiff  float64
	centerXDiff float64
	centerYDiff float64
}

// New creates a transition. It fails when d is not positive or either
// rectangle is degenerate. A nil easing selects [ease.AccelerateDecelerate].
func New(src, dst geom.Rect, d time.Duration, fn ease.Func) (*Transition, error) {
	if err := errors.ValidateDuration(d); err != nil {
		return nil, err
	}
	if err := validateRect("source", src); err != nil {
		return nil, err
	}
	if err := validateRect("destination", dst); err != nil {
		return nil, err
	}
	if fn == nil {
		fn = ease.AccelerateDecelerate
	}

	t := &Transition{src: src, dst: dst, duration: d, easing: fn}
	t.Recompute()
	return t, nil
}

// Source returns the rectangle the transition starts from.
func (t *Transition) Source() geom.Rect { return t.src }

// Destination returns the rectangle the transition ends at.
func (t *Transition) Destination() geom.Rect { return t.dst }

// Duration returns the length of the transition.
func (t *Transition) Duration() time.Duration { return t.duration }

// SetSource replaces the source rectangle. Call [Transition.Recompute] once
// all edits are done.
func (t *Transition) SetSource(r geom.Rect) error {
	if err := validateRect("source", r); err != nil {
		return err
	}
	t.src = r
	return nil
}

// SetDestination replaces the destination rectangle. Call
// [Transition.Recompute] once all edits are done.
func (t *Transition) SetDestination(r geom.Rect) error {
	if err := validateRect("destination", r); err != nil {
		return err
	}
	t.dst = r
	return nil
}

// Recompute re-derives the interpolation deltas from the current source and
// destination.
func (t *Transition) Recompute() {
	t.widthDiff = t.dst.Width() - t.src.Width()
	t.heightDiff = t.dst.Height() - t.src.Height()
	t.centerXDiff = t.dst.CenterX() - t.src.CenterX()
	t.centerYDiff = t.dst.CenterY() - t.src.CenterY()
}

// Progress returns elapsed/duration clamped to [0,1].
func (t *Transition) Progress(elapsed time.Duration) float64 {
	p := float64(elapsed) / float64(t.duration)
	return max(0, min(p, 1))
}

// Done reports whether elapsed has reached the transition's duration.
func (t *Transition) Done(elapsed time.Duration) bool {
	return elapsed >= t.duration
}

// InterpolatedRect returns the rectangle to show after elapsed time.
// Elapsed values outside [0, duration] are clamped.
func (t *Transition) InterpolatedRect(elapsed time.Duration) geom.Rect {
	p := t.easing(t.Progress(elapsed))

	w := t.src.Width() + p*t.widthDiff
	h := t.src.Height() + p*t.heightDiff
	cx := t.src.CenterX() + p*t.centerXDiff
	cy := t.src.CenterY() + p*t.centerYDiff

	return geom.FromCenter(cx, cy, w, h)
}

func validateRect(what string, r geom.Rect) error {
	if !r.Valid() {
		return errors.New(errors.ErrCodeInvalidGeometry, "%s rect %v must have positive width and height", what, r)
	}
	return nil
}
