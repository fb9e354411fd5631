package animator

import (
	"time"

	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
	"github.com/matzehuels/kenburns/pkg/observability"
	"github.com/matzehuels/kenburns/pkg/render"
	"github.com/matzehuels/kenburns/pkg/transition"
)

// Animator owns the running transition and advances it on every tick.
type Animator struct {
	gen      transition.Generator
	mode     render.FitMode
	listener Listener

	viewport geom.Rect
	image    geom.Rect

	current *transition.Transition
	index   int
	elapsed time.Duration
	last    time.Time
	paused  bool
}

// Option configures an Animator.
type Option func(*Animator)

// WithListener registers l for transition start and end events.
func WithListener(l Listener) Option {
	return func(a *Animator) {
		if l != nil {
			a.listener = l
		}
	}
}

// WithFitMode overrides the fit mode derived from the generator. New fails
// if the mode does not match the generator.
func WithFitMode(m render.FitMode) Option {
	return func(a *Animator) { a.mode = m }
}

// New creates an animator that draws transitions from gen. No transition runs
// until [Animator.SetBounds] is called.
func New(gen transition.Generator, opts ...Option) (*Animator, error) {
	if gen == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "animator requires a generator")
	}
	a := &Animator{
		gen:      gen,
		mode:     render.ModeFor(gen),
		listener: noopListener{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := render.CheckMode(gen, a.mode); err != nil {
		return nil, err
	}
	return a, nil
}

// SetBounds sets the viewport and image bounds, cancels the running
// transition and starts a new one. Degenerate bounds stop the animation
// until valid bounds are set again.
func (a *Animator) SetBounds(viewport, image geom.Rect) error {
	if err := validateBounds(viewport, image); err != nil {
		a.viewport = geom.Rect{}
		a.image = geom.Rect{}
		a.current = nil
		a.index = 0
		a.elapsed = 0
		a.last = time.Time{}
		return err
	}
	a.viewport = viewport
	a.image = image
	observability.Animation().OnBoundsChange(viewport, image)
	return a.Restart()
}

func validateBounds(viewport, image geom.Rect) error {
	if err := errors.ValidateDimensions("viewport", viewport.Width(), viewport.Height()); err != nil {
		return err
	}
	return errors.ValidateDimensions("image", image.Width(), image.Height())
}

// Restart discards the running transition and starts a new one for the
// current bounds.
func (a *Animator) Restart() error {
	if a.viewport.Empty() || a.image.Empty() {
		return errors.New(errors.ErrCodeNoActiveTransition, "bounds are not set")
	}
	a.current = nil
	a.index = 0
	return a.start()
}

func (a *Animator) start() error {
	t, err := a.gen.Next(a.viewport, a.image)
	if err != nil {
		return err
	}
	if a.current != nil {
		a.index++
	}
	a.current = t
	a.elapsed = 0
	observability.Animation().OnTransitionStart(a.index, t.Source(), t.Destination(), t.Duration())
	a.listener.OnTransitionStart(t)
	return nil
}

// Tick advances the clock to now and returns the frame to draw. When the
// running transition completes, the returned frame shows its destination and
// the next transition is started before Tick returns. If that fails, the error
// is returned with the frame and later ticks report NO_ACTIVE_TRANSITION.
func (a *Animator) Tick(now time.Time) (render.Frame, error) {
	if a.current == nil {
		return render.Frame{}, errors.New(errors.ErrCodeNoActiveTransition, "no transition is running; set bounds first")
	}

	if !a.paused {
		if !a.last.IsZero() {
			if dt := now.Sub(a.last); dt > 0 {
				a.elapsed += dt
			}
		}
		a.last = now
	}

	frame, err := render.NewFrame(a.index, a.current, a.elapsed, a.image, a.viewport, a.mode)
	if err != nil {
		return render.Frame{}, err
	}

	if !a.paused && a.current.Done(a.elapsed) {
		done := a.current
		observability.Animation().OnTransitionEnd(a.index, a.elapsed)
		a.listener.OnTransitionEnd(done)
		if err := a.start(); err != nil {
			a.current = nil
			return frame, err
		}
	}
	return frame, nil
}

// Pause freezes elapsed time. Ticks while paused keep returning the same frame.
func (a *Animator) Pause() {
	if a.paused {
		return
	}
	a.paused = true
	observability.Animation().OnPause(true)
}

// Resume continues a paused animation. The next tick sets the time baseline
// without advancing.
func (a *Animator) Resume() {
	if !a.paused {
		return
	}
	a.paused = false
	a.last = time.Time{}
	observability.Animation().OnPause(false)
}

// Paused reports whether the animation is paused.
func (a *Animator) Paused() bool { return a.paused }

// Current returns the running transition, or nil before bounds are set.
func (a *Animator) Current() *transition.Transition { return a.current }

// Elapsed returns the time accumulated on the running transition.
func (a *Animator) Elapsed() time.Duration { return a.elapsed }

// Index returns the number of transitions completed since the last restart.
func (a *Animator) Index() int { return a.index }

// Mode returns the fit mode used to build frames.
func (a *Animator) Mode() render.FitMode { return a.mode }
