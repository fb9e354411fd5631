package transition

import (
	"time"

	"github.com/matzehuels/kenburns/pkg/ease"
	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
)

// Option configures a generator.
type Option func(*settings)

type settings struct {
	duration  time.Duration
	easing    ease.Func
	minFactor float64
	rng       Rand
	precision int
}

func newSettings(minFactor float64, opts []Option) (settings, error) {
	s := settings{
		duration:  DefaultDuration,
		easing:    ease.AccelerateDecelerate,
		minFactor: minFactor,
		precision: geom.DefaultRatioPrecision,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.rng == nil {
		s.rng = NewRand(timeSeed())
	}
	if err := errors.ValidateDuration(s.duration); err != nil {
		return s, err
	}
	if err := errors.ValidateFactor(s.minFactor); err != nil {
		return s, err
	}
	if s.precision < 0 {
		return s, errors.New(errors.ErrCodeInvalidConfig, "ratio precision must not be negative (got %d)", s.precision)
	}
	return s, nil
}

// WithDuration sets the duration of every generated transition.
func WithDuration(d time.Duration) Option {
	return func(s *settings) { s.duration = d }
}

// WithEasing sets the easing of every generated transition. Nil keeps the default.
func WithEasing(fn ease.Func) Option {
	return func(s *settings) {
		if fn != nil {
			s.easing = fn
		}
	}
}

// WithMinFactor sets the lower bound of the zoom factor range [f, 1].
func WithMinFactor(f float64) Option {
	return func(s *settings) { s.minFactor = f }
}

// WithSeed seeds a PCG source for reproducible output.
func WithSeed(seed uint64) Option {
	return func(s *settings) { s.rng = NewRand(seed) }
}

// WithRand injects the random source directly.
func WithRand(r Rand) Option {
	return func(s *settings) { s.rng = r }
}

// WithRatioPrecision sets the decimals used when deciding whether the viewport
// still matches the previous destination's aspect ratio.
func WithRatioPrecision(decimals int) Option {
	return func(s *settings) { s.precision = decimals }
}
