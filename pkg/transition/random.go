package transition

import "github.com/matzehuels/kenburns/pkg/geom"

// DefaultRandomMinFactor is the smallest zoom factor Random samples.
const DefaultRandomMinFactor = 0.5

// Random moves between independently sampled regions of the image.
type Random struct {
	chain
}

// NewRandom creates a Random generator.
func NewRandom(opts ...Option) (*Random, error) {
	s, err := newSettings(DefaultRandomMinFactor, opts)
	if err != nil {
		return nil, err
	}
	return &Random{chain: chain{settings: s}}, nil
}

func (g *Random) Next(viewport, image geom.Rect) (*Transition, error) {
	if err := validateBounds(viewport, image); err != nil {
		return nil, err
	}
	src, ok := g.source(viewport, image)
	if !ok {
		src = g.sample(viewport, image)
	}
	return g.commit(src, g.sample(viewport, image), image)
}

func (g *Random) IsCroppingImage() bool { return true }
