package transition

import "github.com/matzehuels/kenburns/pkg/geom"

// DefaultFullToRandomMinFactor is the smallest zoom factor FullToRandom samples.
const DefaultFullToRandomMinFactor = 0.85

// FullToRandom starts on the full image and zooms into random regions.
// Rectangles always lie inside the image.
type FullToRandom struct {
	chain
}

// NewFullToRandom creates a FullToRandom generator.
func NewFullToRandom(opts ...Option) (*FullToRandom, error) {
	s, err := newSettings(DefaultFullToRandomMinFactor, opts)
	if err != nil {
		return nil, err
	}
	return &FullToRandom{chain: chain{settings: s}}, nil
}

func (g *FullToRandom) Next(viewport, image geom.Rect) (*Transition, error) {
	if err := validateBounds(viewport, image); err != nil {
		return nil, err
	}
	src, ok := g.source(viewport, image)
	if !ok {
		src = geom.Inscribe(image, viewport.Ratio())
	}
	return g.commit(src, g.sample(viewport, image), image)
}

func (g *FullToRandom) IsCroppingImage() bool { return false }
