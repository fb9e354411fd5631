package render

import (
	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
)

// Transform returns the matrix that draws current, a rectangle in image
// space, into viewport.
func Transform(current, image, viewport geom.Rect, mode FitMode) (geom.Matrix, error) {
	if err := errors.ValidateDimensions("rect", current.Width(), current.Height()); err != nil {
		return geom.Matrix{}, err
	}
	if err := errors.ValidateDimensions("image", image.Width(), image.Height()); err != nil {
		return geom.Matrix{}, err
	}
	if err := errors.ValidateDimensions("viewport", viewport.Width(), viewport.Height()); err != nil {
		return geom.Matrix{}, err
	}

	s, err := scale(current, viewport, mode)
	if err != nil {
		return geom.Matrix{}, err
	}

	tx := viewport.CenterX() - s*(current.CenterX()-image.CenterX())
	ty := viewport.CenterY() - s*(current.CenterY()-image.CenterY())

	return geom.Translate(-image.CenterX(), -image.CenterY()).
		Then(geom.Scale(s, s)).
		Then(geom.Translate(tx, ty)), nil
}

func scale(current, viewport geom.Rect, mode FitMode) (float64, error) {
	toViewport := viewport.Width() / current.Width()
	correction := (viewport.Height() / current.Height()) / toViewport

	switch mode {
	case FitCenter:
		correction = min(1, correction)
	case CenterCrop:
		correction = max(1, correction)
	default:
		return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown fit mode %d", int(mode))
	}
	return toViewport * correction, nil
}
