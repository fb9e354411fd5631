package render

import (
	"time"

	"github.com/matzehuels/kenburns/pkg/geom"
	"github.com/matzehuels/kenburns/pkg/transition"
)

// Frame is one rendered moment of a transition.
type Frame struct {
	// Index is the position of the transition in its run, starting at 0.
	Index    int           `json:"index"`
	Elapsed  time.Duration `json:"elapsed"`
	Progress float64       `json:"progress"`
	Rect     geom.Rect     `json:"rect"`
	Matrix   geom.Matrix   `json:"matrix"`
	// Visible is the part of Rect that overlaps the image. It is the zero
	// Rect when they do not overlap.
	Visible geom.Rect `json:"visible"`
}

// NewFrame interpolates t at elapsed and derives the frame's transform.
func NewFrame(index int, t *transition.Transition, elapsed time.Duration, image, viewport geom.Rect, mode FitMode) (Frame, error) {
	r := t.InterpolatedRect(elapsed)
	m, err := Transform(r, image, viewport, mode)
	if err != nil {
		return Frame{}, err
	}
	visible, _ := geom.Intersect(r, image)

	return Frame{
		Index:    index,
		Elapsed:  min(max(elapsed, 0), t.Duration()),
		Progress: t.Progress(elapsed),
		Rect:     r,
		Matrix:   m,
		Visible:  visible,
	}, nil
}
