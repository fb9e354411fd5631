// Package render derives the affine transform that draws a transition's
// current rectangle into the viewport.
//
// # Fit Modes
//
// The current rectangle rarely has exactly the viewport's aspect ratio (a
// transition between rectangles of different shapes passes through
// intermediate ratios). [FitMode] decides how the difference is absorbed:
//
//   - [FitCenter] scales the rectangle until it touches one pair of viewport
//     edges and letterboxes the rest.
//   - [CenterCrop] scales it until it covers the viewport and crops the
//     overflow.
//
// Generators that keep their rectangles inside the image need [FitCenter];
// generators that report [transition.Generator.IsCroppingImage] need
// [CenterCrop]. [ModeFor] picks the right one and [CheckMode] rejects a
// mismatched pair.
//
// # Transform
//
// [Transform] returns a [geom.Matrix] in image space:
//
//	m, err := render.Transform(current, image, viewport, render.FitCenter)
//	vp := m.ApplyRect(current) // ~ viewport when ratios match
//
// The matrix moves the image center to the origin, applies a uniform scale and
// then translates so the rectangle's center lands on the viewport center.
//
// # Frames
//
// [NewFrame] bundles everything a sink needs to draw one moment of a
// transition: the interpolated rectangle, its matrix, the part of it that
// overlaps the image and the progress.
//
// [transition.Generator.IsCroppingImage]: github.com/matzehuels/kenburns/pkg/transition.Generator
package render
