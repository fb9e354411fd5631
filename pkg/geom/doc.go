// Package geom provides the rectangle and affine-matrix primitives used by the
// Ken Burns transition math.
//
// # Rectangles
//
// [Rect] is an axis-aligned rectangle in floating point coordinates with the
// origin at the top-left corner (y grows downwards), matching image and screen
// space. Derived values (width, height, center, aspect ratio) are methods.
//
// A rectangle with zero or negative width or height is degenerate. Degenerate
// rectangles are never valid inputs to a transition; see [Rect.Valid].
//
// # Aspect ratios
//
// Successive scale operations accumulate floating point drift, so aspect
// ratios are compared after truncating them to a fixed number of decimals:
//
//	geom.SameAspectRatio(a, b)        // 3 decimals, tolerance 0.01
//	geom.SameAspectRatioAt(a, b, 2)   // 2 decimals, tolerance 0.01
//
// # Matrices
//
// [Matrix] is a 2D affine transform. Matrices compose in application order
// with [Matrix.Then], which mirrors the post-concatenation style of most
// canvas APIs:
//
//	m := geom.Translate(-cx, -cy).Then(geom.Scale(s, s)).Then(geom.Translate(tx, ty))
package geom
