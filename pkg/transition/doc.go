// Package transition implements Ken Burns transitions and the generators that
// produce them.
//
// # Transitions
//
// A [Transition] is a timed move from a source rectangle to a destination
// rectangle, both in image coordinates. Interpolation is a pure function of
// elapsed time:
//
//	t, err := transition.New(src, dst, 10*time.Second, ease.AccelerateDecelerate)
//	r := t.InterpolatedRect(2500 * time.Millisecond)
//
// The width, height and center deltas between source and destination are
// computed once at construction, so per-frame interpolation is four
// multiply-adds. Source and destination do not need to share an aspect ratio;
// a mismatch is smoothed out over the course of the transition.
//
// # Generators
//
// A [Generator] produces the next transition for the current viewport and
// image bounds. Two variants are provided:
//
//   - [FullToRandom] starts on the full image (the largest viewport-shaped
//     rectangle that fits) and zooms into random regions. Rectangles never
//     leave the image, so it pairs with fit-center rendering.
//   - [Random] moves between independently sampled regions with a wider zoom
//     range. It pairs with center-crop rendering.
//
// Each call reuses the previous destination as the new source so consecutive
// transitions join without a visual jump. The chain restarts when the image
// bounds change or the viewport's aspect ratio no longer matches.
//
// # Randomness
//
// Generators draw from an injected [Rand]. Pass [WithSeed] for reproducible
// output or [WithRand] to script the draws in tests.
package transition
