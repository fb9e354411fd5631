// Package pkg holds the kenburns libraries.
//
// # Overview
//
// A Ken Burns transition is a slow pan and zoom between two rectangles of a
// still image. The packages build on each other:
//
//  1. [geom] - Rectangles, aspect ratios and affine matrices
//  2. [ease] - Easing curves mapping linear progress to eased progress
//  3. [transition] - Transitions and the generators that produce them
//  4. [render] - Viewport matrices, fit modes and frames
//  5. [animator] - Clock-driven playback with pause, resume and events
//  6. [pipeline] - Plan and render stages with caching (used by CLI and API)
//
// Supporting packages: [cache] (file, Redis and MongoDB backends),
// [errors] (coded errors), [observability] (hooks) and [buildinfo].
//
// # Data Flow
//
//	image size + viewport
//	         ↓
//	    [transition] Generator.Next → Transition (src → dst)
//	         ↓
//	    [render] NewFrame (eased rect + matrix) at time t
//	         ↓
//	    [render/sink] RenderFrame → PNG/JPEG
//
// # Quick Start
//
//	gen, _ := transition.NewFullToRandom(transition.WithSeed(7))
//	t, _ := gen.Next(geom.FromSize(1280, 720), geom.FromSize(4000, 3000))
//
//	for elapsed := time.Duration(0); elapsed <= t.Duration(); elapsed += time.Second {
//	    rect := t.InterpolatedRect(elapsed)
//	    m, _ := render.Transform(rect, geom.FromSize(4000, 3000), geom.FromSize(1280, 720), render.FitCenter)
//	    // draw the image with m
//	}
package pkg
