// Package animator drives Ken Burns transitions from a host frame loop.
//
// The host owns the clock and calls [Animator.Tick] once per frame with the
// current time. The animator accumulates elapsed time between ticks,
// interpolates the current transition, and returns a [render.Frame] holding
// the rectangle and transform to draw:
//
//	a, err := animator.New(gen, animator.WithListener(animator.ListenerFuncs{
//	    End: func(t *transition.Transition) { log.Info("done", "dst", t.Destination()) },
//	}))
//	if err := a.SetBounds(viewport, image); err != nil { ... }
//	for now := range ticker.C {
//	    frame, err := a.Tick(now)
//	    ...
//	}
//
// When the elapsed time reaches the transition's duration the animator fires
// OnTransitionEnd, asks the generator for the next transition (whose source
// is the previous destination), and fires OnTransitionStart.
//
// [Animator.Pause] freezes the elapsed time; the tick after [Animator.Resume]
// only re-establishes the time baseline, so a long pause never turns into a
// jump. [Animator.SetBounds] cancels the running transition and starts a new
// one for the new geometry.
//
// An Animator is not safe for concurrent use.
package animator
