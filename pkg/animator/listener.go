package animator

import "github.com/matzehuels/kenburns/pkg/transition"

// Listener receives transition lifecycle events.
type Listener interface {
	OnTransitionStart(t *transition.Transition)
	OnTransitionEnd(t *transition.Transition)
}

// ListenerFuncs adapts plain functions to [Listener]. Nil fields are skipped.
type ListenerFuncs struct {
	Start func(t *transition.Transition)
	End   func(t *transition.Transition)
}

func (l ListenerFuncs) OnTransitionStart(t *transition.Transition) {
	if l.Start != nil {
		l.Start(t)
	}
}

func (l ListenerFuncs) OnTransitionEnd(t *transition.Transition) {
	if l.End != nil {
		l.End(t)
	}
}

type noopListener struct{}

func (noopListener) OnTransitionStart(*transition.Transition) {}
func (noopListener) OnTransitionEnd(*transition.Transition)   {}
