package pipeline

import (
	"math"
	"time"

	"github.com/matzehuels/kenburns/pkg/ease"
	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
	"github.com/matzehuels/kenburns/pkg/render"
	"github.com/matzehuels/kenburns/pkg/transition"
)

// Plan is a frame timeline: the transitions to run and every frame sampled
// from them.
type Plan struct {
	ID        string    `json:"id"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`

	Options     Options          `json:"options"`
	Viewport    geom.Rect        `json:"viewport"`
	Mode        string           `json:"mode"`
	Duration    time.Duration    `json:"duration"`
	Transitions []PlanTransition `json:"transitions"`
	Frames      []render.Frame   `json:"frames"`
}

// PlanTransition is one planned transition.
type PlanTransition struct {
	Index       int           `json:"index"`
	Image       int           `json:"image"`
	ImageBounds geom.Rect     `json:"image_bounds"`
	Src         geom.Rect     `json:"src"`
	Dst         geom.Rect     `json:"dst"`
	Duration    time.Duration `json:"duration"`
	FirstFrame  int           `json:"first_frame"`
	FrameCount  int           `json:"frame_count"`
}

// TransitionFor returns the transition frame i belongs to.
func (p *Plan) TransitionFor(i int) (PlanTransition, bool) {
	if i < 0 || i >= len(p.Frames) {
		return PlanTransition{}, false
	}
	idx := p.Frames[i].Index
	if idx < 0 || idx >= len(p.Transitions) {
		return PlanTransition{}, false
	}
	return p.Transitions[idx], true
}

// BuildPlan generates transitions against the given image sizes and samples
// them at the configured FPS. It is deterministic for fixed options; ID, Hash
// and CreatedAt are left for the caller.
func BuildPlan(opts Options, sizes []Size) (*Plan, error) {
	if err := opts.ValidateForPlan(); err != nil {
		return nil, err
	}
	if len(sizes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no image sizes to plan against")
	}

	gen, err := opts.Generator()
	if err != nil {
		return nil, err
	}
	mode, err := opts.FitMode()
	if err != nil {
		return nil, err
	}
	if err := render.CheckMode(gen, mode); err != nil {
		return nil, err
	}

	viewport := opts.Viewport()
	perTransition := framesPerTransition(opts.Duration(), opts.FPS)
	plan := &Plan{
		Options:     opts,
		Viewport:    viewport,
		Mode:        mode.String(),
		Transitions: make([]PlanTransition, 0, opts.Transitions),
		Frames:      make([]render.Frame, 0, opts.Transitions*perTransition),
	}

	prevImage := -1
	for i := 0; i < opts.Transitions; i++ {
		imgIdx := opts.ImageFor(i) % len(sizes)
		bounds := sizes[imgIdx].Rect()

		// a new image always starts a fresh chain, even when its bounds
		// match the previous one
		if imgIdx != prevImage && prevImage >= 0 {
			if r, ok := gen.(transition.Resetter); ok {
				r.Reset()
			}
		}
		prevImage = imgIdx

		t, err := gen.Next(viewport, bounds)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "transition %d", i)
		}

		pt := PlanTransition{
			Index:       i,
			Image:       imgIdx,
			ImageBounds: bounds,
			Src:         t.Source(),
			Dst:         t.Destination(),
			Duration:    t.Duration(),
			FirstFrame:  len(plan.Frames),
			FrameCount:  perTransition,
		}
		for k := 0; k < perTransition; k++ {
			f, err := render.NewFrame(i, t, frameTime(k, opts.FPS), bounds, viewport, mode)
			if err != nil {
				return nil, err
			}
			plan.Frames = append(plan.Frames, f)
		}
		plan.Transitions = append(plan.Transitions, pt)
		plan.Duration += t.Duration()
	}
	return plan, nil
}

// Generator builds the transition generator the options describe. Options
// must have passed validation.
func (o *Options) Generator() (transition.Generator, error) {
	fn, err := ease.Lookup(o.Easing)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "easing")
	}
	genOpts := []transition.Option{
		transition.WithDuration(o.Duration()),
		transition.WithEasing(fn),
		transition.WithSeed(o.Seed),
	}
	if o.MinFactor != 0 {
		genOpts = append(genOpts, transition.WithMinFactor(o.MinFactor))
	}
	return transition.NewGenerator(transition.Variant(o.Variant), genOpts...)
}

// framesPerTransition returns how many frames sample [0, d) at fps.
func framesPerTransition(d time.Duration, fps int) int {
	return max(1, int(math.Ceil(d.Seconds()*float64(fps))))
}

func frameTime(k, fps int) time.Duration {
	return time.Duration(k) * time.Second / time.Duration(fps)
}
