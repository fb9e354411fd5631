package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/kenburns/pkg/cache"
	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/observability"
	"github.com/matzehuels/kenburns/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	now func() time.Time
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		now:    time.Now,
	}
}

// Execute runs plan → render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	planStart := time.Now()
	plan, planHit, err := r.PlanWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	result := &Result{Plan: plan}
	result.Stats.PlanTime = time.Since(planStart)
	result.Stats.TransitionCount = len(plan.Transitions)
	result.Stats.FrameCount = len(plan.Frames)
	result.CacheInfo.PlanHit = planHit

	r.Logger.Info("planned transitions",
		"id", plan.ID,
		"transitions", len(plan.Transitions),
		"frames", len(plan.Frames),
		"cached", planHit,
		"duration", result.Stats.PlanTime)

	renderStart := time.Now()
	rendered, err := r.Render(ctx, plan, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Frames = rendered.Frames
	result.Storyboards = rendered.Storyboards
	result.CacheInfo.FramesCached = rendered.Cached
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered frames",
		"frames", len(rendered.Frames),
		"cached", rendered.Cached,
		"dir", opts.OutputDir,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PlanWithCacheInfo computes a plan with caching and returns cache hit info.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, opts Options) (plan *Plan, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPlan(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnPlanStart(ctx, opts.Variant, opts.Transitions)
	start := time.Now()
	defer func() {
		frames := 0
		if plan != nil {
			frames = len(plan.Frames)
		}
		hooks.OnPlanComplete(ctx, opts.Variant, frames, time.Since(start), err)
	}()

	sizes, err := r.ImageSizes(opts)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.PlanKey(opts.PlanKeyOpts(sizes))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, ok := r.cachedPlan(ctx, cacheKey); ok {
			observability.Cache().OnCacheHit(ctx, "plan")
			opts.Logger.Debug("plan cache hit", "id", cached.ID)
			return cached, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	plan, err = BuildPlan(opts, sizes)
	if err != nil {
		return nil, false, err
	}
	plan.ID = uuid.NewString()
	plan.Hash = cache.Hash([]byte(cacheKey))
	plan.CreatedAt = r.now().UTC()

	if data, err := json.Marshal(plan); err == nil {
		r.store(ctx, cacheKey, "plan", data, cache.PlanTTL)
		r.store(ctx, r.Keyer.PlanIDKey(plan.ID), "plan", data, cache.PlanTTL)
	}
	return plan, false, nil
}

// Plan is a convenience wrapper that calls PlanWithCacheInfo and discards the cache hit info.
func (r *Runner) Plan(ctx context.Context, opts Options) (*Plan, error) {
	plan, _, err := r.PlanWithCacheInfo(ctx, opts)
	return plan, err
}

// LookupPlan returns a previously computed plan by ID.
func (r *Runner) LookupPlan(ctx context.Context, id string) (*Plan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid plan id %q", id)
	}
	plan, ok := r.cachedPlan(ctx, r.Keyer.PlanIDKey(id))
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeNotFound, cache.ErrNotFound, "plan %s", id)
	}
	return plan, nil
}

func (r *Runner) cachedPlan(ctx context.Context, key string) (*Plan, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, false
	}
	return &plan, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// ImageSizes returns explicit sizes when given, otherwise reads every image's
// header.
func (r *Runner) ImageSizes(opts Options) ([]Size, error) {
	if len(opts.ImageSizes) > 0 {
		return opts.ImageSizes, nil
	}
	sizes := make([]Size, len(opts.Images))
	for i, path := range opts.Images {
		b, err := sink.ImageSize(path)
		if err != nil {
			return nil, err
		}
		sizes[i] = Size{Width: int(b.Width()), Height: int(b.Height())}
	}
	return sizes, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
