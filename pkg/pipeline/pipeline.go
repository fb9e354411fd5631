// Package pipeline turns a Ken Burns configuration into a frame timeline and
// rendered frames.
//
// This package implements the plan → render pipeline shared by the CLI and
// the HTTP API, so both entry points apply the same defaults, validation and
// caching.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Plan: generate transitions for every image and sample them into frames
//     at a fixed FPS. Planning needs only image sizes, never pixels.
//  2. Render: rasterize every planned frame from its source image and write
//     it to disk, plus an optional storyboard per image.
//
// Each stage is cached: plans by their inputs, frames by plan hash, frame
// number and a fingerprint of the source image.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Images:    []string{"a.jpg", "b.jpg"},
//	    OutputDir: "frames",
//	}
//	result, err := runner.Execute(ctx, opts)
//
// Run the stages individually:
//
//	plan, err := runner.Plan(ctx, opts)
//	rendered, err := runner.Render(ctx, plan, opts)
//
// # Configuration Files
//
// [LoadOptions] reads Options from TOML. Keys match the JSON field names:
//
//	variant = "random"
//	width = 1920
//	height = 1080
//	images = ["beach.jpg", "dunes.jpg"]
//	transitions_per_image = 2
//	duration_ms = 8000
package pipeline

import (
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/kenburns/pkg/cache"
	"github.com/matzehuels/kenburns/pkg/ease"
	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
	"github.com/matzehuels/kenburns/pkg/render"
	"github.com/matzehuels/kenburns/pkg/render/sink"
	"github.com/matzehuels/kenburns/pkg/transition"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 1280

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 720

	// DefaultDurationMS is the default transition duration.
	DefaultDurationMS = int64(transition.DefaultDuration / time.Millisecond)

	// DefaultFPS is the default frame rate of planned timelines.
	DefaultFPS = 30

	// DefaultTransitions is the default number of transitions in a plan.
	DefaultTransitions = 3

	// DefaultTransitionsPerImage is how many transitions run on an image
	// before switching to the next one.
	DefaultTransitionsPerImage = 3

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultVariant is the default transition generator.
	DefaultVariant = string(transition.VariantFullToRandom)

	// DefaultFormat is the default frame format.
	DefaultFormat = string(sink.FormatPNG)
)

// Limits applied by validation.
const (
	MaxDimension   = 8192
	MaxTransitions = 1000
	MaxFPS         = 120
	MaxFrames      = 200_000
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Size is an image size in pixels.
type Size struct {
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

// Rect returns s as a rectangle anchored at the origin.
func (s Size) Rect() geom.Rect {
	return geom.FromSize(float64(s.Width), float64(s.Height))
}

// Options contains all configuration for the pipeline.
// It is the JSON body of API requests and the schema of TOML config files.
type Options struct {
	// Plan options
	Variant             string   `json:"variant,omitempty" toml:"variant"`
	Easing              string   `json:"easing,omitempty" toml:"easing"`
	Mode                string   `json:"mode,omitempty" toml:"mode"`
	Width               int      `json:"width,omitempty" toml:"width"`
	Height              int      `json:"height,omitempty" toml:"height"`
	Images              []string `json:"images,omitempty" toml:"images"`
	ImageSizes          []Size   `json:"image_sizes,omitempty" toml:"image_sizes"`
	Transitions         int      `json:"transitions,omitempty" toml:"transitions"`
	TransitionsPerImage int      `json:"transitions_per_image,omitempty" toml:"transitions_per_image"`
	DurationMS          int64    `json:"duration_ms,omitempty" toml:"duration_ms"`
	MinFactor           float64  `json:"min_factor,omitempty" toml:"min_factor"`
	FPS                 int      `json:"fps,omitempty" toml:"fps"`
	Seed                uint64   `json:"seed,omitempty" toml:"seed"`

	// Render options
	Format     string `json:"format,omitempty" toml:"format"`
	OutputDir  string `json:"-" toml:"output_dir"`
	Storyboard bool   `json:"storyboard,omitempty" toml:"storyboard"`
	Workers    int    `json:"-" toml:"workers"`
	Refresh    bool   `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger   *log.Logger           `json:"-" toml:"-"`
	Progress func(done, total int) `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Plan is the frame timeline.
	Plan *Plan

	// Frames lists the written frame files in order.
	Frames []string

	// Storyboards lists the written storyboard files, one per image.
	Storyboards []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TransitionCount int
	FrameCount      int
	PlanTime        time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit      bool // Whether the plan came from cache
	FramesCached int  // Number of frames served from cache
}

// =============================================================================
// Loading
// =============================================================================

// LoadOptions reads options from a TOML file. Unknown keys are rejected so a
// typo never silently falls back to a default.
func LoadOptions(path string) (Options, error) {
	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// Merge returns o with every non-zero field of override applied on top.
func (o Options) Merge(override Options) Options {
	if override.Variant != "" {
		o.Variant = override.Variant
	}
	if override.Easing != "" {
		o.Easing = override.Easing
	}
	if override.Mode != "" {
		o.Mode = override.Mode
	}
	if override.Width != 0 {
		o.Width = override.Width
	}
	if override.Height != 0 {
		o.Height = override.Height
	}
	if len(override.Images) > 0 {
		o.Images = override.Images
	}
	if len(override.ImageSizes) > 0 {
		o.ImageSizes = override.ImageSizes
	}
	if override.Transitions != 0 {
		o.Transitions = override.Transitions
	}
	if override.TransitionsPerImage != 0 {
		o.TransitionsPerImage = override.TransitionsPerImage
	}
	if override.DurationMS != 0 {
		o.DurationMS = override.DurationMS
	}
	if override.MinFactor != 0 {
		o.MinFactor = override.MinFactor
	}
	if override.FPS != 0 {
		o.FPS = override.FPS
	}
	if override.Seed != 0 {
		o.Seed = override.Seed
	}
	if override.Format != "" {
		o.Format = override.Format
	}
	if override.OutputDir != "" {
		o.OutputDir = override.OutputDir
	}
	if override.Workers != 0 {
		o.Workers = override.Workers
	}
	o.Storyboard = o.Storyboard || override.Storyboard
	o.Refresh = o.Refresh || override.Refresh
	if override.Logger != nil {
		o.Logger = override.Logger
	}
	if override.Progress != nil {
		o.Progress = override.Progress
	}
	o.validated = false
	return o
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPlan(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForPlan validates and sets defaults for planning.
func (o *Options) ValidateForPlan() error {
	o.SetPlanDefaults()

	variant, err := transition.ParseVariant(o.Variant)
	if err != nil {
		return err
	}
	o.Variant = string(variant)

	if _, err := ease.Lookup(o.Easing); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "easing")
	}

	mode, err := o.FitMode()
	if err != nil {
		return err
	}
	if want := modeForVariant(variant); mode != want {
		return errors.New(errors.ErrCodeInvalidConfig, "mode %s does not match generator %s (want %s)", mode, variant, want)
	}
	o.Mode = mode.String()

	if o.Width <= 0 || o.Height <= 0 || o.Width > MaxDimension || o.Height > MaxDimension {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport must be between 1x1 and %dx%d (got %dx%d)", MaxDimension, MaxDimension, o.Width, o.Height)
	}
	if len(o.Images) == 0 && len(o.ImageSizes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one image or image size is required")
	}
	if len(o.Images) > 0 && len(o.ImageSizes) > 0 && len(o.Images) != len(o.ImageSizes) {
		return errors.New(errors.ErrCodeInvalidInput, "images and image_sizes differ in length (%d vs %d)", len(o.Images), len(o.ImageSizes))
	}
	for i, s := range o.ImageSizes {
		if err := errors.ValidateDimensions("image", float64(s.Width), float64(s.Height)); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "image_sizes[%d]", i)
		}
	}
	if o.Transitions < 1 || o.Transitions > MaxTransitions {
		return errors.New(errors.ErrCodeInvalidConfig, "transitions must be between 1 and %d (got %d)", MaxTransitions, o.Transitions)
	}
	if o.TransitionsPerImage < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "transitions_per_image must be positive (got %d)", o.TransitionsPerImage)
	}
	if err := errors.ValidateDuration(o.Duration()); err != nil {
		return err
	}
	if o.MinFactor != 0 {
		if err := errors.ValidateFactor(o.MinFactor); err != nil {
			return err
		}
	}
	if o.FPS < 1 || o.FPS > MaxFPS {
		return errors.New(errors.ErrCodeInvalidConfig, "fps must be between 1 and %d (got %d)", MaxFPS, o.FPS)
	}
	if n := int64(o.Transitions) * int64(framesPerTransition(o.Duration(), o.FPS)); n > MaxFrames {
		return errors.New(errors.ErrCodeInvalidConfig, "plan would have %d frames (max %d)", n, MaxFrames)
	}
	return nil
}

// SetPlanDefaults sets default values for planning.
func (o *Options) SetPlanDefaults() {
	if o.Variant == "" {
		o.Variant = DefaultVariant
	}
	if o.Easing == "" {
		o.Easing = ease.Default
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Transitions == 0 {
		o.Transitions = DefaultTransitions
	}
	if o.TransitionsPerImage == 0 {
		o.TransitionsPerImage = DefaultTransitionsPerImage
	}
	if o.DurationMS == 0 {
		o.DurationMS = DefaultDurationMS
	}
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	format, err := sink.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.Format = string(format)
	if o.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be positive (got %d)", o.Workers)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Duration returns the transition duration.
func (o *Options) Duration() time.Duration {
	return time.Duration(o.DurationMS) * time.Millisecond
}

// Viewport returns the viewport rectangle.
func (o *Options) Viewport() geom.Rect {
	return geom.FromSize(float64(o.Width), float64(o.Height))
}

// FitMode returns the configured mode, or the one the variant requires when
// none is set.
func (o *Options) FitMode() (render.FitMode, error) {
	if o.Mode == "" {
		variant, err := transition.ParseVariant(o.Variant)
		if err != nil {
			return render.FitCenter, err
		}
		return modeForVariant(variant), nil
	}
	return render.ParseFitMode(o.Mode)
}

// ImageFor returns the image index used by the i-th transition.
func (o *Options) ImageFor(i int) int {
	n := max(len(o.Images), len(o.ImageSizes))
	return (i / o.TransitionsPerImage) % n
}

// PlanKeyOpts returns cache key options for planning against sizes.
func (o *Options) PlanKeyOpts(sizes []Size) cache.PlanKeyOpts {
	dims := make([][2]int, len(sizes))
	for i, s := range sizes {
		dims[i] = [2]int{s.Width, s.Height}
	}
	return cache.PlanKeyOpts{
		Variant:     o.Variant,
		Easing:      strings.ToLower(o.Easing),
		Mode:        o.Mode,
		Viewport:    [2]int{o.Width, o.Height},
		Images:      o.Images,
		ImageSizes:  dims,
		Transitions: o.Transitions,
		PerImage:    o.TransitionsPerImage,
		DurationMS:  o.DurationMS,
		MinFactor:   o.MinFactor,
		FPS:         o.FPS,
		Seed:        o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered frame.
func (o *Options) ArtifactKeyOpts(frame int, source string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: o.Format,
		Frame:  frame,
		Source: source,
	}
}

func modeForVariant(v transition.Variant) render.FitMode {
	if v == transition.VariantRandom {
		return render.CenterCrop
	}
	return render.FitCenter
}
