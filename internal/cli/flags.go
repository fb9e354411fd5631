package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/kenburns/pkg/ease"
	"github.com/matzehuels/kenburns/pkg/pipeline"
	"github.com/matzehuels/kenburns/pkg/render"
	"github.com/matzehuels/kenburns/pkg/render/sink"
	"github.com/matzehuels/kenburns/pkg/transition"
)

// bindPlanFlags registers the planning flags on fs. Flags default to the zero
// value so that only flags the user sets override a --config file; the help
// text shows the effective defaults.
func bindPlanFlags(fs *pflag.FlagSet, opts *pipeline.Options) {
	fs.StringVar(&opts.Variant, "variant", "", fmt.Sprintf("transition generator: %s (default %s)", variantNames(), pipeline.DefaultVariant))
	fs.StringVar(&opts.Easing, "easing", "", fmt.Sprintf("easing curve: %s (default %s)", strings.Join(ease.Names(), ", "), ease.Default))
	fs.StringVar(&opts.Mode, "mode", "", "fit mode: fit-center or center-crop (default: the one the variant requires)")
	fs.IntVar(&opts.Width, "width", 0, fmt.Sprintf("viewport width in pixels (default %d)", pipeline.DefaultWidth))
	fs.IntVar(&opts.Height, "height", 0, fmt.Sprintf("viewport height in pixels (default %d)", pipeline.DefaultHeight))
	fs.IntVarP(&opts.Transitions, "transitions", "n", 0, fmt.Sprintf("number of transitions (default %d)", pipeline.DefaultTransitions))
	fs.IntVar(&opts.TransitionsPerImage, "per-image", 0, fmt.Sprintf("transitions before switching image (default %d)", pipeline.DefaultTransitionsPerImage))
	fs.Int64VarP(&opts.DurationMS, "duration", "d", 0, fmt.Sprintf("transition duration in milliseconds (default %d)", pipeline.DefaultDurationMS))
	fs.Float64Var(&opts.MinFactor, "min-factor", 0, "smallest sampled rect as a fraction of the full rect, in (0, 1] (default per variant)")
	fs.IntVar(&opts.FPS, "fps", 0, fmt.Sprintf("frames per second (default %d)", pipeline.DefaultFPS))
	fs.Uint64Var(&opts.Seed, "seed", 0, fmt.Sprintf("random seed (default %d)", pipeline.DefaultSeed))
	fs.BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
}

// bindRenderFlags registers the rendering flags on fs.
func bindRenderFlags(fs *pflag.FlagSet, opts *pipeline.Options) {
	fs.StringVarP(&opts.OutputDir, "output", "o", "", "directory for frame images (required)")
	fs.StringVarP(&opts.Format, "format", "f", "", fmt.Sprintf("frame format: png or jpeg (default %s)", pipeline.DefaultFormat))
	fs.BoolVar(&opts.Storyboard, "storyboard", false, "also write one storyboard image per source image")
	fs.IntVarP(&opts.Workers, "workers", "j", 0, "parallel frame renders (default: number of CPUs)")
}

// registerCompletions adds shell completion for enumerated flag values. The
// completion command itself is cobra's default.
func registerCompletions(cmd *cobra.Command) {
	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}
	complete := map[string][]string{
		"variant": strings.Split(variantNames(), ", "),
		"easing":  ease.Names(),
		"mode":    {render.FitCenter.String(), render.CenterCrop.String()},
		"format":  {string(sink.FormatPNG), string(sink.FormatJPEG)},
	}
	for name, values := range complete {
		if cmd.Flags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, fixed(values...))
		}
	}
}

func variantNames() string {
	names := make([]string, len(transition.Variants))
	for i, v := range transition.Variants {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
