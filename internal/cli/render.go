package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kenburns/pkg/pipeline"
)

// renderCommand creates the render command, which writes one image per frame.
func (c *CLI) renderCommand() *cobra.Command {
	var flags pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [image...]",
		Short: "Render transitions to numbered frame images",
		Long: `Render transitions to numbered frame images.

Frames are written as frame_00000.png, frame_00001.png, ... so any encoder
can assemble them, for example:

  kenburns render beach.jpg dunes.jpg -o frames --fps 30
  ffmpeg -framerate 30 -i frames/frame_%05d.png kenburns.mp4

Rendered frames are cached by plan and source file, so re-running with the
same options only rewrites the files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadOptions(flags, args)
			if err != nil {
				return err
			}
			if opts.OutputDir == "" {
				return fmt.Errorf("an output directory is required (-o)")
			}
			return c.runRender(cmd.Context(), opts)
		},
	}

	bindPlanFlags(cmd.Flags(), &flags)
	bindRenderFlags(cmd.Flags(), &flags)

	registerCompletions(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newSpinner(os.Stderr, "Rendering frames")
	opts.Progress = spin.progress
	spin.start(ctx)

	result, err := runner.Execute(ctx, opts)
	spin.finish()
	if err != nil {
		printError("Render failed")
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Rendered %s frames", StyleNumber.Render(fmt.Sprint(len(result.Frames))))
	printFile(opts.OutputDir)
	for _, path := range result.Storyboards {
		printFile(path)
	}
	printPlanStats(result.Plan, result.CacheInfo.PlanHit)
	printDetail("%d of %d frames from cache · plan %s · render %s",
		result.CacheInfo.FramesCached, len(result.Frames),
		result.Stats.PlanTime.Round(time.Millisecond), result.Stats.RenderTime.Round(time.Millisecond))
	printNewline()
	printNextStep("Inspect the timeline", fmt.Sprintf("%s plan -o plan.json %s", appName, strings.Join(opts.Images, " ")))
	return nil
}
