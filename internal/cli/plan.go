package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kenburns/pkg/pipeline"
)

// planCommand creates the plan command, which writes a frame timeline as JSON.
func (c *CLI) planCommand() *cobra.Command {
	var (
		output string
		sizes  []string
	)
	var flags pipeline.Options

	cmd := &cobra.Command{
		Use:   "plan [image...]",
		Short: "Compute a frame timeline and write it as JSON",
		Long: `Compute a frame timeline and write it as JSON.

The timeline lists every transition (source and destination rectangles) and
every frame sampled from it at the configured frame rate. Planning reads only
image headers, or no files at all when --size is given:

  kenburns plan --size 4000x3000 --size 3000x2000 -n 6

Plans are cached; the same options return the same plan ID.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseSizes(sizes)
			if err != nil {
				return err
			}
			if len(parsed) > 0 {
				flags.ImageSizes = parsed
			}
			opts, err := c.loadOptions(flags, args)
			if err != nil {
				return err
			}
			return c.runPlan(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringArrayVar(&sizes, "size", nil, "plan against an image size WxH instead of files (repeatable)")
	bindPlanFlags(cmd.Flags(), &flags)

	registerCompletions(cmd)

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st := startStage(log.FromContext(ctx), "plan")
	plan, hit, err := runner.PlanWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	st.done("planned", "transitions", len(plan.Transitions), "frames", len(plan.Frames), "cached", hit)

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}

	if output != "" && output != "-" {
		printSuccess("Plan %s", StyleHighlight.Render(plan.ID))
		printFile(output)
		printPlanStats(plan, hit)
		printNewline()
		printTransitions(plan)
	}
	return nil
}
