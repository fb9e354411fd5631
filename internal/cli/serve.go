package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kenburns/internal/api"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxBody   int64
		imageRoot string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

  POST /v1/plans              plan a timeline (JSON options)
  GET  /v1/plans/{id}         fetch a plan
  GET  /v1/plans/{id}/frames/{n}
  GET  /v1/transform          viewport matrix for a rect
  GET  /healthz

Image paths in plan requests must be relative; they are resolved under
--image-root.

The server shares the cache configured with --cache, so plans computed by the
CLI can be fetched by ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, maxBody, imageRoot)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", api.DefaultAddr, "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", api.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().StringVar(&imageRoot, "image-root", ".", "directory that request image paths are relative to")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, maxBody int64, imageRoot string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
	loc := "disabled"
	if !c.noCache {
		if loc, err = cacheLocation(c.cacheLoc); err != nil {
			return fmt.Errorf("get cache dir: %w", err)
		}
	}
	printKeyValue("cache", loc)
	printKeyValue("max body", fmt.Sprintf("%d bytes", maxBody))
	printKeyValue("images", imageRoot)
	srv := api.New(runner, c.Logger, api.WithMaxBodyBytes(maxBody), api.WithImageRoot(imageRoot))
	err = srv.ListenAndServe(ctx, addr)
	if errors.Is(err, context.Canceled) {
		printSuccess("Server stopped")
	}
	return err
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
