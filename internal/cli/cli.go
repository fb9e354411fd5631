package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kenburns/pkg/buildinfo"
	"github.com/matzehuels/kenburns/pkg/cache"
	"github.com/matzehuels/kenburns/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completion scripts.
const appName = "kenburns"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags.
	configPath string
	cacheLoc   string
	cacheScope string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Ken Burns pan-and-zoom transitions for still images",
		Long: `kenburns plans and renders Ken Burns transitions: slow pans and zooms
between rectangles of a still image, eased over time and drawn into a viewport.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(log.WithContext(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML options file; flags override its values")
	root.PersistentFlags().StringVar(&c.cacheLoc, "cache", "", "cache location: directory, redis://..., mongodb://... or none (default ~/.cache/kenburns)")
	root.PersistentFlags().StringVar(&c.cacheScope, "cache-scope", "", "prefix for cache keys, to share one backend between environments")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cache, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, c.keyer(), c.Logger), nil
}

// keyer returns the cache keyer, scoped when --cache-scope is set.
func (c *CLI) keyer() cache.Keyer {
	if c.cacheScope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.cacheScope+":")
}

// openCache opens the configured cache. A cache that cannot be opened is
// reported and replaced by a null cache, so caching never blocks a run.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	cc, err := cache.Open(ctx, c.cacheLoc)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "location", c.cacheLoc, "error", err)
		return cache.NewNullCache(), nil
	}
	return cc, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// loadOptions reads the --config file (if any) and applies flag values and
// positional image arguments on top.
func (c *CLI) loadOptions(flags pipeline.Options, images []string) (pipeline.Options, error) {
	var base pipeline.Options
	if c.configPath != "" {
		var err error
		if base, err = pipeline.LoadOptions(c.configPath); err != nil {
			return pipeline.Options{}, err
		}
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	if len(images) > 0 {
		flags.Images = images
	}
	opts := base.Merge(flags)
	opts.Logger = c.Logger
	return opts, nil
}

// openOutput returns stdout for "" or "-", otherwise creates path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
