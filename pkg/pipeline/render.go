package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kenburns/pkg/cache"
	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/observability"
	"github.com/matzehuels/kenburns/pkg/render/sink"
)

// Rendered lists the files written by a render stage.
type Rendered struct {
	Frames      []string
	Storyboards []string
	// Cached is the number of frames served from cache.
	Cached int
}

// source is a decoded input image and its cache fingerprint.
type source struct {
	img         image.Image
	fingerprint string
}

// Render rasterizes every frame of plan into opts.OutputDir. Frames are named
// frame_00000.<ext> so they sort in playback order.
func (r *Runner) Render(ctx context.Context, plan *Plan, opts Options) (out *Rendered, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.OutputDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "output directory is required")
	}
	if len(plan.Options.Images) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "plan has no image files to render from")
	}
	format, err := sink.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	formats := []string{string(format)}
	hooks.OnRenderStart(ctx, formats, len(plan.Frames))
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, formats, time.Since(start), err) }()

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.OutputDir)
	}

	sources, err := loadSources(plan)
	if err != nil {
		return nil, err
	}

	out = &Rendered{Frames: make([]string, len(plan.Frames))}
	var (
		cached atomic.Int64
		done   atomic.Int64
		progMu sync.Mutex
	)
	width, height := int(plan.Viewport.Width()), int(plan.Viewport.Height())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range plan.Frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pt, _ := plan.TransitionFor(i)
			src := sources[pt.Image]
			path := filepath.Join(opts.OutputDir, fmt.Sprintf("frame_%05d%s", i, format.Ext()))
			key := r.Keyer.ArtifactKey(plan.Hash, opts.ArtifactKeyOpts(i, src.fingerprint))

			hit, err := r.renderFrame(gctx, key, path, func() ([]byte, error) {
				img := sink.RenderFrame(src.img, plan.Frames[i], width, height)
				var buf bytes.Buffer
				if err := sink.Encode(&buf, img, format); err != nil {
					return nil, err
				}
				return buf.Bytes(), nil
			}, opts.Refresh)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			if hit {
				cached.Add(1)
			}
			out.Frames[i] = path

			n := int(done.Add(1))
			if opts.Progress != nil {
				progMu.Lock()
				opts.Progress(n, len(plan.Frames))
				progMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.Cached = int(cached.Load())

	if opts.Storyboard {
		boards, err := writeStoryboards(plan, sources, opts.OutputDir)
		if err != nil {
			return nil, err
		}
		out.Storyboards = boards
	}
	return out, nil
}

// renderFrame writes the cached bytes for key to path, or draws, caches and
// writes them. It reports whether the cache served the frame.
func (r *Runner) renderFrame(ctx context.Context, key, path string, draw func() ([]byte, error), refresh bool) (bool, error) {
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return true, os.WriteFile(path, data, 0644)
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	data, err := draw()
	if err != nil {
		return false, err
	}
	r.store(ctx, key, "artifact", data, cache.ArtifactTTL)
	return false, os.WriteFile(path, data, 0644)
}

// loadSources decodes every image and checks it still has the size the plan
// was computed for.
func loadSources(plan *Plan) ([]source, error) {
	sources := make([]source, len(plan.Options.Images))
	for i, path := range plan.Options.Images {
		img, err := sink.LoadImage(path)
		if err != nil {
			return nil, err
		}
		for _, pt := range plan.Transitions {
			if pt.Image == i && sink.Bounds(img) != pt.ImageBounds {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"%s is %v but the plan expects %v; re-run plan", path, sink.Bounds(img), pt.ImageBounds)
			}
		}
		fp, err := fingerprint(path)
		if err != nil {
			return nil, err
		}
		sources[i] = source{img: img, fingerprint: fp}
	}
	return sources, nil
}

// fingerprint identifies a file version by path, size and modification time.
func fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return cache.Hash(fmt.Appendf(nil, "%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano())), nil
}

func writeStoryboards(plan *Plan, sources []source, dir string) ([]string, error) {
	moves := make([][]sink.Move, len(sources))
	for _, pt := range plan.Transitions {
		moves[pt.Image] = append(moves[pt.Image], sink.Move{Src: pt.Src, Dst: pt.Dst})
	}

	var paths []string
	for i, m := range moves {
		if len(m) == 0 {
			continue
		}
		img, err := sink.RenderStoryboard(sources[i].img, m)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, fmt.Sprintf("storyboard_%02d.png", i))
		f, err := os.Create(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
		}
		if err := sink.Encode(f, img, sink.FormatPNG); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
