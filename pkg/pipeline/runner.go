package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/theia-art/theia/pkg/cache"
	"github.com/theia-art/theia/pkg/canvas"
	"github.com/theia-art/theia/pkg/observability"
)

// Job names reported to the observability hooks.
const (
	jobBackground = "background"
	jobRecolor    = "recolor"
	jobPreview    = "preview"
	jobTidy       = "tidy"
	jobSwatch     = "swatch"
)

// Runner executes pipeline jobs. It holds no per-job state, so one Runner
// may serve concurrent jobs with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil logger
// falls back to log.Default().
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// trackJob reports the start of job and returns the func that reports its end.
func trackJob(ctx context.Context, job string) func(items int, err error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnJobStart(ctx, job)
	return func(items int, err error) {
		hooks.OnJobComplete(ctx, job, items, time.Since(start), err)
	}
}

// imagePaths resolves every input to its image files.
func imagePaths(inputs []string, inputRoot string) ([]string, error) {
	var paths []string
	for _, in := range inputs {
		found, err := canvas.ImagePaths(in, inputRoot)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// eachImage runs fn over paths with at most workers in flight and returns
// the sorted union of the files fn wrote. The first error cancels the rest.
func (r *Runner) eachImage(ctx context.Context, paths []string, workers int, fn func(path string) ([]string, error)) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			written, err := fn(path)
			if err != nil {
				return err
			}
			r.Logger.Debug("processed", "image", path, "files", len(written))
			mu.Lock()
			files = append(files, written...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
