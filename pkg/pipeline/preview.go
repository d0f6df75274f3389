package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/theia-art/theia/pkg/cache"
	"github.com/theia-art/theia/pkg/canvas"
	"github.com/theia-art/theia/pkg/errors"
	"github.com/theia-art/theia/pkg/observability"
	"github.com/theia-art/theia/pkg/recipe"
)

// PreviewOptions configures [Runner.Preview].
type PreviewOptions struct {
	Recipe  *recipe.Recipe
	Padding int

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool
}

// Preview runs the recipe and renders its grid as a PNG dot plot. Results are
// cached under the recipe's canonical TOML form, so equal recipes share an
// entry. The second return value reports a cache hit.
func (r *Runner) Preview(ctx context.Context, opts PreviewOptions) (data []byte, hit bool, err error) {
	done := trackJob(ctx, jobPreview)
	defer func() {
		if err != nil {
			done(0, err)
			return
		}
		done(1, nil)
	}()

	if opts.Recipe == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidConfig, "preview needs a recipe")
	}
	if opts.Padding < 0 {
		return nil, false, errors.New(errors.ErrCodeInvalidConfig, "padding must not be negative, got %d", opts.Padding)
	}
	key := cache.Key("preview", opts.Recipe.String(), opts.Padding)

	hooks := observability.Cache()
	if !opts.Refresh {
		if cached, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			r.Logger.Debug("preview cache hit", "key", key)
			hooks.OnCacheHit(ctx, "preview")
			return cached, true, nil
		}
		hooks.OnCacheMiss(ctx, "preview")
	}

	g, err := opts.Recipe.Run()
	if err != nil {
		return nil, false, fmt.Errorf("run recipe: %w", err)
	}
	img := canvas.Visualise(g, opts.Recipe.Builder.Size, canvas.VisualiseOptions{Padding: opts.Padding})

	var buf bytes.Buffer
	if err := canvas.EncodePNG(&buf, img); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode preview")
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLPreview); err != nil {
		r.Logger.Warn("could not cache preview", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "preview", buf.Len())
	}

	r.Logger.Debug("rendered preview", "points", g.Count(), "bytes", buf.Len())
	return buf.Bytes(), false, nil
}
