package pipeline

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"time"

	"github.com/theia-art/theia/pkg/canvas"
	"github.com/theia-art/theia/pkg/errors"
)

// TidyOptions configures [Runner.Tidy]. Steps run in field order: invert,
// pad, swap.
type TidyOptions struct {
	Images    []string
	InputRoot string
	Output    string

	// Invert flips the colour channels and keeps alpha, turning dark icons
	// on transparent backgrounds light.
	Invert bool

	// Pad centres each image on a transparent Pad×Pad canvas. Zero skips it.
	Pad int

	// Swap rolls the image by half its size so tiling seams meet in the
	// middle.
	Swap bool

	Workers int
}

// ValidateAndSetDefaults fills zero fields and rejects unusable options.
func (o *TidyOptions) ValidateAndSetDefaults() error {
	if len(o.Images) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no images given")
	}
	if o.Pad < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pad must not be negative, got %d", o.Pad)
	}
	if !o.Invert && o.Pad == 0 && !o.Swap {
		return errors.New(errors.ErrCodeInvalidConfig, "nothing to do: enable invert, pad or swap")
	}
	if o.InputRoot == "" {
		o.InputRoot = canvas.DefaultInputRoot
	}
	if o.Output == "" {
		o.Output = "output/tidy"
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return nil
}

// TidyResult lists the files written by [Runner.Tidy], sorted.
type TidyResult struct {
	Files    []string
	Duration time.Duration
}

// Tidy normalises a batch of icons before they are recoloured or used as
// emblems. Each input is written to <output>/<image>.png; when output is the
// input directory the originals are overwritten.
func (r *Runner) Tidy(ctx context.Context, opts TidyOptions) (res *TidyResult, err error) {
	start := time.Now()
	done := trackJob(ctx, jobTidy)
	defer func() {
		n := 0
		if res != nil {
			n = len(res.Files)
		}
		done(n, err)
	}()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	paths, err := imagePaths(opts.Images, opts.InputRoot)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("tidying",
		"images", len(paths),
		"invert", opts.Invert,
		"pad", opts.Pad,
		"swap", opts.Swap)

	files, err := r.eachImage(ctx, paths, opts.Workers, func(path string) ([]string, error) {
		img, err := canvas.Open(path)
		if err != nil {
			return nil, err
		}
		out := filepath.Join(opts.Output, filepath.Base(path[:len(path)-len(filepath.Ext(path))])+".png")
		return []string{out}, canvas.Save(out, tidyImage(img, opts))
	})
	if err != nil {
		return nil, fmt.Errorf("tidy: %w", err)
	}

	res = &TidyResult{Files: files, Duration: time.Since(start)}
	r.Logger.Info("tidied images",
		"files", len(files),
		"dir", opts.Output,
		"duration", res.Duration)
	return res, nil
}

func tidyImage(img *image.NRGBA, opts TidyOptions) *image.NRGBA {
	if opts.Invert {
		img = canvas.InvertWithAlpha(img)
	}
	if opts.Pad > 0 {
		img = canvas.Pad(img, opts.Pad)
	}
	if opts.Swap {
		img = canvas.SwapQuadrants(img)
	}
	return img
}
