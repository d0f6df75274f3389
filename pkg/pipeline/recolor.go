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
	"github.com/theia-art/theia/pkg/palette"
)

// Recolor modes.
const (
	ModeMultiply = "multiply"
	ModeQuantize = "quantize"
	ModeOutline  = "outline"
	ModeNeon     = "neon"
)

// ValidModes is the set of supported recolor modes.
var ValidModes = map[string]bool{
	ModeMultiply: true,
	ModeQuantize: true,
	ModeOutline:  true,
	ModeNeon:     true,
}

// Outline defaults.
const (
	DefaultOutlineWidth = 4.0
	DefaultGlowFactor   = 3.0
)

// RecolorOptions configures [Runner.Recolor].
type RecolorOptions struct {
	Palette     palette.Palette
	PaletteName string

	// Images are files or directories, resolved like emblem paths.
	Images    []string
	InputRoot string
	Output    string

	Mode   string
	Dither bool // quantize only

	// outline and neon
	Width      float64
	Softness   int // outline only, 0 (hard) to 255 (soft)
	GlowFactor float64

	// Workers bounds concurrent image jobs. Zero uses GOMAXPROCS.
	Workers int
}

// ValidateAndSetDefaults fills zero fields and rejects unusable options.
func (o *RecolorOptions) ValidateAndSetDefaults() error {
	if len(o.Palette) == 0 {
		return errors.New(errors.ErrCodeInvalidPalette, "palette has no colours")
	}
	if len(o.Images) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no images given")
	}
	if o.PaletteName == "" {
		o.PaletteName = "palette"
	}
	if o.InputRoot == "" {
		o.InputRoot = canvas.DefaultInputRoot
	}
	if o.Output == "" {
		o.Output = "output"
	}
	if o.Mode == "" {
		o.Mode = ModeMultiply
	}
	if !ValidModes[o.Mode] {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown recolor mode %q", o.Mode)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Width == 0 {
		o.Width = DefaultOutlineWidth
	}
	if o.GlowFactor == 0 {
		o.GlowFactor = DefaultGlowFactor
	}
	switch {
	case !(o.Width > 0):
		return errors.New(errors.ErrCodeInvalidConfig, "outline width must be positive, got %g", o.Width)
	case !(o.GlowFactor > 0):
		return errors.New(errors.ErrCodeInvalidConfig, "glow factor must be positive, got %g", o.GlowFactor)
	case o.Softness < 0 || o.Softness > 255:
		return errors.New(errors.ErrCodeInvalidConfig, "softness must be within [0, 255], got %d", o.Softness)
	}
	return nil
}

// RecolorResult lists the files written by [Runner.Recolor], sorted.
type RecolorResult struct {
	Files    []string
	Duration time.Duration
}

// Recolor writes palette variants of every input image.
//
// In multiply mode each image is tinted by every palette colour and saved as
// <output>/<palette>/<image>_<colour>.png. Outline and neon modes write the
// same file set, drawing a coloured silhouette (neon: a tight one plus a wide
// soft glow) behind the image instead of tinting it. In quantize mode each
// pixel is snapped to its nearest palette colour and the image is saved as
// <output>/<palette>/<image>.png.
func (r *Runner) Recolor(ctx context.Context, opts RecolorOptions) (res *RecolorResult, err error) {
	start := time.Now()
	done := trackJob(ctx, jobRecolor)
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
	dir := filepath.Join(opts.Output, opts.PaletteName)

	r.Logger.Info("recoloring",
		"images", len(paths),
		"palette", opts.PaletteName,
		"colors", len(opts.Palette),
		"mode", opts.Mode)

	files, err := r.eachImage(ctx, paths, opts.Workers, func(path string) ([]string, error) {
		return recolorOne(path, dir, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("recolor: %w", err)
	}

	res = &RecolorResult{Files: files, Duration: time.Since(start)}
	r.Logger.Info("recolored images",
		"files", len(files),
		"dir", dir,
		"duration", res.Duration)
	return res, nil
}

func recolorOne(path, dir string, opts RecolorOptions) ([]string, error) {
	img, err := canvas.Open(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	name = name[:len(name)-len(filepath.Ext(name))]

	if opts.Mode == ModeQuantize {
		out := filepath.Join(dir, name+".png")
		return []string{out}, canvas.Save(out, palette.Quantize(img, opts.Palette, opts.Dither))
	}

	files := make([]string, 0, len(opts.Palette))
	for _, e := range opts.Palette {
		var variant image.Image
		switch opts.Mode {
		case ModeOutline:
			variant = canvas.Outline(img, e.Color, opts.Width, opts.Softness)
		case ModeNeon:
			variant = canvas.NeonGlow(img, e.Color, opts.Width, opts.GlowFactor)
		default:
			variant = canvas.Multiply(img, e.Color)
		}
		out := filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, e.Name))
		if err := canvas.Save(out, variant); err != nil {
			return nil, err
		}
		files = append(files, out)
	}
	return files, nil
}
