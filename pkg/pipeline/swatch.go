package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/theia-art/theia/pkg/canvas"
	thcolor "github.com/theia-art/theia/pkg/color"
	"github.com/theia-art/theia/pkg/errors"
	"github.com/theia-art/theia/pkg/palette"
)

// Swatch defaults.
const (
	DefaultSwatchWidth  = 512
	DefaultSwatchHeight = 64
)

// SwatchOptions configures [Runner.Swatch]. The gradient comes from Gradient
// when set, otherwise from the colours of Palette in order.
type SwatchOptions struct {
	Gradient string // comma-separated colours, e.g. "#000, tomato, #fff"
	Palette  palette.Palette

	// Name is used for the image and the sampled palette.
	Name   string
	Output string

	// Blend is a [thcolor.MixerFor] mode: linear, lab or smooth.
	Blend string

	Width  int
	Height int

	// Steps samples that many evenly spaced colours into a palette saved
	// in PaletteDir. Zero skips it. Names, when given, must have Steps
	// entries; otherwise entries are numbered.
	Steps      int
	Names      []string
	PaletteDir string
}

// ValidateAndSetDefaults fills zero fields and rejects unusable options.
func (o *SwatchOptions) ValidateAndSetDefaults() error {
	if o.Gradient == "" && len(o.Palette) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "swatch needs a gradient or a palette")
	}
	if o.Name == "" {
		o.Name = "swatch"
	}
	if o.Output == "" {
		o.Output = "output/swatches"
	}
	if o.PaletteDir == "" {
		o.PaletteDir = "palettes"
	}
	if o.Width == 0 {
		o.Width = DefaultSwatchWidth
	}
	if o.Height == 0 {
		o.Height = DefaultSwatchHeight
	}
	switch {
	case o.Width < 0 || o.Height < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "swatch size must be positive, got %dx%d", o.Width, o.Height)
	case o.Steps < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "steps must not be negative, got %d", o.Steps)
	}
	return nil
}

// SwatchResult is returned by [Runner.Swatch].
type SwatchResult struct {
	Image string

	// Palette and PalettePath are set when colours were sampled.
	Palette     palette.Palette
	PalettePath string

	Duration time.Duration
}

// Swatch renders a gradient strip to <output>/<name>.png and optionally
// samples it into a new palette.
func (r *Runner) Swatch(ctx context.Context, opts SwatchOptions) (res *SwatchResult, err error) {
	start := time.Now()
	done := trackJob(ctx, jobSwatch)
	defer func() {
		n := 0
		if res != nil {
			n = 1
		}
		done(n, err)
	}()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	mix, err := thcolor.MixerFor(opts.Blend)
	if err != nil {
		return nil, err
	}
	grad := thcolor.Linspace(opts.Palette.Colors())
	if opts.Gradient != "" {
		if grad, err = thcolor.ParseGradient(opts.Gradient); err != nil {
			return nil, err
		}
	}

	res = &SwatchResult{Image: filepath.Join(opts.Output, opts.Name+".png")}
	if opts.Steps > 0 {
		p, err := palette.FromColors(grad.Sample(opts.Steps, mix), opts.Names)
		if err != nil {
			return nil, err
		}
		if err := palette.Save(opts.PaletteDir, opts.Name, p); err != nil {
			return nil, err
		}
		res.Palette = p
		res.PalettePath = palette.Path(opts.PaletteDir, opts.Name)
	}
	if err := canvas.Save(res.Image, canvas.Gradient(grad, opts.Width, opts.Height, mix)); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	r.Logger.Info("wrote swatch",
		"image", res.Image,
		"stops", len(grad),
		"blend", opts.Blend,
		"sampled", len(res.Palette))
	return res, nil
}
