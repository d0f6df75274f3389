package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/theia-art/theia/pkg/canvas"
	thcolor "github.com/theia-art/theia/pkg/color"
	"github.com/theia-art/theia/pkg/errors"
	"github.com/theia-art/theia/pkg/grid"
)

// Grid layouts recorded in the manifest.
const (
	LayoutSquare = "square"
	LayoutRadial = "radial"
)

// BackgroundOptions configures [Runner.Background].
type BackgroundOptions struct {
	// Emblems is an image file or directory. Relative paths that do not
	// exist are retried under InputRoot.
	Emblems   string `json:"emblems"`
	InputRoot string `json:"input_root,omitempty"`
	Output    string `json:"output,omitempty"`

	Count   int `json:"count,omitempty"`
	Size    int `json:"size,omitempty"`
	Padding int `json:"padding,omitempty"`

	// EmblemSizes lists the edge lengths emblems are resized to; one is
	// picked at random per stamp.
	EmblemSizes []int `json:"emblem_sizes,omitempty"`

	Radial   bool    `json:"radial,omitempty"`   // allow radial grids (one in five)
	Jitter   int     `json:"jitter,omitempty"`   // max per-axis offset, 0 disables
	Sparsify float64 `json:"sparsify,omitempty"` // fraction of points kept, 0 disables
	Rotate   bool    `json:"rotate,omitempty"`

	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`

	// ForegroundGradient, when set, replaces Foreground with a colour drawn
	// at random from this comma-separated gradient for each image.
	ForegroundGradient string `json:"foreground_gradient,omitempty"`

	// Seed drives every random choice. Zero picks a random seed, which is
	// recorded in the manifest.
	Seed uint64 `json:"seed,omitempty"`

	// Progress, when set, is called after each image is written.
	Progress func(done, total int) `json:"-"`
}

// ValidateAndSetDefaults fills zero fields with defaults and rejects
// out-of-range values.
func (o *BackgroundOptions) ValidateAndSetDefaults() error {
	if o.Emblems == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "emblem path is required")
	}
	if o.InputRoot == "" {
		o.InputRoot = canvas.DefaultInputRoot
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if len(o.EmblemSizes) == 0 {
		o.EmblemSizes = DefaultEmblemSizes
	}
	if o.Foreground == "" {
		o.Foreground = DefaultForeground
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Seed == 0 {
		o.Seed = rand.Uint64()
	}

	switch {
	case o.Count < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "count must be positive, got %d", o.Count)
	case o.Size < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "size must be positive, got %d", o.Size)
	case o.Padding < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "padding must not be negative, got %d", o.Padding)
	case o.Jitter < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "jitter must not be negative, got %d", o.Jitter)
	case !(o.Sparsify >= 0 && o.Sparsify <= 1):
		return errors.New(errors.ErrCodeInvalidConfig, "sparsify must be within [0, 1], got %g", o.Sparsify)
	}
	for _, s := range o.EmblemSizes {
		if s <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "emblem sizes must be positive, got %d", s)
		}
	}
	return nil
}

// Manifest describes one background run. It is written as JSON next to the
// images it lists.
type Manifest struct {
	RunID     string      `json:"run_id"`
	Seed      uint64      `json:"seed"`
	CreatedAt time.Time   `json:"created_at"`
	Size      int         `json:"size"`
	Padding   int         `json:"padding"`
	Emblems   int         `json:"emblems"`
	Images    []ImageInfo `json:"images"`
}

// ImageInfo records how a single background was built.
type ImageInfo struct {
	Index  int    `json:"index"`
	File   string `json:"file"`
	Layout     string `json:"layout"`
	Points     int    `json:"points"`
	Foreground string `json:"foreground"`
}

// BackgroundResult is returned by [Runner.Background].
type BackgroundResult struct {
	Manifest Manifest
	Dir      string
	Duration time.Duration
}

// Paths returns the paths of the written images.
func (r *BackgroundResult) Paths() []string {
	out := make([]string, len(r.Manifest.Images))
	for i, img := range r.Manifest.Images {
		out[i] = filepath.Join(r.Dir, img.File)
	}
	return out
}

// Background generates opts.Count tileable backgrounds. Each one gets a
// random grid whose points are stamped with emblems, tinted by the
// foreground colour and cycled in shuffled order. Stamps crossing an edge
// wrap to the opposite side.
func (r *Runner) Background(ctx context.Context, opts BackgroundOptions) (res *BackgroundResult, err error) {
	start := time.Now()
	done := trackJob(ctx, jobBackground)
	defer func() {
		n := 0
		if res != nil {
			n = len(res.Manifest.Images)
		}
		done(n, err)
	}()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	fg, err := thcolor.Parse(opts.Foreground)
	if err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}
	bg, err := thcolor.Parse(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	var grad thcolor.Gradient
	if opts.ForegroundGradient != "" {
		if grad, err = thcolor.ParseGradient(opts.ForegroundGradient); err != nil {
			return nil, fmt.Errorf("foreground gradient: %w", err)
		}
	}

	loaded, err := canvas.Load(opts.Emblems, opts.InputRoot)
	if err != nil {
		return nil, fmt.Errorf("load emblems: %w", err)
	}
	if len(loaded) == 0 {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no emblem images in %s", opts.Emblems)
	}
	raw := make([]image.Image, len(loaded))
	for i, e := range loaded {
		raw[i] = e.Image
	}
	rng := newRand(opts.Seed)
	rng.Shuffle(len(raw), func(i, j int) { raw[i], raw[j] = raw[j], raw[i] })
	emblems := tint(raw, fg)

	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create output dir %s", opts.Output)
	}

	m := Manifest{
		RunID:     uuid.NewString(),
		Seed:      opts.Seed,
		CreatedAt: start.UTC(),
		Size:      opts.Size,
		Padding:   opts.Padding,
		Emblems:   len(emblems),
	}
	r.Logger.Info("generating backgrounds",
		"run", m.RunID,
		"count", opts.Count,
		"emblems", len(emblems),
		"seed", opts.Seed)

	next := 0
	for i := range opts.Count {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("background %d: %w", i, err)
		}

		tintColor := fg
		if grad != nil {
			tintColor = grad.Random(rng)
			emblems = tint(raw, tintColor)
		}

		g, layout, err := randomGrid(rng, opts)
		if err != nil {
			return nil, fmt.Errorf("background %d: %w", i, err)
		}

		side := opts.Size + 2*opts.Padding
		img := canvas.Fill(side, side, bg)
		for _, p := range grid.Flatten(g) {
			e := emblems[next%len(emblems)]
			next++
			esize := choice(rng, opts.EmblemSizes)
			stamp := canvas.Resize(e, esize, esize)
			if opts.Rotate {
				stamp = canvas.Rotate(stamp, choice(rng, rotations))
			}
			canvas.CompositeCentered(img, stamp, p.Add(opts.Padding, opts.Padding))
		}

		name := fmt.Sprintf("grid_%d.png", i)
		if err := canvas.Save(filepath.Join(opts.Output, name), img); err != nil {
			return nil, err
		}
		info := ImageInfo{
			Index:      i,
			File:       name,
			Layout:     layout,
			Points:     g.Count(),
			Foreground: thcolor.Hex(tintColor),
		}
		m.Images = append(m.Images, info)

		r.Logger.Debug("rendered background",
			"index", i,
			"layout", layout,
			"points", info.Points)
		if opts.Progress != nil {
			opts.Progress(i+1, opts.Count)
		}
	}

	if err := writeManifest(filepath.Join(opts.Output, ManifestName), m); err != nil {
		return nil, err
	}

	res = &BackgroundResult{Manifest: m, Dir: opts.Output, Duration: time.Since(start)}
	r.Logger.Info("wrote backgrounds",
		"dir", opts.Output,
		"images", len(m.Images),
		"duration", res.Duration)
	return res, nil
}

// tint multiplies every emblem by c.
func tint(emblems []image.Image, c color.NRGBA) []image.Image {
	out := make([]image.Image, len(emblems))
	for i, e := range emblems {
		out[i] = canvas.Multiply(e, c)
	}
	return out
}

// randomGrid picks a layout and runs the optional jitter and sparsify steps.
// Square grids lose their last row and column so the far edge wraps onto
// the first one without doubling up.
func randomGrid(rng *rand.Rand, opts BackgroundOptions) (grid.Grid, string, error) {
	var (
		g      grid.Grid
		layout string
		err    error
	)
	if opts.Radial && rng.Float64() < radialChance {
		layout = LayoutRadial
		g, err = grid.BuildRadial(opts.Size, grid.RadialOptions{
			Rings:   1 + rng.IntN(3),
			Angular: 4 + rng.IntN(5),
			Offset:  float64(rng.IntN(361)),
			Center:  rng.Float64() < centerChance,
		})
	} else {
		layout = LayoutSquare
		g, err = grid.Build(opts.Size, choice(rng, squareNums))
		g = grid.TrimLast(g)
	}
	if err != nil {
		return nil, "", err
	}

	if opts.Jitter > 0 {
		g, err = grid.Jitter(g, grid.RangeJitter{Max: opts.Jitter}, rng, grid.JitterOptions{
			Size:  opts.Size,
			Clamp: true,
		})
		if err != nil {
			return nil, "", err
		}
	}
	if opts.Sparsify > 0 {
		if g, err = grid.Sparsify(g, opts.Sparsify, rng); err != nil {
			return nil, "", err
		}
	}
	return g, layout, nil
}

func writeManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode manifest")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write manifest")
	}
	return nil
}

// ReadManifest loads a manifest written by [Runner.Background].
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read manifest %s", path)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "decode manifest %s", path)
	}
	return &m, nil
}
