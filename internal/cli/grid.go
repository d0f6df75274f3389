package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theia-art/theia/pkg/grid"
	"github.com/theia-art/theia/pkg/pipeline"
	"github.com/theia-art/theia/pkg/recipe"
)

// gridOpts holds the flags that describe a recipe inline.
type gridOpts struct {
	size     int
	num      int
	radial   bool
	angular  int
	rings    int
	offset   float64
	center   bool
	trim     bool
	jitter   int
	clamp    bool
	sparsify float64
	seed     uint64

	png        string // visualisation output
	jsonOut    string // point dump, "-" for stdout
	saveRecipe string
	padding    int
	noCache    bool

	fromFlags bool
}

// gridCommand creates the grid command.
func (c *CLI) gridCommand() *cobra.Command {
	opts := gridOpts{
		size:    512,
		num:     5,
		angular: 6,
		rings:   2,
		clamp:   true,
		seed:    42,
		padding: 16,
	}

	cmd := &cobra.Command{
		Use:   "grid [recipe.toml]",
		Short: "Build and transform a point grid",
		Long: `Build a point grid and run it through transforms.

The grid is described either by a TOML recipe file or by flags. Flags that
shape the grid are ignored when a recipe is given; output flags always apply.

Examples:
  theia grid --size 512 --num 5 --trim --jitter 8 --png grid.png
  theia grid recipes/tiles.toml --json -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rec *recipe.Recipe
				err error
			)
			if len(args) == 1 {
				rec, err = recipe.Load(args[0])
			} else {
				rec, err = opts.recipe()
				opts.fromFlags = true
			}
			if err != nil {
				return err
			}
			return c.runGrid(cmd.Context(), rec, opts)
		},
	}

	cmd.Flags().IntVar(&opts.size, "size", opts.size, "canvas size in pixels")
	cmd.Flags().IntVar(&opts.num, "num", opts.num, "points per row of a square grid")
	cmd.Flags().BoolVar(&opts.radial, "radial", false, "build a radial grid instead of a square one")
	cmd.Flags().IntVar(&opts.angular, "angular", opts.angular, "points per ring (radial)")
	cmd.Flags().IntVar(&opts.rings, "rings", opts.rings, "number of rings (radial)")
	cmd.Flags().Float64Var(&opts.offset, "offset", 0, "ring rotation in degrees (radial)")
	cmd.Flags().BoolVar(&opts.center, "center", false, "include the centre point (radial)")
	cmd.Flags().BoolVar(&opts.trim, "trim", false, "drop the last row and column for tiling")
	cmd.Flags().IntVar(&opts.jitter, "jitter", 0, "max random offset per axis (0 disables)")
	cmd.Flags().BoolVar(&opts.clamp, "clamp", opts.clamp, "keep jittered points inside the canvas")
	cmd.Flags().Float64Var(&opts.sparsify, "sparsify", 0, "fraction of points to keep (0 disables)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "random seed")
	cmd.Flags().StringVar(&opts.png, "png", "", "write a dot-plot visualisation to this file")
	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "write the points as JSON to this file (- for stdout)")
	cmd.Flags().StringVar(&opts.saveRecipe, "save-recipe", "", "write the effective recipe as TOML to this file")
	cmd.Flags().IntVar(&opts.padding, "padding", opts.padding, "visualisation padding in pixels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the preview cache")

	return cmd
}

// recipe translates the shape flags into a recipe.
func (o gridOpts) recipe() (*recipe.Recipe, error) {
	rec := &recipe.Recipe{
		Seed: o.seed,
		Builder: recipe.Builder{
			Kind: recipe.KindSquare,
			Size: o.size,
			Num:  o.num,
		},
	}
	if o.radial {
		rec.Builder = recipe.Builder{
			Kind:    recipe.KindRadial,
			Size:    o.size,
			Angular: o.angular,
			Rings:   o.rings,
			Offset:  o.offset,
			Center:  o.center,
		}
	}
	if o.trim {
		rec.Steps = append(rec.Steps, recipe.Step{Op: recipe.OpTrim})
	}
	if o.jitter > 0 {
		j := o.jitter
		rec.Steps = append(rec.Steps, recipe.Step{Op: recipe.OpJitter, Max: &j, Clamp: o.clamp, Size: o.size})
	}
	if o.sparsify > 0 {
		rec.Steps = append(rec.Steps, recipe.Step{Op: recipe.OpSparsify, Percentage: o.sparsify})
	}
	return rec, rec.Validate()
}

func (c *CLI) runGrid(ctx context.Context, rec *recipe.Recipe, opts gridOpts) error {
	prog := newProgress(c.Logger)
	g, err := rec.Run()
	if err != nil {
		return fmt.Errorf("run recipe: %w", err)
	}
	prog.done(fmt.Sprintf("Built %s grid with %d steps", rec.Builder.Kind, len(rec.Steps)))

	if opts.jsonOut == "-" {
		return writePoints(os.Stdout, g)
	}

	printSuccess("Grid ready")
	printGridStats(len(g), g.Count(), false)
	if lo, hi, ok := g.Bounds(); ok {
		printKeyValue("Bounds", fmt.Sprintf("%v to %v", lo, hi))
	} else {
		printWarning("Grid is empty")
	}

	if opts.jsonOut != "" {
		if err := writePointsFile(opts.jsonOut, g); err != nil {
			return err
		}
		printFile(opts.jsonOut)
	}
	if opts.saveRecipe != "" {
		if err := os.WriteFile(opts.saveRecipe, []byte(rec.String()), 0644); err != nil {
			return fmt.Errorf("save recipe: %w", err)
		}
		printFile(opts.saveRecipe)
	}
	if opts.png != "" {
		runner, err := c.newRunner(opts.noCache)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()

		data, hit, err := runner.Preview(ctx, pipeline.PreviewOptions{Recipe: rec, Padding: opts.padding})
		if err != nil {
			return fmt.Errorf("visualise: %w", err)
		}
		if err := os.WriteFile(opts.png, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.png, err)
		}
		printFile(opts.png)
		if hit {
			printDetail("preview served from cache")
		}
	}
	if opts.saveRecipe == "" && opts.fromFlags {
		printNextStep("Save this grid as a recipe", "theia grid --save-recipe grid.toml")
	}
	return nil
}

func writePoints(w io.Writer, g grid.Grid) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}

func writePointsFile(path string, g grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := writePoints(f, g); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
