package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	thcolor "github.com/theia-art/theia/pkg/color"
	"github.com/theia-art/theia/pkg/errors"
	"github.com/theia-art/theia/pkg/pipeline"
)

// swatchCommand creates the swatch command.
func (c *CLI) swatchCommand() *cobra.Command {
	var (
		fromPalette string
		names       []string
	)
	opts := pipeline.SwatchOptions{
		Output:     "output/swatches",
		PaletteDir: defaultPaletteDir,
		Blend:      thcolor.BlendModeLinear,
	}

	cmd := &cobra.Command{
		Use:   "swatch [gradient]",
		Short: "Render a gradient strip and sample it into a palette",
		Long: `Render a gradient strip and sample it into a palette.

The gradient is a comma-separated colour list ("#000, tomato, #fff") or, with
--palette, the colours of an existing palette in order. --steps samples that
many evenly spaced colours and saves them as palette <name> in --palette-dir.

Blend modes: linear, lab (perceptual, avoids muddy midpoints), smooth (eased).`,
		Example: `  theia swatch "#2d3436, #a29bfe, #fff" --name dusk --steps 6
  theia swatch --palette pastel --blend lab`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Gradient = args[0]
			}
			if fromPalette != "" {
				p, err := resolvePalette(opts.PaletteDir, fromPalette)
				if err != nil {
					return err
				}
				opts.Palette = p
				if opts.Name == "" {
					opts.Name = paletteName(fromPalette) + "_swatch"
				}
			}
			if len(args) == 0 && fromPalette == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "give a gradient or --palette")
			}
			opts.Names = names
			return c.runSwatch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&fromPalette, "palette", "", "build the gradient from this palette")
	cmd.Flags().StringVar(&opts.Name, "name", "", "output name (default swatch)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", opts.Output, "output directory for the image")
	cmd.Flags().StringVar(&opts.PaletteDir, "palette-dir", opts.PaletteDir, "palette directory")
	cmd.Flags().StringVar(&opts.Blend, "blend", opts.Blend, "blend mode: linear, lab, smooth")
	cmd.Flags().IntVar(&opts.Width, "width", pipeline.DefaultSwatchWidth, "image width")
	cmd.Flags().IntVar(&opts.Height, "height", pipeline.DefaultSwatchHeight, "image height")
	cmd.Flags().IntVar(&opts.Steps, "steps", 0, "sample this many colours into a palette (0 skips)")
	cmd.Flags().StringSliceVar(&names, "names", nil, "names for the sampled colours")

	return cmd
}

func (c *CLI) runSwatch(ctx context.Context, opts pipeline.SwatchOptions) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Swatch(ctx, opts)
	if err != nil {
		return err
	}
	printSuccess("Rendered swatch")
	printFile(res.Image)
	if res.Palette != nil {
		fmt.Println()
		printPalette(res.Palette)
		printFile(res.PalettePath)
	}
	return nil
}
