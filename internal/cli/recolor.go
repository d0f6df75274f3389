package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theia-art/theia/pkg/canvas"
	"github.com/theia-art/theia/pkg/pipeline"
)

// recolorCommand creates the recolor command.
func (c *CLI) recolorCommand() *cobra.Command {
	var paletteDir string
	opts := pipeline.RecolorOptions{
		InputRoot: canvas.DefaultInputRoot,
		Output:    "output",
		Mode:      pipeline.ModeMultiply,
	}

	cmd := &cobra.Command{
		Use:   "recolor <palette> <images...>",
		Short: "Recolour images with a palette",
		Long: `Recolour images with a palette.

In multiply mode (default) every image is tinted once per palette colour and
saved as <output>/<palette>/<image>_<colour>.png. Outline and neon modes
write the same files with a coloured outline or glow drawn behind the image.
In quantize mode every pixel is snapped to its nearest palette colour,
optionally with Floyd-Steinberg dithering.

<palette> is a palette name in --palette-dir or a path to a palette file.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePalette(paletteDir, args[0])
			if err != nil {
				return err
			}
			opts.Palette = p
			opts.PaletteName = paletteName(args[0])
			opts.Images = args[1:]
			return c.runRecolor(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&paletteDir, "palette-dir", defaultPaletteDir, "palette directory")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", opts.Output, "output directory")
	cmd.Flags().StringVar(&opts.InputRoot, "input-root", opts.InputRoot, "fallback root for relative image paths")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", opts.Mode, "recolour mode: multiply, quantize, outline, neon")
	cmd.Flags().BoolVar(&opts.Dither, "dither", false, "dither when quantizing")
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultOutlineWidth, "outline width in pixels")
	cmd.Flags().IntVar(&opts.Softness, "softness", 0, "outline softness, 0 (hard) to 255")
	cmd.Flags().Float64Var(&opts.GlowFactor, "glow", pipeline.DefaultGlowFactor, "neon glow width relative to the outline")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "concurrent images (0 = one per CPU)")

	return cmd
}

func (c *CLI) runRecolor(ctx context.Context, opts pipeline.RecolorOptions) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Recolouring...")
	spinner.Start()
	res, err := runner.Recolor(ctx, opts)
	if err != nil {
		spinner.StopWithError("Recolour failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Wrote %d images", len(res.Files)))

	for _, f := range res.Files {
		printFile(f)
	}
	return nil
}
