package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theia-art/theia/pkg/canvas"
	"github.com/theia-art/theia/pkg/pipeline"
)

// tidyCommand creates the tidy command.
func (c *CLI) tidyCommand() *cobra.Command {
	opts := pipeline.TidyOptions{
		InputRoot: canvas.DefaultInputRoot,
		Output:    "output/tidy",
	}

	cmd := &cobra.Command{
		Use:   "tidy <images...>",
		Short: "Invert, pad or seam-swap a batch of icons",
		Long: `Invert, pad or seam-swap a batch of icons.

Steps run in order: --invert flips colours and keeps transparency, --pad
centres each icon on a transparent square, --swap rolls the image by half its
size so tiling seams meet in the middle.`,
		Example: `  theia tidy icons/ --invert --pad 768
  theia tidy output/grid_images/grid_0.png --swap -o seams`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Images = args
			return c.runTidy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", opts.Output, "output directory")
	cmd.Flags().StringVar(&opts.InputRoot, "input-root", opts.InputRoot, "fallback root for relative image paths")
	cmd.Flags().BoolVar(&opts.Invert, "invert", false, "invert colours, keeping alpha")
	cmd.Flags().IntVar(&opts.Pad, "pad", 0, "centre on a transparent square of this size")
	cmd.Flags().BoolVar(&opts.Swap, "swap", false, "swap quadrants to expose tiling seams")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "concurrent images (0 = one per CPU)")

	return cmd
}

func (c *CLI) runTidy(ctx context.Context, opts pipeline.TidyOptions) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Tidying...")
	spinner.Start()
	res, err := runner.Tidy(ctx, opts)
	if err != nil {
		spinner.StopWithError("Tidy failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Wrote %d images", len(res.Files)))

	for _, f := range res.Files {
		printFile(f)
	}
	return nil
}
