package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theia-art/theia/pkg/canvas"
	"github.com/theia-art/theia/pkg/pipeline"
)

// backgroundCommand creates the background command.
func (c *CLI) backgroundCommand() *cobra.Command {
	opts := pipeline.BackgroundOptions{
		InputRoot:   canvas.DefaultInputRoot,
		Output:      pipeline.DefaultOutput,
		Count:       pipeline.DefaultCount,
		Size:        pipeline.DefaultSize,
		EmblemSizes: pipeline.DefaultEmblemSizes,
		Foreground:  pipeline.DefaultForeground,
		Background:  pipeline.DefaultBackground,
	}

	cmd := &cobra.Command{
		Use:   "background <emblems>",
		Short: "Generate tileable backgrounds from emblem images",
		Long: `Generate tileable backgrounds by stamping emblems onto random grids.

<emblems> is an image file or a directory of images. Relative paths that do
not exist are looked up under --input-root. Each background gets a random
square grid (or, with --radial, occasionally a radial one); emblems are
tinted with --fg, resized to one of --esize and wrapped across the edges so
the result tiles seamlessly.

Runs are reproducible: the seed is printed and stored in manifest.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Emblems = args[0]
			return c.runBackground(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", opts.Output, "output directory")
	cmd.Flags().StringVar(&opts.InputRoot, "input-root", opts.InputRoot, "fallback root for relative emblem paths")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", opts.Count, "number of backgrounds")
	cmd.Flags().IntVar(&opts.Size, "size", opts.Size, "background size in pixels")
	cmd.Flags().IntVar(&opts.Padding, "padding", 0, "extra border in pixels")
	cmd.Flags().IntSliceVarP(&opts.EmblemSizes, "esize", "e", opts.EmblemSizes, "emblem sizes to pick from")
	cmd.Flags().BoolVar(&opts.Radial, "radial", false, "allow radial grids")
	cmd.Flags().IntVar(&opts.Jitter, "jitter", 0, "max random point offset (0 disables)")
	cmd.Flags().Float64Var(&opts.Sparsify, "sparsify", 0, "fraction of points to keep (0 disables)")
	cmd.Flags().BoolVar(&opts.Rotate, "rotate", false, "rotate emblems by up to 45 degrees")
	cmd.Flags().StringVar(&opts.Foreground, "fg", opts.Foreground, "emblem tint colour")
	cmd.Flags().StringVar(&opts.Background, "bg", opts.Background, "background colour")
	cmd.Flags().StringVar(&opts.ForegroundGradient, "fg-gradient", "", "pick each image's tint from a comma-separated gradient")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 picks one)")

	return cmd
}

func (c *CLI) runBackground(ctx context.Context, opts pipeline.BackgroundOptions) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating backgrounds...")
	spinner.Start()
	opts.Progress = func(done, total int) {
		spinner.Update(fmt.Sprintf("Generating backgrounds... %d/%d", done, total))
	}

	res, err := runner.Background(ctx, opts)
	if err != nil {
		spinner.StopWithError("Background generation failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Generated %s backgrounds", StyleNumber.Render(strconv.Itoa(len(res.Manifest.Images)))))

	for _, p := range res.Paths() {
		printFile(p)
	}
	printKeyValue("Run", res.Manifest.RunID)
	printKeyValue("Seed", strconv.FormatUint(res.Manifest.Seed, 10))
	printNextStep("Reproduce", fmt.Sprintf("theia background %s --seed %d", opts.Emblems, res.Manifest.Seed))
	return nil
}
