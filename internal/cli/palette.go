package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theia-art/theia/pkg/palette"
)

// paletteCommand creates the palette command group.
func (c *CLI) paletteCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Inspect and normalise palette files",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", defaultPaletteDir, "palette directory")

	cmd.AddCommand(c.paletteListCommand(&dir))
	cmd.AddCommand(c.paletteShowCommand(&dir))
	cmd.AddCommand(c.paletteConvertCommand(&dir))

	return cmd
}

func (c *CLI) paletteListCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List palettes in the palette directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := listPalettes(*dir)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No palettes in %s", *dir)
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
}

func (c *CLI) paletteShowCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|file>",
		Short: "Print a palette with colour swatches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePalette(*dir, args[0])
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(args[0]) + " " + StyleDim.Render(fmt.Sprintf("(%d colours)", len(p))))
			printPalette(p)
			return nil
		},
	}
}

func (c *CLI) paletteConvertCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <file> [name]",
		Short: "Normalise a palette file into the palette directory",
		Long: `Read a palette file in any supported colour syntax and save it to the
palette directory with every colour written as name=#rrggbb. The name
defaults to the input file name.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(c.Logger)
			p, err := palette.LoadFile(args[0])
			if err != nil {
				return err
			}
			name := paletteName(args[0])
			if len(args) == 2 {
				name = args[1]
			}
			if err := palette.Save(*dir, name, p); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Converted %d colours", len(p)))
			printSuccess("Saved palette %s", name)
			printFile(palette.Path(*dir, name))
			return nil
		},
	}
}

// resolvePalette treats arg as a file path if it exists, else as a palette
// name inside dir.
func resolvePalette(dir, arg string) (palette.Palette, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return palette.LoadFile(arg)
	}
	return palette.Load(dir, arg)
}

// listPalettes returns the palette names in dir, sorted.
func listPalettes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list palettes: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != "."+palette.Ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), "."+palette.Ext))
	}
	return names, nil
}

// paletteName is the file name of arg without directory or extension.
func paletteName(arg string) string {
	base := filepath.Base(arg)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
