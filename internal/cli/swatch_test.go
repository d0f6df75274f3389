package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/theia-art/theia/pkg/canvas"
	"github.com/theia-art/theia/pkg/errors"
	"github.com/theia-art/theia/pkg/palette"
)

func TestSwatchCommand(t *testing.T) {
	out := t.TempDir()
	pdir := t.TempDir()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"swatch", "#000, #fff", "--name", "mono", "--steps", "4",
		"-o", out, "--palette-dir", pdir, "--width", "16", "--height", "4", "--blend", "smooth"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(out, "mono.png")); err != nil {
		t.Errorf("swatch image missing: %v", err)
	}
	p, err := palette.Load(pdir, "mono")
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 4 || p[0].Name != "0" || p[3].Name != "3" {
		t.Errorf("sampled palette = %v", p)
	}
}

func TestSwatchCommandNeedsSource(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"swatch", "-o", t.TempDir()})
	root.SilenceErrors = true
	root.SilenceUsage = true
	if err := root.Execute(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestTidyCommand(t *testing.T) {
	in := filepath.Join(t.TempDir(), "icon.png")
	if err := canvas.Save(in, canvas.Fill(2, 2, canvas.DefaultVisualiseOptions.Foreground)); err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"tidy", in, "--pad", "6", "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	img, err := canvas.Open(filepath.Join(out, "icon.png"))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 6 {
		t.Errorf("width = %d, want 6", b.Dx())
	}
}
