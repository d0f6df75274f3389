// Package palette loads, saves and queries named colour palettes.
//
// # File Format
//
// Palettes are plain text, one colour per line. A line is either a bare
// colour or name=colour; bare colours are named by their position among the
// unnamed entries ("0", "1", ...). Lines starting with ";" are comments:
//
//	; sweetie-16
//	bg=#1a1c2c
//	#5d275d
//	accent=tomato
//
// Any colour accepted by [thcolor.Parse] may be used.
//
// Files live in a palette directory as <name>.txt; see [Load] and [Save].
package palette

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	thcolor "github.com/theia-art/theia/pkg/color"
	"github.com/theia-art/theia/pkg/errors"
)

// Ext is the file extension used for palette files.
const Ext = "txt"

// Entry is one named colour.
type Entry struct {
	Name  string
	Color color.NRGBA
}

// Palette is an ordered list of named colours. Order is file order.
type Palette []Entry

// Colors returns the palette colours in order.
func (p Palette) Colors() []color.NRGBA {
	out := make([]color.NRGBA, len(p))
	for i, e := range p {
		out[i] = e.Color
	}
	return out
}

// Lookup returns the colour named name.
func (p Palette) Lookup(name string) (color.NRGBA, bool) {
	for _, e := range p {
		if e.Name == name {
			return e.Color, true
		}
	}
	return color.NRGBA{}, false
}

// Nearest returns the palette colour with the smallest squared RGB distance
// to c. Ties go to the earlier entry. The alpha of c is kept.
func (p Palette) Nearest(c color.NRGBA) (color.NRGBA, bool) {
	if len(p) == 0 {
		return c, false
	}
	best, bestDist := p[0].Color, thcolor.DistanceSquared(p[0].Color, c)
	for _, e := range p[1:] {
		if d := thcolor.DistanceSquared(e.Color, c); d < bestDist {
			best, bestDist = e.Color, d
		}
	}
	best.A = c.A
	return best, true
}

// Parse reads palette lines. Blank lines and ";" comments are skipped.
func Parse(lines []string) (Palette, error) {
	var p Palette
	unnamed := 0
	seen := make(map[string]bool)
	for n, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		var name, value string
		if k, v, ok := strings.Cut(line, "="); ok {
			name, value = strings.TrimSpace(k), v
			if name == "" {
				return nil, errors.New(errors.ErrCodeInvalidPalette, "line %d: empty colour name", n+1)
			}
		} else {
			name, value = strconv.Itoa(unnamed), line
			unnamed++
		}

		c, err := thcolor.Parse(value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPalette, err, "line %d", n+1)
		}
		if seen[name] {
			return nil, errors.New(errors.ErrCodeInvalidPalette, "line %d: duplicate colour name %q", n+1, name)
		}
		seen[name] = true
		p = append(p, Entry{Name: name, Color: c})
	}
	return p, nil
}

// Read parses a palette from r.
func Read(r io.Reader) (Palette, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read palette")
	}
	return Parse(lines)
}

// Write writes p in name=#rrggbb form, one entry per line.
func Write(w io.Writer, p Palette) error {
	bw := bufio.NewWriter(w)
	for _, e := range p {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", e.Name, thcolor.Hex(e.Color)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FromColors names colors by position, or by names when given. names must
// then be exactly as long as colors.
func FromColors(colors []color.NRGBA, names []string) (Palette, error) {
	if len(names) > 0 && len(names) != len(colors) {
		return nil, errors.New(errors.ErrCodeInvalidPalette,
			"number of names (%d) must match number of colours (%d)", len(names), len(colors))
	}
	p := make(Palette, len(colors))
	for i, c := range colors {
		name := strconv.Itoa(i)
		if len(names) > 0 {
			name = names[i]
		}
		p[i] = Entry{Name: name, Color: c}
	}
	return p, nil
}

// Path returns the file path of palette name inside dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+"."+Ext)
}

// Load reads palette name from dir. A missing file returns a FILE_NOT_FOUND
// error.
func Load(dir, name string) (Palette, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return LoadFile(Path(dir, name))
}

// LoadFile reads the palette file at path.
func LoadFile(path string) (Palette, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "palette %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open palette %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Save writes p to dir as palette name, creating dir if needed.
func Save(dir, name string, p Palette) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create palette dir")
	}
	f, err := os.Create(Path(dir, name))
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create palette %s", name)
	}
	if err := Write(f, p); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write palette %s", name)
	}
	return f.Close()
}

// validateName rejects names that would escape the palette directory.
func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return errors.New(errors.ErrCodeInvalidPalette, "invalid palette name %q", name)
	}
	return nil
}
