package canvas

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/theia-art/theia/pkg/errors"
)

// DefaultInputRoot is checked when a path does not exist as given.
const DefaultInputRoot = "input"

// Named is a decoded image with its file name minus directory and extension.
type Named struct {
	Name  string
	Image *image.NRGBA
}

// ImagePaths resolves path to a list of image files. A file yields itself, a
// directory yields its image files in name order. If path does not exist,
// inputRoot/path is tried before giving up with FILE_NOT_FOUND.
func ImagePaths(path, inputRoot string) ([]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && inputRoot != "" {
		if _, err := os.Stat(filepath.Join(inputRoot, path)); err == nil {
			path = filepath.Join(inputRoot, path)
		}
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "no images at %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "stat %s", path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "list %s", path)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := imaging.FormatFromFilename(e.Name()); err != nil {
			continue
		}
		paths = append(paths, filepath.Join(path, e.Name()))
	}
	return paths, nil
}

// Load decodes every image found by [ImagePaths] into NRGBA.
func Load(path, inputRoot string) ([]Named, error) {
	paths, err := ImagePaths(path, inputRoot)
	if err != nil {
		return nil, err
	}
	out := make([]Named, 0, len(paths))
	for _, p := range paths {
		img, err := Open(p)
		if err != nil {
			return nil, err
		}
		out = append(out, Named{Name: stem(p), Image: img})
	}
	return out, nil
}

// Open decodes a single image file into NRGBA.
func Open(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "decode %s", path)
	}
	return imaging.Clone(img), nil
}

// Save encodes img to path, choosing the format from the extension and
// creating parent directories.
func Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", filepath.Dir(path))
	}
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "save %s", path)
	}
	return nil
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
