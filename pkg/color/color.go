// Package color parses, formats and blends colours for the imaging tools.
//
// Colours are plain [color.NRGBA] values from the standard library so they can
// be handed to any image routine without conversion. Parsing accepts hex
// codes ("#fff", "#a29bfe"), functional notation ("rgb(12, 34, 56)") and the
// SVG colour keywords ("tomato", "slategray").
package color

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/theia-art/theia/pkg/errors"
)

// Parse converts a colour string into an opaque colour.
func Parse(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "empty colour string")

	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "bad hex colour %q", s)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil

	case strings.HasPrefix(s, "rgb("):
		var r, g, b int
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "bad rgb colour %q", s)
		}
		for _, v := range []int{r, g, b} {
			if v < 0 || v > 255 {
				return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "rgb component %d out of range in %q", v, s)
			}
		}
		return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, nil
	}

	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}, nil
	}
	return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "unknown colour %q", s)
}

// MustParse is like [Parse] but panics on error. Intended for literals.
func MustParse(s string) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Clamp floors v into a valid 0..255 channel value.
func Clamp(v float64) uint8 {
	return uint8(math.Floor(min(max(0, v), 255)))
}

// Lerp linearly interpolates between a and b. p=0 yields a, p=1 yields b.
// Channels are floored, not rounded.
func Lerp(a, b color.NRGBA, p float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return Clamp(float64(x) + (float64(y)-float64(x))*p)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Interpolate is [Lerp] with p passed through ease first. ease should map
// [0,1] onto [0,1].
func Interpolate(a, b color.NRGBA, p float64, ease func(float64) float64) color.NRGBA {
	return Lerp(a, b, ease(p))
}

// BlendLab interpolates through CIE L*a*b* space, which keeps midpoints from
// going muddy the way straight RGB mixing does. Alpha is interpolated
// linearly.
func BlendLab(a, b color.NRGBA, p float64) color.NRGBA {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendLab(cb, p).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: Lerp(a, b, p).A}
}

// DistanceSquared is the squared Euclidean distance between the RGB channels
// of a and b.
func DistanceSquared(a, b color.NRGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
