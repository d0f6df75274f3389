package color

import (
	"image/color"
	"math/rand/v2"
	"strings"

	"github.com/theia-art/theia/pkg/errors"
)

// Stop is a gradient colour pinned at Pos in [0,1].
type Stop struct {
	Pos   float64
	Color color.NRGBA
}

// Gradient is a list of stops in ascending Pos order.
type Gradient []Stop

// Mixer blends a towards b by p in [0,1].
type Mixer func(a, b color.NRGBA, p float64) color.NRGBA

// Eased returns a mixer that runs p through ease before a linear blend.
func Eased(ease func(float64) float64) Mixer {
	return func(a, b color.NRGBA, p float64) color.NRGBA {
		return Interpolate(a, b, p, ease)
	}
}

// Smoothstep eases in and out.
func Smoothstep(p float64) float64 {
	return p * p * (3 - 2*p)
}

// Blend modes accepted by [MixerFor].
const (
	BlendModeLinear = "linear"
	BlendModeLab    = "lab"
	BlendModeSmooth = "smooth"
)

// MixerFor returns the mixer for a blend mode name. An empty name is linear.
func MixerFor(mode string) (Mixer, error) {
	switch mode {
	case "", BlendModeLinear:
		return Lerp, nil
	case BlendModeLab:
		return BlendLab, nil
	case BlendModeSmooth:
		return Eased(Smoothstep), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown blend mode %q", mode)
}

// At returns the colour at position t. Positions before the first stop take
// the first colour and positions past the last stop take the last colour.
func (g Gradient) At(t float64) color.NRGBA {
	return g.AtWith(t, Lerp)
}

// AtWith is [Gradient.At] with stops blended by mix. nil means [Lerp].
func (g Gradient) AtWith(t float64, mix Mixer) color.NRGBA {
	if mix == nil {
		mix = Lerp
	}
	if len(g) == 0 {
		return color.NRGBA{}
	}
	if t <= g[0].Pos {
		return g[0].Color
	}
	for i := 1; i < len(g); i++ {
		prev, next := g[i-1], g[i]
		if t <= next.Pos {
			if next.Pos == prev.Pos {
				return next.Color
			}
			return mix(prev.Color, next.Color, (t-prev.Pos)/(next.Pos-prev.Pos))
		}
	}
	return g[len(g)-1].Color
}

// Sample returns n colours spaced evenly along the gradient, both ends
// included. n == 1 yields the first stop.
func (g Gradient) Sample(n int, mix Mixer) []color.NRGBA {
	out := make([]color.NRGBA, max(n, 0))
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = g.AtWith(t, mix)
	}
	return out
}

// Random samples the gradient at a uniformly random position.
func (g Gradient) Random(rng *rand.Rand) color.NRGBA {
	return g.At(rng.Float64())
}

// Linspace spaces colors evenly from 0 to 1. A single colour sits at 0.
func Linspace(colors []color.NRGBA) Gradient {
	g := make(Gradient, len(colors))
	for i, c := range colors {
		pos := 0.0
		if len(colors) > 1 {
			pos = float64(i) / float64(len(colors)-1)
		}
		g[i] = Stop{Pos: pos, Color: c}
	}
	return g
}

// ParseGradient parses a comma-separated colour list such as
// "#000, tomato, #fff" into an evenly spaced gradient.
func ParseGradient(s string) (Gradient, error) {
	parts := strings.Split(s, ",")
	colors := make([]color.NRGBA, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		c, err := Parse(p)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	if len(colors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidColor, "gradient %q has no colours", s)
	}
	return Linspace(colors), nil
}
