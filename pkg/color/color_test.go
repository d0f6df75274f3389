package color

import (
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/theia-art/theia/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#a29bfe", color.NRGBA{0xa2, 0x9b, 0xfe, 255}},
		{"#FFF", color.NRGBA{255, 255, 255, 255}},
		{"  #2d3436 ", color.NRGBA{0x2d, 0x34, 0x36, 255}},
		{"rgb(12, 34, 56)", color.NRGBA{12, 34, 56, 255}},
		{"Tomato", color.NRGBA{255, 99, 71, 255}},
		{"black", color.NRGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "rgb(1,2)", "rgb(1,2,300)", "blurple"} {
		if _, err := Parse(in); !errors.Is(err, errors.ErrCodeInvalidColor) {
			t.Errorf("Parse(%q) err = %v, want INVALID_COLOR", in, err)
		}
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.NRGBA{0xa2, 0x9b, 0xfe, 10}); got != "#a29bfe" {
		t.Errorf("Hex = %q, want #a29bfe", got)
	}
	if got := Hex(MustParse(Hex(color.NRGBA{1, 2, 3, 255}))); got != "#010203" {
		t.Errorf("hex round trip = %q", got)
	}
}

func TestClamp(t *testing.T) {
	tests := map[float64]uint8{-5: 0, 0: 0, 12.9: 12, 255: 255, 300: 255}
	for in, want := range tests {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestLerp(t *testing.T) {
	black := color.NRGBA{0, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}

	if got := Lerp(black, white, 0); got != black {
		t.Errorf("p=0 = %v", got)
	}
	if got := Lerp(black, white, 1); got != white {
		t.Errorf("p=1 = %v", got)
	}
	if got := Lerp(black, white, 0.5); got != (color.NRGBA{127, 127, 127, 255}) {
		t.Errorf("p=0.5 = %v, want floored 127", got)
	}

	square := func(p float64) float64 { return p * p }
	if got := Interpolate(black, white, 0.5, square); got != (color.NRGBA{63, 63, 63, 255}) {
		t.Errorf("eased = %v, want 63", got)
	}
}

func TestBlendLab(t *testing.T) {
	a := MustParse("#ff0000")
	b := MustParse("#0000ff")
	if got := BlendLab(a, b, 0); got != a {
		t.Errorf("p=0 = %v, want %v", got, a)
	}
	if got := BlendLab(a, b, 1); got != b {
		t.Errorf("p=1 = %v, want %v", got, b)
	}
}

func TestDistanceSquared(t *testing.T) {
	if got := DistanceSquared(color.NRGBA{1, 2, 3, 0}, color.NRGBA{4, 6, 3, 255}); got != 25 {
		t.Errorf("DistanceSquared = %d, want 25", got)
	}
}

func TestGradient(t *testing.T) {
	g, err := ParseGradient("#000000, #ffffff, #ff0000")
	if err != nil {
		t.Fatal(err)
	}
	if len(g) != 3 || g[1].Pos != 0.5 {
		t.Fatalf("unexpected stops %v", g)
	}

	tests := []struct {
		t    float64
		want color.NRGBA
	}{
		{-1, color.NRGBA{0, 0, 0, 255}},
		{0, color.NRGBA{0, 0, 0, 255}},
		{0.25, color.NRGBA{127, 127, 127, 255}},
		{0.5, color.NRGBA{255, 255, 255, 255}},
		{1, color.NRGBA{255, 0, 0, 255}},
		{2, color.NRGBA{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		if got := g.At(tt.t); got != tt.want {
			t.Errorf("At(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		c := g.Random(rng)
		if c.A != 255 {
			t.Errorf("random sample %v should be opaque", c)
		}
	}
}

func TestParseGradientInvalid(t *testing.T) {
	if _, err := ParseGradient(" , "); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("err = %v, want INVALID_COLOR", err)
	}
	if _, err := ParseGradient("#000, nope"); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("err = %v, want INVALID_COLOR", err)
	}
}

func TestLinspaceSingle(t *testing.T) {
	g := Linspace([]color.NRGBA{{1, 2, 3, 255}})
	if len(g) != 1 || g[0].Pos != 0 {
		t.Fatalf("Linspace single = %v", g)
	}
	if got := g.At(0.7); got != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("At = %v", got)
	}
}

func TestMixerFor(t *testing.T) {
	black := color.NRGBA{0, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}
	tests := []struct {
		mode string
		p    float64
		want color.NRGBA
	}{
		{"", 0.5, color.NRGBA{127, 127, 127, 255}},
		{BlendModeLinear, 0.25, color.NRGBA{63, 63, 63, 255}},
		{BlendModeSmooth, 0.25, Lerp(black, white, 0.15625)},
		{BlendModeLab, 1, white},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			mix, err := MixerFor(tt.mode)
			if err != nil {
				t.Fatal(err)
			}
			if got := mix(black, white, tt.p); got != tt.want {
				t.Errorf("mix(%g) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
	if _, err := MixerFor("cubic"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown mode err = %v, want INVALID_CONFIG", err)
	}
}

func TestGradientSample(t *testing.T) {
	g := Linspace([]color.NRGBA{{0, 0, 0, 255}, {255, 255, 255, 255}})
	got := g.Sample(3, nil)
	want := []color.NRGBA{{0, 0, 0, 255}, {127, 127, 127, 255}, {255, 255, 255, 255}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
	if one := g.Sample(1, nil); len(one) != 1 || one[0] != want[0] {
		t.Errorf("Sample(1) = %v", one)
	}
	if none := g.Sample(0, nil); len(none) != 0 {
		t.Errorf("Sample(0) = %v", none)
	}
}
