package canvas

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	thcolor "github.com/theia-art/theia/pkg/color"
	"github.com/theia-art/theia/pkg/grid"
)

// WrappedComposite alpha-composites src onto dst with its top-left corner at
// at. Anything hanging off an edge re-enters from the opposite edge, so the
// canvas tiles without seams. src is wrapped at most once in each direction.
func WrappedComposite(dst *image.NRGBA, src image.Image, at image.Point) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	sb := src.Bounds()
	for _, dy := range []int{-h, 0, h} {
		for _, dx := range []int{-w, 0, w} {
			origin := dst.Rect.Min.Add(at).Add(image.Pt(dx, dy))
			r := image.Rectangle{Min: origin, Max: origin.Add(sb.Size())}.Intersect(dst.Rect)
			if r.Empty() {
				continue
			}
			xdraw.Draw(dst, r, src, sb.Min.Add(r.Min.Sub(origin)), xdraw.Over)
		}
	}
}

// CompositeCentered is [WrappedComposite] with src centred on p.
func CompositeCentered(dst *image.NRGBA, src image.Image, p grid.Point) {
	b := src.Bounds()
	WrappedComposite(dst, src, image.Pt(p.X-b.Dx()/2, p.Y-b.Dy()/2))
}

// Fill returns a w×h image of a single colour.
func Fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, xdraw.Src)
	return img
}

// Pad centres img on a transparent side×side canvas. Images larger than side
// are cropped around their centre.
func Pad(img image.Image, side int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, side, side))
	b := img.Bounds()
	at := image.Pt((side-b.Dx())/2, (side-b.Dy())/2)
	xdraw.Draw(out, image.Rectangle{Min: at, Max: at.Add(b.Size())}, img, b.Min, xdraw.Src)
	return out
}

// Gradient returns a w×h image running through g from left to right, with
// stops blended by mix (nil is linear). Rotate the result for other
// directions.
func Gradient(g thcolor.Gradient, w, h int, mix thcolor.Mixer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		t := 0.0
		if w > 1 {
			t = float64(x) / float64(w-1)
		}
		c := g.AtWith(t, mix)
		for y := range h {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// VisualiseOptions styles [Visualise].
type VisualiseOptions struct {
	Padding    int
	Radius     float64
	Background color.NRGBA
	Foreground color.NRGBA
}

// DefaultVisualiseOptions supplies the radius and colours when those are zero.
var DefaultVisualiseOptions = VisualiseOptions{
	Padding:    16,
	Radius:     4,
	Background: thcolor.MustParse("#2d3436"),
	Foreground: thcolor.MustParse("#a29bfe"),
}

// Visualise draws every point of g as a dot on a (size+2*padding) square
// canvas, for eyeballing a transform pipeline.
func Visualise(g grid.Grid, size int, opts VisualiseOptions) image.Image {
	if opts.Radius <= 0 {
		opts.Radius = DefaultVisualiseOptions.Radius
	}
	if opts.Background == (color.NRGBA{}) {
		opts.Background = DefaultVisualiseOptions.Background
	}
	if opts.Foreground == (color.NRGBA{}) {
		opts.Foreground = DefaultVisualiseOptions.Foreground
	}
	pad := max(opts.Padding, 0)

	dc := gg.NewContext(size+2*pad, size+2*pad)
	dc.SetColor(opts.Background)
	dc.Clear()
	dc.SetColor(opts.Foreground)
	for _, p := range grid.Flatten(g) {
		dc.DrawCircle(float64(p.X+pad), float64(p.Y+pad), opts.Radius)
		dc.Fill()
	}
	return dc.Image()
}
