package palette

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Quantize maps every pixel of img to its nearest palette colour, keeping the
// original alpha. With dither set, error diffusion (Floyd-Steinberg) is used
// instead of a straight nearest-colour lookup.
func Quantize(img image.Image, p Palette, dither bool) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if len(p) == 0 {
		draw.Draw(out, out.Rect, img, b.Min, draw.Src)
		return out
	}

	if dither {
		pal := make(color.Palette, len(p))
		for i, e := range p {
			pal[i] = e.Color
		}
		dst := image.NewPaletted(out.Rect, pal)
		draw.FloydSteinberg.Draw(dst, dst.Rect, img, b.Min)
		for y := range b.Dy() {
			for x := range b.Dx() {
				c := pal[dst.ColorIndexAt(x, y)].(color.NRGBA)
				c.A = color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA).A
				out.SetNRGBA(x, y, c)
			}
		}
		return out
	}

	mapping := make(map[color.NRGBA]color.NRGBA)
	for y := range b.Dy() {
		for x := range b.Dx() {
			src := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			c, ok := mapping[src]
			if !ok {
				c, _ = p.Nearest(src)
				mapping[src] = c
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}
