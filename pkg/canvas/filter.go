package canvas

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	thcolor "github.com/theia-art/theia/pkg/color"
)

// Multiply scales every channel of img, alpha included, by the matching
// channel of c (255 leaves a channel unchanged).
func Multiply(img image.Image, c color.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(p color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: mul(p.R, c.R),
			G: mul(p.G, c.G),
			B: mul(p.B, c.B),
			A: mul(p.A, c.A),
		}
	})
}

func mul(a, b uint8) uint8 {
	return uint8(uint16(a) * uint16(b) / 255)
}

// InvertWithAlpha inverts the colour channels and keeps alpha.
func InvertWithAlpha(img image.Image) *image.NRGBA {
	return imaging.Invert(img)
}

// Resize scales img to w×h with Catmull-Rom resampling.
func Resize(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Rect, img, img.Bounds(), xdraw.Over, nil)
	return dst
}

// Rotate turns img counter-clockwise by deg degrees. The canvas grows to fit
// and the uncovered corners are transparent.
func Rotate(img image.Image, deg float64) *image.NRGBA {
	return imaging.Rotate(img, deg, color.Transparent)
}

// Outline draws a solid silhouette of img in c behind it. width is the blur
// radius used to grow the silhouette; softness runs from 0 (hard edge) to 255
// (soft glow).
func Outline(img image.Image, c color.NRGBA, width float64, softness int) *image.NRGBA {
	gain := float64(256 - min(max(softness, 0), 255))
	blurred := imaging.Blur(img, width)

	out := image.NewNRGBA(blurred.Rect)
	for y := range blurred.Rect.Dy() {
		for x := range blurred.Rect.Dx() {
			a := blurred.NRGBAAt(x, y).A
			out.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: thcolor.Clamp(float64(a) * gain)})
		}
	}
	b := img.Bounds()
	xdraw.Draw(out, out.Rect, img, b.Min, xdraw.Over)
	return out
}

// NeonGlow applies a tight outline followed by a wide, soft one.
// glowFactor scales the second outline relative to the first.
func NeonGlow(img image.Image, c color.NRGBA, width, glowFactor float64) *image.NRGBA {
	inner := Outline(img, c, width, 32)
	return Outline(inner, c, width*glowFactor, 255)
}

// SwapQuadrants rolls img by half its size in both directions so the four
// corners meet in the middle. Seams of a tiling texture end up in the centre
// where they can be touched up.
func SwapQuadrants(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	xm, ym := w/2, h/2

	out := imaging.New(w, h, color.Transparent)
	out = imaging.Paste(out, imaging.Crop(src, image.Rect(xm, ym, w, h)), image.Pt(0, 0))
	out = imaging.Paste(out, imaging.Crop(src, image.Rect(0, ym, xm, h)), image.Pt(w-xm, 0))
	out = imaging.Paste(out, imaging.Crop(src, image.Rect(xm, 0, w, ym)), image.Pt(0, h-ym))
	out = imaging.Paste(out, imaging.Crop(src, image.Rect(0, 0, xm, ym)), image.Pt(w-xm, h-ym))
	return out
}
