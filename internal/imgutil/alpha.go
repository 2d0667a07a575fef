package imgutil

import (
	"image"
	"image/color"
	"image/draw"
)

// HasAlpha reports whether img carries any non-opaque pixel. Paletted images
// count as transparent only when a translucent palette entry is actually
// referenced by a pixel.
func HasAlpha(img image.Image) bool {
	switch src := img.(type) {
	case *image.NRGBA:
		return pixHasAlpha(src.Pix)
	case *image.RGBA:
		return pixHasAlpha(src.Pix)
	case *image.Paletted:
		translucent := make([]bool, len(src.Palette))
		found := false
		for i, c := range src.Palette {
			_, _, _, a := c.RGBA()
			if a < 65535 {
				translucent[i] = true
				found = true
			}
		}
		if !found {
			return false
		}
		for _, idx := range src.Pix {
			if int(idx) < len(translucent) && translucent[idx] {
				return true
			}
		}
		return false
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return false
	default:
		bounds := img.Bounds()
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				if a < 65535 {
					return true
				}
			}
		}
		return false
	}
}

func pixHasAlpha(pix []uint8) bool {
	for i := 3; i < len(pix); i += 4 {
		if pix[i] < 255 {
			return true
		}
	}
	return false
}

// Flatten composites img over a solid background color and returns an opaque
// NRGBA image anchored at the origin.
func Flatten(img image.Image, bg [3]uint8) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	fill := image.NewUniform(color.NRGBA{R: bg[0], G: bg[1], B: bg[2], A: 255})
	draw.Draw(dst, dst.Bounds(), fill, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}
