package matting

import (
	"image"
	"image/color"
	"math"
)

// blurMask applies a discrete Gaussian to the mask field for smooth matte
// edges. The sampling window clamps at the image border: out-of-range taps
// are skipped and each pixel renormalizes by the weight it actually
// sampled, so edges neither wrap nor darken. Reads come from the input
// slice and writes go to a fresh one, so rows blur in parallel without
// hazards.
func blurMask(mask []float64, width, height, radius int, sigma float64, workers int) []float64 {
	if radius <= 0 || sigma <= 0 {
		out := make([]float64, len(mask))
		copy(out, mask)
		return out
	}

	size := 2*radius + 1
	weights := make([]float64, size*size)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			weights[(dy+radius)*size+(dx+radius)] = math.Exp(-float64(dx*dx+dy*dy) / (2 * sigma * sigma))
		}
	}

	out := make([]float64, len(mask))
	forEachStrip(height, workers, func(_ int, s strip) {
		for y := s.start; y < s.end; y++ {
			for x := 0; x < width; x++ {
				var sum, weightSum float64
				for dy := -radius; dy <= radius; dy++ {
					yy := y + dy
					if yy < 0 || yy >= height {
						continue
					}
					for dx := -radius; dx <= radius; dx++ {
						xx := x + dx
						if xx < 0 || xx >= width {
							continue
						}
						wt := weights[(dy+radius)*size+(dx+radius)]
						sum += mask[yy*width+xx] * wt
						weightSum += wt
					}
				}
				out[y*width+x] = sum / weightSum
			}
		}
	})
	return out
}

// writeAlpha copies the source RGB into a fresh buffer and writes the mask,
// scaled to [0,255] and rounded, into the alpha channel. Any alpha the
// source carried is discarded.
func writeAlpha(src *image.NRGBA, mask []float64, workers int) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	forEachStrip(h, workers, func(_ int, s strip) {
		for y := s.start; y < s.end; y++ {
			srcRow := y * src.Stride
			outRow := y * out.Stride
			for x := 0; x < w; x++ {
				sp := srcRow + x*4
				op := outRow + x*4
				out.Pix[op] = src.Pix[sp]
				out.Pix[op+1] = src.Pix[sp+1]
				out.Pix[op+2] = src.Pix[sp+2]
				out.Pix[op+3] = uint8(math.Round(mask[y*w+x] * 255))
			}
		}
	})
	return out
}

// FlattenOnColor composites a matted image over a solid replacement
// background. Fully opaque pixels keep the source color exactly and fully
// transparent pixels take the replacement color exactly; partial alpha
// blends linearly. The result is opaque.
func FlattenOnColor(matted *image.NRGBA, background color.Color) *image.RGBA {
	r16, g16, b16, _ := background.RGBA()
	br := float64(r16 >> 8)
	bg := float64(g16 >> 8)
	bb := float64(b16 >> 8)

	w := matted.Bounds().Dx()
	h := matted.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		srcRow := y * matted.Stride
		outRow := y * out.Stride
		for x := 0; x < w; x++ {
			sp := srcRow + x*4
			op := outRow + x*4
			alpha := float64(matted.Pix[sp+3]) / 255.0
			out.Pix[op] = uint8(math.Round(alpha*float64(matted.Pix[sp]) + (1-alpha)*br))
			out.Pix[op+1] = uint8(math.Round(alpha*float64(matted.Pix[sp+1]) + (1-alpha)*bg))
			out.Pix[op+2] = uint8(math.Round(alpha*float64(matted.Pix[sp+2]) + (1-alpha)*bb))
			out.Pix[op+3] = 255
		}
	}
	return out
}
