package matting

import (
	"image"
	"image/draw"
)

// Luminance coefficients (Rec. 709), applied to channels normalized to [0,1].
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// toNRGBA returns the input as a non-premultiplied RGBA buffer anchored at
// the origin, copying when the representation differs. All later stages
// index this buffer directly.
func toNRGBA(img image.Image) *image.NRGBA {
	if src, ok := img.(*image.NRGBA); ok && src.Bounds().Min == image.Pt(0, 0) {
		return src
	}
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// newLABField converts the image into three dense float channels:
// luminance L, red-green opponent A and blue-yellow opponent B. Pure per
// pixel, so rows are processed in parallel strips.
func newLABField(src *image.NRGBA, workers int) *labField {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	field := &labField{
		l:      make([]float64, w*h),
		a:      make([]float64, w*h),
		b:      make([]float64, w*h),
		width:  w,
		height: h,
	}

	forEachStrip(h, workers, func(_ int, s strip) {
		for y := s.start; y < s.end; y++ {
			row := y * src.Stride
			for x := 0; x < w; x++ {
				p := row + x*4
				r := float64(src.Pix[p]) / 255.0
				g := float64(src.Pix[p+1]) / 255.0
				b := float64(src.Pix[p+2]) / 255.0

				i := y*w + x
				field.l[i] = lumR*r + lumG*g + lumB*b
				field.a[i] = r - g
				field.b[i] = (r+g)/2 - b
			}
		}
	})

	return field
}
