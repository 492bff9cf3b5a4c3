package matting

import (
	"gonum.org/v1/gonum/stat"
)

// stdFloor is added to every background standard deviation so the
// normalized distances downstream never divide by a vanishing spread.
const stdFloor = 0.05

// borderWidthFor returns the width of the sampled border band. The band
// scales with the image but never drops below 5 pixels.
func borderWidthFor(width, height int) int {
	bw := min(width, height) / 30
	if bw < 5 {
		bw = 5
	}
	return bw
}

// sampleBorder gathers the L/A/B values of the border band: full-width top
// and bottom strips plus left and right strips excluding the corners already
// taken. Bands are clamped for images smaller than twice the band width so
// no pixel is sampled twice.
func sampleBorder(field *labField, borderWidth int) (ls, as, bs []float64) {
	w, h := field.width, field.height

	topEnd := min(borderWidth, h)
	bottomStart := max(h-borderWidth, topEnd)
	leftEnd := min(borderWidth, w)
	rightStart := max(w-borderWidth, leftEnd)

	n := w*topEnd + w*(h-bottomStart) + (bottomStart-topEnd)*(leftEnd+(w-rightStart))
	ls = make([]float64, 0, n)
	as = make([]float64, 0, n)
	bs = make([]float64, 0, n)

	take := func(i int) {
		ls = append(ls, field.l[i])
		as = append(as, field.a[i])
		bs = append(bs, field.b[i])
	}

	for y := 0; y < topEnd; y++ {
		for x := 0; x < w; x++ {
			take(y*w + x)
		}
	}
	for y := bottomStart; y < h; y++ {
		for x := 0; x < w; x++ {
			take(y*w + x)
		}
	}
	for y := topEnd; y < bottomStart; y++ {
		for x := 0; x < leftEnd; x++ {
			take(y*w + x)
		}
		for x := rightStart; x < w; x++ {
			take(y*w + x)
		}
	}

	return ls, as, bs
}

// estimateBackground computes per-channel mean and population standard
// deviation over the border band. The band is a small fraction of the image,
// so this stage runs sequentially. The result is immutable for the rest of
// the run.
func estimateBackground(field *labField) (backgroundStats, int) {
	borderWidth := borderWidthFor(field.width, field.height)
	ls, as, bs := sampleBorder(field, borderWidth)

	stats := backgroundStats{
		meanL: stat.Mean(ls, nil),
		meanA: stat.Mean(as, nil),
		meanB: stat.Mean(bs, nil),
		stdL:  stat.PopStdDev(ls, nil) + stdFloor,
		stdA:  stat.PopStdDev(as, nil) + stdFloor,
		stdB:  stat.PopStdDev(bs, nil) + stdFloor,
	}
	return stats, len(ls)
}

// computeGlobalMean averages each channel over the whole image.
func computeGlobalMean(field *labField) globalMean {
	return globalMean{
		l: stat.Mean(field.l, nil),
		a: stat.Mean(field.a, nil),
		b: stat.Mean(field.b, nil),
	}
}
