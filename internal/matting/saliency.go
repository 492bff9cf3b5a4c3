package matting

import "math"

// spatialFalloff controls how fast the centered prior decays toward the
// image corners.
const spatialFalloff = 3.0

// buildSaliency combines three per-pixel terms into one scalar field:
//
//   - distance from the background statistics, each axis scaled by that
//     axis's standard deviation (diagonal Mahalanobis);
//   - raw Euclidean distance from the global color mean (color rarity);
//   - a Gaussian prior centered on the image.
//
// The field is then normalized so its maximum is exactly 1. If the raw
// maximum is not positive the field is left at zero rather than divided —
// the degenerate-input path — and the caller is told via the second return.
func buildSaliency(field *labField, bg backgroundStats, mean globalMean, opts Options) ([]float64, float64) {
	w, h := field.width, field.height
	saliency := make([]float64, w*h)

	cx := float64(w) / 2
	cy := float64(h) / 2
	maxCenterDist := math.Hypot(cx, cy)

	strips := partitionRows(h, opts.MaxWorkers)
	stripMax := make([]float64, len(strips))

	forEachStrip(h, opts.MaxWorkers, func(idx int, s strip) {
		localMax := 0.0
		for y := s.start; y < s.end; y++ {
			dy := float64(y) - cy
			for x := 0; x < w; x++ {
				i := y*w + x

				dl := (field.l[i] - bg.meanL) / bg.stdL
				da := (field.a[i] - bg.meanA) / bg.stdA
				db := (field.b[i] - bg.meanB) / bg.stdB
				bgDist := math.Sqrt(dl*dl + da*da + db*db)

				ml := field.l[i] - mean.l
				ma := field.a[i] - mean.a
				mb := field.b[i] - mean.b
				meanDist := math.Sqrt(ml*ml + ma*ma + mb*mb)

				dx := float64(x) - cx
				rel := math.Hypot(dx, dy) / maxCenterDist
				spatial := math.Exp(-spatialFalloff * rel * rel)

				v := opts.BackgroundWeight*bgDist +
					opts.UniquenessWeight*meanDist +
					opts.CenterWeight*spatial
				saliency[i] = v
				if v > localMax {
					localMax = v
				}
			}
		}
		stripMax[idx] = localMax
	})

	// Merge strip maxima in ascending strip order after the barrier.
	maxSaliency := 0.0
	for _, m := range stripMax {
		if m > maxSaliency {
			maxSaliency = m
		}
	}

	if maxSaliency <= 0 {
		return saliency, maxSaliency
	}

	forEachStrip(h, opts.MaxWorkers, func(_ int, s strip) {
		for i := s.start * w; i < s.end*w; i++ {
			saliency[i] /= maxSaliency
		}
	})
	return saliency, maxSaliency
}
