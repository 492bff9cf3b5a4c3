package matting

// histogramBins is the resolution of the saliency histogram fed to Otsu.
const histogramBins = 256

// otsuThreshold selects the split of the normalized saliency field that
// maximizes between-class variance wB*wF*(mB-mF)^2. For each candidate t,
// the background class holds bins strictly below t and the foreground class
// bins at or above it. Updates use strict greater-than, so among equal
// optima the lowest t wins. Returns the threshold normalized to [0,1].
func otsuThreshold(saliency []float64) float64 {
	var hist [histogramBins]int
	for _, s := range saliency {
		bin := int(s * 255)
		if bin < 0 {
			bin = 0
		} else if bin > 255 {
			bin = 255
		}
		hist[bin]++
	}

	total := float64(len(saliency))
	sumAll := 0.0
	for i, n := range hist {
		sumAll += float64(i) * float64(n)
	}

	bestVariance := -1.0
	bestT := 0
	var weightB, sumB float64
	for t := 0; t < histogramBins; t++ {
		weightF := total - weightB
		if weightB > 0 && weightF > 0 {
			meanB := sumB / weightB
			meanF := (sumAll - sumB) / weightF
			variance := weightB * weightF * (meanB - meanF) * (meanB - meanF)
			if variance > bestVariance {
				bestVariance = variance
				bestT = t
			}
		}
		weightB += float64(hist[t])
		sumB += float64(t) * float64(hist[t])
	}

	return float64(bestT) / 255.0
}

// buildSoftMask relaxes the binary Otsu split into a three-zone step:
// saliency above threshold+softness maps to 1, below threshold-softness to
// 0, and the band in between interpolates linearly. The function is
// non-decreasing in saliency, so mask ordering always follows saliency
// ordering.
func buildSoftMask(saliency []float64, width int, threshold, softness float64, workers int) []float64 {
	mask := make([]float64, len(saliency))
	lo := threshold - softness
	hi := threshold + softness
	band := hi - lo

	height := len(saliency) / width
	forEachStrip(height, workers, func(_ int, s strip) {
		for i := s.start * width; i < s.end*width; i++ {
			switch v := saliency[i]; {
			case v >= hi:
				mask[i] = 1
			case v <= lo:
				mask[i] = 0
			default:
				mask[i] = (v - lo) / band
			}
		}
	})
	return mask
}
