package matting

// ProgressFunc receives stage-boundary progress updates. Percent is
// monotonically non-decreasing across one run. The callback is invoked
// synchronously between stages, never per pixel, so it must return quickly;
// callers that need cancellation should check their own flag between calls.
type ProgressFunc func(percent int, stage string)

// Options provides flexible configuration for foreground segmentation.
// The weight and band defaults reproduce the calibrated pipeline exactly;
// changing them trades output parity for tunability.
type Options struct {
	// Saliency term weights
	BackgroundWeight float64 // distance from border-band background statistics
	UniquenessWeight float64 // distance from the global color mean
	CenterWeight     float64 // centered spatial prior

	// Softness is the half-width of the linear band around the Otsu
	// threshold when the binary split is relaxed into a soft mask.
	Softness float64

	// Mask smoothing kernel
	BlurRadius int
	BlurSigma  float64

	// MaxWorkers bounds row parallelism inside each stage; 0 means one
	// worker per CPU. Stages always complete fully before the next begins.
	MaxWorkers int

	Progress ProgressFunc
}

// DefaultOptions returns the calibrated segmentation options
func DefaultOptions() Options {
	return Options{
		BackgroundWeight: 0.5,
		UniquenessWeight: 3.0,
		CenterWeight:     0.8,
		Softness:         0.15,
		BlurRadius:       3,
		BlurSigma:        2.0,
		MaxWorkers:       0,
	}
}

// FastOptions returns options tuned for latency over edge quality
func FastOptions() Options {
	opts := DefaultOptions()
	opts.BlurRadius = 1
	opts.BlurSigma = 1.0
	return opts
}

// PreciseOptions returns options with wider edge smoothing for clean cutouts
func PreciseOptions() Options {
	opts := DefaultOptions()
	opts.BlurRadius = 5
	opts.BlurSigma = 3.0
	opts.Softness = 0.2
	return opts
}

// WithProgress returns options with a stage-boundary progress callback
func (opts Options) WithProgress(fn ProgressFunc) Options {
	opts.Progress = fn
	return opts
}

// WithWorkers returns options with an explicit worker bound
func (opts Options) WithWorkers(n int) Options {
	opts.MaxWorkers = n
	return opts
}
