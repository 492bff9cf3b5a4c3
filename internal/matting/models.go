package matting

import "image"

// labField holds the perceptually separated channels of one image as dense
// row-major float slices indexed by y*width+x. It lives only between the
// color transform and the saliency pass of a single run.
type labField struct {
	l, a, b []float64
	width   int
	height  int
}

// backgroundStats describes the color distribution sampled from the border
// band. Immutable once computed; never updated mid-pipeline.
type backgroundStats struct {
	meanL, meanA, meanB float64
	stdL, stdA, stdB    float64
}

// globalMean is the image-wide average of each channel, used for the color
// uniqueness term of the saliency map.
type globalMean struct {
	l, a, b float64
}

// Metrics reports per-run measurements of the segmentation pipeline.
type Metrics struct {
	Width               int     `json:"width"`
	Height              int     `json:"height"`
	BorderWidth         int     `json:"border_width"`
	SampledBorderPixels int     `json:"sampled_border_pixels"`
	Threshold           float64 `json:"threshold"`
	Degenerate          bool    `json:"degenerate"`
	ProcessingTimeSec   float64 `json:"processing_time_sec"`
}

// Result carries the matted image and the measurements of the run that
// produced it. Image is a fresh buffer: RGB copied from the input, alpha
// replaced by the computed soft mask.
type Result struct {
	Image   *image.NRGBA
	Metrics Metrics
}
