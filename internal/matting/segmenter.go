package matting

import (
	"errors"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"go-image-matting/internal/logger"
)

// Stage labels reported through the progress callback.
const (
	StageColorTransform = "color transform"
	StageStatistics     = "background statistics"
	StageSaliency       = "saliency map"
	StageThreshold      = "threshold"
	StageSmoothing      = "mask smoothing"
	StageComposite      = "composite"
)

// ErrEmptyImage is returned when the input has no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Segmenter separates foreground subject from background, producing a soft
// alpha matte from color statistics alone. Implementations are stateless
// and safe for concurrent use; every call works on its own buffers.
type Segmenter interface {
	Segment(img image.Image) (*Result, error)
	SegmentWithOptions(img image.Image, opts Options) (*Result, error)

	// SegmentOnBackground additionally flattens the matte over a solid
	// replacement color; a convenience on top of SegmentWithOptions, not
	// part of the pipeline itself.
	SegmentOnBackground(img image.Image, background color.Color, opts Options) (*image.RGBA, *Metrics, error)
}

type coreSegmenter struct{}

// NewSegmenter creates the statistical foreground segmenter
func NewSegmenter() Segmenter {
	return &coreSegmenter{}
}

// Segment runs the pipeline with calibrated defaults
func (cs *coreSegmenter) Segment(img image.Image) (*Result, error) {
	return cs.SegmentWithOptions(img, DefaultOptions())
}

// SegmentWithOptions runs the five pipeline stages in order: color
// transform, background statistics, saliency, threshold + soft mask, and
// smoothing + composite. Stages are separated by barriers; per-pixel work
// inside a stage runs on row strips. The pipeline holds no state across
// calls and touches no I/O.
func (cs *coreSegmenter) SegmentWithOptions(img image.Image, opts Options) (*Result, error) {
	start := time.Now()

	if img == nil {
		return nil, ErrEmptyImage
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, ErrEmptyImage
	}

	src := toNRGBA(img)

	report(opts, 5, StageColorTransform)
	field := newLABField(src, opts.MaxWorkers)

	report(opts, 20, StageStatistics)
	bg, sampled := estimateBackground(field)
	mean := computeGlobalMean(field)

	report(opts, 45, StageSaliency)
	saliency, maxSaliency := buildSaliency(field, bg, mean, opts)
	field = nil // ephemeral; the remaining stages only read the saliency field

	report(opts, 70, StageThreshold)
	threshold := otsuThreshold(saliency)
	mask := buildSoftMask(saliency, src.Bounds().Dx(), threshold, opts.Softness, opts.MaxWorkers)

	report(opts, 85, StageSmoothing)
	blurred := blurMask(mask, src.Bounds().Dx(), src.Bounds().Dy(), opts.BlurRadius, opts.BlurSigma, opts.MaxWorkers)
	out := writeAlpha(src, blurred, opts.MaxWorkers)

	report(opts, 100, StageComposite)

	degenerate := maxSaliency <= 0 || backgroundCollapsed(bg)
	if degenerate {
		logger.WithFields(logrus.Fields{
			"width":         src.Bounds().Dx(),
			"height":        src.Bounds().Dy(),
			"max_saliency":  maxSaliency,
			"border_pixels": sampled,
		}).Warn("Degenerate input: saliency statistics collapsed, mask is defined but likely uninformative")
	}

	return &Result{
		Image: out,
		Metrics: Metrics{
			Width:               src.Bounds().Dx(),
			Height:              src.Bounds().Dy(),
			BorderWidth:         borderWidthFor(src.Bounds().Dx(), src.Bounds().Dy()),
			SampledBorderPixels: sampled,
			Threshold:           threshold,
			Degenerate:          degenerate,
			ProcessingTimeSec:   time.Since(start).Seconds(),
		},
	}, nil
}

// SegmentOnBackground segments and then flattens the matte over a solid
// replacement color as a two-layer draw.
func (cs *coreSegmenter) SegmentOnBackground(img image.Image, background color.Color, opts Options) (*image.RGBA, *Metrics, error) {
	result, err := cs.SegmentWithOptions(img, opts)
	if err != nil {
		return nil, nil, err
	}
	return FlattenOnColor(result.Image, background), &result.Metrics, nil
}

// backgroundCollapsed reports whether the border band was a single color on
// every channel, i.e. the measured spread is the epsilon floor alone.
func backgroundCollapsed(bg backgroundStats) bool {
	const eps = 1e-9
	return math.Abs(bg.stdL-stdFloor) < eps &&
		math.Abs(bg.stdA-stdFloor) < eps &&
		math.Abs(bg.stdB-stdFloor) < eps
}

func report(opts Options, percent int, stage string) {
	if opts.Progress != nil {
		opts.Progress(percent, stage)
	}
}
