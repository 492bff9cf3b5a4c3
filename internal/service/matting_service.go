package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"github.com/segmentio/ksuid"
	xdraw "golang.org/x/image/draw"

	apperrors "go-image-matting/internal/errors"
	"go-image-matting/internal/matting"
	"go-image-matting/internal/observer"
	"go-image-matting/internal/repository"
	"go-image-matting/pkg/models"
	"go-image-matting/pkg/validation"
)

// SegmentOutcome carries one finished matting job
type SegmentOutcome struct {
	JobID     string
	PNG       []byte
	Metrics   matting.Metrics
	StoredURL string
}

// MattingService defines the interface for running matting jobs
type MattingService interface {
	// SegmentFromURL fetches the image at request.URL and mattes it
	SegmentFromURL(ctx context.Context, request models.SegmentRequest) (*SegmentOutcome, error)

	// SegmentImage mattes an already-decoded image
	SegmentImage(ctx context.Context, img image.Image, request models.SegmentRequest) (*SegmentOutcome, error)

	// ValidateImageURL validates the image URL
	ValidateImageURL(imageURL string) error
}

// mattingService implements MattingService
type mattingService struct {
	imageRepo      repository.ImageRepository
	matteRepo      repository.MatteRepository
	segmenter      matting.Segmenter
	imageValidator *validation.ImageValidator
	publisher      observer.Subject
	maxWorkers     int
}

// NewMattingService creates a new matting service
func NewMattingService(
	imageRepository repository.ImageRepository,
	matteRepository repository.MatteRepository,
	segmenter matting.Segmenter,
	imageValidator *validation.ImageValidator,
	publisher observer.Subject,
	maxWorkers int,
) MattingService {
	return &mattingService{
		imageRepo:      imageRepository,
		matteRepo:      matteRepository,
		segmenter:      segmenter,
		imageValidator: imageValidator,
		publisher:      publisher,
		maxWorkers:     maxWorkers,
	}
}

// SegmentFromURL fetches the image at request.URL and mattes it
func (s *mattingService) SegmentFromURL(ctx context.Context, request models.SegmentRequest) (*SegmentOutcome, error) {
	if err := s.ValidateImageURL(request.URL); err != nil {
		return nil, err
	}

	img, err := s.imageRepo.FetchImage(ctx, request.URL)
	if err != nil {
		s.notify(ctx, observer.SegmentationEvent{
			EventType:    observer.ImageFetchFailed,
			Timestamp:    time.Now(),
			ImageURL:     request.URL,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}
	s.notify(ctx, observer.SegmentationEvent{
		EventType: observer.ImageFetched,
		Timestamp: time.Now(),
		ImageURL:  request.URL,
		Success:   true,
	})

	return s.SegmentImage(ctx, img, request)
}

// SegmentImage mattes an already-decoded image
func (s *mattingService) SegmentImage(ctx context.Context, img image.Image, request models.SegmentRequest) (*SegmentOutcome, error) {
	jobID := ksuid.New().String()
	started := time.Now()

	s.notify(ctx, observer.SegmentationEvent{
		EventType: observer.SegmentationStarted,
		Timestamp: started,
		JobID:     jobID,
		ImageURL:  request.URL,
	})

	outcome, err := s.segment(ctx, jobID, img, request)
	if err != nil {
		s.notify(ctx, observer.SegmentationEvent{
			EventType:      observer.SegmentationFailed,
			Timestamp:      time.Now(),
			JobID:          jobID,
			ImageURL:       request.URL,
			ProcessingTime: time.Since(started),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	s.notify(ctx, observer.SegmentationEvent{
		EventType:      observer.SegmentationCompleted,
		Timestamp:      time.Now(),
		JobID:          jobID,
		ImageURL:       request.URL,
		ProcessingTime: time.Since(started),
		Success:        true,
		Metadata: map[string]interface{}{
			"degenerate": outcome.Metrics.Degenerate,
			"threshold":  outcome.Metrics.Threshold,
		},
	})
	return outcome, nil
}

func (s *mattingService) segment(ctx context.Context, jobID string, img image.Image, request models.SegmentRequest) (*SegmentOutcome, error) {
	if img == nil {
		return nil, apperrors.NewValidationError("Image must not be nil", nil)
	}
	bounds := img.Bounds()
	if err := s.imageValidator.ValidateBounds(bounds.Dx(), bounds.Dy()); err != nil {
		return nil, err
	}

	var background color.Color
	if request.Background != "" {
		parsed, err := colorful.Hex(request.Background)
		if err != nil {
			return nil, apperrors.NewValidationError("Background must be a hex color like #rrggbb", err)
		}
		background = parsed
	}

	working := s.downscale(img, request.MaxDimension)

	opts := matting.DefaultOptions()
	if request.Fast {
		opts = matting.FastOptions()
	}
	opts = opts.WithWorkers(s.maxWorkers)

	result, err := s.segmenter.SegmentWithOptions(working, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("Segmentation cancelled", err)
	}

	matted := result.Image
	if working != img {
		matted = restoreResolution(img, matted)
	}

	var output image.Image = matted
	if background != nil {
		output = matting.FlattenOnColor(matted, background)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, output); err != nil {
		return nil, apperrors.NewInternalError("Failed to encode result", err)
	}

	outcome := &SegmentOutcome{
		JobID:   jobID,
		PNG:     buf.Bytes(),
		Metrics: result.Metrics,
	}

	location, err := s.matteRepo.SaveMatte(ctx, jobID, outcome.PNG)
	if err != nil {
		// Persistence is best effort; the response still carries the matte.
		s.notify(ctx, observer.SegmentationEvent{
			EventType:    observer.MatteStored,
			Timestamp:    time.Now(),
			JobID:        jobID,
			ErrorMessage: err.Error(),
		})
	} else if location != "" {
		outcome.StoredURL = location
		s.notify(ctx, observer.SegmentationEvent{
			EventType: observer.MatteStored,
			Timestamp: time.Now(),
			JobID:     jobID,
			Success:   true,
			Metadata:  map[string]interface{}{"location": location},
		})
	}

	return outcome, nil
}

// ValidateImageURL validates the image URL
func (s *mattingService) ValidateImageURL(imageURL string) error {
	return s.imageRepo.ValidateImageURL(imageURL)
}

// downscale shrinks img so its longer side is at most maxDimension,
// preserving aspect ratio. Returns img unchanged when no shrink is needed.
func (s *mattingService) downscale(img image.Image, maxDimension int) image.Image {
	if maxDimension <= 0 {
		return img
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDimension && height <= maxDimension {
		return img
	}
	if width >= height {
		return resize.Resize(uint(maxDimension), 0, img, resize.Lanczos3)
	}
	return resize.Resize(0, uint(maxDimension), img, resize.Lanczos3)
}

// restoreResolution scales the matte computed at a reduced resolution back
// onto the full-resolution source: the alpha channel is interpolated up
// while the color channels come from the source untouched.
func restoreResolution(src image.Image, matted *image.NRGBA) *image.NRGBA {
	srcBounds := src.Bounds()
	width, height := srcBounds.Dx(), srcBounds.Dy()

	small := matted.Bounds()
	alpha := image.NewGray(image.Rect(0, 0, small.Dx(), small.Dy()))
	for y := 0; y < small.Dy(); y++ {
		for x := 0; x < small.Dx(); x++ {
			alpha.SetGray(x, y, color.Gray{Y: matted.NRGBAAt(x, y).A})
		}
	}

	scaled := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), alpha, alpha.Bounds(), xdraw.Src, nil)

	full := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(full, full.Bounds(), src, srcBounds.Min, draw.Src)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := full.NRGBAAt(x, y)
			px.A = scaled.GrayAt(x, y).Y
			full.SetNRGBA(x, y, px)
		}
	}
	return full
}

func (s *mattingService) notify(ctx context.Context, event observer.SegmentationEvent) {
	if s.publisher != nil {
		s.publisher.NotifyObservers(ctx, event)
	}
}
