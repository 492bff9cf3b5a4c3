package validation

import (
	"fmt"

	apperrors "go-image-matting/internal/errors"
)

// ImageValidator checks decoded image geometry before the pipeline
// commits to allocating per-pixel buffers.
type ImageValidator struct {
	maxPixels int
}

// NewImageValidator creates an image validator with the given pixel budget.
// A non-positive budget disables the size check.
func NewImageValidator(maxPixels int) *ImageValidator {
	return &ImageValidator{maxPixels: maxPixels}
}

// ValidateBounds rejects empty images and images whose pixel count would
// exceed the configured budget.
func (v *ImageValidator) ValidateBounds(width, height int) error {
	if width <= 0 || height <= 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("Image dimensions must be positive, got %dx%d", width, height), nil)
	}
	if v.maxPixels > 0 && width*height > v.maxPixels {
		return apperrors.NewAllocationError(
			fmt.Sprintf("Image of %dx%d exceeds the %d pixel budget", width, height, v.maxPixels), nil)
	}
	return nil
}
