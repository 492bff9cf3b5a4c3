package repository

import (
	"context"
	"image"
)

// ImageRepository defines the interface for source image access
type ImageRepository interface {
	// FetchImage retrieves an image from a URL
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error
}

// MatteRepository defines the interface for persisting matting results
type MatteRepository interface {
	// SaveMatte stores an encoded matte and returns its location, or an
	// empty string when persistence is disabled.
	SaveMatte(ctx context.Context, jobID string, png []byte) (string, error)
}
