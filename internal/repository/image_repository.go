package repository

import (
	"context"
	"image"

	"go-image-matting/internal/storage"
	"go-image-matting/pkg/validation"
)

// HTTPImageRepository implements ImageRepository using an HTTP fetcher
type HTTPImageRepository struct {
	fetcher   storage.ImageFetcher
	validator *validation.URLValidator
}

// NewHTTPImageRepository creates a new HTTP-based image repository
func NewHTTPImageRepository(fetcher storage.ImageFetcher) ImageRepository {
	return &HTTPImageRepository{
		fetcher:   fetcher,
		validator: validation.NewURLValidator(),
	}
}

// FetchImage retrieves an image from a URL
func (r *HTTPImageRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	return r.fetcher.FetchImage(ctx, imageURL)
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *HTTPImageRepository) ValidateImageURL(imageURL string) error {
	return r.validator.ValidateImageURL(imageURL)
}
