package validation

import (
	"net/url"
	"strings"

	apperrors "go-image-matting/internal/errors"
)

// URLValidator handles source-image URL validation logic
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
	maxLength      int
}

// NewURLValidator creates a new URL validator with default settings
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
		maxLength:      2048,
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom options
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
		maxLength:      2048,
	}
}

// ValidateImageURL validates if the provided URL is acceptable as a source
// image location
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}
	if len(trimmed) > v.maxLength {
		return apperrors.NewValidationError("URL exceeds maximum length", nil)
	}

	parsedURL, err := url.Parse(trimmed)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}
	if !contains(v.allowedSchemes, parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}
	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}
	if len(v.allowedHosts) > 0 && !contains(v.allowedHosts, parsedURL.Hostname()) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}
	return nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
