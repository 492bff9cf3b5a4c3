package validation

import (
	"strings"
	"testing"

	apperrors "go-image-matting/internal/errors"
)

func TestURLValidator_ValidateImageURL(t *testing.T) {
	validator := NewURLValidator()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https URL", "https://example.com/image.png", false},
		{"valid http URL", "http://example.com/photo.jpg", false},
		{"empty URL", "", true},
		{"whitespace only", "   ", true},
		{"missing scheme", "example.com/image.png", true},
		{"unsupported scheme", "ftp://example.com/image.png", true},
		{"missing host", "https:///image.png", true},
		{"overlong URL", "https://example.com/" + strings.Repeat("a", 3000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateImageURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected a validation error, got %v", err)
			}
		})
	}
}

func TestURLValidator_AllowedHosts(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"https"}, []string{"cdn.example.com"})

	if err := validator.ValidateImageURL("https://cdn.example.com/a.png"); err != nil {
		t.Errorf("Expected the allowed host to pass, got %v", err)
	}
	if err := validator.ValidateImageURL("https://other.example.com/a.png"); err == nil {
		t.Error("Expected a disallowed host to be rejected")
	}
	if err := validator.ValidateImageURL("http://cdn.example.com/a.png"); err == nil {
		t.Error("Expected a disallowed scheme to be rejected")
	}
}
