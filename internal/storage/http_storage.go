package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	apperrors "go-image-matting/internal/errors"
)

// ImageFetcher retrieves source images for the matting pipeline
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)
}

const fetchAttempts = 3

// HTTPImageFetcher implements ImageFetcher over plain HTTP(S)
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates an HTTP image fetcher tuned for single
// image downloads rather than high-fanout crawling.
func NewHTTPImageFetcher() ImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchImage downloads and decodes the image at imageURL. Transient
// failures (connection errors, 5xx) are retried with linear backoff;
// client errors and undecodable payloads are not.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid image URL", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Image-Matting/1.0")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < fetchAttempts; attempt++ {
		resp, err = h.client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err != nil {
			lastErr = err
			resp = nil
		} else {
			resp.Body.Close()
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, apperrors.NewNetworkError(
					fmt.Sprintf("Image fetch rejected with status %d", resp.StatusCode), nil)
			}
			lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
			resp = nil
		}

		if attempt < fetchAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, apperrors.NewTimeoutError("Image fetch cancelled", ctx.Err())
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
		}
	}

	if resp == nil {
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("Failed to fetch image after %d attempts", fetchAttempts), lastErr)
	}
	defer resp.Body.Close()

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, apperrors.NewDecodeError("Response body is not a decodable image", err)
	}
	return img, nil
}
