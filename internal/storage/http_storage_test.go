package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "go-image-matting/internal/errors"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestHTTPImageFetcher_RetryLogic(t *testing.T) {
	tests := []struct {
		name          string
		responses     []int // status codes returned in sequence
		expectedCalls int
		expectError   bool
		errorType     apperrors.ErrorType
	}{
		{
			name:          "Success on first attempt",
			responses:     []int{200},
			expectedCalls: 1,
		},
		{
			name:          "Success on second attempt after 5xx",
			responses:     []int{500, 200},
			expectedCalls: 2,
		},
		{
			name:          "4xx client error stops immediately",
			responses:     []int{404},
			expectedCalls: 1,
			expectError:   true,
			errorType:     apperrors.ErrorTypeNetwork,
		},
		{
			name:          "4xx after 5xx stops on the 4xx",
			responses:     []int{500, 404},
			expectedCalls: 2,
			expectError:   true,
			errorType:     apperrors.ErrorTypeNetwork,
		},
		{
			name:          "All 5xx errors exhaust every attempt",
			responses:     []int{500, 502, 503},
			expectedCalls: 3,
			expectError:   true,
			errorType:     apperrors.ErrorTypeNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pngData := testPNG(t)
			requestCount := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				statusCode := 500
				if requestCount < len(tt.responses) {
					statusCode = tt.responses[requestCount]
				}
				requestCount++

				if statusCode == 200 {
					w.Header().Set("Content-Type", "image/png")
					w.Write(pngData)
					return
				}
				w.WriteHeader(statusCode)
				fmt.Fprintf(w, "Error %d", statusCode)
			}))
			defer server.Close()

			fetcher := NewHTTPImageFetcher()
			_, err := fetcher.FetchImage(context.Background(), server.URL)

			if requestCount != tt.expectedCalls {
				t.Errorf("Expected %d requests, got %d", tt.expectedCalls, requestCount)
			}
			if tt.expectError {
				if err == nil {
					t.Fatal("Expected an error, got none")
				}
				if !apperrors.IsType(err, tt.errorType) {
					t.Errorf("Expected a %s error, got %v", tt.errorType, err)
				}
			} else if err != nil {
				t.Errorf("Expected success, got %v", err)
			}
		})
	}
}

func TestHTTPImageFetcher_UndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("this is not an image"))
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher()
	_, err := fetcher.FetchImage(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected a decode error for a non-image body")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
		t.Errorf("Expected a decode error, got %v", err)
	}
}

func TestHTTPImageFetcher_NetworkErrorRetry(t *testing.T) {
	pngData := testPNG(t)
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount < 3 {
			// Simulate a network error by dropping the connection
			if hj, ok := w.(http.Hijacker); ok {
				conn, _, _ := hj.Hijack()
				conn.Close()
			}
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher()
	start := time.Now()
	_, err := fetcher.FetchImage(context.Background(), server.URL)
	duration := time.Since(start)

	if err != nil {
		t.Errorf("Expected success after retries, got %v", err)
	}
	if requestCount != 3 {
		t.Errorf("Expected 3 requests, got %d", requestCount)
	}
	// Linear backoff sleeps 1s and 2s before the retries.
	if duration < 3*time.Second {
		t.Errorf("Expected at least 3 seconds of backoff, took %v", duration)
	}
}

func TestLocalResultStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalResultStore(filepath.Join(dir, "results"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	data := testPNG(t)
	location, err := store.SaveResult(context.Background(), "job-123", data)
	if err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	written, err := os.ReadFile(location)
	if err != nil {
		t.Fatalf("Failed to read back %s: %v", location, err)
	}
	if !bytes.Equal(written, data) {
		t.Error("Stored bytes differ from the encoded result")
	}
}

func TestNoopResultStore(t *testing.T) {
	location, err := NewNoopResultStore().SaveResult(context.Background(), "job-123", []byte{1})
	if err != nil {
		t.Fatalf("Noop store must never fail, got %v", err)
	}
	if location != "" {
		t.Errorf("Noop store must not report a location, got %q", location)
	}
}
