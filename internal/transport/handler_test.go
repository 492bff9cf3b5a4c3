package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-image-matting/internal/config"
	apperrors "go-image-matting/internal/errors"
	"go-image-matting/internal/matting"
	"go-image-matting/internal/service"
	"go-image-matting/pkg/models"
)

type stubMattingService struct {
	outcome *service.SegmentOutcome
	err     error

	lastRequest models.SegmentRequest
	gotImage    image.Image
}

func (s *stubMattingService) SegmentFromURL(ctx context.Context, request models.SegmentRequest) (*service.SegmentOutcome, error) {
	s.lastRequest = request
	return s.outcome, s.err
}

func (s *stubMattingService) SegmentImage(ctx context.Context, img image.Image, request models.SegmentRequest) (*service.SegmentOutcome, error) {
	s.lastRequest = request
	s.gotImage = img
	return s.outcome, s.err
}

func (s *stubMattingService) ValidateImageURL(imageURL string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		MaxRequestBodySize: 10 * 1024 * 1024,
		RequestTimeout:     5 * time.Second,
	}
}

func testOutcome() *service.SegmentOutcome {
	var buf bytes.Buffer
	png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	return &service.SegmentOutcome{
		JobID: "job-abc",
		PNG:   buf.Bytes(),
		Metrics: matting.Metrics{
			Width:       2,
			Height:      2,
			BorderWidth: 5,
			Threshold:   0.25,
		},
		StoredURL: "https://example.com/mattes/job-abc.png",
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&stubMattingService{}, testConfig())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "available", resp.Status)
}

func TestSegmentFromURL_ReturnsPNGWithHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubMattingService{outcome: testOutcome()}
	handler := NewHandler(stub, testConfig())

	body := `{"url": "https://example.com/photo.jpg", "background": "#ffffff", "fast": true}`
	req := httptest.NewRequest(http.MethodPost, "/segment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "job-abc", w.Header().Get("X-Matting-Job-ID"))
	assert.Equal(t, "0.250000", w.Header().Get("X-Matting-Threshold"))
	assert.Equal(t, "5", w.Header().Get("X-Matting-Border-Width"))
	assert.Equal(t, "false", w.Header().Get("X-Matting-Degenerate"))
	assert.Equal(t, "https://example.com/mattes/job-abc.png", w.Header().Get("X-Matting-Result-URL"))

	decoded, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, decoded.Bounds().Dx())

	assert.Equal(t, "https://example.com/photo.jpg", stub.lastRequest.URL)
	assert.Equal(t, "#ffffff", stub.lastRequest.Background)
	assert.True(t, stub.lastRequest.Fast)
}

func TestSegmentFromURL_InvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&stubMattingService{outcome: testOutcome()}, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/segment", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSegmentFromURL_MapsServiceErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", apperrors.NewValidationError("bad URL", nil), http.StatusBadRequest},
		{"network error", apperrors.NewNetworkError("unreachable", nil), http.StatusBadGateway},
		{"decode error", apperrors.NewDecodeError("not an image", nil), http.StatusUnprocessableEntity},
		{"allocation error", apperrors.NewAllocationError("too large", nil), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&stubMattingService{err: tt.err}, testConfig())

			body := `{"url": "https://example.com/photo.jpg"}`
			req := httptest.NewRequest(http.MethodPost, "/segment", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestSegmentFromUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubMattingService{outcome: testOutcome()}
	handler := NewHandler(stub, testConfig())

	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, image.NewNRGBA(image.Rect(0, 0, 8, 8))))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("max_dimension", "256"))
	require.NoError(t, writer.WriteField("fast", "true"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/segment/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	require.NotNil(t, stub.gotImage)
	assert.Equal(t, 8, stub.gotImage.Bounds().Dx())
	assert.Equal(t, 256, stub.lastRequest.MaxDimension)
	assert.True(t, stub.lastRequest.Fast)
}

func TestSegmentFromUpload_RejectsNonImage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&stubMattingService{outcome: testOutcome()}, testConfig())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/segment/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSegmentFromUpload_MissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&stubMattingService{outcome: testOutcome()}, testConfig())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("fast", "true"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/segment/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
