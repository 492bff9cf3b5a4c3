package transport

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-image-matting/internal/config"
	apperrors "go-image-matting/internal/errors"
	"go-image-matting/internal/logger"
	"go-image-matting/internal/service"
	"go-image-matting/pkg/models"
)

// NewHandler builds the HTTP router for the matting service
func NewHandler(mattingService service.MattingService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.POST("/segment", segmentFromURL(mattingService, cfg))
	r.POST("/segment/upload", segmentFromUpload(mattingService, cfg))

	return r
}

func segmentFromURL(svc service.MattingService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing segmentation request")

		var req models.SegmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithField("ip", c.ClientIP()).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		outcome, err := svc.SegmentFromURL(ctx, req)
		if err != nil {
			handleSegmentError(c, req.URL, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"url":                req.URL,
			"job_id":             outcome.JobID,
			"threshold":          outcome.Metrics.Threshold,
			"degenerate":         outcome.Metrics.Degenerate,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Segmentation completed successfully")

		respondMatte(c, outcome)
	}
}

func segmentFromUpload(svc service.MattingService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		fileHeader, err := c.FormFile("image")
		if err != nil {
			respondError(c, http.StatusBadRequest, "missing image file", err)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "unreadable image file", err)
			return
		}
		defer file.Close()

		img, _, err := image.Decode(file)
		if err != nil {
			decodeErr := apperrors.NewDecodeError("Uploaded file is not a decodable image", err)
			respondError(c, decodeErr.StatusCode, "undecodable image", decodeErr)
			return
		}

		req := models.SegmentRequest{
			Background: c.PostForm("background"),
			Fast:       c.PostForm("fast") == "true",
		}
		if raw := c.PostForm("max_dimension"); raw != "" {
			maxDim, err := strconv.Atoi(raw)
			if err != nil || maxDim < 0 {
				respondError(c, http.StatusBadRequest, "invalid max_dimension", err)
				return
			}
			req.MaxDimension = maxDim
		}

		outcome, err := svc.SegmentImage(ctx, img, req)
		if err != nil {
			handleSegmentError(c, fileHeader.Filename, err)
			return
		}

		respondMatte(c, outcome)
	}
}

// respondMatte writes the encoded matte inline with the pipeline metrics
// exposed as response headers.
func respondMatte(c *gin.Context, outcome *service.SegmentOutcome) {
	c.Header("X-Matting-Job-ID", outcome.JobID)
	c.Header("X-Matting-Threshold", strconv.FormatFloat(outcome.Metrics.Threshold, 'f', 6, 64))
	c.Header("X-Matting-Border-Width", strconv.Itoa(outcome.Metrics.BorderWidth))
	c.Header("X-Matting-Degenerate", strconv.FormatBool(outcome.Metrics.Degenerate))
	if outcome.StoredURL != "" {
		c.Header("X-Matting-Result-URL", outcome.StoredURL)
	}
	c.Data(http.StatusOK, "image/png", outcome.PNG)
}

func handleSegmentError(c *gin.Context, source string, err error) {
	wrapped := err
	if errors.Is(err, context.DeadlineExceeded) {
		wrapped = apperrors.NewTimeoutError("Segmentation timeout", err)
	}

	logger.WithError(wrapped).WithFields(logrus.Fields{
		"source": source,
		"ip":     c.ClientIP(),
	}).Error("Segmentation failed")

	respondError(c, apperrors.GetStatusCode(wrapped), "segmentation failed", wrapped)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "available",
		Service: "image-matting",
		Version: "1.0.0",
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
