package models

// SegmentRequest represents a request to matte an image fetched from a URL
type SegmentRequest struct {
	URL string `json:"url" binding:"required,url"`
	// Background, when set, flattens the matte onto the given hex color
	// (e.g. "#ffffff") instead of returning transparency.
	Background string `json:"background,omitempty"`
	// MaxDimension, when positive, downscales the working image so its
	// longer side does not exceed this value. The matte is scaled back to
	// the source resolution before compositing.
	MaxDimension int  `json:"max_dimension,omitempty"`
	Fast         bool `json:"fast,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// SegmentMetrics mirrors the pipeline metrics exposed to clients
type SegmentMetrics struct {
	Width               int     `json:"width"`
	Height              int     `json:"height"`
	BorderWidth         int     `json:"border_width"`
	SampledBorderPixels int     `json:"sampled_border_pixels"`
	Threshold           float64 `json:"threshold"`
	Degenerate          bool    `json:"degenerate"`
	ProcessingTimeSec   float64 `json:"processing_time_sec"`
}
