package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageBackend selects where matted results are persisted.
type StorageBackend string

const (
	// StorageNone disables result persistence; responses carry the only copy.
	StorageNone StorageBackend = "none"
	// StorageLocal writes results to a directory on disk.
	StorageLocal StorageBackend = "local"
	// StorageAzure uploads results to Azure blob storage.
	StorageAzure StorageBackend = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	SegmentTimeout     time.Duration
	MaxRequestBodySize int64

	// MaxImagePixels caps width*height of accepted inputs. Inputs above the
	// cap are rejected before any pixel buffer is allocated.
	MaxImagePixels int64

	// MaxWorkers bounds per-stage row parallelism; 0 means one worker per CPU.
	MaxWorkers int

	ResultStorage    StorageBackend
	LocalResultDir   string
	AzureAccountName string
	AzureAccountKey  string
	ResultContainer  string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		SegmentTimeout:     parseDurationOrDefault("SEGMENT_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		MaxImagePixels:     parseIntOrDefault("MAX_IMAGE_PIXELS", 40_000_000),        // ~40MP
		MaxWorkers:         int(parseIntOrDefault("MAX_WORKERS", 0)),
		ResultStorage:      StorageBackend(getEnvOrDefault("RESULT_STORAGE", string(StorageNone))),
		LocalResultDir:     getEnvOrDefault("LOCAL_RESULT_DIR", "results"),
		AzureAccountName:   os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:    os.Getenv("AZURE_ACCOUNT_KEY"),
		ResultContainer:    getEnvOrDefault("RESULT_CONTAINER", "mattes"),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.MaxImagePixels <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_PIXELS must be > 0 (got %d)", cfg.MaxImagePixels)
	}
	if cfg.MaxWorkers < 0 {
		return nil, fmt.Errorf("MAX_WORKERS must be >= 0 (got %d)", cfg.MaxWorkers)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 || cfg.SegmentTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, segment=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout, cfg.SegmentTimeout)
	}
	switch cfg.ResultStorage {
	case StorageNone, StorageLocal:
	case StorageAzure:
		if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure result storage requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
		}
	default:
		return nil, fmt.Errorf("invalid RESULT_STORAGE: %q", cfg.ResultStorage)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
