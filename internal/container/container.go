package container

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"go-image-matting/internal/config"
	"go-image-matting/internal/factory"
	"go-image-matting/internal/matting"
	"go-image-matting/internal/observer"
	"go-image-matting/internal/repository"
	"go-image-matting/internal/service"
	"go-image-matting/internal/transport"
	"go-image-matting/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	segmenter       matting.Segmenter
	imageRepository repository.ImageRepository
	matteRepository repository.MatteRepository
	mattingService  service.MattingService
	metrics         *observer.MetricsObserver
	handler         http.Handler
}

// NewContainer wires the dependency graph from configuration
func NewContainer(cfg *config.Config) (*Container, error) {
	storageFactory := factory.NewStorageFactory()

	fetcher := storageFactory.CreateFetcher()
	resultStore, err := storageFactory.CreateResultStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create result store: %w", err)
	}

	imageRepository := repository.NewHTTPImageRepository(fetcher)
	matteRepository := repository.NewStoreMatteRepository(resultStore)
	segmenter := matting.NewSegmenter()

	publisher := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	publisher.Subscribe(observer.NewLoggingObserver(logrus.StandardLogger()))
	publisher.Subscribe(metrics)

	maxPixels := int(cfg.MaxImagePixels)
	mattingService := service.NewMattingService(
		imageRepository,
		matteRepository,
		segmenter,
		validation.NewImageValidator(maxPixels),
		publisher,
		cfg.MaxWorkers,
	)

	handler := transport.NewHandler(mattingService, cfg)

	return &Container{
		config:          cfg,
		segmenter:       segmenter,
		imageRepository: imageRepository,
		matteRepository: matteRepository,
		mattingService:  mattingService,
		metrics:         metrics,
		handler:         handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// MattingService returns the matting service
func (c *Container) MattingService() service.MattingService {
	return c.mattingService
}

// Metrics returns the metrics observer
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}
