package factory

import (
	"fmt"

	"go-image-matting/internal/config"
	"go-image-matting/internal/storage"
)

// StorageFactory creates storage implementations from configuration
type StorageFactory interface {
	CreateFetcher() storage.ImageFetcher
	CreateResultStore(cfg *config.Config) (storage.ResultStore, error)
}

type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateFetcher creates the HTTP source-image fetcher
func (f *storageFactory) CreateFetcher() storage.ImageFetcher {
	return storage.NewHTTPImageFetcher()
}

// CreateResultStore creates a result store matching the configured backend
func (f *storageFactory) CreateResultStore(cfg *config.Config) (storage.ResultStore, error) {
	switch cfg.ResultStorage {
	case config.StorageNone:
		return storage.NewNoopResultStore(), nil
	case config.StorageLocal:
		return storage.NewLocalResultStore(cfg.LocalResultDir)
	case config.StorageAzure:
		return storage.NewAzureResultStore(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.ResultContainer)
	default:
		return nil, fmt.Errorf("unsupported result storage backend: %s", cfg.ResultStorage)
	}
}
