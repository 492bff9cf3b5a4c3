package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "go-image-matting/internal/errors"
)

// ResultStore persists encoded matte images and returns a location the
// client can fetch them from later. Persistence is optional; the matte is
// always returned inline regardless of the configured store.
type ResultStore interface {
	SaveResult(ctx context.Context, name string, png []byte) (string, error)
}

// noopResultStore discards results
type noopResultStore struct{}

// NewNoopResultStore creates a store that keeps nothing
func NewNoopResultStore() ResultStore {
	return &noopResultStore{}
}

func (s *noopResultStore) SaveResult(ctx context.Context, name string, png []byte) (string, error) {
	return "", nil
}

// localResultStore writes results under a directory on disk
type localResultStore struct {
	dir string
}

// NewLocalResultStore creates a filesystem-backed result store rooted at dir
func NewLocalResultStore(dir string) (ResultStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewInternalError("Failed to create result directory", err)
	}
	return &localResultStore{dir: dir}, nil
}

func (s *localResultStore) SaveResult(ctx context.Context, name string, png []byte) (string, error) {
	path := filepath.Join(s.dir, name+".png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", apperrors.NewInternalError("Failed to write result file", err)
	}
	return path, nil
}

// azureResultStore uploads results to an Azure blob container
type azureResultStore struct {
	client      *azblob.Client
	accountName string
	container   string
}

// NewAzureResultStore creates a blob-backed result store using shared key
// credentials.
func NewAzureResultStore(accountName, accountKey, container string) (ResultStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, apperrors.NewInternalError("Invalid Azure credentials", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to create Azure client", err)
	}

	return &azureResultStore{
		client:      client,
		accountName: accountName,
		container:   container,
	}, nil
}

func (s *azureResultStore) SaveResult(ctx context.Context, name string, png []byte) (string, error) {
	blobName := name + ".png"

	_, err := s.client.UploadBuffer(ctx, s.container, blobName, png, nil)
	if err != nil {
		return "", apperrors.NewNetworkError("Blob upload failed", err)
	}

	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", s.accountName, s.container, blobName), nil
}
