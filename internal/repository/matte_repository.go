package repository

import (
	"context"

	"go-image-matting/internal/storage"
)

// StoreMatteRepository implements MatteRepository over a ResultStore
type StoreMatteRepository struct {
	store storage.ResultStore
}

// NewStoreMatteRepository creates a matte repository backed by the given
// result store.
func NewStoreMatteRepository(store storage.ResultStore) MatteRepository {
	return &StoreMatteRepository{store: store}
}

// SaveMatte stores an encoded matte and returns its location
func (r *StoreMatteRepository) SaveMatte(ctx context.Context, jobID string, png []byte) (string, error) {
	return r.store.SaveResult(ctx, jobID, png)
}
