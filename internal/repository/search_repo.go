package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/storage"
)

// SearchParamsRepository records the last search per user. Nothing reads it back.
type SearchParamsRepository interface {
	Save(ctx context.Context, email string, params domain.SearchParams) error
}

type DocSearchParamsRepository struct {
	store storage.Store
}

func NewSearchParamsRepository(store storage.Store) SearchParamsRepository {
	return &DocSearchParamsRepository{store: store}
}

func (r *DocSearchParamsRepository) Save(ctx context.Context, email string, params domain.SearchParams) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode search params: %w", err)
	}
	return r.store.Put(ctx, storage.SearchParamsKey(email), data)
}

var _ SearchParamsRepository = (*DocSearchParamsRepository)(nil)
