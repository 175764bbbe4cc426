package catalog

import (
	"context"

	"aurora-commerce/internal/domain"
)

// Repository persists the whole catalog under a single key.
type Repository interface {
	// Load returns the persisted catalog, writing the default catalog on first use.
	Load(ctx context.Context) ([]domain.Product, error)
	Save(ctx context.Context, products []domain.Product) error
	Exists(ctx context.Context) (bool, error)
}
