package order

import (
	"context"

	"aurora-commerce/internal/domain"
)

// Repository persists the order ledger, in insertion order, under a single key.
type Repository interface {
	All(ctx context.Context) ([]domain.Order, error)
	Save(ctx context.Context, orders []domain.Order) error
}
