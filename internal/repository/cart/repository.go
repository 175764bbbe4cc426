package cart

import (
	"context"

	"aurora-commerce/internal/domain"
)

// Repository persists the active cart lines under a single key.
type Repository interface {
	Lines(ctx context.Context) ([]domain.CartLine, error)
	Save(ctx context.Context, lines []domain.CartLine) error
	Clear(ctx context.Context) error
}
