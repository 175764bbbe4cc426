package cart

import (
	"context"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/kvstore"
)

type kvRepo struct {
	store kvstore.Store
}

func NewKV(store kvstore.Store) Repository {
	return &kvRepo{store: store}
}

// Lines returns the cart, treating an absent key as an empty cart.
func (r *kvRepo) Lines(ctx context.Context) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if _, err := kvstore.GetJSON(ctx, r.store, kvstore.KeyCart, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *kvRepo) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return kvstore.SetJSON(ctx, r.store, kvstore.KeyCart, lines)
}

func (r *kvRepo) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, kvstore.KeyCart)
}
