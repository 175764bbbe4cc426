package seed

import (
	"context"
	"fmt"

	"aurora-commerce/internal/domain"
)

// DefaultCatalog returns a fresh copy of the catalog written on first use.
func DefaultCatalog() []domain.Product {
	return []domain.Product{
		{
			ID:    "p1",
			Title: "Linen Summer Shirt",
			Price: 199000,
			Stock: map[string]int{"S": 5, "M": 8, "L": 4},
			Img:   "https://images.unsplash.com/photo-1541099649105-f69ad21f3246?auto=format&fit=crop&w=800&q=60",
			Desc:  "Lightweight linen shirt, perfect for summer.",
		},
		{
			ID:    "p2",
			Title: "Relaxed Fit Tee",
			Price: 129000,
			Stock: map[string]int{"S": 10, "M": 6, "L": 6},
			Img:   "https://images.unsplash.com/photo-1520975698518-0b3c3bf8fbe5?auto=format&fit=crop&w=800&q=60",
			Desc:  "Soft cotton tee with relaxed fit.",
		},
		{
			ID:    "p3",
			Title: "Everyday Hoodie",
			Price: 249000,
			Stock: map[string]int{"S": 3, "M": 5, "L": 2},
			Img:   "https://images.unsplash.com/photo-1520975698528-0c3c3bf8fbe5?auto=format&fit=crop&w=800&q=60",
			Desc:  "Cozy hoodie for daily wear.",
		},
		{
			ID:    "p4",
			Title: "Tailored Chino",
			Price: 179000,
			Stock: map[string]int{"S": 7, "M": 7, "L": 7},
			Img:   "https://images.unsplash.com/photo-1556909216-5e0c1f5b7f0b?auto=format&fit=crop&w=800&q=60",
			Desc:  "Smart casual chinos.",
		},
	}
}

type catalogStore interface {
	Exists(ctx context.Context) (bool, error)
	Save(ctx context.Context, products []domain.Product) error
}

// Apply writes the default catalog. Without force it leaves an existing catalog alone,
// so running it twice is harmless.
func Apply(ctx context.Context, repo catalogStore, force bool) (bool, error) {
	if !force {
		exists, err := repo.Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("check catalog: %w", err)
		}
		if exists {
			return false, nil
		}
	}
	if err := repo.Save(ctx, DefaultCatalog()); err != nil {
		return false, fmt.Errorf("save default catalog: %w", err)
	}
	return true, nil
}
