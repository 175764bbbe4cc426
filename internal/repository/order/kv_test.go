package order

import (
	"context"
	"testing"
	"time"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV_AllSave(t *testing.T) {
	ctx := context.Background()
	repo := NewKV(kvstore.NewMemory(), nil)

	orders, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	in := []domain.Order{{
		ID:       "ABCD1234",
		Customer: domain.Customer{Name: "Sari", Phone: "0812", Address: "Jl. Mawar 1", Courier: "JNE"},
		Items: []domain.OrderItem{
			{CartLine: domain.CartLine{ProductID: "p1", Size: "M", Qty: 2}, Title: "Linen Summer Shirt", UnitPrice: 199000},
		},
		Total:     398000,
		Status:    domain.StatusProcessing,
		CreatedAt: created,
	}}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.Equal(t, in[0].Items, out[0].Items)
	assert.True(t, created.Equal(out[0].CreatedAt))
}
