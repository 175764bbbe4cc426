package repository

import (
	"context"

	"aurora-commerce/internal/kvstore"
	"aurora-commerce/internal/repository/cart"
	"aurora-commerce/internal/repository/catalog"
	"aurora-commerce/internal/repository/order"
	"github.com/sirupsen/logrus"
)

// Set bundles the three key-addressed repositories over one store handle.
type Set struct {
	Catalog catalog.Repository
	Cart    cart.Repository
	Orders  order.Repository
}

func NewKVSet(store kvstore.Store, logger *logrus.Logger) Set {
	return Set{
		Catalog: catalog.NewKV(store, logger),
		Cart:    cart.NewKV(store),
		Orders:  order.NewKV(store, logger),
	}
}

// UnitOfWork hands out repositories bound to a store transaction when the backend has one.
type UnitOfWork struct {
	store  kvstore.Store
	logger *logrus.Logger
}

func NewUnitOfWork(store kvstore.Store, logger *logrus.Logger) *UnitOfWork {
	return &UnitOfWork{store: store, logger: logger}
}

// Do runs fn with repositories whose writes commit together, or in call order when the
// store cannot group them.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos Set) error) error {
	return kvstore.RunInTx(ctx, u.store, func(ctx context.Context, tx kvstore.Store) error {
		return fn(ctx, NewKVSet(tx, u.logger))
	})
}
