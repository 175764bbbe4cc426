package order

import (
	"context"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/kvstore"
	"aurora-commerce/internal/logging"
	"github.com/sirupsen/logrus"
)

type kvRepo struct {
	store  kvstore.Store
	logger *logrus.Logger
}

func NewKV(store kvstore.Store, logger *logrus.Logger) Repository {
	if logger == nil {
		logger = logging.Discard()
	}
	return &kvRepo{store: store, logger: logger}
}

func (r *kvRepo) All(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if _, err := kvstore.GetJSON(ctx, r.store, kvstore.KeyOrders, &orders); err != nil {
		r.logger.WithError(err).Error("order repo: load")
		return nil, err
	}
	return orders, nil
}

func (r *kvRepo) Save(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyOrders, orders); err != nil {
		r.logger.WithError(err).Error("order repo: save")
		return err
	}
	r.logger.WithField("count", len(orders)).Debug("order repo: saved")
	return nil
}
