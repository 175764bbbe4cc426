package catalog

import (
	"context"
	"errors"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/kvstore"
	"aurora-commerce/internal/logging"
	"aurora-commerce/internal/seed"
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

func (r *kvRepo) Load(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	found, err := kvstore.GetJSON(ctx, r.store, kvstore.KeyProducts, &products)
	if err != nil {
		r.logger.WithError(err).Error("catalog repo: load")
		return nil, err
	}
	if found {
		return products, nil
	}

	products = seed.DefaultCatalog()
	if err := r.Save(ctx, products); err != nil {
		return nil, err
	}
	r.logger.WithField("count", len(products)).Info("catalog repo: seeded default catalog")
	return products, nil
}

func (r *kvRepo) Save(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}
	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyProducts, products); err != nil {
		r.logger.WithError(err).Error("catalog repo: save")
		return err
	}
	r.logger.WithField("count", len(products)).Debug("catalog repo: saved")
	return nil
}

func (r *kvRepo) Exists(ctx context.Context) (bool, error) {
	_, err := r.store.Get(ctx, kvstore.KeyProducts)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
