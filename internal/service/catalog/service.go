package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/logging"
	catalogrepo "aurora-commerce/internal/repository/catalog"
	"github.com/sirupsen/logrus"
)

// Sort selects the catalog display order.
type Sort string

const (
	SortNone      Sort = ""
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
)

func ParseSort(v string) (Sort, error) {
	switch s := Sort(strings.ToLower(strings.TrimSpace(v))); s {
	case SortNone, SortPriceAsc, SortPriceDesc:
		return s, nil
	default:
		return "", fmt.Errorf("unknown sort %q: %w", v, domain.ErrValidation)
	}
}

type Service struct {
	repo   catalogrepo.Repository
	logger *logrus.Logger
}

func New(repo catalogrepo.Repository, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Load(ctx context.Context) ([]domain.Product, error) {
	return s.repo.Load(ctx)
}

func (s *Service) Save(ctx context.Context, products []domain.Product) error {
	return s.repo.Save(ctx, products)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := domain.FindProduct(products, id)
	if idx < 0 {
		return nil, fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
	}
	p := products[idx]
	return &p, nil
}

// List returns the catalog in the requested order. SortNone keeps the stored order.
func (s *Service) List(ctx context.Context, order Sort) ([]domain.Product, error) {
	switch order {
	case SortPriceAsc:
		return s.Sorted(ctx, func(a, b domain.Product) bool { return a.Price < b.Price })
	case SortPriceDesc:
		return s.Sorted(ctx, func(a, b domain.Product) bool { return a.Price > b.Price })
	default:
		return s.repo.Load(ctx)
	}
}

// Sorted returns the catalog stably ordered by a caller-chosen comparator.
func (s *Service) Sorted(ctx context.Context, less func(a, b domain.Product) bool) ([]domain.Product, error) {
	products, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
	return products, nil
}

// AdjustStock adds delta to every size of the product, flooring each count at zero.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	products, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := domain.FindProduct(products, id)
	if idx < 0 {
		return nil, fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
	}

	p := products[idx].Clone()
	for size, count := range p.Stock {
		p.Stock[size] = max(0, count+delta)
	}
	products[idx] = p

	if err := s.repo.Save(ctx, products); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"product_id": id, "delta": delta}).Info("catalog: stock adjusted")
	return &p, nil
}

// Upsert creates a product or replaces the one sharing its id, keeping catalog order.
func (s *Service) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	products, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	p = p.Clone()
	if p.Stock == nil {
		p.Stock = map[string]int{}
	}
	if idx := domain.FindProduct(products, p.ID); idx >= 0 {
		products[idx] = p
	} else {
		products = append(products, p)
	}

	if err := s.repo.Save(ctx, products); err != nil {
		return nil, err
	}
	s.logger.WithField("product_id", p.ID).Info("catalog: product upserted")
	return &p, nil
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product id required: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("product %q: title required: %w", p.ID, domain.ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("product %q: price must not be negative: %w", p.ID, domain.ErrValidation)
	}
	for size, count := range p.Stock {
		if count < 0 {
			return fmt.Errorf("product %q: stock for size %q must not be negative: %w", p.ID, size, domain.ErrValidation)
		}
	}
	return nil
}
