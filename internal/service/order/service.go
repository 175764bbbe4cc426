package order

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/logging"
	orderrepo "aurora-commerce/internal/repository/order"
	"github.com/sirupsen/logrus"
)

// Service is the order ledger: append, lookup and status changes.
type Service struct {
	repo   orderrepo.Repository
	logger *logrus.Logger
}

func New(repo orderrepo.Repository, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{repo: repo, logger: logger}
}

// Append adds the order at the end of the ledger. Id uniqueness is the caller's concern.
func (s *Service) Append(ctx context.Context, o domain.Order) error {
	orders, err := s.repo.All(ctx)
	if err != nil {
		return err
	}
	orders = append(orders, o)
	if err := s.repo.Save(ctx, orders); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"order_id": o.ID, "total": o.Total}).Info("ledger: order appended")
	return nil
}

func (s *Service) Find(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := findOrder(orders, id)
	if idx < 0 {
		return nil, fmt.Errorf("order %q: %w", id, domain.ErrNotFound)
	}
	o := orders[idx]
	return &o, nil
}

// Exists reports whether an order with the id is already in the ledger.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Find(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// SetStatus overwrites the status. Any of the four statuses may follow any other.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown order status %q: %w", status, domain.ErrValidation)
	}
	orders, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := findOrder(orders, id)
	if idx < 0 {
		return nil, fmt.Errorf("order %q: %w", id, domain.ErrNotFound)
	}

	prev := orders[idx].Status
	orders[idx].Status = status
	if err := s.repo.Save(ctx, orders); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"order_id": id, "from": prev, "to": status}).Info("ledger: status changed")
	o := orders[idx]
	return &o, nil
}

// All returns orders in insertion order.
func (s *Service) All(ctx context.Context) ([]domain.Order, error) {
	return s.repo.All(ctx)
}

// Recent returns orders newest first.
func (s *Service) Recent(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(orders)
	return orders, nil
}

func findOrder(orders []domain.Order, id string) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}
