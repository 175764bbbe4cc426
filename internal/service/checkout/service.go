package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/logging"
	"aurora-commerce/internal/repository"
	cartsvc "aurora-commerce/internal/service/cart"
	ordersvc "aurora-commerce/internal/service/order"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyCart is returned before any state changes when there is nothing to check out.
	ErrEmptyCart = fmt.Errorf("cart is empty, nothing to checkout: %w", domain.ErrValidation)
	// ErrIDExhausted means every drawn order id already existed in the ledger.
	ErrIDExhausted = errors.New("could not allocate a unique order id")
)

const maxIDAttempts = 5

type unitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error
}

// Service turns the cart into an order, consuming stock for immediate lines.
type Service struct {
	uow    unitOfWork
	newID  func() string
	now    func() time.Time
	logger *logrus.Logger
}

type Option func(*Service)

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

func New(uow unitOfWork, logger *logrus.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Service{uow: uow, newID: NewOrderID, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout places an order for the current cart.
//
// Writes happen in the order catalog, ledger, cart. When the store groups them into one
// transaction they commit together; otherwise a failure part way leaves stock reduced
// without an order, never an order without its stock movement.
func (s *Service) Checkout(ctx context.Context, customer domain.Customer) (*domain.Order, error) {
	var placed domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, repos repository.Set) error {
		lines, err := repos.Cart.Lines(ctx)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		products, err := repos.Catalog.Load(ctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		total, err := cartsvc.Total(lines, products)
		if err != nil {
			return err
		}

		ledger := ordersvc.New(repos.Orders, s.logger)
		id, err := s.allocateID(ctx, ledger)
		if err != nil {
			return err
		}

		placed = domain.Order{
			ID:        id,
			Customer:  customer.Normalize(),
			Items:     Snapshot(lines, products),
			Total:     total,
			Status:    domain.StatusProcessing,
			CreatedAt: s.now().UTC(),
		}

		ConsumeStock(products, lines)
		if err := repos.Catalog.Save(ctx, products); err != nil {
			return fmt.Errorf("save catalog: %w", err)
		}
		if err := ledger.Append(ctx, placed); err != nil {
			return fmt.Errorf("append order: %w", err)
		}
		if err := repos.Cart.Clear(ctx); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			s.logger.WithError(err).Error("checkout: failed")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": placed.ID,
		"total":    placed.Total,
		"items":    len(placed.Items),
	}).Info("checkout: order placed")
	return &placed, nil
}

func (s *Service) allocateID(ctx context.Context, ledger *ordersvc.Service) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		exists, err := ledger.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check order id: %w", err)
		}
		if !exists {
			return id, nil
		}
		s.logger.WithField("order_id", id).Warn("checkout: order id collision, drawing again")
	}
	return "", ErrIDExhausted
}

// Snapshot copies the cart lines with the title and unit price they sell at right now.
func Snapshot(lines []domain.CartLine, products []domain.Product) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		item := domain.OrderItem{CartLine: l}
		if idx := domain.FindProduct(products, l.ProductID); idx >= 0 {
			item.Title = products[idx].Title
			item.UnitPrice = products[idx].Price
		}
		items = append(items, item)
	}
	return items
}

// ConsumeStock decrements stock for every immediate line, flooring at zero.
// Preorder lines and sizes the product does not stock are skipped.
func ConsumeStock(products []domain.Product, lines []domain.CartLine) {
	for _, l := range lines {
		if l.Preorder {
			continue
		}
		idx := domain.FindProduct(products, l.ProductID)
		if idx < 0 {
			continue
		}
		count, ok := products[idx].Stock[l.Size]
		if !ok {
			continue
		}
		products[idx].Stock[l.Size] = max(0, count-l.Qty)
	}
}
