package cart

import (
	"context"
	"fmt"
	"math"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/logging"
	cartrepo "aurora-commerce/internal/repository/cart"
	"github.com/sirupsen/logrus"
)

// Service aggregates cart lines by (product, size, preorder).
type Service struct {
	repo        cartrepo.Repository
	productRepo productRepo
	logger      *logrus.Logger
}

type productRepo interface {
	Load(ctx context.Context) ([]domain.Product, error)
}

func New(repo cartrepo.Repository, productRepo productRepo, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{repo: repo, productRepo: productRepo, logger: logger}
}

// AddInput mirrors the add-to-cart request. Qty defaults to 1.
type AddInput struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
	Preorder  bool   `json:"preorder"`
}

// AddItem merges into the line sharing the identity key or appends a new one.
// Quantity is not checked against stock; availability only matters at checkout.
func (s *Service) AddItem(ctx context.Context, in AddInput) ([]domain.CartLine, error) {
	products, err := s.productRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if domain.FindProduct(products, in.ProductID) < 0 {
		return nil, fmt.Errorf("product %q: %w", in.ProductID, domain.ErrNotFound)
	}
	qty := in.Qty
	if qty <= 0 {
		qty = 1
	}

	lines, err := s.repo.Lines(ctx)
	if err != nil {
		return nil, err
	}
	line := domain.CartLine{ProductID: in.ProductID, Size: in.Size, Qty: qty, Preorder: in.Preorder}
	if idx := findLine(lines, line.Key()); idx >= 0 {
		merged, err := addQty(lines[idx].Qty, qty)
		if err != nil {
			return nil, err
		}
		lines[idx].Qty = merged
	} else {
		lines = append(lines, line)
	}

	if err := s.repo.Save(ctx, lines); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"product_id": in.ProductID,
		"size":       in.Size,
		"qty":        qty,
		"preorder":   in.Preorder,
	}).Debug("cart: item added")
	return lines, nil
}

// ChangeQuantity adds delta to the matching line and drops it once it reaches zero.
// A missing line is left alone.
func (s *Service) ChangeQuantity(ctx context.Context, key domain.LineKey, delta int) ([]domain.CartLine, error) {
	lines, err := s.repo.Lines(ctx)
	if err != nil {
		return nil, err
	}
	idx := findLine(lines, key)
	if idx < 0 {
		return lines, nil
	}

	qty, err := addQty(lines[idx].Qty, delta)
	if err != nil {
		return nil, err
	}
	lines[idx].Qty = qty
	if lines[idx].Qty <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
	}
	if err := s.repo.Save(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveItem deletes the matching line whatever its quantity.
func (s *Service) RemoveItem(ctx context.Context, key domain.LineKey) ([]domain.CartLine, error) {
	lines, err := s.repo.Lines(ctx)
	if err != nil {
		return nil, err
	}
	idx := findLine(lines, key)
	if idx < 0 {
		return lines, nil
	}
	lines = append(lines[:idx], lines[idx+1:]...)
	if err := s.repo.Save(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Service) Lines(ctx context.Context) ([]domain.CartLine, error) {
	return s.repo.Lines(ctx)
}

// Count is the number of units across all lines.
func (s *Service) Count(ctx context.Context) (int, error) {
	lines, err := s.repo.Lines(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, l := range lines {
		n += l.Qty
	}
	return n, nil
}

// Total prices the cart against the live catalog.
func (s *Service) Total(ctx context.Context, catalog []domain.Product) (int64, error) {
	lines, err := s.repo.Lines(ctx)
	if err != nil {
		return 0, err
	}
	return Total(lines, catalog)
}

// View joins the cart with the current catalog for display.
func (s *Service) View(ctx context.Context) (*domain.CartView, error) {
	products, err := s.productRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.Lines(ctx)
	if err != nil {
		return nil, err
	}

	view := &domain.CartView{Lines: make([]domain.CartLineView, 0, len(lines))}
	for _, l := range lines {
		idx := domain.FindProduct(products, l.ProductID)
		if idx < 0 {
			return nil, fmt.Errorf("cart line product %q: %w", l.ProductID, domain.ErrNotFound)
		}
		p := products[idx]
		lineTotal, err := linePrice(p.Price, l.Qty)
		if err != nil {
			return nil, err
		}
		if view.Total, err = addMoney(view.Total, lineTotal); err != nil {
			return nil, err
		}
		view.Lines = append(view.Lines, domain.CartLineView{
			CartLine:  l,
			Title:     p.Title,
			Img:       p.Img,
			UnitPrice: p.Price,
			LineTotal: lineTotal,
		})
		view.Count += l.Qty
	}
	return view, nil
}

func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Total sums live unit price times quantity over lines.
func Total(lines []domain.CartLine, catalog []domain.Product) (int64, error) {
	var total int64
	for _, l := range lines {
		idx := domain.FindProduct(catalog, l.ProductID)
		if idx < 0 {
			return 0, fmt.Errorf("cart line product %q: %w", l.ProductID, domain.ErrNotFound)
		}
		lineTotal, err := linePrice(catalog[idx].Price, l.Qty)
		if err != nil {
			return 0, err
		}
		if total, err = addMoney(total, lineTotal); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// addQty adds delta to a line quantity, rejecting results past math.MaxInt.
// Quantities are positive, so only a positive delta can overflow.
func addQty(qty, delta int) (int, error) {
	if delta > 0 && qty > math.MaxInt-delta {
		return 0, fmt.Errorf("quantity too large: %w", domain.ErrValidation)
	}
	return qty + delta, nil
}

func linePrice(price int64, qty int) (int64, error) {
	if qty > 0 && price > math.MaxInt64/int64(qty) {
		return 0, fmt.Errorf("line total too large: %w", domain.ErrValidation)
	}
	return price * int64(qty), nil
}

func addMoney(total, amount int64) (int64, error) {
	if amount > math.MaxInt64-total {
		return 0, fmt.Errorf("cart total too large: %w", domain.ErrValidation)
	}
	return total + amount, nil
}

func findLine(lines []domain.CartLine, key domain.LineKey) int {
	for i := range lines {
		if lines[i].Key() == key {
			return i
		}
	}
	return -1
}
