package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const AddedMessage = "Item added to cart!"

// Store owns the cart line items. Every mutation persists the list and
// re-renders the view before returning.
type Store struct {
	repo     port.CartRepository
	view     port.CartView
	notifier port.Notifier
	logger   *zap.Logger
	newID    func() domain.ID

	items []domain.CartItem
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithIDGenerator(fn func() domain.ID) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

func New(repo port.CartRepository, view port.CartView, notifier port.Notifier, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		view:     view,
		notifier: notifier,
		logger:   zap.NewNop(),
		newID:    domain.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore replaces the in-memory list with the stored snapshot. An absent or
// unparsable snapshot yields an empty cart.
func (s *Store) Restore(ctx context.Context) error {
	items, err := s.repo.LoadCart(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptSnapshot) {
			return fmt.Errorf("repo.LoadCart: %w", err)
		}
		s.logger.Warn("stored cart is unreadable, starting empty", zap.Error(err))
		items = nil
	}

	s.items = items

	if err := s.render(); err != nil {
		return fmt.Errorf("s.render: %w", err)
	}

	return nil
}

func (s *Store) Add(ctx context.Context, entry domain.CatalogEntry) error {
	if i := s.indexByTitle(entry.Title); i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, domain.CartItem{
			ID:       s.newID(),
			Title:    entry.Title,
			Price:    entry.Price,
			Image:    entry.Image,
			Quantity: 1,
		})
	}

	if err := s.commit(ctx); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.Notify(domain.NotificationSuccess, AddedMessage)
	}

	return nil
}

// SetQuantity moves the quantity of item id by delta, which must be +1 or -1.
// Reaching zero removes the item.
func (s *Store) SetQuantity(ctx context.Context, id domain.ID, delta int) error {
	if delta != 1 && delta != -1 {
		return domain.NewValidationError(fmt.Sprintf("quantity step %d is not supported", delta))
	}

	i := s.indexByID(id)
	if i < 0 {
		s.logger.Debug("set quantity on unknown item", zap.Stringer("id", id))
		return nil
	}

	if s.items[i].Quantity+delta <= 0 {
		return s.Remove(ctx, id)
	}
	s.items[i].Quantity += delta

	return s.commit(ctx)
}

func (s *Store) Remove(ctx context.Context, id domain.ID) error {
	i := s.indexByID(id)
	if i < 0 {
		s.logger.Debug("remove unknown item", zap.Stringer("id", id))
		return nil
	}

	s.items = append(s.items[:i], s.items[i+1:]...)

	return s.commit(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.items = nil

	return s.commit(ctx)
}

// Total is recomputed from the current list on every call.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal().Amount)
	}
	return total
}

func (s *Store) Count() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *Store) Items() []domain.CartItem {
	return append([]domain.CartItem(nil), s.items...)
}

func (s *Store) Summary() domain.CartSummary {
	total := s.Total()
	return domain.CartSummary{
		Items:     s.Items(),
		ItemCount: s.Count(),
		Subtotal:  total,
		Total:     total,
	}
}

// commit persists then renders. The view is refreshed even when the write
// fails so it keeps mirroring the in-memory list.
func (s *Store) commit(ctx context.Context) error {
	var errs []error

	if err := s.repo.SaveCart(ctx, s.items); err != nil {
		s.logger.Error("persist cart", zap.Error(err))
		errs = append(errs, fmt.Errorf("repo.SaveCart: %w", err))
	}

	if err := s.render(); err != nil {
		errs = append(errs, fmt.Errorf("s.render: %w", err))
	}

	return errors.Join(errs...)
}

func (s *Store) render() error {
	if s.view == nil {
		return nil
	}
	return s.view.Render(s.Summary())
}

func (s *Store) indexByTitle(title string) int {
	for i, item := range s.items {
		if item.Title == title {
			return i
		}
	}
	return -1
}

func (s *Store) indexByID(id domain.ID) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
