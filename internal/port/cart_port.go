package port

import (
	"context"

	"github.com/nikolayk812/storefront-cart/internal/domain"
)

// CartRepository stores the whole cart snapshot. The in-memory list stays
// the source of truth while a session is live.
type CartRepository interface {
	LoadCart(ctx context.Context) ([]domain.CartItem, error)
	SaveCart(ctx context.Context, items []domain.CartItem) error
}

type CartView interface {
	Render(summary domain.CartSummary) error
}

type Notifier interface {
	Notify(kind domain.NotificationKind, message string)
}
