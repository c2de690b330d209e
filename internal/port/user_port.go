package port

import (
	"context"

	"github.com/nikolayk812/storefront-cart/internal/domain"
)

type UserRepository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	// RegisterUser appends the user and makes it the current user in one write.
	RegisterUser(ctx context.Context, user domain.User) error

	GetCurrentUser(ctx context.Context) (domain.User, error)
	SetCurrentUser(ctx context.Context, user domain.User) error
	DeleteCurrentUser(ctx context.Context) error

	GetRememberedEmail(ctx context.Context) (string, error)
	SetRememberedEmail(ctx context.Context, email string) error
	DeleteRememberedEmail(ctx context.Context) error
}
