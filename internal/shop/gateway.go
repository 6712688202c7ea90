package shop

import (
	"context"

	"github.com/dkotov/fishshop-bot/internal/domain"
)

// Gateway is the commerce backend contract the handlers compose.
// Implemented by the Strapi client; faked in tests.
type Gateway interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
	GetOrCreateCart(ctx context.Context, telegramID int64) (int64, error)
	AddLineItem(ctx context.Context, cartID, productID int64) (int64, error)
	DeleteLineItem(ctx context.Context, id int64) error
	GetCartWithProducts(ctx context.Context, telegramID int64) (domain.Cart, error)
	CreateUser(ctx context.Context, email, displayName string) (bool, error)
}
