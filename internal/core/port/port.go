package port

import (
	"context"

	"github.com/niksmo/minizon/internal/core/domain"
)

type KeyValueStorage interface {
	// Get returns storage.ErrNotFound wrapped when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type CartStorage interface {
	LoadCart(context.Context) ([]domain.LineItem, error)
	SaveCart(context.Context, []domain.LineItem) error
	LoadSaved(context.Context) ([]domain.Product, error)
	SaveSaved(context.Context, []domain.Product) error
}

type WishlistStorage interface {
	LoadWishlist(context.Context) ([]domain.Product, error)
	SaveWishlist(context.Context, []domain.Product) error
}

type Notifier interface {
	Notify(context.Context, domain.Notification)
}

type CartManager interface {
	AddToCart(context.Context, domain.Product) domain.Cart
	RemoveFromCart(ctx context.Context, productID string) domain.Cart
	UpdateQuantity(ctx context.Context, productID string, quantity int) domain.Cart
	ClearCart(context.Context) domain.Cart
	SaveForLater(ctx context.Context, productID string) domain.Cart
	MoveToCart(ctx context.Context, productID string) domain.Cart
	RemoveFromSaved(ctx context.Context, productID string) domain.Cart
	Snapshot() domain.Cart
}

type WishlistManager interface {
	AddToWishlist(context.Context, domain.Product) domain.Wishlist
	RemoveFromWishlist(ctx context.Context, productID string) domain.Wishlist
	IsInWishlist(productID string) bool
	ClearWishlist(context.Context) domain.Wishlist
	Snapshot() domain.Wishlist
}

type ProductQuery struct {
	Category string
	MinPrice float64
	MaxPrice float64 // zero means no upper bound
	Sort     string
}

type ProductCatalog interface {
	Categories() []domain.Category
	Product(id string) (domain.Product, error)
	Products(ProductQuery) []domain.Product
	Search(query string) []domain.Product
}
