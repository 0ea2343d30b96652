package service

import (
	"context"

	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/niksmo/minizon/internal/core/port"
)

// A Service groups the stores of one application run.
type Service struct {
	Cart     *CartStore
	Wishlist *WishlistStore
	pricing  domain.Pricing
}

// New creates and hydrates the stores.
//
// A nil wishlistStorage disables wishlist persistence.
func New(
	ctx context.Context,
	cartStorage port.CartStorage,
	wishlistStorage port.WishlistStorage,
	notifier port.Notifier,
	pricing domain.Pricing,
) Service {
	return Service{
		Cart:     NewCartStore(ctx, cartStorage, notifier),
		Wishlist: NewWishlistStore(ctx, wishlistStorage, notifier),
		pricing:  pricing,
	}
}

func (s Service) Pricing() domain.Pricing {
	return s.pricing
}

// Summary returns the checkout summary of the current cart.
func (s Service) Summary() domain.Summary {
	return s.Cart.Snapshot().Summary(s.pricing)
}
