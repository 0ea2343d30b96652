package domain

import "fmt"

type NotificationKind string

const (
	CartItemAdded         NotificationKind = "cart.item_added"
	CartQuantityIncreased NotificationKind = "cart.quantity_increased"
	CartItemRemoved       NotificationKind = "cart.item_removed"
	CartItemSaved         NotificationKind = "cart.item_saved"
	CartCleared           NotificationKind = "cart.cleared"

	WishlistItemAdded   NotificationKind = "wishlist.item_added"
	WishlistItemExists  NotificationKind = "wishlist.item_exists"
	WishlistItemRemoved NotificationKind = "wishlist.item_removed"
	WishlistCleared     NotificationKind = "wishlist.cleared"
)

// A Notification is a user-facing ephemeral message about a store change.
type Notification struct {
	Kind        NotificationKind
	Title       string
	Description string
	ProductID   string
}

func NewCartItemAdded(p Product) Notification {
	return Notification{
		Kind:        CartItemAdded,
		Title:       "Added to cart",
		Description: fmt.Sprintf("%s has been added to your cart", p.Name),
		ProductID:   p.ID,
	}
}

func NewCartQuantityIncreased(p Product) Notification {
	return Notification{
		Kind:        CartQuantityIncreased,
		Title:       "Updated cart",
		Description: fmt.Sprintf("Increased quantity of %s", p.Name),
		ProductID:   p.ID,
	}
}

func NewCartItemRemoved(p Product) Notification {
	return Notification{
		Kind:        CartItemRemoved,
		Title:       "Removed from cart",
		Description: fmt.Sprintf("%s has been removed", p.Name),
		ProductID:   p.ID,
	}
}

func NewCartItemSaved(p Product) Notification {
	return Notification{
		Kind:        CartItemSaved,
		Title:       "Saved for later",
		Description: fmt.Sprintf("%s has been saved for later", p.Name),
		ProductID:   p.ID,
	}
}

func NewCartCleared() Notification {
	return Notification{
		Kind:        CartCleared,
		Title:       "Cart cleared",
		Description: "All items have been removed from your cart",
	}
}

func NewWishlistItemAdded(p Product) Notification {
	return Notification{
		Kind:        WishlistItemAdded,
		Title:       "Added to wishlist",
		Description: fmt.Sprintf("%s has been added to your wishlist", p.Name),
		ProductID:   p.ID,
	}
}

func NewWishlistItemExists(p Product) Notification {
	return Notification{
		Kind:        WishlistItemExists,
		Title:       "Already in wishlist",
		Description: fmt.Sprintf("%s is already in your wishlist", p.Name),
		ProductID:   p.ID,
	}
}

func NewWishlistItemRemoved(p Product) Notification {
	return Notification{
		Kind:        WishlistItemRemoved,
		Title:       "Removed from wishlist",
		Description: fmt.Sprintf("%s has been removed from your wishlist", p.Name),
		ProductID:   p.ID,
	}
}

func NewWishlistCleared() Notification {
	return Notification{
		Kind:        WishlistCleared,
		Title:       "Wishlist cleared",
		Description: "All items have been removed from your wishlist",
	}
}
