package domain

// A Wishlist is an immutable snapshot of the wishlist store.
type Wishlist struct {
	Items []Product
}

func (w Wishlist) Contains(productID string) bool {
	return containsProduct(w.Items, productID)
}

func (w Wishlist) Len() int {
	return len(w.Items)
}
