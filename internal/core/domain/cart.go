package domain

import "slices"

type (
	// A LineItem is a product in the active cart.
	LineItem struct {
		Product  Product `json:"product"`
		Quantity int     `json:"quantity"`
	}

	// A Cart is an immutable snapshot of the cart store.
	Cart struct {
		Items []LineItem
		Saved []Product
	}
)

// Total returns the sum of price * quantity over the active items.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount returns the sum of quantities over the active items.
func (c Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c Cart) Contains(productID string) bool {
	return slices.ContainsFunc(c.Items, func(item LineItem) bool {
		return item.Product.ID == productID
	})
}

func (c Cart) IsSaved(productID string) bool {
	return containsProduct(c.Saved, productID)
}

func containsProduct(ps []Product, productID string) bool {
	return slices.ContainsFunc(ps, func(p Product) bool {
		return p.ID == productID
	})
}

func (c Cart) Summary(p Pricing) Summary {
	return p.Summarize(c.Total(), len(c.Items) == 0)
}
