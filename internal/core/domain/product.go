package domain

import (
	"errors"
	"fmt"
	"math"
)

const maxRating = 5.0

type Category struct {
	ID   string
	Name string
}

// A Product is read-only reference data.
//
// Products are shared by reference between the catalog, the cart and the
// wishlist and must never be modified after construction.
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	OriginalPrice  *float64          `json:"originalPrice,omitempty"`
	Images         []string          `json:"images"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"reviewCount"`
	InStock        bool              `json:"inStock"`
	Specifications map[string]string `json:"specifications"`
}

// Validate reports every broken constraint of the product at once.
func (p Product) Validate() error {
	var errs []error

	if p.ID == "" {
		errs = append(errs, errors.New("id is empty"))
	}

	if p.Price < 0 {
		errs = append(errs, fmt.Errorf("price %v is negative", p.Price))
	}

	if p.OriginalPrice != nil && *p.OriginalPrice < p.Price {
		errs = append(errs, fmt.Errorf(
			"original price %v is less than price %v", *p.OriginalPrice, p.Price,
		))
	}

	if p.Rating < 0 || p.Rating > maxRating {
		errs = append(errs, fmt.Errorf("rating %v is out of range", p.Rating))
	}

	if p.ReviewCount < 0 {
		errs = append(errs, fmt.Errorf("review count %d is negative", p.ReviewCount))
	}

	if len(errs) != 0 {
		return fmt.Errorf("product %q: %w", p.ID, errors.Join(errs...))
	}
	return nil
}

// Discount returns the discount percent against the original price.
func (p Product) Discount() int {
	if p.OriginalPrice == nil {
		return 0
	}
	original := *p.OriginalPrice
	if original <= 0 {
		return 0
	}
	return int(math.Round((1 - p.Price/original) * 100))
}
