package catalog

import (
	"cmp"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/niksmo/minizon/internal/core/port"
	"gopkg.in/yaml.v3"
)

const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortNewest    = "newest"
)

var (
	ErrNotFound    = errors.New("product not found")
	ErrInvalidSort = errors.New("invalid sort")
)

//go:embed catalog.yaml
var seed []byte

var _ port.ProductCatalog = (*Catalog)(nil)

type category struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type product struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description"`
	Price          float64           `yaml:"price"`
	OriginalPrice  *float64          `yaml:"original_price"`
	Images         []string          `yaml:"images"`
	Category       string            `yaml:"category"`
	Brand          string            `yaml:"brand"`
	Rating         float64           `yaml:"rating"`
	ReviewCount    int               `yaml:"review_count"`
	InStock        bool              `yaml:"in_stock"`
	Specifications map[string]string `yaml:"specifications"`
}

func (p product) toDomain() domain.Product {
	return domain.Product{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		OriginalPrice:  p.OriginalPrice,
		Images:         p.Images,
		Category:       p.Category,
		Brand:          p.Brand,
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		InStock:        p.InStock,
		Specifications: p.Specifications,
	}
}

type document struct {
	Categories []category `yaml:"categories"`
	Products   []product  `yaml:"products"`
}

// A Catalog is the read-only product reference data.
type Catalog struct {
	categories []domain.Category
	products   []domain.Product
	byID       map[string]int
}

// Default returns the catalog embedded into the binary.
func Default() (*Catalog, error) {
	return Parse(seed)
}

// Parse decodes a YAML catalog document and validates every product.
func Parse(data []byte) (*Catalog, error) {
	const op = "catalog.Parse"

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &Catalog{
		categories: make([]domain.Category, 0, len(doc.Categories)),
		products:   make([]domain.Product, 0, len(doc.Products)),
		byID:       make(map[string]int, len(doc.Products)),
	}

	known := make(map[string]bool, len(doc.Categories))
	for _, record := range doc.Categories {
		known[record.ID] = true
		c.categories = append(c.categories, domain.Category{
			ID:   record.ID,
			Name: record.Name,
		})
	}

	var errs []error
	for _, record := range doc.Products {
		p := record.toDomain()
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := c.byID[p.ID]; ok {
			errs = append(errs, fmt.Errorf("product %q: duplicate id", p.ID))
			continue
		}
		if len(known) != 0 && !known[p.Category] {
			errs = append(errs, fmt.Errorf(
				"product %q: unknown category %q", p.ID, p.Category,
			))
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	if len(errs) != 0 {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}
	return c, nil
}

func (c *Catalog) Categories() []domain.Category {
	return slices.Clone(c.categories)
}

func (c *Catalog) Product(id string) (domain.Product, error) {
	const op = "Catalog.Product"

	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: %q: %w", op, id, ErrNotFound)
	}
	return c.products[i], nil
}

// Products filters by category and inclusive price range, then sorts.
//
// An unknown sort keeps the featured order.
func (c *Catalog) Products(q port.ProductQuery) []domain.Product {
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if p.Price < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && p.Price > q.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortRating:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortNewest:
		slices.Reverse(out)
	}
	return out
}

// Search matches the query case-insensitively against name, description,
// brand and category. Name matches come first.
func (c *Catalog) Search(query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []domain.Product{}
	}

	var byName, other []domain.Product
	for _, p := range c.products {
		switch {
		case strings.Contains(strings.ToLower(p.Name), query):
			byName = append(byName, p)
		case strings.Contains(strings.ToLower(p.Description), query),
			strings.Contains(strings.ToLower(p.Brand), query),
			strings.Contains(strings.ToLower(p.Category), query):
			other = append(other, p)
		}
	}
	return slices.Concat(byName, other)
}

// ValidSort reports whether s names a supported sort order.
func ValidSort(s string) bool {
	switch s {
	case "", SortFeatured, SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return true
	}
	return false
}
