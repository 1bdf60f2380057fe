package catalog

import (
	"context"
	"fmt"

	"storefront-service/internal/models"
)

// Catalog is an immutable, ordered set of products built once at startup
type Catalog struct {
	products   []models.Product
	index      map[string]int
	maxPrice   int64
	categories []string
}

// Source provides the products a catalog is built from
type Source interface {
	LoadProducts(ctx context.Context) ([]models.Product, error)
}

// New validates the products and builds a catalog.
// The input slice is copied; later changes to it do not affect the catalog.
func New(products []models.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}

	seenCategory := make(map[string]bool)
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has an empty id", p.Name)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id: %s", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %s has a negative price: %d", p.ID, p.Price)
		}
		if p.Rating < 0 || p.Rating > 5 {
			return nil, fmt.Errorf("product %s has a rating outside [0, 5]: %.1f", p.ID, p.Rating)
		}

		p.Features = append([]string(nil), p.Features...)
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)

		if p.Price > c.maxPrice {
			c.maxPrice = p.Price
		}
		if !seenCategory[p.Category] {
			seenCategory[p.Category] = true
			c.categories = append(c.categories, p.Category)
		}
	}

	return c, nil
}

// Load builds a catalog from a source
func Load(ctx context.Context, src Source) (*Catalog, error) {
	products, err := src.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return New(products)
}

// Products returns all products in catalog order
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// FindByID resolves a product by identifier. The boolean is false when the
// id is unknown, which is an expected outcome for stale links.
func (c *Catalog) FindByID(id string) (models.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// MaxPrice returns the highest price in the catalog, computed at build time
func (c *Catalog) MaxPrice() int64 {
	return c.maxPrice
}

// Categories returns the distinct categories in order of first appearance
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// Featured returns the first n products
func (c *Catalog) Featured(n int) []models.Product {
	if n < 0 {
		n = 0
	}
	if n > len(c.products) {
		n = len(c.products)
	}
	out := make([]models.Product, n)
	copy(out, c.products[:n])
	return out
}
