package filter

import (
	"strings"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"

	"golang.org/x/text/cases"
)

// CategoryAll disables the category predicate
const CategoryAll = "All"

// Criteria combines the three catalog filters with logical AND
type Criteria struct {
	Query        string `json:"query"`
	Category     string `json:"category"`
	PriceCeiling int64  `json:"price_ceiling"`
}

// Default returns criteria that match the whole catalog
func Default(c *catalog.Catalog) Criteria {
	return Criteria{
		Category:     CategoryAll,
		PriceCeiling: c.MaxPrice(),
	}
}

// CategoryOptions returns "All" followed by the catalog's categories
func CategoryOptions(c *catalog.Catalog) []string {
	return append([]string{CategoryAll}, c.Categories()...)
}

// Apply returns the products matching the criteria in their original order.
// The result is never nil; an empty slice means nothing matched.
func Apply(products []models.Product, criteria Criteria) []models.Product {
	m := newMatcher(criteria)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if m.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether a single product satisfies the criteria
func Matches(p models.Product, criteria Criteria) bool {
	return newMatcher(criteria).matches(p)
}

type matcher struct {
	criteria Criteria
	fold     cases.Caser
	query    string
}

func newMatcher(criteria Criteria) *matcher {
	m := &matcher{
		criteria: criteria,
		fold:     cases.Fold(),
	}
	if strings.TrimSpace(criteria.Query) != "" {
		m.query = m.fold.String(criteria.Query)
	}
	return m
}

func (m *matcher) matches(p models.Product) bool {
	return m.matchesQuery(p) && m.matchesCategory(p) && p.Price <= m.criteria.PriceCeiling
}

func (m *matcher) matchesQuery(p models.Product) bool {
	if m.query == "" {
		return true
	}
	return strings.Contains(m.fold.String(p.Name), m.query) ||
		strings.Contains(m.fold.String(p.Category), m.query)
}

func (m *matcher) matchesCategory(p models.Product) bool {
	return m.criteria.Category == CategoryAll || p.Category == m.criteria.Category
}
