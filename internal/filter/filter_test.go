package filter

import (
	"testing"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.DefaultProducts())
	require.NoError(t, err)
	return c
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestDefaultCriteriaReturnsWholeCatalog(t *testing.T) {
	c := testCatalog(t)

	got := Apply(c.Products(), Default(c))

	if diff := cmp.Diff(c.Products(), got); diff != "" {
		t.Errorf("default filter changed the catalog (-want +got):\n%s", diff)
	}
}

func TestApplyIsIdempotentAndStable(t *testing.T) {
	c := testCatalog(t)
	criteria := Criteria{Query: "e", Category: CategoryAll, PriceCeiling: 15000}

	first := Apply(c.Products(), criteria)
	second := Apply(c.Products(), criteria)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"pulse-runner", "lumen-hoodie", "orbit-backpack", "velocity-tights"}, ids(first))
}

func TestApply(t *testing.T) {
	c := testCatalog(t)
	maxPrice := c.MaxPrice()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "query matches name case-insensitively",
			criteria: Criteria{Query: "HOODIE", Category: CategoryAll, PriceCeiling: maxPrice},
			want:     []string{"lumen-hoodie"},
		},
		{
			name:     "query matches category",
			criteria: Criteria{Query: "accessor", Category: CategoryAll, PriceCeiling: maxPrice},
			want:     []string{"orbit-backpack", "tempo-watch"},
		},
		{
			name:     "whitespace query matches everything",
			criteria: Criteria{Query: "   ", Category: CategoryAll, PriceCeiling: maxPrice},
			want:     ids(c.Products()),
		},
		{
			name:     "exact category",
			criteria: Criteria{Category: models.CategoryApparel, PriceCeiling: maxPrice},
			want:     []string{"lumen-hoodie", "eclipse-jacket", "velocity-tights"},
		},
		{
			name:     "category is case-sensitive",
			criteria: Criteria{Category: "apparel", PriceCeiling: maxPrice},
			want:     []string{},
		},
		{
			name:     "price ceiling is inclusive",
			criteria: Criteria{Category: CategoryAll, PriceCeiling: 9400},
			want:     []string{"lumen-hoodie", "velocity-tights"},
		},
		{
			name:     "criteria combine with AND",
			criteria: Criteria{Query: "e", Category: models.CategoryApparel, PriceCeiling: 10000},
			want:     []string{"lumen-hoodie", "velocity-tights"},
		},
		{
			name:     "zero ceiling excludes everything",
			criteria: Criteria{Category: CategoryAll, PriceCeiling: 0},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(c.Products(), tt.criteria)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyNoMatchesIsEmptyNotNil(t *testing.T) {
	c := testCatalog(t)

	got := Apply(c.Products(), Criteria{Query: "kayak", Category: CategoryAll, PriceCeiling: c.MaxPrice()})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMatches(t *testing.T) {
	p := models.Product{ID: "x", Name: "Trail Shoe", Category: models.CategoryFootwear, Price: 5000}

	assert.True(t, Matches(p, Criteria{Query: "shoe", Category: CategoryAll, PriceCeiling: 5000}))
	assert.False(t, Matches(p, Criteria{Query: "shoe", Category: CategoryAll, PriceCeiling: 4999}))
	assert.False(t, Matches(p, Criteria{Category: models.CategoryApparel, PriceCeiling: 5000}))
}

func TestCategoryOptions(t *testing.T) {
	c := testCatalog(t)

	assert.Equal(t, []string{CategoryAll, "Footwear", "Apparel", "Accessories"}, CategoryOptions(c))
}
