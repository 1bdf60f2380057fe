package catalog

import (
	"context"

	"storefront-service/internal/models"
)

// StaticSource serves the built-in product list
type StaticSource struct{}

// LoadProducts returns the built-in products
func (StaticSource) LoadProducts(_ context.Context) ([]models.Product, error) {
	return DefaultProducts(), nil
}

// DefaultProducts returns a fresh copy of the built-in product list
func DefaultProducts() []models.Product {
	return []models.Product{
		{
			ID:          "pulse-runner",
			Name:        "Pulse Runner Sneaker",
			Category:    models.CategoryFootwear,
			Price:       12900,
			Rating:      4.7,
			Badge:       "Best seller",
			Description: "Breathable knit upper, responsive cushioning, and a slip-resistant outsole built for all-day comfort.",
			Features: []string{
				"Engineered knit upper with targeted ventilation zones",
				"Dual-density midsole for soft landings and explosive takeoff",
				"Recycled lace loops and heel pull tab",
			},
			Image: "https://images.unsplash.com/photo-1542291026-7eec264c27ff?auto=format&fit=crop&w=600&q=80",
		},
		{
			ID:          "lumen-hoodie",
			Name:        "Lumen Thermal Hoodie",
			Category:    models.CategoryApparel,
			Price:       9400,
			Rating:      4.5,
			Badge:       "New arrival",
			Description: "Lightweight warmth meets minimalist design. The perfect mid-layer for cool mornings and late-night runs.",
			Features: []string{
				"Thermo-regulating fleece interior",
				"Thumbhole cuffs and dropped hem for coverage",
				"Zippered kangaroo pocket with key clip",
			},
			Image: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?auto=format&fit=crop&w=600&q=80",
		},
		{
			ID:          "orbit-backpack",
			Name:        "Orbit Commuter Backpack",
			Category:    models.CategoryAccessories,
			Price:       11800,
			Rating:      4.3,
			Badge:       "Sustainable",
			Description: "A weather-resistant shell, padded laptop sleeve, and modular storage make this a daily driver for work and travel.",
			Features: []string{
				"20L capacity with clamshell opening",
				"Cushioned 16\" laptop sleeve",
				"Water-repellent recycled nylon shell",
			},
			Image: "https://images.unsplash.com/photo-1522199992903-1529e7138b09?auto=format&fit=crop&w=600&q=80",
		},
		{
			ID:          "eclipse-jacket",
			Name:        "Eclipse Rain Jacket",
			Category:    models.CategoryApparel,
			Price:       16500,
			Rating:      4.8,
			Badge:       "Weather proof",
			Description: "Fully taped seams and a breathable membrane keep you dry without overheating on the move.",
			Features: []string{
				"10K waterproof / 10K breathable membrane",
				"Articulated sleeves with adjustable cuffs",
				"Packs into its own interior pocket",
			},
			Image: "https://images.unsplash.com/photo-1503341455253-b2e723bb3dbb?auto=format&fit=crop&w=600&q=80",
		},
		{
			ID:          "tempo-watch",
			Name:        "Tempo Fitness Watch",
			Category:    models.CategoryAccessories,
			Price:       19900,
			Rating:      4.6,
			Badge:       "Multisport",
			Description: "Track heart rate, GPS routes, recovery trends, and training readiness in a rugged, swim-proof design.",
			Features: []string{
				"Multi-day battery with solar assist",
				"Advanced workout and sleep insights",
				"Gorilla Glass 3 scratch-resistant lens",
			},
			Image: "https://images.unsplash.com/photo-1516726817505-f5ed825624d8?auto=format&fit=crop&w=600&q=80",
		},
		{
			ID:          "velocity-tights",
			Name:        "Velocity Training Tights",
			Category:    models.CategoryApparel,
			Price:       7200,
			Rating:      4.2,
			Badge:       "Staff pick",
			Description: "High-stretch fabric with zoned compression to stabilize muscles and wick moisture in high intensity sessions.",
			Features: []string{
				"Four-way stretch with sculpted seams",
				"Quick-drying microfiber blend",
				"Stash pocket for essentials",
			},
			Image: "https://images.unsplash.com/photo-1603788739712-0e4af1f4b7fa?auto=format&fit=crop&w=600&q=80",
		},
	}
}
