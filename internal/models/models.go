package models

import "time"

// Product categories
const (
	CategoryFootwear    = "Footwear"
	CategoryApparel     = "Apparel"
	CategoryAccessories = "Accessories"
)

// Product represents a catalog entry. Prices are in cents.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       int64    `json:"price"`
	Rating      float64  `json:"rating"`
	Badge       string   `json:"badge,omitempty"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Image       string   `json:"image"`
}

// LineItem pairs a product with a quantity inside a cart
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Total returns price x quantity
func (li LineItem) Total() int64 {
	return li.Product.Price * int64(li.Quantity)
}

// Order is the receipt of a simulated checkout
type Order struct {
	ID        string     `json:"id"`
	Items     []LineItem `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  int64      `json:"subtotal"`
	PlacedAt  time.Time  `json:"placed_at"`
}
