package cart

import (
	"storefront-service/internal/models"
)

// Quantity bounds for a single line item
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// NormalizeQuantity clamps a requested quantity into [MinQuantity, MaxQuantity].
// Every mutation goes through it.
func NormalizeQuantity(quantity int) int {
	if quantity < MinQuantity {
		return MinQuantity
	}
	if quantity > MaxQuantity {
		return MaxQuantity
	}
	return quantity
}

// Cart holds the line items of one session, at most one per product id,
// in insertion order. A Cart is not safe for concurrent use.
type Cart struct {
	items []models.LineItem
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// Add adds quantity units of a product. An existing line is increased and the
// combined quantity saturates at MaxQuantity. It reports whether the request
// was saturated.
func (c *Cart) Add(product models.Product, quantity int) (saturated bool) {
	if quantity < MinQuantity {
		quantity = MinQuantity
	}

	if i := c.indexOf(product.ID); i >= 0 {
		combined := c.items[i].Quantity + quantity
		c.items[i].Quantity = NormalizeQuantity(combined)
		return combined > MaxQuantity
	}

	c.items = append(c.items, models.LineItem{
		Product:  product,
		Quantity: NormalizeQuantity(quantity),
	})
	return quantity > MaxQuantity
}

// UpdateQuantity sets the quantity of an existing line, clamped. Values below
// the minimum are raised, not treated as removal. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.items[i].Quantity = NormalizeQuantity(quantity)
	return true
}

// Remove deletes the line for productID. Unknown ids are ignored.
func (c *Cart) Remove(productID string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the line items in insertion order
func (c *Cart) Items() []models.LineItem {
	out := make([]models.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the line item for productID
func (c *Cart) Get(productID string) (models.LineItem, bool) {
	i := c.indexOf(productID)
	if i < 0 {
		return models.LineItem{}, false
	}
	return c.items[i], true
}

// Len returns the number of distinct line items
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no line items
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// ItemCount returns the sum of quantities
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the sum of price x quantity over all lines
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Total()
	}
	return total
}

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
