package checkout

import (
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"
)

// ErrCartEmpty is returned when an order is placed with nothing in the cart
var ErrCartEmpty = errors.New("checkout: cart is empty")

// State of a checkout flow
type State int

const (
	StateEmpty State = iota
	StateReviewing
	StatePlaced
)

var stateNames = map[State]string{
	StateEmpty:     "empty",
	StateReviewing: "reviewing",
	StatePlaced:    "placed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s State) MarshalText() ([]byte, error) {
	name, ok := stateNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown checkout state: %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown checkout state: %q", text)
}

// Flow tracks one checkout. Once an order is placed the flow stays Placed
// until Reset, regardless of what the cart holds.
type Flow struct {
	order *models.Order
}

// NewFlow creates an open flow
func NewFlow() *Flow {
	return &Flow{}
}

// State returns the current state for the given cart
func (f *Flow) State(c *cart.Cart) State {
	switch {
	case f.order != nil:
		return StatePlaced
	case c.IsEmpty():
		return StateEmpty
	default:
		return StateReviewing
	}
}

// PlaceOrder moves Reviewing to Placed: it records the cart's line items as
// an order and clears the cart. Placing again returns the recorded order.
func (f *Flow) PlaceOrder(c *cart.Cart, orderID string, at time.Time) (models.Order, error) {
	switch f.State(c) {
	case StatePlaced:
		return *f.order, nil
	case StateEmpty:
		return models.Order{}, ErrCartEmpty
	}

	order := models.Order{
		ID:        orderID,
		Items:     c.Items(),
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
		PlacedAt:  at,
	}

	c.Clear()
	f.order = &order
	return order, nil
}

// Order returns the placed order, if any
func (f *Flow) Order() (models.Order, bool) {
	if f.order == nil {
		return models.Order{}, false
	}
	return *f.order, true
}

// Reset starts a new flow
func (f *Flow) Reset() {
	f.order = nil
}

// Restore marks the flow as placed with a previously recorded order
func (f *Flow) Restore(order models.Order) {
	f.order = &order
}
