package checkout

import (
	"encoding/json"
	"testing"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func populatedCart() *cart.Cart {
	c := cart.New()
	c.Add(models.Product{ID: "a", Price: 10}, 2)
	c.Add(models.Product{ID: "b", Price: 5}, 3)
	return c
}

func TestStates(t *testing.T) {
	f := NewFlow()

	assert.Equal(t, StateEmpty, f.State(cart.New()))
	assert.Equal(t, StateReviewing, f.State(populatedCart()))
}

func TestPlaceOrderClearsCartAndTransitions(t *testing.T) {
	f := NewFlow()
	c := populatedCart()

	order, err := f.PlaceOrder(c, "order-1", placedAt)
	require.NoError(t, err)

	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, 5, order.ItemCount)
	assert.Equal(t, int64(35), order.Subtotal)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, placedAt, order.PlacedAt)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, StatePlaced, f.State(c), "an empty cart after placing must still show the confirmation")

	recorded, ok := f.Order()
	require.True(t, ok)
	assert.Equal(t, order, recorded)
}

func TestPlaceOrderOnEmptyCart(t *testing.T) {
	f := NewFlow()

	_, err := f.PlaceOrder(cart.New(), "order-1", placedAt)
	assert.ErrorIs(t, err, ErrCartEmpty)

	_, ok := f.Order()
	assert.False(t, ok)
}

func TestPlaceOrderTwiceReturnsSameOrder(t *testing.T) {
	f := NewFlow()
	c := populatedCart()

	first, err := f.PlaceOrder(c, "order-1", placedAt)
	require.NoError(t, err)

	c.Add(models.Product{ID: "z", Price: 1}, 1)
	second, err := f.PlaceOrder(c, "order-2", placedAt.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Len(), "cart must not be cleared by a repeated place")
}

func TestResetAndRestore(t *testing.T) {
	f := NewFlow()
	c := populatedCart()
	order, err := f.PlaceOrder(c, "order-1", placedAt)
	require.NoError(t, err)

	f.Reset()
	assert.Equal(t, StateEmpty, f.State(c))

	f.Restore(order)
	assert.Equal(t, StatePlaced, f.State(c))
}

func TestStateText(t *testing.T) {
	data, err := json.Marshal(map[string]State{"state": StatePlaced})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"placed"}`, string(data))

	var s State
	require.NoError(t, s.UnmarshalText([]byte("reviewing")))
	assert.Equal(t, StateReviewing, s)

	assert.Error(t, s.UnmarshalText([]byte("shipped")))
	assert.Equal(t, "State(7)", State(7).String())
}
