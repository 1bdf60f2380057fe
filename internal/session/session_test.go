package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/checkout"
	"storefront-service/internal/redisclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain runs tests and checks for goroutine leaks.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.DefaultProducts())
	require.NoError(t, err)
	return c
}

func newMemoryStore(t *testing.T, clock *fakeClock) *MemoryStore {
	t.Helper()
	s := NewMemoryStore(30*time.Minute, time.Hour, WithClock(clock.Now))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t, &fakeClock{now: time.Now()})

	_, err := s.Load(ctx, "sid")
	assert.ErrorIs(t, err, ErrNotFound)

	snap := &Snapshot{Items: []SnapshotItem{{ProductID: "tempo-watch", Quantity: 2}}}
	require.NoError(t, s.Save(ctx, "sid", snap))

	loaded, err := s.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, snap.Items, loaded.Items)

	require.NoError(t, s.Delete(ctx, "sid"))
	_, err = s.Load(ctx, "sid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	s := newMemoryStore(t, clock)

	require.NoError(t, s.Save(ctx, "old", &Snapshot{}))
	clock.Advance(20 * time.Minute)
	require.NoError(t, s.Save(ctx, "fresh", &Snapshot{}))
	clock.Advance(15 * time.Minute)

	_, err := s.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Load(ctx, "fresh")
	assert.NoError(t, err)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreJanitorStops(t *testing.T) {
	s := NewMemoryStore(time.Minute, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestRehydrateDropsStaleProducts(t *testing.T) {
	cat := testCatalog(t)
	snap := &Snapshot{Items: []SnapshotItem{
		{ProductID: "lumen-hoodie", Quantity: 3},
		{ProductID: "retired-cap", Quantity: 1},
		{ProductID: "tempo-watch", Quantity: 1},
	}}

	s, dropped := Rehydrate("sid", snap, cat)

	assert.Equal(t, []string{"retired-cap"}, dropped)
	require.Equal(t, 2, s.Cart.Len())
	items := s.Cart.Items()
	assert.Equal(t, "lumen-hoodie", items[0].Product.ID)
	assert.Equal(t, "Lumen Thermal Hoodie", items[0].Product.Name)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, checkout.StateReviewing, s.Checkout.State(s.Cart))
}

func TestSnapshotKeepsPlacedOrder(t *testing.T) {
	cat := testCatalog(t)
	s := New("sid")
	p, _ := cat.FindByID("orbit-backpack")
	s.Cart.Add(p, 2)
	_, err := s.Checkout.PlaceOrder(s.Cart, "order-1", time.Now())
	require.NoError(t, err)

	restored, dropped := Rehydrate("sid", s.Snapshot(), cat)

	assert.Empty(t, dropped)
	assert.True(t, restored.Cart.IsEmpty())
	assert.Equal(t, checkout.StatePlaced, restored.Checkout.State(restored.Cart))
	order, ok := restored.Checkout.Order()
	require.True(t, ok)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, int64(23600), order.Subtotal)
}

func TestManagerUpdatePersists(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(t)
	m := NewManager(newMemoryStore(t, &fakeClock{now: time.Now()}), cat)
	p, _ := cat.FindByID("pulse-runner")

	_, err := m.Update(ctx, "sid", func(s *Session) error {
		s.Cart.Add(p, 2)
		return nil
	})
	require.NoError(t, err)

	s, err := m.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Cart.ItemCount())
	assert.Equal(t, int64(25800), s.Cart.Subtotal())

	other, err := m.Get(ctx, "other")
	require.NoError(t, err)
	assert.True(t, other.Cart.IsEmpty())
}

func TestManagerUpdateErrorDoesNotSave(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(t)
	m := NewManager(newMemoryStore(t, &fakeClock{now: time.Now()}), cat)
	p, _ := cat.FindByID("pulse-runner")
	boom := errors.New("boom")

	_, err := m.Update(ctx, "sid", func(s *Session) error {
		s.Cart.Add(p, 1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	s, err := m.Get(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, s.Cart.IsEmpty())
}

func TestManagerSerialisesUpdates(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(t)
	m := NewManager(newMemoryStore(t, &fakeClock{now: time.Now()}), cat)
	p, _ := cat.FindByID("velocity-tights")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Update(ctx, "sid", func(s *Session) error {
				s.Cart.Add(p, 1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := m.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 20, s.Cart.ItemCount())
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Skip("Integration test - requires Redis")

	client, err := redisclient.NewClient("localhost:6379", "", 0)
	require.NoError(t, err)
	defer client.Close()

	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	snap := &Snapshot{Items: []SnapshotItem{{ProductID: "tempo-watch", Quantity: 3}}}
	require.NoError(t, store.Save(ctx, "redis-sid", snap))

	loaded, err := store.Load(ctx, "redis-sid")
	require.NoError(t, err)
	assert.Equal(t, snap.Items, loaded.Items)

	require.NoError(t, store.Delete(ctx, "redis-sid"))
	_, err = store.Load(ctx, "redis-sid")
	assert.ErrorIs(t, err, ErrNotFound)
}
