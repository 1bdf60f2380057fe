package session

import (
	"context"
	"errors"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/checkout"
	"storefront-service/internal/models"
)

// ErrNotFound is returned by a Store when no snapshot exists for an id
var ErrNotFound = errors.New("session not found")

// Session owns the cart and checkout flow of one visitor
type Session struct {
	ID        string
	Cart      *cart.Cart
	Checkout  *checkout.Flow
	UpdatedAt time.Time
}

// New creates an empty session
func New(id string) *Session {
	return &Session{
		ID:       id,
		Cart:     cart.New(),
		Checkout: checkout.NewFlow(),
	}
}

// Snapshot is the serialisable form of a session
type Snapshot struct {
	Items     []SnapshotItem `json:"items"`
	Order     *models.Order  `json:"order,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SnapshotItem references a catalog product by id
type SnapshotItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Store persists session snapshots for the lifetime of a session
type Store interface {
	Load(ctx context.Context, id string) (*Snapshot, error)
	Save(ctx context.Context, id string, snap *Snapshot) error
	Delete(ctx context.Context, id string) error
}

// Snapshot captures the session state
func (s *Session) Snapshot() *Snapshot {
	items := s.Cart.Items()
	snap := &Snapshot{
		Items:     make([]SnapshotItem, 0, len(items)),
		UpdatedAt: s.UpdatedAt,
	}
	for _, item := range items {
		snap.Items = append(snap.Items, SnapshotItem{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
		})
	}
	if order, ok := s.Checkout.Order(); ok {
		snap.Order = &order
	}
	return snap
}

// Rehydrate rebuilds a session from a snapshot, resolving products through
// the catalog. Ids no longer in the catalog are dropped and returned.
func Rehydrate(id string, snap *Snapshot, cat *catalog.Catalog) (*Session, []string) {
	s := New(id)
	s.UpdatedAt = snap.UpdatedAt

	var dropped []string
	for _, item := range snap.Items {
		product, ok := cat.FindByID(item.ProductID)
		if !ok {
			dropped = append(dropped, item.ProductID)
			continue
		}
		s.Cart.Add(product, item.Quantity)
	}

	if snap.Order != nil {
		s.Checkout.Restore(*snap.Order)
	}

	return s, dropped
}
