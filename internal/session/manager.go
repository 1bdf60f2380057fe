package session

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

const lockStripes = 64

// Manager loads, mutates and saves sessions. Operations on the same session
// id are serialised; different sessions proceed in parallel.
type Manager struct {
	store   Store
	catalog *catalog.Catalog
	logger  *zap.Logger
	now     func() time.Time
	locks   [lockStripes]sync.Mutex
}

// NewManager creates a session manager
func NewManager(store Store, cat *catalog.Catalog) *Manager {
	return &Manager{
		store:   store,
		catalog: cat,
		logger:  util.GetLogger(),
		now:     time.Now,
	}
}

// Get returns the session for id, or a fresh empty one if none is stored
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	mu := m.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	return m.load(ctx, id)
}

// Update applies fn to the session for id and saves the result.
// Nothing is saved if fn returns an error.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	mu := m.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(s); err != nil {
		return s, err
	}

	s.UpdatedAt = m.now()
	if err := m.store.Save(ctx, id, s.Snapshot()); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete discards the session for id
func (m *Manager) Delete(ctx context.Context, id string) error {
	mu := m.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	return m.store.Delete(ctx, id)
}

func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	snap, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return New(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	s, dropped := Rehydrate(id, snap, m.catalog)
	if len(dropped) > 0 {
		m.logger.Warn("Dropped stale products from session",
			zap.String("session_id", id),
			zap.Strings("product_ids", dropped))
	}
	return s, nil
}

func (m *Manager) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &m.locks[h.Sum32()%lockStripes]
}
