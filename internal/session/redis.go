package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/redisclient"
)

// RedisStore keeps snapshots in Redis under session:<id> with an idle TTL
type RedisStore struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redisclient.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Load returns the snapshot for id
func (s *RedisStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	var snap Snapshot
	err := s.client.GetJSON(ctx, redisKey(id), &snap)
	if errors.Is(err, redisclient.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return &snap, nil
}

// Save stores the snapshot and refreshes its TTL
func (s *RedisStore) Save(ctx context.Context, id string, snap *Snapshot) error {
	if err := s.client.SetJSON(ctx, redisKey(id), snap, s.ttl); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// Delete removes the snapshot for id
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, redisKey(id))
}
