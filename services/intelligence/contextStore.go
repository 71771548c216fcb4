// File: services/intelligence/contextStore.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"courtconnect/models"

	"github.com/go-redis/redis/v8"
)

const aiContextPrefix = "ai:ctx:"

// ContextStore holds at most one pending booking intent per user.
// Set overwrites, never merges.
type ContextStore interface {
	Get(ctx context.Context, userID string) (*models.PendingContext, error)
	Set(ctx context.Context, userID string, slot models.PendingContext) error
	Clear(ctx context.Context, userID string) error
}

type memoryEntry struct {
	slot models.PendingContext
}

// MemoryContextStore is a process-wide store. A zero ttl keeps entries until
// they are overwritten or cleared; otherwise expiry is checked lazily on Get.
type MemoryContextStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryContextStore builds an in-memory store. A nil now means time.Now.
func NewMemoryContextStore(ttl time.Duration, now func() time.Time) *MemoryContextStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryContextStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (s *MemoryContextStore) Get(_ context.Context, userID string) (*models.PendingContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && s.now().Sub(e.slot.UpdatedAt) >= s.ttl {
		delete(s.entries, userID)
		return nil, nil
	}
	slot := e.slot
	return &slot, nil
}

func (s *MemoryContextStore) Set(_ context.Context, userID string, slot models.PendingContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot.UpdatedAt = s.now()
	s.entries[userID] = memoryEntry{slot: slot}
	return nil
}

func (s *MemoryContextStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
	return nil
}

// Len reports how many users currently hold an entry, expired or not.
func (s *MemoryContextStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RedisContextStore keeps pending context in Redis so several instances share it.
// A zero ttl keeps keys until overwritten or cleared.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisContextStore builds a Redis-backed store. A nil now means time.Now.
func NewRedisContextStore(client *redis.Client, ttl time.Duration, now func() time.Time) *RedisContextStore {
	if now == nil {
		now = time.Now
	}
	return &RedisContextStore{client: client, ttl: ttl, now: now}
}

func (s *RedisContextStore) Get(ctx context.Context, userID string) (*models.PendingContext, error) {
	key := aiContextPrefix + userID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pending context: %w", err)
	}
	var slot models.PendingContext
	if err := json.Unmarshal([]byte(data), &slot); err != nil {
		return nil, fmt.Errorf("decode pending context: %w", err)
	}
	return &slot, nil
}

func (s *RedisContextStore) Set(ctx context.Context, userID string, slot models.PendingContext) error {
	key := aiContextPrefix + userID
	slot.UpdatedAt = s.now()
	b, err := json.Marshal(slot)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, userID string) error {
	key := aiContextPrefix + userID
	return s.client.Del(ctx, key).Err()
}
