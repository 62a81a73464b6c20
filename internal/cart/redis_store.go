package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// RedisStore implements Store on Redis, so carts survive a process restart
// and can be shared by multiple instances behind a load balancer.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed Store. A zero ttl means keys never expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(userID uuid.UUID) string {
	return cartKeyPrefix + userID.String()
}

func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) (*Ledger, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadCart, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadCart, err)
	}
	return Restore(snap), nil
}

func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, ledger *Ledger) error {
	data, err := json.Marshal(ledger.Snapshot())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSaveCart, err)
	}
	if err := s.client.Set(ctx, cartKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSaveCart, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSaveCart, err)
	}
	return nil
}
