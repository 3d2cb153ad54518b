package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"tickerpulse/internal/domain/stream"
	"tickerpulse/pkg/errors"
)

// LockRepository implements stream.LockRepository using Redis
type LockRepository struct {
	client *redis.Client
}

// NewLockRepository creates a new sync lock repository
func NewLockRepository(client *redis.Client) *LockRepository {
	return &LockRepository{
		client: client,
	}
}

// Get retrieves the lock for a symbol, errors.ErrNotFound when none is held
func (r *LockRepository) Get(ctx context.Context, symbol string) (*stream.Lock, error) {
	key := lockKey(symbol)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "lock not found: symbol=%s", symbol)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get lock from redis: symbol=%s", symbol)
	}

	var lock stream.Lock
	if err := json.Unmarshal([]byte(data), &lock); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal lock: symbol=%s", symbol)
	}

	return &lock, nil
}

// Create stores the lock only if absent (SETNX); false means contention
func (r *LockRepository) Create(ctx context.Context, lock *stream.Lock) (bool, error) {
	key := lockKey(lock.Symbol)

	data, err := json.Marshal(lock)
	if err != nil {
		return false, errors.Wrapf(err, "failed to marshal lock: symbol=%s", lock.Symbol)
	}

	created, err := r.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return false, errors.Wrapf(err, "failed to create lock in redis: symbol=%s", lock.Symbol)
	}

	return created, nil
}

// Delete removes the lock
func (r *LockRepository) Delete(ctx context.Context, symbol string) error {
	key := lockKey(symbol)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete lock from redis: symbol=%s", symbol)
	}

	return nil
}
