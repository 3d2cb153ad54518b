package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"tickerpulse/internal/domain/stream"
	"tickerpulse/pkg/errors"
)

// StateRepository implements stream.StateRepository using Redis
type StateRepository struct {
	client *redis.Client
}

// NewStateRepository creates a new symbol state repository
func NewStateRepository(client *redis.Client) *StateRepository {
	return &StateRepository{
		client: client,
	}
}

// Get retrieves the sync state for a symbol
func (r *StateRepository) Get(ctx context.Context, symbol string) (*stream.SymbolState, error) {
	key := stateKey(symbol)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "symbol state not found: symbol=%s", symbol)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get symbol state from redis: symbol=%s", symbol)
	}

	var state stream.SymbolState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal symbol state: symbol=%s", symbol)
	}

	return &state, nil
}

// Save stores the sync state for a symbol
func (r *StateRepository) Save(ctx context.Context, state *stream.SymbolState) error {
	key := stateKey(state.Symbol)

	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal symbol state: symbol=%s", state.Symbol)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to save symbol state to redis: symbol=%s", state.Symbol)
	}

	return nil
}
