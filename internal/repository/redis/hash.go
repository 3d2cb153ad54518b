package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"tickerpulse/internal/domain/dedupe"
	"tickerpulse/pkg/errors"
)

// HashRepository implements dedupe.Repository using Redis
type HashRepository struct {
	client *redis.Client
}

// NewHashRepository creates a new duplicate hash ledger repository
func NewHashRepository(client *redis.Client) *HashRepository {
	return &HashRepository{
		client: client,
	}
}

// Get retrieves the hash record, errors.ErrNotFound when never seen
func (r *HashRepository) Get(ctx context.Context, hash string) (*dedupe.HashRecord, error) {
	key := hashKey(hash)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "hash record not found: hash=%s", hash)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get hash record from redis: hash=%s", hash)
	}

	var record dedupe.HashRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal hash record: hash=%s", hash)
	}

	return &record, nil
}

// Save stores the hash record
func (r *HashRepository) Save(ctx context.Context, record *dedupe.HashRecord) error {
	key := hashKey(record.Hash)

	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal hash record: hash=%s", record.Hash)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to save hash record to redis: hash=%s", record.Hash)
	}

	return nil
}
