package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"tickerpulse/internal/domain/stream"
	"tickerpulse/pkg/errors"
)

// MessageRepository implements stream.MessageRepository using Redis
type MessageRepository struct {
	client *redis.Client
}

// NewMessageRepository creates a new day-bucket message repository
func NewMessageRepository(client *redis.Client) *MessageRepository {
	return &MessageRepository{
		client: client,
	}
}

// LoadDay retrieves the message bucket for (symbol, date), empty when absent
func (r *MessageRepository) LoadDay(ctx context.Context, symbol, date string) ([]stream.Message, error) {
	key := msgsKey(symbol, date)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get day bucket from redis: symbol=%s date=%s", symbol, date)
	}

	var msgs []stream.Message
	if err := json.Unmarshal([]byte(data), &msgs); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal day bucket: symbol=%s date=%s", symbol, date)
	}

	return msgs, nil
}

// SaveDay overwrites the message bucket for (symbol, date)
func (r *MessageRepository) SaveDay(ctx context.Context, symbol, date string, msgs []stream.Message) error {
	key := msgsKey(symbol, date)

	data, err := json.Marshal(msgs)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal day bucket: symbol=%s date=%s", symbol, date)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to save day bucket to redis: symbol=%s date=%s", symbol, date)
	}

	return nil
}
