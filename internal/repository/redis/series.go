package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"tickerpulse/internal/domain/series"
	"tickerpulse/pkg/errors"
)

// SeriesRepository implements series.Repository using Redis
type SeriesRepository struct {
	client *redis.Client
}

// NewSeriesRepository creates a new daily aggregate series repository
func NewSeriesRepository(client *redis.Client) *SeriesRepository {
	return &SeriesRepository{
		client: client,
	}
}

// Load retrieves the aggregate series for a symbol, or a fresh empty one
func (r *SeriesRepository) Load(ctx context.Context, symbol string) (*series.Series, error) {
	key := seriesKey(symbol)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return series.NewSeries(symbol), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get series from redis: symbol=%s", symbol)
	}

	var s series.Series
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal series: symbol=%s", symbol)
	}
	if s.Symbol == "" {
		return series.NewSeries(symbol), nil
	}

	return &s, nil
}

// Save overwrites the aggregate series for a symbol
func (r *SeriesRepository) Save(ctx context.Context, s *series.Series) error {
	key := seriesKey(s.Symbol)

	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal series: symbol=%s", s.Symbol)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to save series to redis: symbol=%s", s.Symbol)
	}

	return nil
}
