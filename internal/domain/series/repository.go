package series

import "context"

// Repository stores the per-symbol daily aggregate series
type Repository interface {
	// Load returns the stored series, or a fresh empty one when absent
	Load(ctx context.Context, symbol string) (*Series, error)

	// Save overwrites the whole per-symbol series
	Save(ctx context.Context, s *Series) error
}
