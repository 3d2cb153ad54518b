package dedupe

import "context"

// Repository stores duplicate hash records keyed by normalized-body hash
type Repository interface {
	// Get returns errors.ErrNotFound when the hash has never been seen
	Get(ctx context.Context, hash string) (*HashRecord, error)

	Save(ctx context.Context, record *HashRecord) error
}
