package stream

import "context"

// MessageRepository stores day buckets of canonical messages, keyed by
// (symbol, UTC date)
type MessageRepository interface {
	// LoadDay returns the stored bucket for the day, empty when absent
	LoadDay(ctx context.Context, symbol, date string) ([]Message, error)

	// SaveDay overwrites the day bucket
	SaveDay(ctx context.Context, symbol, date string, msgs []Message) error
}

// StateRepository stores the per-symbol sync cursor record
type StateRepository interface {
	// Get returns errors.ErrNotFound before the first successful sync
	Get(ctx context.Context, symbol string) (*SymbolState, error)

	Save(ctx context.Context, state *SymbolState) error
}

// LockRepository stores the advisory per-symbol sync lease
type LockRepository interface {
	// Get returns errors.ErrNotFound when no lock is held
	Get(ctx context.Context, symbol string) (*Lock, error)

	// Create stores the lock only if absent; returns false when a lock
	// already exists
	Create(ctx context.Context, lock *Lock) (bool, error)

	// Delete removes the lock
	Delete(ctx context.Context, symbol string) error
}

// Source is the paginated message provider consumed by the engines
type Source interface {
	// FetchPage returns messages strictly older than maxID (all newest
	// messages when maxID is 0), newest first. Exhaustion yields an empty
	// page, not an error.
	FetchPage(ctx context.Context, symbol string, maxID int64) (*Page, error)

	// ExtractWatchers returns the watcher count for the symbol when the
	// provider exposes one; nil is expected and non-fatal.
	ExtractWatchers(symbol string, msgs []RawMessage) *int
}
