package spam

import (
	"context"
	"time"

	"tickerpulse/internal/domain/dedupe"
	"tickerpulse/pkg/errors"
)

// Ledger maintains the cross-symbol duplicate hash records. The window
// slides on last-touch time: a record untouched for longer than the window
// is reset rather than deleted.
type Ledger struct {
	repo   dedupe.Repository
	window time.Duration
	now    func() time.Time
}

// NewLedger creates a ledger over the given repository and duplicate window
func NewLedger(repo dedupe.Repository, window time.Duration) *Ledger {
	return &Ledger{
		repo:   repo,
		window: window,
		now:    time.Now,
	}
}

// Touch records that symbol posted the hashed body at createdAt and returns
// the number of distinct symbols that posted it within the window
func (l *Ledger) Touch(ctx context.Context, hash, symbol string, createdAt time.Time) (int, error) {
	cutoff := l.now().Add(-l.window)

	record, err := l.repo.Get(ctx, hash)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return 0, errors.Wrapf(err, "failed to load hash record: hash=%s", hash)
	}

	if record == nil || record.LastSeenAt.Before(cutoff) {
		record = &dedupe.HashRecord{
			Hash:    hash,
			Symbols: make(map[string]int),
		}
	}
	if record.Symbols == nil {
		record.Symbols = make(map[string]int)
	}

	record.Symbols[symbol]++
	record.LastSeenAt = createdAt

	if err := l.repo.Save(ctx, record); err != nil {
		return 0, errors.Wrapf(err, "failed to save hash record: hash=%s", hash)
	}

	return record.DistinctSymbols(), nil
}
