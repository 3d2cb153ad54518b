package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tickerpulse/internal/domain/stream"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

// LockManager hands out the advisory per-symbol sync lease. Acquisition is
// create-if-absent with an owner token; a lock older than staleAfter is
// treated as abandoned and taken over. Not a linearizable mutex: two runs
// racing within the same instant can both pass the staleness check, which
// is accepted because ingestion is idempotent by id.
type LockManager struct {
	locks      stream.LockRepository
	staleAfter time.Duration
	log        *logger.Logger
	now        func() time.Time
}

// NewLockManager creates a lock manager with the given staleness window
func NewLockManager(locks stream.LockRepository, staleAfter time.Duration) *LockManager {
	return &LockManager{
		locks:      locks,
		staleAfter: staleAfter,
		log:        logger.Get().With("component", "sync_lock"),
		now:        time.Now,
	}
}

// Acquire takes the lease for a symbol, returning the owner token needed to
// release it. A fresh lock held by someone else yields ErrLockHeld; the
// caller must abort, not retry-block.
func (m *LockManager) Acquire(ctx context.Context, symbol string) (string, error) {
	existing, err := m.locks.Get(ctx, symbol)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return "", errors.Wrapf(err, "failed to read lock: symbol=%s", symbol)
	}

	if existing != nil {
		age := m.now().Sub(existing.AcquiredAt)
		if age < m.staleAfter {
			return "", errors.Wrapf(errors.ErrLockHeld, "symbol=%s age=%s", symbol, age)
		}
		// stale lock from a crashed run; self-heals here
		m.log.Warnw("Taking over stale sync lock", "symbol", symbol, "age", age)
		if err := m.locks.Delete(ctx, symbol); err != nil {
			m.log.Warnw("Failed to delete stale lock", "symbol", symbol, "error", err)
		}
	}

	lock := &stream.Lock{
		Symbol:     symbol,
		Owner:      uuid.NewString(),
		AcquiredAt: m.now(),
	}

	created, err := m.locks.Create(ctx, lock)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create lock: symbol=%s", symbol)
	}
	if !created {
		return "", errors.Wrapf(errors.ErrLockHeld, "symbol=%s", symbol)
	}

	return lock.Owner, nil
}

// Release drops the lease if we still own it. Best effort: errors are
// swallowed because an orphaned lock self-heals after the staleness window.
func (m *LockManager) Release(ctx context.Context, symbol, owner string) {
	existing, err := m.locks.Get(ctx, symbol)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			m.log.Warnw("Failed to read lock on release", "symbol", symbol, "error", err)
		}
		return
	}
	if existing.Owner != owner {
		m.log.Warnw("Not releasing lock owned by another run", "symbol", symbol)
		return
	}
	if err := m.locks.Delete(ctx, symbol); err != nil {
		m.log.Warnw("Failed to release lock", "symbol", symbol, "error", err)
	}
}
