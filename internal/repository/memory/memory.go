// Package memory provides in-memory repository implementations used by
// engine tests and local experiments. They honor the same contracts as the
// redis-backed ones, including ErrNotFound semantics and create-if-absent
// lock creation.
package memory

import (
	"context"
	"sync"

	"tickerpulse/internal/domain/dedupe"
	"tickerpulse/internal/domain/series"
	"tickerpulse/internal/domain/stream"
	"tickerpulse/pkg/errors"
)

// Store holds all per-concern repositories over shared in-process maps
type Store struct {
	mu     sync.Mutex
	days   map[string][]stream.Message // symbol|date
	states map[string]stream.SymbolState
	series map[string]series.Series
	hashes map[string]dedupe.HashRecord
	locks  map[string]stream.Lock
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		days:   make(map[string][]stream.Message),
		states: make(map[string]stream.SymbolState),
		series: make(map[string]series.Series),
		hashes: make(map[string]dedupe.HashRecord),
		locks:  make(map[string]stream.Lock),
	}
}

func dayKey(symbol, date string) string {
	return symbol + "|" + date
}

// Messages returns the stream.MessageRepository view
func (s *Store) Messages() stream.MessageRepository { return (*messageRepo)(s) }

// States returns the stream.StateRepository view
func (s *Store) States() stream.StateRepository { return (*stateRepo)(s) }

// Locks returns the stream.LockRepository view
func (s *Store) Locks() stream.LockRepository { return (*lockRepo)(s) }

// Series returns the series.Repository view
func (s *Store) Series() series.Repository { return (*seriesRepo)(s) }

// Hashes returns the dedupe.Repository view
func (s *Store) Hashes() dedupe.Repository { return (*hashRepo)(s) }

type messageRepo Store

func (r *messageRepo) LoadDay(ctx context.Context, symbol, date string) ([]stream.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.days[dayKey(symbol, date)]
	out := make([]stream.Message, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *messageRepo) SaveDay(ctx context.Context, symbol, date string, msgs []stream.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]stream.Message, len(msgs))
	copy(stored, msgs)
	r.days[dayKey(symbol, date)] = stored
	return nil
}

type stateRepo Store

func (r *stateRepo) Get(ctx context.Context, symbol string) (*stream.SymbolState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[symbol]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "symbol state not found: symbol=%s", symbol)
	}
	return &state, nil
}

func (r *stateRepo) Save(ctx context.Context, state *stream.SymbolState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state.Symbol] = *state
	return nil
}

type lockRepo Store

func (r *lockRepo) Get(ctx context.Context, symbol string) (*stream.Lock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[symbol]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "lock not found: symbol=%s", symbol)
	}
	return &lock, nil
}

func (r *lockRepo) Create(ctx context.Context, lock *stream.Lock) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, held := r.locks[lock.Symbol]; held {
		return false, nil
	}
	r.locks[lock.Symbol] = *lock
	return true, nil
}

func (r *lockRepo) Delete(ctx context.Context, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, symbol)
	return nil
}

type seriesRepo Store

func (r *seriesRepo) Load(ctx context.Context, symbol string) (*series.Series, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.series[symbol]
	if !ok {
		return series.NewSeries(symbol), nil
	}
	copied := stored
	copied.Days = make(map[string]*series.DayAggregate, len(stored.Days))
	for k, v := range stored.Days {
		day := *v
		copied.Days[k] = &day
	}
	return &copied, nil
}

func (r *seriesRepo) Save(ctx context.Context, s *series.Series) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	copied.Days = make(map[string]*series.DayAggregate, len(s.Days))
	for k, v := range s.Days {
		day := *v
		copied.Days[k] = &day
	}
	r.series[s.Symbol] = copied
	return nil
}

type hashRepo Store

func (r *hashRepo) Get(ctx context.Context, hash string) (*dedupe.HashRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.hashes[hash]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "hash record not found: hash=%s", hash)
	}
	copied := stored
	copied.Symbols = make(map[string]int, len(stored.Symbols))
	for k, v := range stored.Symbols {
		copied.Symbols[k] = v
	}
	return &copied, nil
}

func (r *hashRepo) Save(ctx context.Context, record *dedupe.HashRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	copied.Symbols = make(map[string]int, len(record.Symbols))
	for k, v := range record.Symbols {
		copied.Symbols[k] = v
	}
	r.hashes[record.Hash] = copied
	return nil
}
