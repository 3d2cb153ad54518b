package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerpulse/internal/adapters/config"
	"tickerpulse/internal/domain/stream"
	"tickerpulse/internal/domain/ticker"
	"tickerpulse/internal/repository/memory"
	"tickerpulse/internal/services/ingest"
	"tickerpulse/internal/services/sentiment"
	seriessvc "tickerpulse/internal/services/series"
	"tickerpulse/internal/services/spam"
	"tickerpulse/pkg/errors"
)

// stubSource serves one small page per symbol and can be told to fail for
// specific symbols
type stubSource struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls map[string]int
}

func newStubSource() *stubSource {
	return &stubSource{fail: make(map[string]bool), calls: make(map[string]int)}
}

func (s *stubSource) FetchPage(_ context.Context, symbol string, _ int64) (*stream.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[symbol]++
	if s.fail[symbol] {
		return nil, errors.Wrapf(errors.ErrFetchFailed, "symbol=%s", symbol)
	}
	return &stream.Page{Messages: []stream.RawMessage{{
		ID:        int64(s.calls[symbol]),
		Body:      "routine chatter about " + symbol,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		User:      stream.RawUser{Username: "poster", Followers: 200},
	}}}, nil
}

func (s *stubSource) ExtractWatchers(string, []stream.RawMessage) *int { return nil }

func newSyncWorkerFixture(src stream.Source, store *memory.Store) *SyncWorker {
	cfg := config.IngestConfig{
		SpamThreshold:       0.75,
		DuplicateWindow:     2 * time.Hour,
		DuplicateSymbolsMin: 3,
		SyncMaxPages:        10,
		BackfillMaxPages:    500,
		DayRetention:        420,
		DayMessageCap:       2500,
		LockStaleAfter:      10 * time.Minute,
	}
	registry := ticker.NewDefaultRegistry([]string{"RCAT", "UMAC", "GRRR"})
	service := ingest.NewService(
		cfg,
		registry,
		src,
		store.Messages(),
		store.States(),
		seriessvc.NewService(store.Series(), cfg.SpamThreshold, cfg.DayRetention),
		spam.NewLedger(store.Hashes(), cfg.DuplicateWindow),
		ingest.NewNormalizer(sentiment.NewScorer(sentiment.DefaultLexicon()), spam.NewDetector(cfg.DuplicateSymbolsMin)),
		ingest.NewLockManager(store.Locks(), cfg.LockStaleAfter),
	)
	return NewSyncWorker(service, registry.Symbols(), 5*time.Minute, true)
}

func TestSyncWorker_SyncsEverySymbol(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	src := newStubSource()
	w := newSyncWorkerFixture(src, store)

	require.NoError(t, w.Run(ctx))

	for _, symbol := range []string{"RCAT", "UMAC", "GRRR"} {
		state, err := store.States().Get(ctx, symbol)
		require.NoError(t, err, symbol)
		assert.NotNil(t, state.LastSeenID, symbol)
	}
}

func TestSyncWorker_OneSymbolFailureDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	src := newStubSource()
	src.fail["UMAC"] = true
	w := newSyncWorkerFixture(src, store)

	require.NoError(t, w.Run(ctx))

	_, err := store.States().Get(ctx, "RCAT")
	require.NoError(t, err)
	_, err = store.States().Get(ctx, "GRRR")
	require.NoError(t, err)

	_, err = store.States().Get(ctx, "UMAC")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSyncWorker_SkipsLockedSymbols(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	created, err := store.Locks().Create(ctx, &stream.Lock{
		Symbol:     "GRRR",
		Owner:      "manual-backfill",
		AcquiredAt: time.Now(),
	})
	require.NoError(t, err)
	require.True(t, created)

	src := newStubSource()
	w := newSyncWorkerFixture(src, store)

	require.NoError(t, w.Run(ctx))

	// locked symbol skipped without touching its state or its lock
	_, err = store.States().Get(ctx, "GRRR")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	lock, err := store.Locks().Get(ctx, "GRRR")
	require.NoError(t, err)
	assert.Equal(t, "manual-backfill", lock.Owner)

	_, err = store.States().Get(ctx, "RCAT")
	require.NoError(t, err)
}

func TestSyncWorker_Metadata(t *testing.T) {
	w := newSyncWorkerFixture(newStubSource(), memory.NewStore())

	assert.Equal(t, "stream_sync", w.Name())
	assert.Equal(t, 5*time.Minute, w.Interval())
	assert.True(t, w.Enabled())
}
