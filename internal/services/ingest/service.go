package ingest

import (
	"context"
	"sort"
	"time"

	"tickerpulse/internal/adapters/config"
	"tickerpulse/internal/domain/stream"
	"tickerpulse/internal/domain/ticker"
	seriessvc "tickerpulse/internal/services/series"
	"tickerpulse/internal/services/spam"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

// Service orchestrates the ingestion pipeline: paginated fetch → normalize →
// dedupe-merge → aggregate → state update. One run per symbol at a time,
// guarded by the advisory lock.
type Service struct {
	cfg        config.IngestConfig
	registry   *ticker.Registry
	source     stream.Source
	messages   stream.MessageRepository
	states     stream.StateRepository
	aggregates *seriessvc.Service
	ledger     *spam.Ledger
	normalizer *Normalizer
	locks      *LockManager
	log        *logger.Logger
	now        func() time.Time
}

// NewService wires the ingestion service
func NewService(
	cfg config.IngestConfig,
	registry *ticker.Registry,
	source stream.Source,
	messages stream.MessageRepository,
	states stream.StateRepository,
	aggregates *seriessvc.Service,
	ledger *spam.Ledger,
	normalizer *Normalizer,
	locks *LockManager,
) *Service {
	return &Service{
		cfg:        cfg,
		registry:   registry,
		source:     source,
		messages:   messages,
		states:     states,
		aggregates: aggregates,
		ledger:     ledger,
		normalizer: normalizer,
		locks:      locks,
		log:        logger.Get().With("component", "ingest"),
		now:        time.Now,
	}
}

// SyncSymbol runs one incremental sync for a symbol. Pages are requested in
// descending id order until the lastSeenId watermark is found, the page
// ceiling is hit, or the stream is exhausted. Each page is merged and
// aggregated as it arrives, so a fetch failure mid-run loses nothing already
// committed; only the final state update is skipped, which the next run
// safely re-discovers.
func (s *Service) SyncSymbol(ctx context.Context, symbol string) (*stream.SyncResult, error) {
	tkr, err := s.registry.Require(symbol)
	if err != nil {
		return nil, err
	}
	symbol = tkr.Symbol
	log := s.log.With("symbol", symbol)

	owner, err := s.locks.Acquire(ctx, symbol)
	if err != nil {
		return nil, err
	}
	defer s.locks.Release(ctx, symbol, owner)

	state, err := s.states.Get(ctx, symbol)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		state = &stream.SymbolState{Symbol: symbol}
	}

	var (
		pageMax     int64
		pages       int
		fetched     int
		newlyStored []stream.Message
		rawSeen     []stream.RawMessage
	)

	for pages < s.cfg.SyncMaxPages {
		page, err := s.source.FetchPage(ctx, symbol, pageMax)
		if err != nil {
			return nil, errors.Wrapf(err, "sync aborted mid-pagination: symbol=%s page=%d", symbol, pages+1)
		}
		pages++

		msgs := page.Messages
		if len(msgs) == 0 {
			break
		}

		// newest first: msgs[0] is the newest, the last entry the oldest
		newestID := msgs[0].ID
		oldestID := msgs[len(msgs)-1].ID

		fresh := msgs
		foundWatermark := false
		if state.LastSeenID != nil {
			fresh = nil
			for _, m := range msgs {
				if m.ID > *state.LastSeenID {
					fresh = append(fresh, m)
				} else {
					foundWatermark = true
				}
			}
		}

		stored, err := s.ingestBatch(ctx, tkr, fresh)
		if err != nil {
			return nil, err
		}
		fetched += len(fresh)
		newlyStored = append(newlyStored, stored...)
		rawSeen = append(rawSeen, fresh...)

		if state.LastSeenID == nil {
			// first run: a single page establishes the watermark, full
			// history is the backfill engine's job
			break
		}
		if foundWatermark {
			break
		}
		if oldestID <= 0 || newestID <= *state.LastSeenID {
			break
		}
		pageMax = oldestID - 1
	}

	watchers := s.source.ExtractWatchers(symbol, rawSeen)
	if watchers != nil {
		if err := s.aggregates.Update(ctx, symbol, nil, watchers); err != nil {
			return nil, err
		}
	}

	lastSeen := state.LastSeenID
	for _, m := range newlyStored {
		if lastSeen == nil || m.ID > *lastSeen {
			id := m.ID
			lastSeen = &id
		}
	}

	now := s.now().UTC()
	lastWatchers := watchers
	if lastWatchers == nil {
		lastWatchers = state.LastWatchers
	}

	newState := &stream.SymbolState{
		Symbol:           symbol,
		LastSeenID:       lastSeen,
		LastSyncAt:       &now,
		LastWatchers:     lastWatchers,
		LastBackfillAt:   state.LastBackfillAt,
		LastBackfillDays: state.LastBackfillDays,
	}
	if err := s.states.Save(ctx, newState); err != nil {
		return nil, errors.Wrapf(err, "failed to commit sync state: symbol=%s", symbol)
	}

	clean := 0
	for _, m := range newlyStored {
		if m.Spam.Score < s.cfg.SpamThreshold {
			clean++
		}
	}

	log.Infow("Sync complete",
		"fetched", fetched,
		"stored_new", len(newlyStored),
		"stored_new_clean", clean,
		"pages", pages,
	)

	return &stream.SyncResult{
		Symbol:         symbol,
		Fetched:        fetched,
		StoredNew:      len(newlyStored),
		StoredNewClean: clean,
		PagesUsed:      pages,
		LastSeenID:     newState.LastSeenID,
		LastSyncAt:     now,
		Watchers:       newState.LastWatchers,
	}, nil
}

// ingestBatch normalizes raw messages, merges them into their day buckets,
// and feeds the survivors into the aggregates. Returns the messages that
// were actually new.
func (s *Service) ingestBatch(ctx context.Context, tkr ticker.Ticker, raws []stream.RawMessage) ([]stream.Message, error) {
	if len(raws) == 0 {
		return nil, nil
	}

	buckets := make(map[string][]stream.Message)
	var order []string
	for _, raw := range raws {
		msg, err := s.normalizeRaw(ctx, tkr, raw)
		if err != nil {
			return nil, err
		}
		if msg.CreatedAt.IsZero() {
			// no timestamp means no day bucket to live in
			continue
		}
		day := msg.Day()
		if _, seen := buckets[day]; !seen {
			order = append(order, day)
		}
		buckets[day] = append(buckets[day], msg)
	}

	var stored []stream.Message
	for _, day := range order {
		newOnes, err := s.mergeDay(ctx, tkr.Symbol, day, buckets[day])
		if err != nil {
			return nil, err
		}
		if len(newOnes) == 0 {
			continue
		}
		if err := s.aggregates.Update(ctx, tkr.Symbol, newOnes, nil); err != nil {
			return nil, err
		}
		stored = append(stored, newOnes...)
	}

	return stored, nil
}

// normalizeRaw runs the duplicate ledger and the normalizer for one raw
// message
func (s *Service) normalizeRaw(ctx context.Context, tkr ticker.Ticker, raw stream.RawMessage) (stream.Message, error) {
	dupCount := 1
	body := raw.Body
	createdAt := parseTime(raw.CreatedAt)
	if body != "" && !createdAt.IsZero() {
		hash := spam.NormalizedHash(body)
		n, err := s.ledger.Touch(ctx, hash, tkr.Symbol, createdAt)
		if err != nil {
			return stream.Message{}, err
		}
		dupCount = n
	}

	displayName := tkr.DisplayNameFor(raw.User.Username)
	return s.normalizer.Normalize(raw, dupCount, displayName), nil
}

// mergeDay folds a batch into the stored day bucket, id-deduplicated.
// Existing ids are never re-inserted; the bucket is kept to the newest
// DayMessageCap entries by id so a high-volume day cannot grow unbounded.
func (s *Service) mergeDay(ctx context.Context, symbol, date string, batch []stream.Message) ([]stream.Message, error) {
	existing, err := s.messages.LoadDay(ctx, symbol, date)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(existing))
	for _, m := range existing {
		seen[m.ID] = true
	}

	var fresh []stream.Message
	for _, m := range batch {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		fresh = append(fresh, m)
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	merged := append(existing, fresh...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID > merged[j].ID })
	if len(merged) > s.cfg.DayMessageCap {
		merged = merged[:s.cfg.DayMessageCap]
	}

	if err := s.messages.SaveDay(ctx, symbol, date, merged); err != nil {
		return nil, err
	}

	return fresh, nil
}
