package ingest

import (
	"context"
	"sort"
	"time"

	"tickerpulse/internal/domain/stream"
	"tickerpulse/pkg/errors"
)

const (
	backfillMinDays = 1
	backfillMaxDays = 90
)

// BackfillSymbol walks the stream backward until the oldest message in a
// page predates the cutoff, merging through the same normalize → dedupe →
// aggregate pipeline as SyncSymbol. The lastSeenId watermark is owned by the
// sync engine and is never advanced here; backfill only stamps its own
// bookkeeping on the state record.
func (s *Service) BackfillSymbol(ctx context.Context, symbol string, days int) (*stream.BackfillResult, error) {
	tkr, err := s.registry.Require(symbol)
	if err != nil {
		return nil, err
	}
	symbol = tkr.Symbol

	if days < backfillMinDays {
		days = backfillMinDays
	}
	if days > backfillMaxDays {
		days = backfillMaxDays
	}

	owner, err := s.locks.Acquire(ctx, symbol)
	if err != nil {
		return nil, err
	}
	defer s.locks.Release(ctx, symbol, owner)

	cutoff := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	var (
		pageMax       int64
		pages         int
		rawByID       = make(map[int64]stream.RawMessage)
		rawSeen       []stream.RawMessage
		reachedCutoff bool
	)

	for pages < s.cfg.BackfillMaxPages && !reachedCutoff {
		page, err := s.source.FetchPage(ctx, symbol, pageMax)
		if err != nil {
			return nil, errors.Wrapf(err, "backfill aborted mid-pagination: symbol=%s page=%d", symbol, pages+1)
		}
		pages++

		msgs := page.Messages
		if len(msgs) == 0 {
			break
		}

		for _, m := range msgs {
			createdAt := parseTime(m.CreatedAt)
			if createdAt.IsZero() {
				continue
			}
			if createdAt.Before(cutoff) {
				reachedCutoff = true
				break
			}
			rawByID[m.ID] = m
		}

		oldestID := msgs[len(msgs)-1].ID
		if oldestID <= 0 || !page.HasMore {
			break
		}
		pageMax = oldestID - 1
	}

	// oldest first, so day buckets fill in chronological batches
	ids := make([]int64, 0, len(rawByID))
	for id := range rawByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		rawSeen = append(rawSeen, rawByID[id])
	}

	stored, err := s.ingestBatch(ctx, tkr, rawSeen)
	if err != nil {
		return nil, err
	}

	daysWritten := make(map[string]bool)
	for _, m := range stored {
		daysWritten[m.Day()] = true
	}

	watchers := s.source.ExtractWatchers(symbol, rawSeen)
	if watchers != nil {
		if err := s.aggregates.Update(ctx, symbol, nil, watchers); err != nil {
			return nil, err
		}
	}

	state, err := s.states.Get(ctx, symbol)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		state = &stream.SymbolState{Symbol: symbol}
	}

	now := s.now().UTC()
	state.LastSyncAt = &now
	state.LastBackfillAt = &now
	state.LastBackfillDays = days
	if watchers != nil {
		state.LastWatchers = watchers
	}
	if err := s.states.Save(ctx, state); err != nil {
		return nil, errors.Wrapf(err, "failed to commit backfill state: symbol=%s", symbol)
	}

	s.log.Infow("Backfill complete",
		"symbol", symbol,
		"days", days,
		"pages", pages,
		"stored", len(stored),
		"wrote_days", len(daysWritten),
	)

	return &stream.BackfillResult{
		Symbol:      symbol,
		Days:        days,
		Pages:       pages,
		Stored:      len(stored),
		DaysWritten: len(daysWritten),
	}, nil
}
