package workers

import (
	"context"
	"time"

	"tickerpulse/internal/metrics"
	"tickerpulse/internal/services/ingest"
	"tickerpulse/pkg/errors"
)

// SyncWorker runs the incremental sync for every tracked symbol each
// interval. One symbol's failure never aborts the rest of the batch; each
// outcome is logged and counted on its own.
type SyncWorker struct {
	*BaseWorker
	service *ingest.Service
	symbols []string
}

// NewSyncWorker creates the stream sync worker
func NewSyncWorker(service *ingest.Service, symbols []string, interval time.Duration, enabled bool) *SyncWorker {
	return &SyncWorker{
		BaseWorker: NewBaseWorker("stream_sync", interval, enabled),
		service:    service,
		symbols:    symbols,
	}
}

// Run executes one batch of per-symbol syncs
func (w *SyncWorker) Run(ctx context.Context) error {
	synced := 0
	failed := 0

	for _, symbol := range w.symbols {
		result, err := w.service.SyncSymbol(ctx, symbol)
		if err != nil {
			if errors.Is(err, errors.ErrLockHeld) {
				// another run is active; skip, never queue behind it
				w.Log().Debugw("Sync already running", "symbol", symbol)
				metrics.SyncRuns.WithLabelValues(symbol, "locked").Inc()
				continue
			}
			failed++
			metrics.SyncRuns.WithLabelValues(symbol, "error").Inc()
			w.Log().Errorw("Sync failed", "symbol", symbol, "error", err)
			continue
		}

		synced++
		metrics.SyncRuns.WithLabelValues(symbol, "success").Inc()
		metrics.SyncPagesFetched.WithLabelValues(symbol).Add(float64(result.PagesUsed))
		metrics.MessagesStored.WithLabelValues(symbol, "clean").Add(float64(result.StoredNewClean))
		metrics.MessagesStored.WithLabelValues(symbol, "spam").Add(float64(result.StoredNew - result.StoredNewClean))
	}

	w.Log().Infow("Sync batch complete",
		"symbols", len(w.symbols),
		"synced", synced,
		"failed", failed,
	)

	return nil
}
