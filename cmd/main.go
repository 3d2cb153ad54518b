package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tickerpulse/internal/adapters/config"
	"tickerpulse/internal/adapters/errors/noop"
	"tickerpulse/internal/adapters/errors/sentry"
	"tickerpulse/internal/adapters/stocktwits"
	"tickerpulse/internal/domain/ticker"
	"tickerpulse/internal/metrics"
	redisrepo "tickerpulse/internal/repository/redis"
	"tickerpulse/internal/services/ingest"
	"tickerpulse/internal/services/sentiment"
	seriessvc "tickerpulse/internal/services/series"
	"tickerpulse/internal/services/spam"
	"tickerpulse/internal/workers"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := redisrepo.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer client.Close()

	registry := ticker.NewDefaultRegistry(cfg.Tickers.Symbols)
	source := stocktwits.NewClient(cfg.Provider)

	aggregates := seriessvc.NewService(
		redisrepo.NewSeriesRepository(client),
		cfg.Ingest.SpamThreshold,
		cfg.Ingest.DayRetention,
	)
	ledger := spam.NewLedger(redisrepo.NewHashRepository(client), cfg.Ingest.DuplicateWindow)
	normalizer := ingest.NewNormalizer(
		sentiment.NewScorer(sentiment.DefaultLexicon()),
		spam.NewDetector(cfg.Ingest.DuplicateSymbolsMin),
	)
	locks := ingest.NewLockManager(redisrepo.NewLockRepository(client), cfg.Ingest.LockStaleAfter)

	service := ingest.NewService(
		cfg.Ingest,
		registry,
		source,
		redisrepo.NewMessageRepository(client),
		redisrepo.NewStateRepository(client),
		aggregates,
		ledger,
		normalizer,
		locks,
	)

	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(workers.NewSyncWorker(
		service,
		registry.Symbols(),
		cfg.Workers.SyncInterval,
		cfg.Workers.SyncEnabled,
	))

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.ListenAddr); err != nil {
				log.Errorf("Metrics server stopped: %v", err)
			}
		}()
	}

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Infow("System initialized", "symbols", registry.Symbols())

	waitForShutdown(cancel, scheduler, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

func waitForShutdown(cancel context.CancelFunc, scheduler *workers.Scheduler, tracker errors.Tracker, log *logger.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Infof("Received signal %s, shutting down", sig)

	cancel()
	if err := scheduler.Stop(); err != nil {
		log.Warnf("Scheduler shutdown: %v", err)
	}
	_ = tracker.Flush(context.Background())

	log.Info("Shutdown complete")
}
