package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"tickerpulse/pkg/errors"
)

type Config struct {
	App           AppConfig
	Redis         RedisConfig
	Provider      ProviderConfig
	Ingest        IngestConfig
	Tickers       TickersConfig
	Workers       WorkerConfig
	Metrics       MetricsConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"tickerpulse"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ProviderConfig configures the StockTwits message source client
type ProviderConfig struct {
	BaseURL        string        `envconfig:"STOCKTWITS_BASE_URL" default:"https://api.stocktwits.com/api/2"`
	RequestTimeout time.Duration `envconfig:"STOCKTWITS_REQUEST_TIMEOUT" default:"30s"`
	RequestsPerSec float64       `envconfig:"STOCKTWITS_REQUESTS_PER_SEC" default:"2"`
	UserAgent      string        `envconfig:"STOCKTWITS_USER_AGENT" default:"tickerpulse/1.0"`
}

// IngestConfig contains the pipeline tunables
type IngestConfig struct {
	SpamThreshold       float64       `envconfig:"SPAM_THRESHOLD" default:"0.75"`
	DuplicateWindow     time.Duration `envconfig:"DUPLICATE_WINDOW" default:"120m"`
	DuplicateSymbolsMin int           `envconfig:"DUPLICATE_SYMBOL_THRESHOLD" default:"3"`
	SyncMaxPages        int           `envconfig:"SYNC_MAX_PAGES" default:"10"`
	BackfillMaxPages    int           `envconfig:"BACKFILL_MAX_PAGES" default:"500"`
	DayRetention        int           `envconfig:"DAY_RETENTION" default:"420"`
	DayMessageCap       int           `envconfig:"DAY_MESSAGE_CAP" default:"2500"`
	LockStaleAfter      time.Duration `envconfig:"LOCK_STALE_AFTER" default:"10m"`
}

type TickersConfig struct {
	Symbols []string `envconfig:"TICKER_SYMBOLS" default:"RCAT,UMAC,GRRR,ACHR,FIG"`
}

// WorkerConfig contains intervals for background workers
type WorkerConfig struct {
	SyncInterval time.Duration `envconfig:"WORKER_SYNC_INTERVAL" default:"5m"`
	SyncEnabled  bool          `envconfig:"WORKER_SYNC_ENABLED" default:"true"`
}

type MetricsConfig struct {
	Enabled    bool   `envconfig:"METRICS_ENABLED" default:"true"`
	ListenAddr string `envconfig:"METRICS_LISTEN_ADDR" default:":9090"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
