package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// SagaPolicy selects how stock mutation failures after order commit are reported.
type SagaPolicy string

const (
	SagaPolicyBestEffort SagaPolicy = "best-effort"
	SagaPolicyStrict     SagaPolicy = "strict"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	RedisAddress      string
	KafkaBrokers      []string
	OrderEventsTopic  string
	StockWorkers      int
	SagaPolicy        SagaPolicy
	LedgerMaxAttempts int
	StoreTimeout      time.Duration
	StatusCacheTTL    time.Duration
	IdempotencyTTL    time.Duration
	ShutdownTimeout   time.Duration
	LogLevel          string
	LogFile           string
}

const (
	defaultRunAddress        = ":8080"
	defaultOrderEventsTopic  = "order-status-changed"
	defaultStockWorkers      = 4
	defaultLedgerMaxAttempts = 5
	defaultStoreTimeout      = 5 * time.Second
	defaultStatusCacheTTL    = 5 * time.Minute
	defaultIdempotencyTTL    = 24 * time.Hour
	defaultShutdownTimeout   = 10 * time.Second
	defaultLogLevel          = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		RedisAddress:      getString(lookup, "REDIS_ADDRESS", ""),
		OrderEventsTopic:  getString(lookup, "ORDER_EVENTS_TOPIC", defaultOrderEventsTopic),
		StockWorkers:      getInt(lookup, "STOCK_WORKERS", defaultStockWorkers),
		LedgerMaxAttempts: getInt(lookup, "LEDGER_MAX_ATTEMPTS", defaultLedgerMaxAttempts),
		StoreTimeout:      getDuration(lookup, "STORE_TIMEOUT", defaultStoreTimeout),
		StatusCacheTTL:    getDuration(lookup, "STATUS_CACHE_TTL", defaultStatusCacheTTL),
		IdempotencyTTL:    getDuration(lookup, "IDEMPOTENCY_TTL", defaultIdempotencyTTL),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		LogFile:           getString(lookup, "LOG_FILE", ""),
	}

	fs := flag.NewFlagSet("ikanmart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		brokersStr         = getString(lookup, "KAFKA_BROKERS", "")
		policyStr          = getString(lookup, "SAGA_POLICY", string(SagaPolicyBestEffort))
		storeTimeoutStr    = cfg.StoreTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for status cache and idempotency keys")
	fs.StringVar(&brokersStr, "kafka", brokersStr, "Comma separated Kafka brokers for order events")
	fs.StringVar(&cfg.OrderEventsTopic, "events-topic", cfg.OrderEventsTopic, "Kafka topic for order status events")
	fs.IntVar(&cfg.StockWorkers, "stock-workers", cfg.StockWorkers, "Number of concurrent stock mutation workers")
	fs.StringVar(&policyStr, "saga-policy", policyStr, "Stock failure policy: best-effort or strict")
	fs.StringVar(&storeTimeoutStr, "store-timeout", storeTimeoutStr, "Timeout applied to every store call")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.StoreTimeout, err = time.ParseDuration(storeTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid store timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg.SagaPolicy = SagaPolicy(strings.ToLower(strings.TrimSpace(policyStr)))
	if cfg.SagaPolicy != SagaPolicyBestEffort && cfg.SagaPolicy != SagaPolicyStrict {
		return nil, fmt.Errorf("invalid saga policy %q", policyStr)
	}

	cfg.KafkaBrokers = splitCSV(brokersStr)

	if cfg.StockWorkers <= 0 {
		cfg.StockWorkers = defaultStockWorkers
	}

	if cfg.LedgerMaxAttempts <= 0 {
		cfg.LedgerMaxAttempts = defaultLedgerMaxAttempts
	}

	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	if cfg.StatusCacheTTL <= 0 {
		cfg.StatusCacheTTL = defaultStatusCacheTTL
	}

	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = defaultIdempotencyTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
