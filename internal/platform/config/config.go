package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/caarlos0/env/v11"

	id "redeemer/pkg/domain"
)

// Backend names accepted by REDEEMER_STORE_BACKEND and REDEEMER_ASSET_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"REDEEMER_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"REDEEMER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// TxTimeout bounds every redemption transaction without its own deadline.
	TxTimeout time.Duration `env:"REDEEMER_TX_TIMEOUT" envDefault:"5s"`
}

type StoreConfig struct {
	Backend string `env:"REDEEMER_STORE_BACKEND" envDefault:"memory"`
}

// AssetConfig selects the asset registry adapter. Seed mints assets into the
// in-memory ledger at startup, as "assetID:holder" pairs.
type AssetConfig struct {
	Backend string            `env:"REDEEMER_ASSET_BACKEND" envDefault:"memory"`
	Seed    map[string]string `env:"REDEEMER_ASSET_SEED"`
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"REDEEMER_DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"REDEEMER_DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"REDEEMER_DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	// ApplySchema runs the embedded schema on startup; off when migrations are managed elsewhere.
	ApplySchema bool `env:"REDEEMER_DB_APPLY_SCHEMA" envDefault:"true"`
}

// RedisConfig holds connection settings for the Redis store.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig enables the outbox relay when Brokers is set.
type KafkaConfig struct {
	Brokers      []string      `env:"REDEEMER_KAFKA_BROKERS" envSeparator:","`
	Topic        string        `env:"REDEEMER_KAFKA_TOPIC" envDefault:"redeemer.audit"`
	PollInterval time.Duration `env:"REDEEMER_OUTBOX_POLL_INTERVAL" envDefault:"1s"`
	BatchSize    int           `env:"REDEEMER_OUTBOX_BATCH_SIZE" envDefault:"100"`
}

type LogConfig struct {
	Level  string `env:"REDEEMER_LOG_LEVEL" envDefault:"info"`
	Format string `env:"REDEEMER_LOG_FORMAT" envDefault:"json"`
}

// OtelConfig enables OTLP/HTTP trace export when Endpoint is set.
type OtelConfig struct {
	Endpoint    string `env:"REDEEMER_OTEL_ENDPOINT"`
	ServiceName string `env:"REDEEMER_OTEL_SERVICE_NAME" envDefault:"redeemer"`
}

type Config struct {
	Server   Server
	Store    StoreConfig
	Assets   AssetConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Log      LogConfig
	Otel     OtelConfig
}

// Load reads configuration from the environment and validates it so main
// stays lean.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects inconsistent backend combinations.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}

	switch c.Assets.Backend {
	case BackendMemory:
		if _, err := c.Assets.SeedAssets(); err != nil {
			errs = append(errs, err)
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres asset registry"))
		}
		if len(c.Assets.Seed) > 0 {
			errs = append(errs, errors.New("REDEEMER_ASSET_SEED only applies to the memory asset registry"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown asset backend %q", c.Assets.Backend))
	}

	// The outbox lives in postgres; without it there is nothing to relay.
	if len(c.Kafka.Brokers) > 0 && c.Store.Backend != BackendPostgres {
		errs = append(errs, errors.New("REDEEMER_KAFKA_BROKERS requires the postgres store"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("REDEEMER_KAFKA_TOPIC must not be empty"))
	}
	if c.Server.TxTimeout <= 0 {
		errs = append(errs, errors.New("REDEEMER_TX_TIMEOUT must be positive"))
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// AssetSeed is one asset minted into the in-memory ledger at startup.
type AssetSeed struct {
	AssetID id.AssetID
	Holder  id.Holder
}

// SeedAssets parses the seed map, ordered by asset id.
func (a AssetConfig) SeedAssets() ([]AssetSeed, error) {
	seeds := make([]AssetSeed, 0, len(a.Seed))
	for rawID, rawHolder := range a.Seed {
		assetID, err := id.ParseAssetID(rawID)
		if err != nil {
			return nil, fmt.Errorf("REDEEMER_ASSET_SEED: asset %q: %w", rawID, err)
		}
		holder, err := id.ParseHolder(rawHolder)
		if err != nil {
			return nil, fmt.Errorf("REDEEMER_ASSET_SEED: holder for asset %s: %w", assetID, err)
		}
		seeds = append(seeds, AssetSeed{AssetID: assetID, Holder: holder})
	}
	sort.Slice(seeds, func(i, j int) bool { return seeds[i].AssetID < seeds[j].AssetID })
	return seeds, nil
}
