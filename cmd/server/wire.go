package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"redeemer/internal/asset"
	assetmetrics "redeemer/internal/asset/metrics"
	"redeemer/internal/platform/config"
	platformmetrics "redeemer/internal/platform/metrics"
	"redeemer/internal/platform/postgres"
	platformredis "redeemer/internal/platform/redis"
	"redeemer/internal/redemption/handler"
	redemptionmetrics "redeemer/internal/redemption/metrics"
	"redeemer/internal/redemption/service"
	"redeemer/internal/redemption/store"
	httptransport "redeemer/internal/transport/http"
	"redeemer/pkg/platform/audit"
	"redeemer/pkg/platform/audit/outbox"
	"redeemer/pkg/platform/audit/publisher"
	auditmemory "redeemer/pkg/platform/audit/store/memory"
	auditpostgres "redeemer/pkg/platform/audit/store/postgres"
	"redeemer/pkg/platform/tx"
)

const (
	topicPartitions        = 3
	topicReplicationFactor = 1
)

type app struct {
	router  http.Handler
	relay   *outbox.Relay
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// build constructs every dependency selected by cfg. On error, anything
// already opened is closed.
func build(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()
	checks := map[string]httptransport.HealthCheck{}

	var db *sql.DB
	if cfg.Store.Backend == config.BackendPostgres || cfg.Assets.Backend == config.BackendPostgres {
		db, err = postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		checks["postgres"] = db.PingContext
	}

	registry, err := buildAssetRegistry(ctx, cfg.Assets, db)
	if err != nil {
		return nil, err
	}

	var (
		redemptions service.Store
		runner      service.TxRunner
		auditStore  audit.Store
	)
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		redemptions = store.NewPostgres(db)
		runner = tx.NewSQLRunner(db, cfg.Server.TxTimeout)
		auditStore = auditpostgres.New(db)
	case config.BackendRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		checks["redis"] = client.Health
		redemptions = store.NewRedis(client)
		runner = tx.NewSerialRunner(cfg.Server.TxTimeout)
		auditStore = auditmemory.NewInMemoryStore()
	default:
		redemptions = store.NewInMemory()
		runner = tx.NewSerialRunner(cfg.Server.TxTimeout)
		auditStore = auditmemory.NewInMemoryStore()
	}

	svc, err := service.New(registry, redemptions, runner, publisher.NewPublisher(auditStore),
		service.WithLogger(log),
		service.WithMetrics(redemptionmetrics.New()),
	)
	if err != nil {
		return nil, fmt.Errorf("build redemption service: %w", err)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := outbox.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { producer.Close(); return nil })
		if err := producer.EnsureTopic(ctx, topicPartitions, topicReplicationFactor); err != nil {
			log.Warn("could not ensure audit topic; relay will retry on publish", "topic", cfg.Kafka.Topic, "error", err)
		}
		a.relay = outbox.NewRelay(outbox.NewPostgres(db), producer, log,
			outbox.WithInterval(cfg.Kafka.PollInterval),
			outbox.WithBatchSize(cfg.Kafka.BatchSize),
		)
	}

	h := handler.New(svc, log, platformmetrics.New())
	a.router = httptransport.NewRouter(log, nil, checks, h)
	return a, nil
}

func buildAssetRegistry(ctx context.Context, cfg config.AssetConfig, db *sql.DB) (asset.Registry, error) {
	var registry asset.Registry
	switch cfg.Backend {
	case config.BackendPostgres:
		if db == nil {
			return nil, errors.New("postgres asset registry needs a database")
		}
		registry = asset.NewPostgresRegistry(db)
	default:
		seeds, err := cfg.SeedAssets()
		if err != nil {
			return nil, err
		}
		ledger := asset.NewLedger()
		for _, seed := range seeds {
			if err := ledger.MintID(ctx, seed.AssetID, seed.Holder); err != nil {
				return nil, fmt.Errorf("seed asset %s: %w", seed.AssetID, err)
			}
		}
		registry = ledger
	}
	return asset.NewInstrumented(registry, assetmetrics.New()), nil
}
