// Package service implements the redemption registry: the current holder of
// an asset marks it redeemed under a redemption id exactly once, and anyone
// can ask whether a (holder, redemption id, asset) triple has been redeemed.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"redeemer/internal/redemption/metrics"
	"redeemer/internal/redemption/models"
	id "redeemer/pkg/domain"
	dErrors "redeemer/pkg/domain-errors"
	"redeemer/pkg/platform/audit"
	"redeemer/pkg/platform/sentinel"
	"redeemer/pkg/requestcontext"
)

// AssetRegistry is the slice of the external asset registry this service needs.
type AssetRegistry interface {
	Exists(ctx context.Context, assetID id.AssetID) (bool, error)
	HolderOf(ctx context.Context, assetID id.AssetID) (id.Holder, error)
}

// Store persists redemption records. Create must fail with
// sentinel.ErrConflict when the key already exists.
type Store interface {
	Create(ctx context.Context, record *models.Record) error
	Find(ctx context.Context, key models.Key) (*models.Record, error)
	ListByHolderAsset(ctx context.Context, holder id.Holder, assetID id.AssetID) ([]*models.Record, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// TxRunner scopes the record write and its audit event to one unit of work.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the redemption registry.
type Service struct {
	assets  AssetRegistry
	store   Store
	tx      TxRunner
	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(assets AssetRegistry, store Store, tx TxRunner, auditor AuditPublisher, opts ...Option) (*Service, error) {
	if assets == nil {
		return nil, errors.New("asset registry is required")
	}
	if store == nil {
		return nil, errors.New("redemption store is required")
	}
	if tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if auditor == nil {
		return nil, errors.New("audit publisher is required")
	}

	svc := &Service{
		assets:  assets,
		store:   store,
		tx:      tx,
		auditor: auditor,
		logger:  slog.Default(),
		tracer:  otel.Tracer("redeemer/redemption"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Redeem marks assetID redeemed under redemptionID on behalf of the asset's
// current holder. Asset registry failures, including *asset.NotFoundError,
// are returned as they are. A key that was already redeemed fails with
// *models.UnredeemableError. Failed calls leave no record and no audit event.
func (s *Service) Redeem(ctx context.Context, redemptionID id.RedemptionID, assetID id.AssetID, reason string) (*models.Record, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "redemption.Redeem", trace.WithAttributes(
		attribute.String("asset.id", assetID.String()),
		attribute.String("redemption.id", redemptionID.Hex()),
	))
	defer span.End()
	defer func() { s.metrics.ObserveRedeemLatency(time.Since(start)) }()

	holder, err := s.assets.HolderOf(ctx, assetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementOutcome(metrics.OutcomeAssetNotFound)
		} else {
			s.metrics.IncrementOutcome(metrics.OutcomeError)
			s.logger.ErrorContext(ctx, "asset holder lookup failed",
				"error", err,
				"asset_id", assetID.String(),
				"request_id", requestcontext.RequestID(ctx),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "holder lookup failed")
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("holder", holder.String()))

	record := &models.Record{
		Holder:       holder,
		RedemptionID: redemptionID,
		AssetID:      assetID,
		Reason:       reason,
		RedeemedAt:   requestcontext.Now(ctx),
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, record); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return models.NewUnredeemableError(record.Key())
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record redemption")
		}
		if err := s.auditor.Emit(ctx, audit.Event{
			Action:       string(audit.EventRedemptionRecorded),
			Timestamp:    record.RedeemedAt,
			Holder:       record.Holder,
			AssetID:      record.AssetID,
			RedemptionID: record.RedemptionID,
			Reason:       record.Reason,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit event")
		}
		return nil
	})
	if err != nil {
		var unredeemable *models.UnredeemableError
		if errors.As(err, &unredeemable) {
			s.metrics.IncrementOutcome(metrics.OutcomeUnredeemable)
			s.logger.InfoContext(ctx, "redemption rejected: already redeemed",
				"holder", holder.String(),
				"asset_id", assetID.String(),
				"redemption_id", redemptionID.Hex(),
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, err
		}
		s.metrics.IncrementOutcome(metrics.OutcomeError)
		s.logger.ErrorContext(ctx, "redemption failed",
			"error", err,
			"holder", holder.String(),
			"asset_id", assetID.String(),
			"redemption_id", redemptionID.Hex(),
			"request_id", requestcontext.RequestID(ctx),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "redeem failed")
		return nil, err
	}

	s.metrics.IncrementOutcome(metrics.OutcomeRedeemed)
	s.logger.InfoContext(ctx, "asset redeemed",
		"holder", holder.String(),
		"asset_id", assetID.String(),
		"redemption_id", redemptionID.Hex(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return record, nil
}

// IsRedeemed reports whether the exact key was redeemed. The holder is taken
// as given; the asset registry is not consulted, so history stays visible
// after transfers or burns. An error only reports a storage fault.
func (s *Service) IsRedeemed(ctx context.Context, holder id.Holder, redemptionID id.RedemptionID, assetID id.AssetID) (bool, error) {
	s.metrics.IncrementQuery("is_redeemed")
	_, err := s.store.Find(ctx, models.Key{Holder: holder, RedemptionID: redemptionID, AssetID: assetID})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up redemption")
	}
	return true, nil
}

// Get returns the full record for key.
func (s *Service) Get(ctx context.Context, key models.Key) (*models.Record, error) {
	s.metrics.IncrementQuery("get")
	record, err := s.store.Find(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "redemption not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up redemption")
	}
	return record, nil
}

// RedemptionIDs lists the ids under which holder redeemed assetID, oldest first.
func (s *Service) RedemptionIDs(ctx context.Context, holder id.Holder, assetID id.AssetID) ([]id.RedemptionID, error) {
	s.metrics.IncrementQuery("redemption_ids")
	records, err := s.store.ListByHolderAsset(ctx, holder, assetID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list redemptions")
	}
	ids := make([]id.RedemptionID, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.RedemptionID)
	}
	return ids, nil
}

// Redeemable reports whether Redeem would currently succeed for the asset's
// holder. A missing asset is not an error here, it is simply not redeemable.
func (s *Service) Redeemable(ctx context.Context, redemptionID id.RedemptionID, assetID id.AssetID) (bool, error) {
	s.metrics.IncrementQuery("redeemable")
	exists, err := s.assets.Exists(ctx, assetID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	holder, err := s.assets.HolderOf(ctx, assetID)
	if err != nil {
		// Burned between the two lookups.
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	redeemed, err := s.IsRedeemed(ctx, holder, redemptionID, assetID)
	if err != nil {
		return false, err
	}
	return !redeemed, nil
}
