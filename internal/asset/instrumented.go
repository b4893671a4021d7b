package asset

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"redeemer/internal/asset/metrics"
	id "redeemer/pkg/domain"
)

// Instrumented decorates a Registry with tracing and lookup metrics. Results
// and errors pass through untouched.
type Instrumented struct {
	next    Registry
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func NewInstrumented(next Registry, m *metrics.Metrics) *Instrumented {
	return &Instrumented{
		next:    next,
		metrics: m,
		tracer:  otel.Tracer("redeemer/asset"),
	}
}

func (r *Instrumented) Exists(ctx context.Context, assetID id.AssetID) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "asset.Exists",
		trace.WithAttributes(attribute.String("asset.id", assetID.String())))
	defer span.End()
	start := time.Now()

	exists, err := r.next.Exists(ctx, assetID)
	r.metrics.ObserveLookup("exists", start)
	r.record(span, "exists", err)
	return exists, err
}

func (r *Instrumented) HolderOf(ctx context.Context, assetID id.AssetID) (id.Holder, error) {
	ctx, span := r.tracer.Start(ctx, "asset.HolderOf",
		trace.WithAttributes(attribute.String("asset.id", assetID.String())))
	defer span.End()
	start := time.Now()

	holder, err := r.next.HolderOf(ctx, assetID)
	r.metrics.ObserveLookup("holder_of", start)
	r.record(span, "holder_of", err)
	return holder, err
}

func (r *Instrumented) record(span trace.Span, operation string, err error) {
	if err == nil {
		return
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		r.metrics.IncrementLookupError(operation, "not_found")
		return
	}
	r.metrics.IncrementLookupError(operation, "infrastructure")
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
