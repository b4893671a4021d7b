package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"redeemer/internal/asset"
	"redeemer/internal/platform/metrics"
	"redeemer/internal/platform/middleware"
	"redeemer/internal/redemption/models"
	id "redeemer/pkg/domain"
	dErrors "redeemer/pkg/domain-errors"
	"redeemer/pkg/platform/httputil"
	"redeemer/pkg/platform/middleware/metadata"
	"redeemer/pkg/platform/middleware/requesttime"
)

// Service defines the redemption operations exposed over HTTP.
type Service interface {
	Redeem(ctx context.Context, redemptionID id.RedemptionID, assetID id.AssetID, reason string) (*models.Record, error)
	IsRedeemed(ctx context.Context, holder id.Holder, redemptionID id.RedemptionID, assetID id.AssetID) (bool, error)
	Get(ctx context.Context, key models.Key) (*models.Record, error)
	RedemptionIDs(ctx context.Context, holder id.Holder, assetID id.AssetID) ([]id.RedemptionID, error)
	Redeemable(ctx context.Context, redemptionID id.RedemptionID, assetID id.AssetID) (bool, error)
}

// Handler handles redemption endpoints.
type Handler struct {
	logger         *slog.Logger
	redemptions    Service
	metrics        *metrics.Metrics
	requestTimeout time.Duration
}

// New creates a new redemption Handler.
func New(redemptions Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:         logger,
		redemptions:    redemptions,
		metrics:        metrics,
		requestTimeout: 30 * time.Second,
	}
}

// Register registers the redemption routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(rr chi.Router) {
		rr.Use(middleware.Recovery(h.logger))
		rr.Use(middleware.RequestID)
		rr.Use(requesttime.Middleware)
		rr.Use(metadata.ClientMetadata)
		rr.Use(middleware.Logger(h.logger))
		rr.Use(middleware.Timeout(h.requestTimeout))
		rr.Use(middleware.ContentTypeJSON)
		rr.Use(middleware.LatencyMiddleware(h.metrics))

		rr.Post("/redemptions", h.handleRedeem)
		rr.Get("/holders/{holder}/assets/{assetID}/redemptions", h.handleListRedemptionIDs)
		rr.Get("/holders/{holder}/assets/{assetID}/redemptions/{redemptionID}", h.handleIsRedeemed)
		rr.Get("/holders/{holder}/assets/{assetID}/redemptions/{redemptionID}/record", h.handleGetRecord)
		rr.Get("/assets/{assetID}/redemptions/{redemptionID}/redeemable", h.handleRedeemable)
	})
}

func (h *Handler) handleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.RedeemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid redeem request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	redemptionID, err := id.ParseRedemptionID(req.RedemptionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	assetID, err := id.ParseAssetID(req.AssetID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.redemptions.Redeem(ctx, redemptionID, assetID, req.Reason)
	if err != nil {
		h.writeRedeemError(ctx, w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.NewRecordResponse(record))
}

func (h *Handler) handleIsRedeemed(w http.ResponseWriter, r *http.Request) {
	key, err := parseKey(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	redeemed, err := h.redemptions.IsRedeemed(r.Context(), key.Holder, key.RedemptionID, key.AssetID)
	if err != nil {
		h.logFailure(r.Context(), "redemption lookup failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.RedeemedResponse{Redeemed: redeemed})
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	key, err := parseKey(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.redemptions.Get(r.Context(), key)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logFailure(r.Context(), "redemption record lookup failed", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewRecordResponse(record))
}

func (h *Handler) handleListRedemptionIDs(w http.ResponseWriter, r *http.Request) {
	holder, err := id.ParseHolder(pathParam(r, "holder"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	assetID, err := id.ParseAssetID(pathParam(r, "assetID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ids, err := h.redemptions.RedemptionIDs(r.Context(), holder, assetID)
	if err != nil {
		h.logFailure(r.Context(), "listing redemption ids failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.RedemptionIDsResponse{RedemptionIDs: ids})
}

func (h *Handler) handleRedeemable(w http.ResponseWriter, r *http.Request) {
	assetID, err := id.ParseAssetID(pathParam(r, "assetID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	redemptionID, err := id.ParseRedemptionID(pathParam(r, "redemptionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ok, err := h.redemptions.Redeemable(r.Context(), redemptionID, assetID)
	if err != nil {
		h.logFailure(r.Context(), "redeemable check failed", err)
		httputil.WriteError(w, registryFailure(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.RedeemableResponse{Redeemable: ok})
}

// writeRedeemError maps the two structured redemption failures to their own
// bodies; everything else goes through the coded error path.
func (h *Handler) writeRedeemError(ctx context.Context, w http.ResponseWriter, err error) {
	var notFound *asset.NotFoundError
	if errors.As(err, &notFound) {
		httputil.WriteJSON(w, http.StatusNotFound, models.AssetNotFoundResponse{
			Error:   "asset_not_found",
			AssetID: notFound.AssetID.String(),
		})
		return
	}

	var unredeemable *models.UnredeemableError
	if errors.As(err, &unredeemable) {
		httputil.WriteJSON(w, http.StatusConflict, models.UnredeemableResponse{
			Error:        "unredeemable",
			Holder:       unredeemable.Holder.String(),
			RedemptionID: unredeemable.RedemptionID.Hex(),
			AssetID:      unredeemable.AssetID.String(),
		})
		return
	}

	h.logFailure(ctx, "redeem failed", err)
	httputil.WriteError(w, registryFailure(err))
}

// registryFailure codes the errors the asset registry returns unchanged.
// Errors already coded by the service keep their code.
func registryFailure(err error) error {
	var coded *dErrors.Error
	if errors.As(err, &coded) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "asset registry unavailable")
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}

// pathParam returns the decoded route parameter. chi routes on RawPath when
// the request carries one (an escaped "/" in a segment), and on the already
// decoded Path otherwise, so only the first case needs unescaping.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func parseKey(r *http.Request) (models.Key, error) {
	holder, err := id.ParseHolder(pathParam(r, "holder"))
	if err != nil {
		return models.Key{}, err
	}
	assetID, err := id.ParseAssetID(pathParam(r, "assetID"))
	if err != nil {
		return models.Key{}, err
	}
	redemptionID, err := id.ParseRedemptionID(pathParam(r, "redemptionID"))
	if err != nil {
		return models.Key{}, err
	}
	return models.Key{Holder: holder, RedemptionID: redemptionID, AssetID: assetID}, nil
}
