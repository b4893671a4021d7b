package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redeemer/internal/asset"
	platformmetrics "redeemer/internal/platform/metrics"
	"redeemer/internal/redemption/handler"
	redemptionmetrics "redeemer/internal/redemption/metrics"
	"redeemer/internal/redemption/models"
	"redeemer/internal/redemption/service"
	"redeemer/internal/redemption/store"
	id "redeemer/pkg/domain"
	"redeemer/pkg/platform/audit/publisher"
	auditmemory "redeemer/pkg/platform/audit/store/memory"
	"redeemer/pkg/platform/tx"
	"redeemer/pkg/testutil"
)

const holder = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

type testServer struct {
	router http.Handler
	ledger *asset.Ledger
}

func newTestServer(t *testing.T, checks map[string]HealthCheck) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	ledger := asset.NewLedger()
	svc, err := service.New(ledger, store.NewInMemory(), tx.NewSerialRunner(0),
		publisher.NewPublisher(auditmemory.NewInMemoryStore()),
		service.WithLogger(logger),
		service.WithMetrics(redemptionmetrics.NewWith(reg)),
	)
	require.NoError(t, err)

	h := handler.New(svc, logger, platformmetrics.NewWith(reg))
	return &testServer{
		router: NewRouter(logger, reg, checks, h),
		ledger: ledger,
	}
}

func redeemBody(redemptionID, assetID string) models.RedeemRequest {
	return models.RedeemRequest{RedemptionID: redemptionID, AssetID: assetID, Reason: "Test redemption"}
}

func TestRedemptionScenarios(t *testing.T) {
	srv := newTestServer(t, nil)

	testutil.Given(t, "asset #1 minted to the holder", func(t *testing.T) {
		assetID, err := srv.ledger.Mint(context.Background(), holder)
		require.NoError(t, err)
		require.Equal(t, id.AssetID(1), assetID)

		testutil.When(t, "the holder redeems it under \"test\"", func(t *testing.T) {
			rr := testutil.DoRequest(srv.router, testutil.NewJSONRequest(t, http.MethodPost, "/redemptions", redeemBody("test", "1")))

			testutil.Then(t, "the redemption is created", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusCreated)
				record := testutil.UnmarshalResponse[models.RecordResponse](t, rr)
				assert.Equal(t, holder, record.Holder)
				assert.Equal(t, "test", record.RedemptionLabel)
			})

			testutil.Then(t, "the triple reads as redeemed", func(t *testing.T) {
				rr := testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/holders/"+holder+"/assets/1/redemptions/test"))
				testutil.AssertStatus(t, rr, http.StatusOK)
				testutil.AssertJSONContains(t, rr, "redeemed", true)
			})
		})

		testutil.When(t, "the identical redemption is repeated", func(t *testing.T) {
			rr := testutil.DoRequest(srv.router, testutil.NewJSONRequest(t, http.MethodPost, "/redemptions", redeemBody("test", "1")))

			testutil.Then(t, "it is rejected as unredeemable with the key", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusConflict)
				body := testutil.UnmarshalResponse[models.UnredeemableResponse](t, rr)
				assert.Equal(t, "unredeemable", body.Error)
				assert.Equal(t, holder, body.Holder)
				assert.Equal(t, "1", body.AssetID)
				assert.True(t, strings.HasPrefix(body.RedemptionID, "0x74657374"))
			})
		})

		testutil.When(t, "asset #2, never minted, is redeemed", func(t *testing.T) {
			rr := testutil.DoRequest(srv.router, testutil.NewJSONRequest(t, http.MethodPost, "/redemptions", redeemBody("test", "2")))

			testutil.Then(t, "it fails with asset not found", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusNotFound)
				body := testutil.UnmarshalResponse[models.AssetNotFoundResponse](t, rr)
				assert.Equal(t, "asset_not_found", body.Error)
				assert.Equal(t, "2", body.AssetID)
			})
		})

		testutil.When(t, "a never redeemed triple is queried", func(t *testing.T) {
			rr := testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/holders/0xnobody/assets/7/redemptions/never"))

			testutil.Then(t, "it reads false without an error", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				testutil.AssertJSONContains(t, rr, "redeemed", false)
			})
		})
	})
}

func TestRedemptionHistoryRoutes(t *testing.T) {
	srv := newTestServer(t, nil)
	_, err := srv.ledger.Mint(context.Background(), holder)
	require.NoError(t, err)

	for _, label := range []string{"first", "second"} {
		rr := testutil.DoRequest(srv.router, testutil.NewJSONRequest(t, http.MethodPost, "/redemptions", redeemBody(label, "1")))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	}

	t.Run("lists ids oldest first", func(t *testing.T) {
		rr := testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/holders/"+holder+"/assets/1/redemptions"))
		testutil.AssertStatus(t, rr, http.StatusOK)

		body := testutil.UnmarshalResponse[models.RedemptionIDsResponse](t, rr)
		first, _ := id.RedemptionIDFromText("first")
		second, _ := id.RedemptionIDFromText("second")
		assert.Equal(t, []id.RedemptionID{first, second}, body.RedemptionIDs)
	})

	t.Run("returns the record with its reason", func(t *testing.T) {
		rr := testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/holders/"+holder+"/assets/1/redemptions/first/record"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.AssertJSONContains(t, rr, "reason", "Test redemption")
	})

	t.Run("redeemable preflight reflects state", func(t *testing.T) {
		rr := testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/assets/1/redemptions/first/redeemable"))
		testutil.AssertJSONContains(t, rr, "redeemable", false)

		rr = testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/assets/1/redemptions/third/redeemable"))
		testutil.AssertJSONContains(t, rr, "redeemable", true)

		rr = testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/assets/9/redemptions/first/redeemable"))
		testutil.AssertJSONContains(t, rr, "redeemable", false)
	})
}

func TestInvalidInput(t *testing.T) {
	srv := newTestServer(t, nil)

	testutil.Given(t, "a malformed asset id", func(t *testing.T) {
		rr := testutil.DoRequest(srv.router, testutil.NewJSONRequest(t, http.MethodPost, "/redemptions", redeemBody("test", "0x01")))
		testutil.Then(t, "the request is rejected as invalid input", func(t *testing.T) {
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
		})
	})

	testutil.Given(t, "a redemption id label over 31 bytes", func(t *testing.T) {
		rr := testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/holders/"+holder+"/assets/1/redemptions/"+strings.Repeat("x", 32)))
		testutil.Then(t, "the query is rejected as invalid input", func(t *testing.T) {
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
		})
	})
}

func TestOperationalRoutes(t *testing.T) {
	t.Run("metrics exposes redemption counters", func(t *testing.T) {
		srv := newTestServer(t, nil)
		_, err := srv.ledger.Mint(context.Background(), holder)
		require.NoError(t, err)
		testutil.DoRequest(srv.router, testutil.NewJSONRequest(t, http.MethodPost, "/redemptions", redeemBody("test", "1")))

		rr := testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		body := string(testutil.ReadBody(t, rr))
		assert.Contains(t, body, `redeemer_redemption_outcomes_total{outcome="redeemed"} 1`)
		assert.Contains(t, body, "redeemer_http_request_duration_seconds")
	})

	t.Run("healthz is ok when every check passes", func(t *testing.T) {
		srv := newTestServer(t, map[string]HealthCheck{
			"store": func(context.Context) error { return nil },
		})
		rr := testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("healthz is degraded when a check fails", func(t *testing.T) {
		srv := newTestServer(t, map[string]HealthCheck{
			"store": func(context.Context) error { return errors.New("connection refused") },
		})
		rr := testutil.DoRequest(srv.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "status", "degraded")
	})
}
