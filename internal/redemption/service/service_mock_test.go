package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"redeemer/internal/asset"
	"redeemer/internal/redemption/models"
	"redeemer/internal/redemption/service/mocks"
	id "redeemer/pkg/domain"
	dErrors "redeemer/pkg/domain-errors"
	"redeemer/pkg/platform/audit"
	"redeemer/pkg/platform/sentinel"
)

// MockedServiceSuite covers collaborator failures the in-memory wiring cannot
// produce.
type MockedServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	assets      *mocks.MockAssetRegistry
	store       *mocks.MockStore
	auditor     *mocks.MockAuditPublisher
	tx          *mocks.MockTxRunner
	service     *Service
	ctx         context.Context
	holder      id.Holder
	rid         id.RedemptionID
	assetID     id.AssetID
	passThrough func(ctx context.Context, fn func(context.Context) error) error
}

func TestMockedServiceSuite(t *testing.T) {
	suite.Run(t, new(MockedServiceSuite))
}

func (s *MockedServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.assets = mocks.NewMockAssetRegistry(s.ctrl)
	s.store = mocks.NewMockStore(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)
	s.tx = mocks.NewMockTxRunner(s.ctrl)
	s.ctx = context.Background()
	s.holder = "0xholder"
	s.assetID = 7

	rid, err := id.RedemptionIDFromText("mocked")
	s.Require().NoError(err)
	s.rid = rid

	s.passThrough = func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}

	svc, err := New(s.assets, s.store, s.tx, s.auditor)
	s.Require().NoError(err)
	s.service = svc
}

func (s *MockedServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *MockedServiceSuite) TestRedeem() {
	s.Run("registry failure is returned unchanged and nothing is written", func() {
		registryErr := errors.New("registry unreachable")
		s.assets.EXPECT().HolderOf(gomock.Any(), s.assetID).Return(id.Holder(""), registryErr)

		_, err := s.service.Redeem(s.ctx, s.rid, s.assetID, "reason")
		s.Same(registryErr, err)
	})

	s.Run("not found is returned unchanged", func() {
		notFound := &asset.NotFoundError{AssetID: s.assetID}
		s.assets.EXPECT().HolderOf(gomock.Any(), s.assetID).Return(id.Holder(""), notFound)

		_, err := s.service.Redeem(s.ctx, s.rid, s.assetID, "reason")
		s.Same(notFound, err)
	})

	s.Run("store conflict becomes unredeemable with the resolved holder", func() {
		s.assets.EXPECT().HolderOf(gomock.Any(), s.assetID).Return(s.holder, nil)
		s.tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(s.passThrough)
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.Redeem(s.ctx, s.rid, s.assetID, "reason")
		var unredeemable *models.UnredeemableError
		s.Require().ErrorAs(err, &unredeemable)
		s.Equal(models.Key{Holder: s.holder, RedemptionID: s.rid, AssetID: s.assetID}, unredeemable.Key())
	})

	s.Run("store failure is internal and skips the audit event", func() {
		s.assets.EXPECT().HolderOf(gomock.Any(), s.assetID).Return(s.holder, nil)
		s.tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(s.passThrough)
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := s.service.Redeem(s.ctx, s.rid, s.assetID, "reason")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("audit failure fails the transaction", func() {
		s.assets.EXPECT().HolderOf(gomock.Any(), s.assetID).Return(s.holder, nil)
		s.tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(s.passThrough)
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox unavailable"))

		_, err := s.service.Redeem(s.ctx, s.rid, s.assetID, "reason")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("record and audit event carry the resolved holder", func() {
		s.assets.EXPECT().HolderOf(gomock.Any(), s.assetID).Return(s.holder, nil)
		s.tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(s.passThrough)
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, record *models.Record) error {
				s.Equal(s.holder, record.Holder)
				s.Equal("reason", record.Reason)
				return nil
			})
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, event audit.Event) error {
				s.Equal(s.holder, event.Holder)
				s.Equal(string(audit.EventRedemptionRecorded), event.Action)
				return nil
			})

		record, err := s.service.Redeem(s.ctx, s.rid, s.assetID, "reason")
		s.Require().NoError(err)
		s.Equal(s.holder, record.Holder)
	})
}

func (s *MockedServiceSuite) TestReads() {
	s.Run("is redeemed reports storage faults as internal", func() {
		s.store.EXPECT().Find(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

		_, err := s.service.IsRedeemed(s.ctx, s.holder, s.rid, s.assetID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("is redeemed never consults the asset registry", func() {
		s.store.EXPECT().Find(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

		redeemed, err := s.service.IsRedeemed(s.ctx, s.holder, s.rid, s.assetID)
		s.Require().NoError(err)
		s.False(redeemed)
	})

	s.Run("redeemable propagates registry failures", func() {
		registryErr := errors.New("registry unreachable")
		s.assets.EXPECT().Exists(gomock.Any(), s.assetID).Return(false, registryErr)

		_, err := s.service.Redeemable(s.ctx, s.rid, s.assetID)
		s.Same(registryErr, err)
	})

	s.Run("redeemable treats a burn between lookups as not redeemable", func() {
		s.assets.EXPECT().Exists(gomock.Any(), s.assetID).Return(true, nil)
		s.assets.EXPECT().HolderOf(gomock.Any(), s.assetID).Return(id.Holder(""), &asset.NotFoundError{AssetID: s.assetID})

		ok, err := s.service.Redeemable(s.ctx, s.rid, s.assetID)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("redemption ids wraps list failures", func() {
		s.store.EXPECT().ListByHolderAsset(gomock.Any(), s.holder, s.assetID).Return(nil, errors.New("timeout"))

		_, err := s.service.RedemptionIDs(s.ctx, s.holder, s.assetID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
