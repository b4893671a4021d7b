//go:build integration

package asset_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"redeemer/internal/asset"
	id "redeemer/pkg/domain"
	"redeemer/pkg/platform/sentinel"
	"redeemer/pkg/testutil/containers"
)

type PostgresRegistrySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	registry *asset.PostgresRegistry
	ctx      context.Context
}

func TestPostgresRegistrySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRegistrySuite))
}

func (s *PostgresRegistrySuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.registry = asset.NewPostgresRegistry(s.postgres.DB)
}

func (s *PostgresRegistrySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "assets"))
	_, err := s.postgres.DB.ExecContext(s.ctx, `
		INSERT INTO assets (asset_id, holder, burned_at) VALUES
			(1, '0xalice', NULL),
			(2, '0xbob', now()),
			(18446744073709551615, '0xcarol', NULL)
	`)
	s.Require().NoError(err)
}

func (s *PostgresRegistrySuite) TestExists() {
	for _, tc := range []struct {
		assetID id.AssetID
		want    bool
	}{
		{assetID: 1, want: true},
		{assetID: 2, want: false},
		{assetID: 3, want: false},
		{assetID: 1<<64 - 1, want: true},
	} {
		exists, err := s.registry.Exists(s.ctx, tc.assetID)
		s.Require().NoError(err)
		s.Equal(tc.want, exists, "asset %s", tc.assetID)
	}
}

func (s *PostgresRegistrySuite) TestHolderOf() {
	s.Run("minted asset resolves its holder", func() {
		holder, err := s.registry.HolderOf(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(id.Holder("0xalice"), holder)
	})

	s.Run("burned asset is not found", func() {
		_, err := s.registry.HolderOf(s.ctx, 2)
		var notFound *asset.NotFoundError
		s.Require().ErrorAs(err, &notFound)
		s.Equal(id.AssetID(2), notFound.AssetID)
	})

	s.Run("unminted asset is not found", func() {
		_, err := s.registry.HolderOf(s.ctx, 3)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("transfer is visible on the next lookup", func() {
		_, err := s.postgres.DB.ExecContext(s.ctx, `UPDATE assets SET holder = '0xdave' WHERE asset_id = 1`)
		s.Require().NoError(err)

		holder, err := s.registry.HolderOf(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(id.Holder("0xdave"), holder)
	})
}
