package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/suite"

	"redeemer/internal/redemption/models"
	id "redeemer/pkg/domain"
	"redeemer/pkg/platform/sentinel"
)

// conformanceSuite holds the behaviour every Store backend must share.
// Backend suites embed it and set store in SetupTest.
type conformanceSuite struct {
	suite.Suite
	store Store
	ctx   context.Context
}

func (s *conformanceSuite) redemptionID(label string) id.RedemptionID {
	rid, err := id.RedemptionIDFromText(label)
	s.Require().NoError(err)
	return rid
}

func (s *conformanceSuite) newRecord(holder id.Holder, label string, assetID id.AssetID) *models.Record {
	return &models.Record{
		Holder:       holder,
		RedemptionID: s.redemptionID(label),
		AssetID:      assetID,
		Reason:       "Test redemption",
		RedeemedAt:   time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC),
	}
}

func (s *conformanceSuite) TestCreateAndFind() {
	s.Run("created record is found by its key", func() {
		record := s.newRecord("0xalice", "create-find", 1)
		s.Require().NoError(s.store.Create(s.ctx, record))

		found, err := s.store.Find(s.ctx, record.Key())
		s.Require().NoError(err)
		s.Equal(record.Holder, found.Holder)
		s.Equal(record.RedemptionID, found.RedemptionID)
		s.Equal(record.AssetID, found.AssetID)
		s.Equal("Test redemption", found.Reason)
		s.True(record.RedeemedAt.Equal(found.RedeemedAt))
	})

	s.Run("absent key is not found", func() {
		_, err := s.store.Find(s.ctx, s.newRecord("0xalice", "never", 1).Key())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("reason is stored verbatim", func() {
		record := s.newRecord("0xalice", "verbatim", 1)
		record.Reason = "  émoji 🎟️\n\"quoted\"\ttail  "
		s.Require().NoError(s.store.Create(s.ctx, record))

		found, err := s.store.Find(s.ctx, record.Key())
		s.Require().NoError(err)
		s.Equal(record.Reason, found.Reason)
	})

	s.Run("reason with NUL and non-UTF-8 bytes round-trips", func() {
		record := s.newRecord("0xalice", "binary", 1)
		record.Reason = "voucher \x00\xff\xfe tail"
		s.Require().NoError(s.store.Create(s.ctx, record))

		found, err := s.store.Find(s.ctx, record.Key())
		s.Require().NoError(err)
		s.Equal([]byte(record.Reason), []byte(found.Reason))

		listed, err := s.store.ListByHolderAsset(s.ctx, "0xalice", 1)
		s.Require().NoError(err)
		var reasons []string
		for _, r := range listed {
			reasons = append(reasons, r.Reason)
		}
		s.Contains(reasons, record.Reason)
	})

	s.Run("empty reason is kept", func() {
		record := s.newRecord("0xalice", "no-reason", 1)
		record.Reason = ""
		s.Require().NoError(s.store.Create(s.ctx, record))

		found, err := s.store.Find(s.ctx, record.Key())
		s.Require().NoError(err)
		s.Empty(found.Reason)
	})
}

func (s *conformanceSuite) TestUniqueness() {
	s.Run("duplicate key is a conflict and keeps the first record", func() {
		first := s.newRecord("0xalice", "dup", 1)
		s.Require().NoError(s.store.Create(s.ctx, first))

		second := s.newRecord("0xalice", "dup", 1)
		second.Reason = "second attempt"
		s.ErrorIs(s.store.Create(s.ctx, second), sentinel.ErrConflict)

		found, err := s.store.Find(s.ctx, first.Key())
		s.Require().NoError(err)
		s.Equal("Test redemption", found.Reason)
	})

	s.Run("keys differing in one component are independent", func() {
		base := s.newRecord("0xalice", "indep", 1)
		s.Require().NoError(s.store.Create(s.ctx, base))
		s.Require().NoError(s.store.Create(s.ctx, s.newRecord("0xbob", "indep", 1)))
		s.Require().NoError(s.store.Create(s.ctx, s.newRecord("0xalice", "indep-2", 1)))
		s.Require().NoError(s.store.Create(s.ctx, s.newRecord("0xalice", "indep", 2)))
	})

	s.Run("concurrent creates of one key have a single winner", func() {
		const goroutines = 20
		var wg sync.WaitGroup
		var wins, conflicts atomic.Int32
		for range goroutines {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.store.Create(s.ctx, s.newRecord("0xcarol", "race", 9))
				switch {
				case err == nil:
					wins.Add(1)
				case errors.Is(err, sentinel.ErrConflict):
					conflicts.Add(1)
				}
			}()
		}
		wg.Wait()
		s.Equal(int32(1), wins.Load())
		s.Equal(int32(goroutines-1), conflicts.Load())
	})
}

func (s *conformanceSuite) TestListByHolderAsset() {
	s.Run("lists in redemption order", func() {
		for i, label := range []string{"list-a", "list-b", "list-c"} {
			record := s.newRecord("0xdave", label, 3)
			record.RedeemedAt = record.RedeemedAt.Add(time.Duration(i) * time.Second)
			s.Require().NoError(s.store.Create(s.ctx, record))
		}
		s.Require().NoError(s.store.Create(s.ctx, s.newRecord("0xdave", "other-asset", 4)))
		s.Require().NoError(s.store.Create(s.ctx, s.newRecord("0xerin", "other-holder", 3)))

		records, err := s.store.ListByHolderAsset(s.ctx, "0xdave", 3)
		s.Require().NoError(err)
		s.Require().Len(records, 3)
		s.Equal(s.redemptionID("list-a"), records[0].RedemptionID)
		s.Equal(s.redemptionID("list-b"), records[1].RedemptionID)
		s.Equal(s.redemptionID("list-c"), records[2].RedemptionID)
	})

	s.Run("empty when nothing was redeemed", func() {
		records, err := s.store.ListByHolderAsset(s.ctx, "0xnobody", 1)
		s.Require().NoError(err)
		s.Empty(records)
	})
}
