package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	conformanceSuite
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestFindReturnsCopy() {
	record := s.newRecord("0xalice", "copy", 1)
	s.Require().NoError(s.store.Create(s.ctx, record))
	record.Reason = "mutated after create"

	found, err := s.store.Find(s.ctx, record.Key())
	s.Require().NoError(err)
	s.Equal("Test redemption", found.Reason)

	found.Reason = "mutated after find"
	again, err := s.store.Find(s.ctx, record.Key())
	s.Require().NoError(err)
	s.Equal("Test redemption", again.Reason)
}
