//go:build integration

package stamp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/suite"

	"passport/internal/stamp/models"
	"passport/pkg/platform/sentinel"
	"passport/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
	ctx   context.Context
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, &PostgresSuite{pg: containers.NewPostgresContainer(t, Schema)})
}

func (s *PostgresSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewPostgres(s.pg.DB)
	s.Require().NoError(s.pg.TruncateAll(s.ctx, "stamps"))
}

func (s *PostgresSuite) append(userID, sponsorID string, at time.Time) models.Stamp {
	st := models.Stamp{
		ID:          ksuid.New().String(),
		UserID:      userID,
		SponsorID:   sponsorID,
		SponsorName: "Sponsor " + sponsorID,
		CreatedAt:   at.UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.Append(s.ctx, st))
	return st
}

func (s *PostgresSuite) TestLatestForPair() {
	base := time.Now()
	s.append("u1", "acme", base)
	want := s.append("u1", "acme", base.Add(time.Hour))
	s.append("u1", "globex", base.Add(2*time.Hour))

	latest, err := s.store.LatestForPair(s.ctx, "u1", "acme")
	s.Require().NoError(err)
	s.Equal(want.ID, latest.ID)
	s.True(latest.CreatedAt.Equal(want.CreatedAt))

	_, err = s.store.LatestForPair(s.ctx, "u1", "initech")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresSuite) TestListByUserNewestFirst() {
	base := time.Now()
	s.append("u1", "one", base)
	s.append("u1", "two", base.Add(time.Minute))
	s.append("u1", "three", base.Add(2*time.Minute))
	s.append("u2", "other", base)

	out, err := s.store.ListByUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(out, 3)
	s.Equal("three", out[0].SponsorID)
	s.Equal("one", out[2].SponsorID)
	s.Equal("Sponsor three", out[0].SponsorName)
}

func (s *PostgresSuite) TestListByUserEmpty() {
	out, err := s.store.ListByUser(s.ctx, "ghost")
	s.Require().NoError(err)
	s.Empty(out)
}
