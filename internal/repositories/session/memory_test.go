package session

import (
	"context"
	"testing"
	"time"

	"github.com/squadkit/squadbot/internal/models"
	"github.com/stretchr/testify/suite"
)

type MemoryRepositoryTestSuite struct {
	suite.Suite
	repo    Repository
	ctx     context.Context
	testNow time.Time
}

func (s *MemoryRepositoryTestSuite) SetupTest() {
	s.repo = NewMemory()
	s.ctx = context.Background()
	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func TestMemoryRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositoryTestSuite))
}

func (s *MemoryRepositoryTestSuite) newSession(id, guildID string) *models.Session {
	return &models.Session{
		ID:          id,
		GuildID:     guildID,
		ChannelID:   "test-channel-id",
		HostID:      "test-host-id",
		Activity:    "Deep Rock Galactic",
		ScheduledAt: s.testNow.Add(time.Hour),
		CreatedAt:   s.testNow,
		Active:      true,
		Participants: []*models.Participant{
			{
				UserID:      "test-host-id",
				DisplayName: "Test Host",
				JoinedAt:    s.testNow,
				IsHost:      true,
			},
		},
	}
}

func (s *MemoryRepositoryTestSuite) TestSaveAndGet() {
	sess := s.newSession("guild-1-1000", "guild-1")

	err := s.repo.Save(s.ctx, &SaveInput{Session: sess})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, &GetInput{SessionID: "guild-1-1000"})
	s.Require().NoError(err)
	s.Equal("guild-1-1000", got.ID)
	s.Equal("guild-1", got.GuildID)
	s.Equal("test-host-id", got.HostID)
	s.Len(got.Participants, 1)
	s.True(got.Participants[0].IsHost)
}

func (s *MemoryRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, &GetInput{SessionID: "missing"})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *MemoryRepositoryTestSuite) TestGetReturnsSnapshot() {
	sess := s.newSession("guild-1-1000", "guild-1")
	s.Require().NoError(s.repo.Save(s.ctx, &SaveInput{Session: sess}))

	// Mutating a retrieved copy must not leak into the stored record.
	got, err := s.repo.Get(s.ctx, &GetInput{SessionID: "guild-1-1000"})
	s.Require().NoError(err)
	got.HostID = "someone-else"
	got.Participants[0].IsHost = false

	again, err := s.repo.Get(s.ctx, &GetInput{SessionID: "guild-1-1000"})
	s.Require().NoError(err)
	s.Equal("test-host-id", again.HostID)
	s.True(again.Participants[0].IsHost)
}

func (s *MemoryRepositoryTestSuite) TestSaveClonesInput() {
	sess := s.newSession("guild-1-1000", "guild-1")
	s.Require().NoError(s.repo.Save(s.ctx, &SaveInput{Session: sess}))

	sess.Activity = "changed after save"

	got, err := s.repo.Get(s.ctx, &GetInput{SessionID: "guild-1-1000"})
	s.Require().NoError(err)
	s.Equal("Deep Rock Galactic", got.Activity)
}

func (s *MemoryRepositoryTestSuite) TestDelete() {
	sess := s.newSession("guild-1-1000", "guild-1")
	s.Require().NoError(s.repo.Save(s.ctx, &SaveInput{Session: sess}))

	err := s.repo.Delete(s.ctx, &DeleteInput{SessionID: "guild-1-1000"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &GetInput{SessionID: "guild-1-1000"})
	s.ErrorIs(err, ErrSessionNotFound)

	// Deleting again is a no-op.
	s.NoError(s.repo.Delete(s.ctx, &DeleteInput{SessionID: "guild-1-1000"}))
}

func (s *MemoryRepositoryTestSuite) TestListByGuild() {
	a := s.newSession("guild-1-1000", "guild-1")
	b := s.newSession("guild-1-2000", "guild-1")
	b.CreatedAt = s.testNow.Add(time.Minute)
	c := s.newSession("guild-2-1000", "guild-2")

	for _, sess := range []*models.Session{b, a, c} {
		s.Require().NoError(s.repo.Save(s.ctx, &SaveInput{Session: sess}))
	}

	out, err := s.repo.ListByGuild(s.ctx, &ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Sessions, 2)
	s.Equal("guild-1-1000", out.Sessions[0].ID)
	s.Equal("guild-1-2000", out.Sessions[1].ID)
}

func (s *MemoryRepositoryTestSuite) TestListAll() {
	a := s.newSession("guild-1-1000", "guild-1")
	c := s.newSession("guild-2-1000", "guild-2")
	c.CreatedAt = s.testNow.Add(time.Minute)

	s.Require().NoError(s.repo.Save(s.ctx, &SaveInput{Session: a}))
	s.Require().NoError(s.repo.Save(s.ctx, &SaveInput{Session: c}))

	out, err := s.repo.ListAll(s.ctx, &ListAllInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Sessions, 2)
	s.Equal("guild-1-1000", out.Sessions[0].ID)
	s.Equal("guild-2-1000", out.Sessions[1].ID)
}
