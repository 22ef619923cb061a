package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/squadkit/squadbot/internal/common/clock/mocks"
	sessionRepo "github.com/squadkit/squadbot/internal/repositories/session"
	schedulerMocks "github.com/squadkit/squadbot/internal/scheduler/mocks"
	"github.com/squadkit/squadbot/internal/services/session"
	"github.com/squadkit/squadbot/internal/services/session/mocks"
)

type SessionServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	repo         sessionRepo.Repository
	mockSched    *schedulerMocks.MockScheduler
	mockSink     *mocks.MockMessageSink
	mockNotifier *mocks.MockNotifier
	mockClock    *clockMocks.MockClock
	svc          session.Service
	ctx          context.Context

	// now is the fake clock's current time; tests advance it directly
	now time.Time

	// scheduled captures armed callbacks by key so tests can fire them
	scheduled   map[string]func()
	scheduledAt map[string]time.Time
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}

func (s *SessionServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.repo = sessionRepo.NewMemory()
	s.mockSched = schedulerMocks.NewMockScheduler(s.mockCtrl)
	s.mockSink = mocks.NewMockMessageSink(s.mockCtrl)
	s.mockNotifier = mocks.NewMockNotifier(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)

	s.ctx = context.Background()
	s.now = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		return s.now
	}).AnyTimes()

	s.scheduled = make(map[string]func())
	s.scheduledAt = make(map[string]time.Time)

	s.mockSched.EXPECT().Schedule(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(key string, at time.Time, fn func()) {
			s.scheduled[key] = fn
			s.scheduledAt[key] = at
		}).AnyTimes()
	s.mockSched.EXPECT().Cancel(gomock.Any()).
		Do(func(key string) {
			delete(s.scheduled, key)
			delete(s.scheduledAt, key)
		}).AnyTimes()

	svc, err := session.New(&session.Config{
		Repo:        s.repo,
		Scheduler:   s.mockSched,
		MessageSink: s.mockSink,
		Notifier:    s.mockNotifier,
		Clock:       s.mockClock,
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *SessionServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// createSession is a helper that creates a session with the standard host
// and a publish expectation.
func (s *SessionServiceTestSuite) createSession(timeText string) *session.CreateSessionOutput {
	s.mockSink.EXPECT().
		PublishSession(gomock.Any(), gomock.Any()).
		Return(&session.PublishSessionOutput{MessageID: "msg-1"}, nil)

	out, err := s.svc.CreateSession(s.ctx, &session.CreateSessionInput{
		GuildID:   "guild-1",
		ChannelID: "channel-1",
		HostID:    "host-user",
		HostName:  "Host User",
		Activity:  "Helldivers 2",
		TimeText:  timeText,
	})
	s.Require().NoError(err)
	return out
}

// assertHostInvariant checks that exactly one participant is host and that
// it matches the record's host ID.
func (s *SessionServiceTestSuite) assertHostInvariant(sessionID string) {
	got, err := s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: sessionID})
	s.Require().NoError(err)

	if len(got.Session.Participants) == 0 {
		return
	}

	hosts := 0
	for _, p := range got.Session.Participants {
		if p.IsHost {
			hosts++
			s.Equal(got.Session.HostID, p.UserID)
		}
	}
	s.Equal(1, hosts)
}

func (s *SessionServiceTestSuite) TestCreateSessionSchedulesReminder() {
	out := s.createSession("in 30 minutes")

	sess := out.Session
	s.Equal("guild-1", sess.GuildID)
	s.Equal("host-user", sess.HostID)
	s.Equal(s.now.Add(30*time.Minute), sess.ScheduledAt)
	s.Equal("msg-1", sess.MessageID)
	s.False(out.RenderDegraded)

	s.Require().Len(sess.Participants, 1)
	s.True(sess.Participants[0].IsHost)
	s.Equal("Host User", sess.Participants[0].DisplayName)

	// The start reminder is keyed by the session ID.
	s.Contains(s.scheduled, sess.ID)
	s.Equal(s.now.Add(30*time.Minute), s.scheduledAt[sess.ID])

	// The record is retrievable and carries the message reference.
	got, err := s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: sess.ID})
	s.Require().NoError(err)
	s.Equal("msg-1", got.Session.MessageID)
}

func (s *SessionServiceTestSuite) TestCreateSessionNowIsLiveWithoutReminder() {
	out := s.createSession("now")

	s.True(out.Session.IsLive(s.now))
	s.Empty(s.scheduled)
}

func (s *SessionServiceTestSuite) TestCreateSessionRejectsBadTimeExpression() {
	_, err := s.svc.CreateSession(s.ctx, &session.CreateSessionInput{
		GuildID:   "guild-1",
		ChannelID: "channel-1",
		HostID:    "host-user",
		HostName:  "Host User",
		Activity:  "Helldivers 2",
		TimeText:  "whenever",
	})
	s.ErrorIs(err, session.ErrInvalidTimeExpression)

	// A rejected create leaves no trace.
	list, err := s.svc.ListSessions(s.ctx, &session.ListSessionsInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Empty(list.Sessions)
	s.Empty(s.scheduled)
}

func (s *SessionServiceTestSuite) TestCreateSessionHorizon() {
	_, err := s.svc.CreateSession(s.ctx, &session.CreateSessionInput{
		GuildID:   "guild-1",
		ChannelID: "channel-1",
		HostID:    "host-user",
		HostName:  "Host User",
		Activity:  "Helldivers 2",
		TimeText:  "in 25 hours",
	})
	s.Error(err)

	out := s.createSession("in 23 hours")
	s.Equal(s.now.Add(23*time.Hour), out.Session.ScheduledAt)
}

func (s *SessionServiceTestSuite) TestCreateSessionRenderFailureIsDegradedSuccess() {
	s.mockSink.EXPECT().
		PublishSession(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("discord is down"))

	out, err := s.svc.CreateSession(s.ctx, &session.CreateSessionInput{
		GuildID:   "guild-1",
		ChannelID: "channel-1",
		HostID:    "host-user",
		HostName:  "Host User",
		Activity:  "Helldivers 2",
		TimeText:  "in 1 hour",
	})
	s.Require().NoError(err)
	s.True(out.RenderDegraded)

	// The state change stands regardless of the render failure.
	got, err := s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: out.Session.ID})
	s.Require().NoError(err)
	s.Equal("", got.Session.MessageID)
}

func (s *SessionServiceTestSuite) TestJoinSessionIsIdempotent() {
	out := s.createSession("in 1 hour")
	s.mockSink.EXPECT().UpdateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	first, err := s.svc.JoinSession(s.ctx, &session.JoinSessionInput{
		SessionID:   out.Session.ID,
		UserID:      "user-2",
		DisplayName: "Second User",
	})
	s.Require().NoError(err)
	s.True(first.Added)
	s.Equal(2, first.ParticipantCount)

	second, err := s.svc.JoinSession(s.ctx, &session.JoinSessionInput{
		SessionID:   out.Session.ID,
		UserID:      "user-2",
		DisplayName: "Second User",
	})
	s.Require().NoError(err)
	s.False(second.Added)
	s.Equal(2, second.ParticipantCount)

	s.assertHostInvariant(out.Session.ID)
}

func (s *SessionServiceTestSuite) TestJoinSessionNotFound() {
	_, err := s.svc.JoinSession(s.ctx, &session.JoinSessionInput{
		SessionID:   "guild-1-999",
		UserID:      "user-2",
		DisplayName: "Second User",
	})
	s.ErrorIs(err, session.ErrSessionNotFound)
}

func (s *SessionServiceTestSuite) TestHostInvariantAcrossJoinLeaveSequence() {
	out := s.createSession("in 1 hour")
	s.mockSink.EXPECT().UpdateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	id := out.Session.ID

	for _, user := range []string{"user-2", "user-3", "user-4"} {
		_, err := s.svc.JoinSession(s.ctx, &session.JoinSessionInput{
			SessionID: id, UserID: user, DisplayName: user,
		})
		s.Require().NoError(err)
		s.assertHostInvariant(id)
	}

	// The host leaves; the earliest-joined remaining participant inherits.
	left, err := s.svc.LeaveSession(s.ctx, &session.LeaveSessionInput{
		SessionID: id, UserID: "host-user",
	})
	s.Require().NoError(err)
	s.True(left.Removed)
	s.Equal("user-2", left.HostTransferredTo)
	s.assertHostInvariant(id)

	left, err = s.svc.LeaveSession(s.ctx, &session.LeaveSessionInput{
		SessionID: id, UserID: "user-3",
	})
	s.Require().NoError(err)
	s.Empty(left.HostTransferredTo)
	s.assertHostInvariant(id)
}

func (s *SessionServiceTestSuite) TestLeaveWithHostTransfer() {
	out := s.createSession("in 1 hour")
	s.mockSink.EXPECT().UpdateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	id := out.Session.ID

	_, err := s.svc.JoinSession(s.ctx, &session.JoinSessionInput{
		SessionID: id, UserID: "user-2", DisplayName: "Second User",
	})
	s.Require().NoError(err)

	left, err := s.svc.LeaveSession(s.ctx, &session.LeaveSessionInput{
		SessionID: id, UserID: "host-user",
	})
	s.Require().NoError(err)
	s.True(left.Removed)
	s.Equal(1, left.ParticipantCount)
	s.Equal("user-2", left.HostTransferredTo)

	got, err := s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Equal("user-2", got.Session.HostID)
	s.True(got.Session.Participants[0].IsHost)
}

func (s *SessionServiceTestSuite) TestLeaveUnknownUserIsNoOp() {
	out := s.createSession("in 1 hour")

	left, err := s.svc.LeaveSession(s.ctx, &session.LeaveSessionInput{
		SessionID: out.Session.ID, UserID: "stranger",
	})
	s.Require().NoError(err)
	s.False(left.Removed)
	s.Equal(1, left.ParticipantCount)
}

func (s *SessionServiceTestSuite) TestLastLeaveStartsGracePeriod() {
	out := s.createSession("in 1 hour")
	s.mockSink.EXPECT().UpdateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	id := out.Session.ID

	left, err := s.svc.LeaveSession(s.ctx, &session.LeaveSessionInput{
		SessionID: id, UserID: "host-user",
	})
	s.Require().NoError(err)
	s.True(left.Removed)
	s.Equal(0, left.ParticipantCount)

	// The record survives the departure, pending the grace check.
	_, err = s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Contains(s.scheduled, "grace:"+id)
	s.Equal(s.now.Add(session.EmptyGraceWindow), s.scheduledAt["grace:"+id])

	// Grace expires with the session still empty: it is torn down.
	s.mockSink.EXPECT().RetireSession(gomock.Any(), gomock.Any()).Return(nil)
	s.now = s.now.Add(session.EmptyGraceWindow)
	graceFn := s.scheduled["grace:"+id]
	s.Require().NotNil(graceFn)
	graceFn()

	_, err = s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: id})
	s.ErrorIs(err, session.ErrSessionNotFound)
}

func (s *SessionServiceTestSuite) TestGraceCheckSparesRejoinedSession() {
	out := s.createSession("in 1 hour")
	s.mockSink.EXPECT().UpdateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	id := out.Session.ID

	_, err := s.svc.LeaveSession(s.ctx, &session.LeaveSessionInput{
		SessionID: id, UserID: "host-user",
	})
	s.Require().NoError(err)

	_, err = s.svc.JoinSession(s.ctx, &session.JoinSessionInput{
		SessionID: id, UserID: "user-2", DisplayName: "Second User",
	})
	s.Require().NoError(err)

	// The deferred check re-verifies emptiness and leaves the session alone.
	s.now = s.now.Add(session.EmptyGraceWindow)
	s.scheduled["grace:"+id]()

	got, err := s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Require().Len(got.Session.Participants, 1)

	// The rejoiner inherited the session.
	s.Equal("user-2", got.Session.HostID)
	s.True(got.Session.Participants[0].IsHost)
}

func (s *SessionServiceTestSuite) TestEndSessionRejectsNonHost() {
	out := s.createSession("in 1 hour")
	id := out.Session.ID

	_, err := s.svc.EndSession(s.ctx, &session.EndSessionInput{
		SessionID: id, RequesterID: "stranger",
	})
	s.ErrorIs(err, session.ErrNotHost)

	// The record is unchanged and still retrievable.
	got, err := s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Equal("host-user", got.Session.HostID)
	s.Len(got.Session.Participants, 1)
}

func (s *SessionServiceTestSuite) TestEndSessionByHost() {
	out := s.createSession("in 1 hour")
	id := out.Session.ID

	s.mockSink.EXPECT().RetireSession(gomock.Any(), &session.RetireSessionInput{
		ChannelID: "channel-1",
		MessageID: "msg-1",
	}).Return(nil)

	_, err := s.svc.EndSession(s.ctx, &session.EndSessionInput{
		SessionID: id, RequesterID: "host-user",
	})
	s.Require().NoError(err)

	_, err = s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: id})
	s.ErrorIs(err, session.ErrSessionNotFound)

	// All timers keyed to the session are disarmed.
	s.Empty(s.scheduled)
}

func (s *SessionServiceTestSuite) TestEndSessionNotFound() {
	_, err := s.svc.EndSession(s.ctx, &session.EndSessionInput{
		SessionID: "guild-1-999", RequesterID: "host-user",
	})
	s.ErrorIs(err, session.ErrSessionNotFound)
}

func (s *SessionServiceTestSuite) TestReminderFireTransitionsToLive() {
	out := s.createSession("in 30 minutes")
	s.mockSink.EXPECT().UpdateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	id := out.Session.ID

	_, err := s.svc.JoinSession(s.ctx, &session.JoinSessionInput{
		SessionID: id, UserID: "user-2", DisplayName: "Second User",
	})
	s.Require().NoError(err)

	s.mockNotifier.EXPECT().NotifySessionStart(gomock.Any(), &session.NotifySessionStartInput{
		ChannelID: "channel-1",
		UserIDs:   []string{"host-user", "user-2"},
		Activity:  "Helldivers 2",
	}).Return(nil)

	s.now = s.now.Add(30 * time.Minute)
	reminderFn := s.scheduled[id]
	s.Require().NotNil(reminderFn)
	reminderFn()

	// ScheduledAt snapped to the fire instant; the derived state is live.
	got, err := s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Equal(s.now, got.Session.ScheduledAt)
	s.True(got.Session.IsLive(s.now))

	// The system auto-cleanup is armed for two hours out.
	s.Contains(s.scheduled, "cleanup:"+id)
	s.Equal(s.now.Add(session.AutoCleanupDelay), s.scheduledAt["cleanup:"+id])
}

func (s *SessionServiceTestSuite) TestReminderFireAfterEndIsNoOp() {
	out := s.createSession("in 30 minutes")
	id := out.Session.ID

	reminderFn := s.scheduled[id]
	s.Require().NotNil(reminderFn)

	s.mockSink.EXPECT().RetireSession(gomock.Any(), gomock.Any()).Return(nil)
	_, err := s.svc.EndSession(s.ctx, &session.EndSessionInput{
		SessionID: id, RequesterID: "host-user",
	})
	s.Require().NoError(err)

	// A fire that raced the teardown touches nothing: no update, no
	// notification, no cleanup timer.
	s.now = s.now.Add(30 * time.Minute)
	reminderFn()
	s.NotContains(s.scheduled, "cleanup:"+id)
}

func (s *SessionServiceTestSuite) TestAutoCleanupEndsWithoutHostCheck() {
	out := s.createSession("in 30 minutes")
	s.mockSink.EXPECT().UpdateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockNotifier.EXPECT().NotifySessionStart(gomock.Any(), gomock.Any()).Return(nil)
	id := out.Session.ID

	s.now = s.now.Add(30 * time.Minute)
	s.scheduled[id]()

	s.mockSink.EXPECT().RetireSession(gomock.Any(), gomock.Any()).Return(nil)
	s.now = s.now.Add(session.AutoCleanupDelay)
	s.scheduled["cleanup:"+id]()

	_, err := s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: id})
	s.ErrorIs(err, session.ErrSessionNotFound)
}

func (s *SessionServiceTestSuite) TestSweepExpired() {
	// Session A: created now, keeps its host throughout.
	outA := s.createSession("in 1 hour")
	idA := outA.Session.ID

	// Session B: created 10 minutes later, then emptied.
	s.now = s.now.Add(10 * time.Minute)
	outB := s.createSession("in 1 hour")
	idB := outB.Session.ID
	s.mockSink.EXPECT().UpdateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	_, err := s.svc.LeaveSession(s.ctx, &session.LeaveSessionInput{
		SessionID: idB, UserID: "host-user",
	})
	s.Require().NoError(err)

	// 50 minutes after B emptied: B is gone (empty past grace), A stays.
	s.mockSink.EXPECT().RetireSession(gomock.Any(), gomock.Any()).Return(nil)
	s.now = s.now.Add(50 * time.Minute)
	swept, err := s.svc.SweepExpired(s.ctx, &session.SweepExpiredInput{})
	s.Require().NoError(err)
	s.Equal(1, swept.Removed)

	_, err = s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: idB})
	s.ErrorIs(err, session.ErrSessionNotFound)
	_, err = s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: idA})
	s.Require().NoError(err)

	// Five hours in, A exceeds the hard ceiling despite having a participant.
	s.mockSink.EXPECT().RetireSession(gomock.Any(), gomock.Any()).Return(nil)
	s.now = s.now.Add(4 * time.Hour)
	swept, err = s.svc.SweepExpired(s.ctx, &session.SweepExpiredInput{})
	s.Require().NoError(err)
	s.Equal(1, swept.Removed)

	_, err = s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: idA})
	s.ErrorIs(err, session.ErrSessionNotFound)
}

func (s *SessionServiceTestSuite) TestUpdateFailureIsDegradedSuccess() {
	out := s.createSession("in 1 hour")
	id := out.Session.ID

	s.mockSink.EXPECT().
		UpdateSession(gomock.Any(), gomock.Any()).
		Return(errors.New("discord is down"))

	joined, err := s.svc.JoinSession(s.ctx, &session.JoinSessionInput{
		SessionID: id, UserID: "user-2", DisplayName: "Second User",
	})
	s.Require().NoError(err)
	s.True(joined.Added)
	s.True(joined.RenderDegraded)

	// The join is visible despite the stale display.
	got, err := s.svc.GetSession(s.ctx, &session.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Len(got.Session.Participants, 2)
}

func (s *SessionServiceTestSuite) TestListSessions() {
	outA := s.createSession("in 1 hour")
	s.now = s.now.Add(time.Minute)
	outB := s.createSession("in 2 hours")

	list, err := s.svc.ListSessions(s.ctx, &session.ListSessionsInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Require().Len(list.Sessions, 2)
	s.Equal(outA.Session.ID, list.Sessions[0].ID)
	s.Equal(outB.Session.ID, list.Sessions[1].ID)
}
