package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/squadkit/squadbot/internal/common/clock"
	"github.com/squadkit/squadbot/internal/log"
	"github.com/squadkit/squadbot/internal/metrics"
	"github.com/squadkit/squadbot/internal/models"
	sessionRepo "github.com/squadkit/squadbot/internal/repositories/session"
	"github.com/squadkit/squadbot/internal/scheduler"
	"github.com/squadkit/squadbot/internal/timeparse"
)

// service implements the Service interface
type service struct {
	repo     sessionRepo.Repository
	sched    scheduler.Scheduler
	sink     MessageSink
	notifier Notifier
	clock    clock.Clock
	logger   zerolog.Logger

	// mu serializes every state-changing operation so callers and timer
	// callbacks never interleave on the read-modify-write cycle. Message
	// updates happen outside the lock: the state change is already visible
	// by the time the sink call is issued.
	mu sync.Mutex
}

// New creates a new session service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Repo == nil {
		return nil, errors.New("session repository cannot be nil")
	}

	if cfg.Scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}

	if cfg.MessageSink == nil {
		return nil, errors.New("message sink cannot be nil")
	}

	if cfg.Notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	return &service{
		repo:     cfg.Repo,
		sched:    cfg.Scheduler,
		sink:     cfg.MessageSink,
		notifier: cfg.Notifier,
		clock:    c,
		logger:   log.Component("session"),
	}, nil
}

// Scheduler key namespaces. The scheduler allows one pending callback per
// key, so the grace check and the auto-cleanup get their own keys rather
// than clobbering the start reminder.
func reminderKey(sessionID string) string { return sessionID }
func graceKey(sessionID string) string    { return "grace:" + sessionID }
func cleanupKey(sessionID string) string  { return "cleanup:" + sessionID }

// CreateSession schedules a new session with the host as sole participant
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.GuildID == "" || input.ChannelID == "" || input.HostID == "" {
		return nil, errors.New("guild, channel and host IDs are required")
	}

	if input.Activity == "" {
		return nil, errors.New("activity cannot be empty")
	}

	now := s.clock.Now()

	parsed, ok := timeparse.Parse(now, input.TimeText)
	if !ok {
		return nil, ErrInvalidTimeExpression
	}

	if parsed.At.Sub(now) > CreationHorizon {
		return nil, ErrHorizonExceeded
	}

	sess := &models.Session{
		ID:          fmt.Sprintf("%s-%d", input.GuildID, now.UnixMilli()),
		GuildID:     input.GuildID,
		ChannelID:   input.ChannelID,
		HostID:      input.HostID,
		Activity:    input.Activity,
		Description: input.Description,
		ScheduledAt: parsed.At,
		CreatedAt:   now,
		Active:      true,
		Participants: []*models.Participant{
			{
				UserID:      input.HostID,
				DisplayName: input.HostName,
				JoinedAt:    now,
				IsHost:      true,
			},
		},
	}

	s.mu.Lock()
	if err := s.repo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	if parsed.At.After(now) {
		sessionID := sess.ID
		s.sched.Schedule(reminderKey(sessionID), parsed.At, func() {
			s.handleReminderFire(sessionID)
		})
	}
	s.mu.Unlock()

	metrics.SessionsCreatedTotal.Inc()
	metrics.ActiveSessions.Inc()

	s.logger.Info().
		Str("session_id", sess.ID).
		Str("guild_id", sess.GuildID).
		Str("host_id", sess.HostID).
		Time("scheduled_at", sess.ScheduledAt).
		Msg("session created")

	degraded := false
	published, err := s.sink.PublishSession(ctx, &PublishSessionInput{
		ChannelID: sess.ChannelID,
		Spec:      RenderSession(sess, now),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to publish session message")
		degraded = true
	} else {
		s.mu.Lock()
		stored, gerr := s.repo.Get(ctx, &sessionRepo.GetInput{SessionID: sess.ID})
		if gerr == nil {
			stored.MessageID = published.MessageID
			if serr := s.repo.Save(ctx, &sessionRepo.SaveInput{Session: stored}); serr != nil {
				s.logger.Warn().Err(serr).Str("session_id", sess.ID).Msg("failed to record message reference")
			}
		}
		s.mu.Unlock()
		sess.MessageID = published.MessageID
	}

	return &CreateSessionOutput{
		Session:        sess,
		RenderDegraded: degraded,
	}, nil
}

// JoinSession adds a user to a session. Joining twice is a no-op.
func (s *service) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if input == nil || input.SessionID == "" || input.UserID == "" {
		return nil, errors.New("input, session ID and user ID are required")
	}

	s.mu.Lock()
	sess, err := s.getLocked(ctx, input.SessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if sess.Participant(input.UserID) != nil {
		count := len(sess.Participants)
		s.mu.Unlock()
		return &JoinSessionOutput{
			Added:            false,
			ParticipantCount: count,
		}, nil
	}

	// Joining an emptied session during its grace window makes the joiner
	// host; a non-empty roster always has exactly one.
	becomesHost := len(sess.Participants) == 0

	sess.Participants = append(sess.Participants, &models.Participant{
		UserID:      input.UserID,
		DisplayName: input.DisplayName,
		JoinedAt:    s.clock.Now(),
		IsHost:      becomesHost,
	})
	if becomesHost {
		sess.HostID = input.UserID
	}

	if err := s.repo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.mu.Unlock()

	return &JoinSessionOutput{
		Added:            true,
		ParticipantCount: len(sess.Participants),
		RenderDegraded:   s.updateMessage(ctx, sess),
	}, nil
}

// LeaveSession removes a user from a session, transferring host or starting
// the empty-session grace period as needed
func (s *service) LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error) {
	if input == nil || input.SessionID == "" || input.UserID == "" {
		return nil, errors.New("input, session ID and user ID are required")
	}

	s.mu.Lock()
	sess, err := s.getLocked(ctx, input.SessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	leaving := sess.Participant(input.UserID)
	if leaving == nil {
		count := len(sess.Participants)
		s.mu.Unlock()
		return &LeaveSessionOutput{
			Removed:          false,
			ParticipantCount: count,
		}, nil
	}

	remaining := make([]*models.Participant, 0, len(sess.Participants)-1)
	for _, p := range sess.Participants {
		if p.UserID != input.UserID {
			remaining = append(remaining, p)
		}
	}
	sess.Participants = remaining

	transferredTo := ""
	if len(sess.Participants) == 0 {
		// Keep the record around for the grace window; the deferred check
		// re-verifies emptiness in case someone rejoined.
		sessionID := sess.ID
		s.sched.Schedule(graceKey(sessionID), s.clock.Now().Add(EmptyGraceWindow), func() {
			s.handleGraceExpiry(sessionID)
		})
	} else if leaving.IsHost {
		// Earliest joined inherits the session; the roster is kept in join
		// order, so that is the first remaining participant.
		next := sess.Participants[0]
		next.IsHost = true
		sess.HostID = next.UserID
		transferredTo = next.UserID

		s.logger.Info().
			Str("session_id", sess.ID).
			Str("new_host_id", next.UserID).
			Msg("host transferred")
	}

	if err := s.repo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.mu.Unlock()

	return &LeaveSessionOutput{
		Removed:           true,
		ParticipantCount:  len(sess.Participants),
		HostTransferredTo: transferredTo,
		RenderDegraded:    s.updateMessage(ctx, sess),
	}, nil
}

// EndSession tears a session down. Only the current host may end it.
func (s *service) EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID are required")
	}

	s.mu.Lock()
	sess, err := s.getLocked(ctx, input.SessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if sess.HostID != input.RequesterID {
		s.mu.Unlock()
		return nil, ErrNotHost
	}

	if err := s.teardownLocked(ctx, sess, "host"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.retireMessage(ctx, sess)

	return &EndSessionOutput{}, nil
}

// GetSession retrieves a snapshot of a session
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID are required")
	}

	sess, err := s.repo.Get(ctx, &sessionRepo.GetInput{SessionID: input.SessionID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &GetSessionOutput{Session: sess}, nil
}

// ListSessions retrieves all sessions for a guild, oldest first
func (s *service) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID are required")
	}

	out, err := s.repo.ListByGuild(ctx, &sessionRepo.ListByGuildInput{GuildID: input.GuildID})
	if err != nil {
		return nil, err
	}

	return &ListSessionsOutput{Sessions: out.Sessions}, nil
}

// SweepExpired removes sessions past the hard age ceiling and emptied
// sessions past the grace window
func (s *service) SweepExpired(ctx context.Context, input *SweepExpiredInput) (*SweepExpiredOutput, error) {
	now := s.clock.Now()

	s.mu.Lock()
	all, err := s.repo.ListAll(ctx, &sessionRepo.ListAllInput{})
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	var removed []*models.Session
	for _, sess := range all.Sessions {
		age := now.Sub(sess.CreatedAt)
		expired := age > MaxSessionAge
		abandoned := len(sess.Participants) == 0 && age > EmptyGraceWindow

		if !expired && !abandoned {
			continue
		}

		if err := s.teardownLocked(ctx, sess, "sweep"); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to sweep session")
			continue
		}
		removed = append(removed, sess)
	}
	s.mu.Unlock()

	for _, sess := range removed {
		s.retireMessage(ctx, sess)
	}

	if len(removed) > 0 {
		s.logger.Info().Int("removed", len(removed)).Msg("expiry sweep complete")
	}

	return &SweepExpiredOutput{Removed: len(removed)}, nil
}

// handleReminderFire is the live transition: the scheduled instant arrived.
// It snaps ScheduledAt to now so the derived state reads live from here on,
// pings the roster, and arms the system auto-cleanup.
func (s *service) handleReminderFire(sessionID string) {
	ctx := context.Background()

	s.mu.Lock()
	sess, err := s.getLocked(ctx, sessionID)
	if err != nil || !sess.Active {
		// Fired against a session that was torn down in flight.
		s.mu.Unlock()
		return
	}

	now := s.clock.Now()
	sess.ScheduledAt = now

	if err := s.repo.Save(ctx, &sessionRepo.SaveInput{Session: sess}); err != nil {
		s.mu.Unlock()
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to store live transition")
		return
	}

	s.sched.Schedule(cleanupKey(sessionID), now.Add(AutoCleanupDelay), func() {
		s.handleAutoCleanup(sessionID)
	})
	s.mu.Unlock()

	metrics.RemindersFiredTotal.Inc()

	s.logger.Info().Str("session_id", sessionID).Msg("session is live")

	s.updateMessage(ctx, sess)

	userIDs := make([]string, 0, len(sess.Participants))
	for _, p := range sess.Participants {
		userIDs = append(userIDs, p.UserID)
	}

	err = s.notifier.NotifySessionStart(ctx, &NotifySessionStartInput{
		ChannelID: sess.ChannelID,
		UserIDs:   userIDs,
		Activity:  sess.Activity,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to notify participants")
	}
}

// handleGraceExpiry deletes a session that emptied out and stayed empty
// through the grace window.
func (s *service) handleGraceExpiry(sessionID string) {
	ctx := context.Background()

	s.mu.Lock()
	sess, err := s.getLocked(ctx, sessionID)
	if err != nil {
		s.mu.Unlock()
		return
	}

	if len(sess.Participants) > 0 {
		// Someone rejoined during the grace window.
		s.mu.Unlock()
		return
	}

	if err := s.teardownLocked(ctx, sess, "grace"); err != nil {
		s.mu.Unlock()
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to delete emptied session")
		return
	}
	s.mu.Unlock()

	s.retireMessage(ctx, sess)
}

// handleAutoCleanup is the system-initiated teardown two hours after the
// live transition; no host check applies.
func (s *service) handleAutoCleanup(sessionID string) {
	ctx := context.Background()

	s.mu.Lock()
	sess, err := s.getLocked(ctx, sessionID)
	if err != nil {
		s.mu.Unlock()
		return
	}

	if err := s.teardownLocked(ctx, sess, "cleanup"); err != nil {
		s.mu.Unlock()
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to auto-clean session")
		return
	}
	s.mu.Unlock()

	s.retireMessage(ctx, sess)
}

// getLocked fetches a session, mapping the repository's not-found error to
// the service's. Callers hold s.mu.
func (s *service) getLocked(ctx context.Context, sessionID string) (*models.Session, error) {
	sess, err := s.repo.Get(ctx, &sessionRepo.GetInput{SessionID: sessionID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}

// teardownLocked removes the session from the registry and disarms every
// timer keyed to it. Callers hold s.mu. Irreversible.
func (s *service) teardownLocked(ctx context.Context, sess *models.Session, cause string) error {
	if err := s.repo.Delete(ctx, &sessionRepo.DeleteInput{SessionID: sess.ID}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	sess.Active = false

	s.sched.Cancel(reminderKey(sess.ID))
	s.sched.Cancel(graceKey(sess.ID))
	s.sched.Cancel(cleanupKey(sess.ID))

	metrics.ActiveSessions.Dec()
	metrics.SessionsEndedTotal.WithLabelValues(cause).Inc()

	s.logger.Info().
		Str("session_id", sess.ID).
		Str("cause", cause).
		Msg("session ended")

	return nil
}

// updateMessage re-renders the session message. Returns true when the update
// failed; display staleness never fails the operation.
func (s *service) updateMessage(ctx context.Context, sess *models.Session) bool {
	if sess.MessageID == "" {
		return false
	}

	err := s.sink.UpdateSession(ctx, &UpdateSessionInput{
		ChannelID: sess.ChannelID,
		MessageID: sess.MessageID,
		Spec:      RenderSession(sess, s.clock.Now()),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to update session message")
		return true
	}
	return false
}

// retireMessage deletes or disables the session message, best effort.
func (s *service) retireMessage(ctx context.Context, sess *models.Session) {
	if sess.MessageID == "" {
		return
	}

	err := s.sink.RetireSession(ctx, &RetireSessionInput{
		ChannelID: sess.ChannelID,
		MessageID: sess.MessageID,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to retire session message")
	}
}
