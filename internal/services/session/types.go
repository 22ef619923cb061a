package session

import (
	"time"

	"github.com/squadkit/squadbot/internal/common/clock"
	"github.com/squadkit/squadbot/internal/models"
	sessionRepo "github.com/squadkit/squadbot/internal/repositories/session"
	"github.com/squadkit/squadbot/internal/scheduler"
)

const (
	// CreationHorizon is the furthest ahead a session may be scheduled,
	// enforced at creation only.
	CreationHorizon = 24 * time.Hour

	// EmptyGraceWindow is how long an emptied session lingers before
	// deletion, allowing a late rejoin.
	EmptyGraceWindow = 5 * time.Minute

	// MaxSessionAge is the hard ceiling on any session's lifetime,
	// enforced by the expiry sweep.
	MaxSessionAge = 4 * time.Hour

	// AutoCleanupDelay is how long a session stays up after going live
	// before the system tears it down without a host check.
	AutoCleanupDelay = 2 * time.Hour
)

// Config holds configuration for the session service
type Config struct {
	// Repo is the in-memory session registry
	Repo sessionRepo.Repository

	// Scheduler arms the start reminder and the deferred lifecycle checks
	Scheduler scheduler.Scheduler

	// MessageSink renders sessions to the chat surface
	MessageSink MessageSink

	// Notifier pings participants on the live transition
	Notifier Notifier

	// Clock abstracts time for testing
	Clock clock.Clock
}

// CreateSessionInput contains parameters for creating a session
type CreateSessionInput struct {
	// GuildID is the Discord server the session belongs to
	GuildID string

	// ChannelID is where the session message will be posted
	ChannelID string

	// HostID is the Discord user ID of the host
	HostID string

	// HostName is the host's display name
	HostName string

	// Activity is the game or activity name
	Activity string

	// TimeText is the free-form time expression ("now", "in 30 minutes", "at 8pm")
	TimeText string

	// Description is optional free text
	Description string
}

// CreateSessionOutput contains the result of creating a session
type CreateSessionOutput struct {
	// Session is a snapshot of the created session
	Session *models.Session

	// RenderDegraded is true when the session was created but its message
	// could not be posted
	RenderDegraded bool
}

// JoinSessionInput contains parameters for joining a session
type JoinSessionInput struct {
	SessionID   string
	UserID      string
	DisplayName string
}

// JoinSessionOutput contains the result of joining a session
type JoinSessionOutput struct {
	// Added is false when the user was already a participant
	Added bool

	// ParticipantCount is the roster size after the operation
	ParticipantCount int

	// RenderDegraded is true when the state changed but the message
	// update failed
	RenderDegraded bool
}

// LeaveSessionInput contains parameters for leaving a session
type LeaveSessionInput struct {
	SessionID string
	UserID    string
}

// LeaveSessionOutput contains the result of leaving a session
type LeaveSessionOutput struct {
	// Removed is false when the user was not a participant
	Removed bool

	// ParticipantCount is the roster size after the operation
	ParticipantCount int

	// HostTransferredTo is the new host's user ID when the departing user
	// was host and others remained, otherwise empty
	HostTransferredTo string

	// RenderDegraded is true when the state changed but the message
	// update failed
	RenderDegraded bool
}

// EndSessionInput contains parameters for ending a session
type EndSessionInput struct {
	SessionID   string
	RequesterID string
}

// EndSessionOutput contains the result of ending a session
type EndSessionOutput struct {
}

// GetSessionInput contains parameters for retrieving a session
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput contains a session snapshot
type GetSessionOutput struct {
	Session *models.Session
}

// ListSessionsInput contains parameters for listing a guild's sessions
type ListSessionsInput struct {
	GuildID string
}

// ListSessionsOutput contains the guild's sessions, oldest first
type ListSessionsOutput struct {
	Sessions []*models.Session
}

// SweepExpiredInput contains parameters for the expiry sweep
type SweepExpiredInput struct {
}

// SweepExpiredOutput contains the result of the expiry sweep
type SweepExpiredOutput struct {
	// Removed is the number of sessions torn down by this sweep
	Removed int
}

// PublishSessionInput asks the sink to create a session message
type PublishSessionInput struct {
	ChannelID string
	Spec      *DisplaySpec
}

// PublishSessionOutput carries the reference to the created message
type PublishSessionOutput struct {
	MessageID string
}

// UpdateSessionInput asks the sink to re-render a session message
type UpdateSessionInput struct {
	ChannelID string
	MessageID string
	Spec      *DisplaySpec
}

// RetireSessionInput asks the sink to delete or disable a session message
type RetireSessionInput struct {
	ChannelID string
	MessageID string
}

// NotifySessionStartInput asks the notifier to ping participants
type NotifySessionStartInput struct {
	ChannelID string
	UserIDs   []string
	Activity  string
}
