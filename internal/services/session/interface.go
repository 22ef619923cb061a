package session

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/squadkit/squadbot/internal/services/session Service,MessageSink,Notifier

import "context"

// Service defines the interface for session lifecycle operations.
//
// Operations on the same session ID must not run truly in parallel; the
// service serializes them internally, and message updates are issued only
// after the in-memory state change is visible.
type Service interface {
	// CreateSession schedules a new session with the host as sole participant
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// JoinSession adds a user to a session (idempotent)
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// LeaveSession removes a user, transferring host or starting the
	// empty-session grace period as needed
	LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error)

	// EndSession tears a session down; only the current host may do this
	EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error)

	// GetSession retrieves a snapshot of a session
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// ListSessions retrieves all sessions for a guild
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// SweepExpired removes sessions past the hard age ceiling and emptied
	// sessions past the grace window; driven by a periodic tick
	SweepExpired(ctx context.Context, input *SweepExpiredInput) (*SweepExpiredOutput, error)
}

// MessageSink publishes, updates and retires the message surface that
// renders a session. Sink failures never roll back session state.
type MessageSink interface {
	// PublishSession creates the session message and returns its ID
	PublishSession(ctx context.Context, input *PublishSessionInput) (*PublishSessionOutput, error)

	// UpdateSession re-renders an existing session message
	UpdateSession(ctx context.Context, input *UpdateSessionInput) error

	// RetireSession deletes or disables a session message
	RetireSession(ctx context.Context, input *RetireSessionInput) error
}

// Notifier delivers mention-style notifications to a set of users.
type Notifier interface {
	// NotifySessionStart pings participants that their session is starting
	NotifySessionStart(ctx context.Context, input *NotifySessionStartInput) error
}
