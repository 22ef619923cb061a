package models

import (
	"time"
)

// Participant represents a user's membership in a session
type Participant struct {
	// UserID is the Discord user ID of the participant
	UserID string

	// DisplayName is the name shown in the session roster
	DisplayName string

	// JoinedAt is when the user joined the session
	JoinedAt time.Time

	// IsHost indicates whether this participant currently hosts the session.
	// Exactly one participant has this set whenever the roster is non-empty.
	IsHost bool
}
