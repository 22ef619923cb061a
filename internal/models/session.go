package models

import (
	"time"
)

// Session represents a scheduled or live gaming session
type Session struct {
	// ID is the unique identifier for this session (guild ID + creation timestamp)
	ID string

	// GuildID is the Discord server/guild this session belongs to
	GuildID string

	// ChannelID is the Discord channel where the session message lives
	ChannelID string

	// HostID is the user ID of the current host (changes on host transfer)
	HostID string

	// Activity is the name of the game or activity being played
	Activity string

	// Description is optional free text provided by the host
	Description string

	// ScheduledAt is when the session is slated to start. The reminder-fire
	// transition snaps this to the fire time so the session reads as live.
	ScheduledAt time.Time

	// CreatedAt is when the session was created
	CreatedAt time.Time

	// MessageID is the Discord message currently rendering this session
	MessageID string

	// Active is false once the session has been torn down. The registry
	// removes ended sessions; the flag only lets late callbacks bail out.
	Active bool

	// Participants holds everyone in the session, in join order
	Participants []*Participant
}

// IsLive reports whether the session's scheduled time has arrived.
func (s *Session) IsLive(now time.Time) bool {
	return !s.ScheduledAt.After(now)
}

// Participant returns the participant with the given user ID, or nil.
func (s *Session) Participant(userID string) *Participant {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy of the session. The registry hands out clones so
// callers never observe a record mid-mutation.
func (s *Session) Clone() *Session {
	c := *s
	c.Participants = make([]*Participant, len(s.Participants))
	for i, p := range s.Participants {
		pc := *p
		c.Participants[i] = &pc
	}
	return &c
}
