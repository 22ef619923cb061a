package models

import (
	"time"
)

// DefaultVideoReactEmoji is used when a guild has not picked its own.
const DefaultVideoReactEmoji = "🎬"

// GuildSettings holds per-guild feature configuration
type GuildSettings struct {
	// GuildID is the Discord server/guild these settings belong to
	GuildID string

	// WelcomeChannelID is where welcome messages are posted
	WelcomeChannelID string

	// WelcomeEnabled toggles welcome messages for the guild
	WelcomeEnabled bool

	// VideoReactEnabled toggles automatic reactions on video posts
	VideoReactEnabled bool

	// VideoReactEmoji is the reaction added to detected videos
	VideoReactEmoji string

	// UpdatedAt is when the settings were last changed
	UpdatedAt time.Time
}

// ReactEmoji returns the configured video reaction emoji or the default.
func (s *GuildSettings) ReactEmoji() string {
	if s.VideoReactEmoji == "" {
		return DefaultVideoReactEmoji
	}
	return s.VideoReactEmoji
}
