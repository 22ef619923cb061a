package settings

import (
	"github.com/squadkit/squadbot/internal/common/clock"
	"github.com/squadkit/squadbot/internal/models"
	settingsRepo "github.com/squadkit/squadbot/internal/repositories/settings"
)

// Config holds configuration for the settings service
type Config struct {
	// Repo persists guild settings
	Repo settingsRepo.Repository

	// Clock abstracts time for testing
	Clock clock.Clock
}

// GetSettingsInput contains parameters for retrieving settings
type GetSettingsInput struct {
	GuildID string
}

// GetSettingsOutput contains a guild's settings
type GetSettingsOutput struct {
	Settings *models.GuildSettings
}

// SetWelcomeInput configures welcome messages for a guild
type SetWelcomeInput struct {
	GuildID string

	// ChannelID is where welcome messages are posted; required when enabling
	ChannelID string

	Enabled bool
}

// SetWelcomeOutput contains the updated settings
type SetWelcomeOutput struct {
	Settings *models.GuildSettings
}

// SetVideoReactInput configures video auto-reactions for a guild
type SetVideoReactInput struct {
	GuildID string
	Enabled bool

	// Emoji overrides the reaction emoji; empty keeps the current one
	Emoji string
}

// SetVideoReactOutput contains the updated settings
type SetVideoReactOutput struct {
	Settings *models.GuildSettings
}
