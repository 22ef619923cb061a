package settings

import "github.com/squadkit/squadbot/internal/models"

type SaveSettingsInput struct {
	Settings *models.GuildSettings
}

type GetSettingsInput struct {
	GuildID string
}
