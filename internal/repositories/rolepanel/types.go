package rolepanel

import "github.com/squadkit/squadbot/internal/models"

type SavePanelInput struct {
	Panel *models.RolePanel
}

type GetPanelInput struct {
	PanelID string
}

type GetPanelByMessageInput struct {
	MessageID string
}

type DeletePanelInput struct {
	PanelID string
}

type ListPanelsInput struct {
	GuildID string
}

type ListPanelsOutput struct {
	Panels []*models.RolePanel
}
