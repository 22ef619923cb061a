package session

import "github.com/squadkit/squadbot/internal/models"

type SaveInput struct {
	Session *models.Session
}

type GetInput struct {
	SessionID string
}

type DeleteInput struct {
	SessionID string
}

type ListByGuildInput struct {
	GuildID string
}

type ListByGuildOutput struct {
	Sessions []*models.Session
}

type ListAllInput struct {
}

type ListAllOutput struct {
	Sessions []*models.Session
}
