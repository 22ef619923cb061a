package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/squadkit/squadbot/internal/repositories/session Repository

import (
	"context"

	"github.com/squadkit/squadbot/internal/models"
)

// Repository defines the interface for session storage
type Repository interface {
	// Save persists a session
	Save(ctx context.Context, input *SaveInput) error

	// Get retrieves a session by ID
	Get(ctx context.Context, input *GetInput) (*models.Session, error)

	// Delete removes a session
	Delete(ctx context.Context, input *DeleteInput) error

	// ListByGuild retrieves all sessions for a guild
	ListByGuild(ctx context.Context, input *ListByGuildInput) (*ListByGuildOutput, error)

	// ListAll retrieves every stored session
	ListAll(ctx context.Context, input *ListAllInput) (*ListAllOutput, error)
}
