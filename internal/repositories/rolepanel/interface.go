package rolepanel

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/squadkit/squadbot/internal/repositories/rolepanel Repository

import (
	"context"

	"github.com/squadkit/squadbot/internal/models"
)

// Repository defines the interface for role panel persistence
type Repository interface {
	// SavePanel persists a panel
	SavePanel(ctx context.Context, input *SavePanelInput) error

	// GetPanel retrieves a panel by ID
	GetPanel(ctx context.Context, input *GetPanelInput) (*models.RolePanel, error)

	// GetPanelByMessage retrieves a panel by its published message ID
	GetPanelByMessage(ctx context.Context, input *GetPanelByMessageInput) (*models.RolePanel, error)

	// DeletePanel removes a panel
	DeletePanel(ctx context.Context, input *DeletePanelInput) error

	// ListPanels retrieves all panels for a guild
	ListPanels(ctx context.Context, input *ListPanelsInput) (*ListPanelsOutput, error)
}
