package rolepanel

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/squadkit/squadbot/internal/services/rolepanel Service

import "context"

// Service defines the interface for role panel operations
type Service interface {
	// CreatePanel creates an unpublished panel
	CreatePanel(ctx context.Context, input *CreatePanelInput) (*CreatePanelOutput, error)

	// AddRole adds a toggleable role to a panel
	AddRole(ctx context.Context, input *AddRoleInput) (*AddRoleOutput, error)

	// RemoveRole removes a role from a panel
	RemoveRole(ctx context.Context, input *RemoveRoleInput) (*RemoveRoleOutput, error)

	// GetPanel retrieves a panel by ID
	GetPanel(ctx context.Context, input *GetPanelInput) (*GetPanelOutput, error)

	// GetPanelByMessage retrieves a panel by its published message ID
	GetPanelByMessage(ctx context.Context, input *GetPanelByMessageInput) (*GetPanelOutput, error)

	// SetMessageRef records the published message for a panel
	SetMessageRef(ctx context.Context, input *SetMessageRefInput) error

	// ListPanels retrieves all panels for a guild
	ListPanels(ctx context.Context, input *ListPanelsInput) (*ListPanelsOutput, error)

	// DeletePanel removes a panel
	DeletePanel(ctx context.Context, input *DeletePanelInput) error
}
