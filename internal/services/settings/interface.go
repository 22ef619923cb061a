package settings

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/squadkit/squadbot/internal/services/settings Service

import "context"

// Service defines the interface for guild settings operations
type Service interface {
	// GetSettings retrieves a guild's settings, falling back to defaults
	// when nothing has been configured yet
	GetSettings(ctx context.Context, input *GetSettingsInput) (*GetSettingsOutput, error)

	// SetWelcome configures the welcome message channel and toggle
	SetWelcome(ctx context.Context, input *SetWelcomeInput) (*SetWelcomeOutput, error)

	// SetVideoReact configures the video auto-reaction toggle and emoji
	SetVideoReact(ctx context.Context, input *SetVideoReactInput) (*SetVideoReactOutput, error)
}
