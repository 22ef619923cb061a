package rolepanel

import (
	"github.com/squadkit/squadbot/internal/common/clock"
	"github.com/squadkit/squadbot/internal/common/uuid"
	"github.com/squadkit/squadbot/internal/models"
	panelRepo "github.com/squadkit/squadbot/internal/repositories/rolepanel"
)

// Config holds configuration for the role panel service
type Config struct {
	// Repo persists panels
	Repo panelRepo.Repository

	// UUIDGenerator mints panel IDs
	UUIDGenerator uuid.UUID

	// Clock abstracts time for testing
	Clock clock.Clock
}

// CreatePanelInput contains parameters for creating a panel
type CreatePanelInput struct {
	GuildID     string
	ChannelID   string
	Title       string
	Description string
}

// CreatePanelOutput contains the created panel
type CreatePanelOutput struct {
	Panel *models.RolePanel
}

// AddRoleInput contains parameters for adding a role to a panel
type AddRoleInput struct {
	PanelID string
	RoleID  string
	Label   string
	Emoji   string
}

// AddRoleOutput contains the updated panel
type AddRoleOutput struct {
	Panel *models.RolePanel
}

// RemoveRoleInput contains parameters for removing a role from a panel
type RemoveRoleInput struct {
	PanelID string
	RoleID  string
}

// RemoveRoleOutput contains the updated panel
type RemoveRoleOutput struct {
	Panel *models.RolePanel
}

// GetPanelInput contains parameters for retrieving a panel
type GetPanelInput struct {
	PanelID string
}

// GetPanelByMessageInput contains parameters for looking a panel up by message
type GetPanelByMessageInput struct {
	MessageID string
}

// GetPanelOutput contains a panel
type GetPanelOutput struct {
	Panel *models.RolePanel
}

// SetMessageRefInput records the published message for a panel
type SetMessageRefInput struct {
	PanelID   string
	MessageID string
}

// ListPanelsInput contains parameters for listing a guild's panels
type ListPanelsInput struct {
	GuildID string
}

// ListPanelsOutput contains the guild's panels
type ListPanelsOutput struct {
	Panels []*models.RolePanel
}

// DeletePanelInput contains parameters for deleting a panel
type DeletePanelInput struct {
	PanelID string
}
