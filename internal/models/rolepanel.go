package models

import (
	"time"
)

// MaxPanelRoles is the most roles a single panel can carry, matching the
// Discord component limit of five action rows with five buttons each.
const MaxPanelRoles = 25

// RolePanel represents a self-service role panel published in a channel
type RolePanel struct {
	// ID is the unique identifier for the panel
	ID string

	// GuildID is the Discord server/guild the panel belongs to
	GuildID string

	// ChannelID is the Discord channel the panel is published in
	ChannelID string

	// MessageID is the published panel message, empty until first publish
	MessageID string

	// Title is shown at the top of the panel embed
	Title string

	// Description is optional explanatory text under the title
	Description string

	// Roles are the selectable roles, in the order they were added
	Roles []*RoleOption

	// CreatedAt is when the panel was created
	CreatedAt time.Time

	// UpdatedAt is when the panel was last modified
	UpdatedAt time.Time
}

// RoleOption represents a single toggleable role on a panel
type RoleOption struct {
	// RoleID is the Discord role ID to assign or remove
	RoleID string

	// Label is the button label
	Label string

	// Emoji is an optional emoji shown on the button
	Emoji string
}

// Role returns the option for the given role ID, or nil.
func (p *RolePanel) Role(roleID string) *RoleOption {
	for _, r := range p.Roles {
		if r.RoleID == roleID {
			return r
		}
	}
	return nil
}
