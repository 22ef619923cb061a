package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/squadkit/squadbot/internal/models"
	"github.com/squadkit/squadbot/internal/services/session"
)

// Component custom ID prefixes. Session buttons carry the session ID after
// the colon; role toggles carry the panel ID and role ID.
const (
	ButtonSessionJoin  = "session_join"
	ButtonSessionLeave = "session_leave"
	ButtonSessionInfo  = "session_info"
	ButtonSessionEnd   = "session_end"

	ButtonRoleToggle = "rolepanel_toggle"
)

// sessionButtonID builds the custom ID for a session action button
func sessionButtonID(kind session.ButtonKind, sessionID string) string {
	switch kind {
	case session.ButtonJoin:
		return ButtonSessionJoin + ":" + sessionID
	case session.ButtonLeave:
		return ButtonSessionLeave + ":" + sessionID
	case session.ButtonInfo:
		return ButtonSessionInfo + ":" + sessionID
	case session.ButtonEnd:
		return ButtonSessionEnd + ":" + sessionID
	default:
		return string(kind) + ":" + sessionID
	}
}

// roleToggleID builds the custom ID for a role panel toggle button
func roleToggleID(panelID, roleID string) string {
	return fmt.Sprintf("%s:%s:%s", ButtonRoleToggle, panelID, roleID)
}

// splitCustomID separates a component custom ID into its prefix and payload
func splitCustomID(customID string) (prefix, payload string) {
	parts := strings.SplitN(customID, ":", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// sessionEmbed converts a display spec into a Discord embed
func sessionEmbed(spec *session.DisplaySpec) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       spec.Title,
		Description: spec.Description,
		Color:       spec.Color,
	}

	for _, f := range spec.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	return embed
}

// sessionComponents converts a display spec's buttons into an action row
func sessionComponents(spec *session.DisplaySpec) []discordgo.MessageComponent {
	if len(spec.Buttons) == 0 {
		return nil
	}

	buttons := make([]discordgo.MessageComponent, 0, len(spec.Buttons))
	for _, b := range spec.Buttons {
		style := discordgo.SecondaryButton
		if b.Kind == session.ButtonJoin {
			style = discordgo.SuccessButton
		}
		if b.Danger {
			style = discordgo.DangerButton
		}

		buttons = append(buttons, discordgo.Button{
			Label:    b.Label,
			Style:    style,
			CustomID: sessionButtonID(b.Kind, b.SessionID),
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

// panelEmbed builds the Discord embed for a published role panel
func panelEmbed(panel *models.RolePanel) *discordgo.MessageEmbed {
	description := panel.Description
	if description == "" {
		description = "Click a button to toggle the role on or off."
	}

	return &discordgo.MessageEmbed{
		Title:       panel.Title,
		Description: description,
		Color:       0x5865F2, // Discord blurple
	}
}

// panelComponents lays a panel's role buttons out in rows of five, the
// Discord per-row maximum.
func panelComponents(panel *models.RolePanel) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var current []discordgo.MessageComponent

	for _, role := range panel.Roles {
		button := discordgo.Button{
			Label:    role.Label,
			Style:    discordgo.SecondaryButton,
			CustomID: roleToggleID(panel.ID, role.RoleID),
		}
		if role.Emoji != "" {
			button.Emoji = &discordgo.ComponentEmoji{Name: role.Emoji}
		}

		current = append(current, button)
		if len(current) == 5 {
			rows = append(rows, discordgo.ActionsRow{Components: current})
			current = nil
		}
	}

	if len(current) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: current})
	}

	return rows
}
