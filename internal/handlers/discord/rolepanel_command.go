package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/squadkit/squadbot/internal/log"
	"github.com/squadkit/squadbot/internal/models"
	"github.com/squadkit/squadbot/internal/services/rolepanel"
)

// RolePanelCommand handles the /rolepanel command
type RolePanelCommand struct {
	BaseCommand
	panelService rolepanel.Service
	logger       zerolog.Logger
}

// NewRolePanelCommand creates a new role panel command handler
func NewRolePanelCommand(panelService rolepanel.Service) *RolePanelCommand {
	manageRoles := int64(discordgo.PermissionManageRoles)

	return &RolePanelCommand{
		BaseCommand: BaseCommand{
			Name:                     "rolepanel",
			Description:              "Create and manage self-assign role panels",
			DefaultMemberPermissions: &manageRoles,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a new role panel in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "Panel title",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "description",
							Description: "Optional text shown on the panel",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "addrole",
					Description: "Add a toggleable role to a panel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "panel",
							Description: "Panel ID from /rolepanel list",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to toggle",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "label",
							Description: "Button label (defaults to the role name)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "emoji",
							Description: "Button emoji",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "removerole",
					Description: "Remove a role from a panel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "panel",
							Description: "Panel ID from /rolepanel list",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "publish",
					Description: "Post or refresh a panel's message",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "panel",
							Description: "Panel ID from /rolepanel list",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List this server's role panels",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a role panel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "panel",
							Description: "Panel ID from /rolepanel list",
							Required:    true,
						},
					},
				},
			},
		},
		panelService: panelService,
		logger:       log.Component("rolepanel_command"),
	}
}

// Handle processes a Discord interaction for the rolepanel command
func (c *RolePanelCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	sub := data.Options[0]
	switch sub.Name {
	case "create":
		return c.handleCreate(s, i, sub.Options)
	case "addrole":
		return c.handleAddRole(s, i, sub.Options)
	case "removerole":
		return c.handleRemoveRole(s, i, sub.Options)
	case "publish":
		return c.handlePublish(s, i, sub.Options)
	case "list":
		return c.handleList(s, i)
	case "delete":
		return c.handleDelete(s, i, sub.Options)
	default:
		return errors.New("unknown subcommand")
	}
}

// handleCreate handles the create subcommand
func (c *RolePanelCommand) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	input := &rolepanel.CreatePanelInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Title:     opts["title"].StringValue(),
	}
	if opt, ok := opts["description"]; ok {
		input.Description = opt.StringValue()
	}

	out, err := c.panelService.CreatePanel(ctx, input)
	if err != nil {
		c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to create panel")
		return RespondWithError(s, i, "Something went wrong creating the panel.")
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
		"Panel created with ID `%s`. Add roles with `/rolepanel addrole`, then `/rolepanel publish` to post it.",
		out.Panel.ID))
}

// handleAddRole handles the addrole subcommand
func (c *RolePanelCommand) handleAddRole(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	role := opts["role"].RoleValue(s, i.GuildID)
	input := &rolepanel.AddRoleInput{
		PanelID: opts["panel"].StringValue(),
		RoleID:  role.ID,
		Label:   role.Name,
	}
	if opt, ok := opts["label"]; ok {
		input.Label = opt.StringValue()
	}
	if opt, ok := opts["emoji"]; ok {
		input.Emoji = opt.StringValue()
	}

	out, err := c.panelService.AddRole(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, rolepanel.ErrPanelNotFound):
			return RespondWithEphemeralMessage(s, i, "No panel with that ID. Check `/rolepanel list`.")
		case errors.Is(err, rolepanel.ErrPanelFull):
			return RespondWithEphemeralMessage(s, i,
				fmt.Sprintf("That panel already has the maximum of %d roles.", models.MaxPanelRoles))
		case errors.Is(err, rolepanel.ErrRoleAlreadyOnPanel):
			return RespondWithEphemeralMessage(s, i, "That role is already on the panel.")
		default:
			c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to add role to panel")
			return RespondWithError(s, i, "Something went wrong updating the panel.")
		}
	}

	c.refreshPanelMessage(s, out.Panel)

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("Added **%s** to the panel (%d/%d roles).", input.Label, len(out.Panel.Roles), models.MaxPanelRoles))
}

// handleRemoveRole handles the removerole subcommand
func (c *RolePanelCommand) handleRemoveRole(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	role := opts["role"].RoleValue(s, i.GuildID)
	out, err := c.panelService.RemoveRole(ctx, &rolepanel.RemoveRoleInput{
		PanelID: opts["panel"].StringValue(),
		RoleID:  role.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, rolepanel.ErrPanelNotFound):
			return RespondWithEphemeralMessage(s, i, "No panel with that ID. Check `/rolepanel list`.")
		case errors.Is(err, rolepanel.ErrRoleNotOnPanel):
			return RespondWithEphemeralMessage(s, i, "That role is not on the panel.")
		default:
			c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to remove role from panel")
			return RespondWithError(s, i, "Something went wrong updating the panel.")
		}
	}

	c.refreshPanelMessage(s, out.Panel)

	return RespondWithEphemeralMessage(s, i, "Role removed from the panel.")
}

// handlePublish handles the publish subcommand
func (c *RolePanelCommand) handlePublish(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	out, err := c.panelService.GetPanel(ctx, &rolepanel.GetPanelInput{
		PanelID: opts["panel"].StringValue(),
	})
	if err != nil {
		if errors.Is(err, rolepanel.ErrPanelNotFound) {
			return RespondWithEphemeralMessage(s, i, "No panel with that ID. Check `/rolepanel list`.")
		}
		c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to load panel")
		return RespondWithError(s, i, "Something went wrong loading the panel.")
	}

	panel := out.Panel
	if len(panel.Roles) == 0 {
		return RespondWithEphemeralMessage(s, i, "Add at least one role before publishing.")
	}

	// A panel that already has a message gets refreshed in place.
	if panel.MessageID != "" {
		c.refreshPanelMessage(s, panel)
		return RespondWithEphemeralMessage(s, i, "Panel message refreshed.")
	}

	msg, err := s.ChannelMessageSendComplex(panel.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{panelEmbed(panel)},
		Components: panelComponents(panel),
	})
	if err != nil {
		c.logger.Error().Err(err).Str("panel_id", panel.ID).Msg("failed to post panel message")
		return RespondWithError(s, i, "I couldn't post the panel message. Check my permissions in that channel.")
	}

	if err := c.panelService.SetMessageRef(ctx, &rolepanel.SetMessageRefInput{
		PanelID:   panel.ID,
		MessageID: msg.ID,
	}); err != nil {
		c.logger.Error().Err(err).Str("panel_id", panel.ID).Msg("failed to record panel message")
	}

	return RespondWithEphemeralMessage(s, i, "Panel published.")
}

// handleList handles the list subcommand
func (c *RolePanelCommand) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := c.panelService.ListPanels(ctx, &rolepanel.ListPanelsInput{GuildID: i.GuildID})
	if err != nil {
		c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to list panels")
		return RespondWithError(s, i, "Something went wrong listing panels.")
	}

	if len(out.Panels) == 0 {
		return RespondWithEphemeralMessage(s, i, "No role panels yet. Create one with `/rolepanel create`.")
	}

	var lines []string
	for _, p := range out.Panels {
		status := "unpublished"
		if p.MessageID != "" {
			status = fmt.Sprintf("in <#%s>", p.ChannelID)
		}
		lines = append(lines, fmt.Sprintf("`%s` — **%s**, %d role(s), %s", p.ID, p.Title, len(p.Roles), status))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Role Panels",
		Description: strings.Join(lines, "\n"),
		Color:       0x5865F2,
	}
	return RespondWithEphemeralEmbed(s, i, embed)
}

// handleDelete handles the delete subcommand
func (c *RolePanelCommand) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)
	panelID := opts["panel"].StringValue()

	// Grab the panel first so its message can be removed too.
	out, err := c.panelService.GetPanel(ctx, &rolepanel.GetPanelInput{PanelID: panelID})
	if err != nil {
		if errors.Is(err, rolepanel.ErrPanelNotFound) {
			return RespondWithEphemeralMessage(s, i, "No panel with that ID. Check `/rolepanel list`.")
		}
		c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to load panel")
		return RespondWithError(s, i, "Something went wrong loading the panel.")
	}

	if err := c.panelService.DeletePanel(ctx, &rolepanel.DeletePanelInput{PanelID: panelID}); err != nil {
		c.logger.Error().Err(err).Str("panel_id", panelID).Msg("failed to delete panel")
		return RespondWithError(s, i, "Something went wrong deleting the panel.")
	}

	if out.Panel.MessageID != "" {
		if err := s.ChannelMessageDelete(out.Panel.ChannelID, out.Panel.MessageID); err != nil {
			c.logger.Warn().Err(err).Str("panel_id", panelID).Msg("failed to delete panel message")
		}
	}

	return RespondWithEphemeralMessage(s, i, "Panel deleted.")
}

// refreshPanelMessage re-renders a published panel's message. Unpublished
// panels are left alone.
func (c *RolePanelCommand) refreshPanelMessage(s *discordgo.Session, panel *models.RolePanel) {
	if panel.MessageID == "" {
		return
	}

	embeds := []*discordgo.MessageEmbed{panelEmbed(panel)}
	components := panelComponents(panel)

	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    panel.ChannelID,
		ID:         panel.MessageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("panel_id", panel.ID).Msg("failed to refresh panel message")
	}
}
