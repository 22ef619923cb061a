package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/squadkit/squadbot/internal/log"
	"github.com/squadkit/squadbot/internal/services/settings"
)

// SettingsCommand handles the /settings command
type SettingsCommand struct {
	BaseCommand
	settingsService settings.Service
	logger          zerolog.Logger
}

// NewSettingsCommand creates a new settings command handler
func NewSettingsCommand(settingsService settings.Service) *SettingsCommand {
	manageGuild := int64(discordgo.PermissionManageServer)

	return &SettingsCommand{
		BaseCommand: BaseCommand{
			Name:                     "settings",
			Description:              "Configure the bot for this server",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "welcome",
					Description: "Configure welcome messages for new members",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "enabled",
							Description: "Turn welcome messages on or off",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Channel to post welcomes in (required to enable)",
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "videoreact",
					Description: "Configure automatic reactions on video posts",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "enabled",
							Description: "Turn video reactions on or off",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "emoji",
							Description: "Reaction emoji (defaults to 🎬)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the current settings",
				},
			},
		},
		settingsService: settingsService,
		logger:          log.Component("settings_command"),
	}
}

// Handle processes a Discord interaction for the settings command
func (c *SettingsCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	sub := data.Options[0]
	switch sub.Name {
	case "welcome":
		return c.handleWelcome(s, i, sub.Options)
	case "videoreact":
		return c.handleVideoReact(s, i, sub.Options)
	case "show":
		return c.handleShow(s, i)
	default:
		return errors.New("unknown subcommand")
	}
}

// handleWelcome handles the welcome subcommand
func (c *SettingsCommand) handleWelcome(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	input := &settings.SetWelcomeInput{
		GuildID: i.GuildID,
		Enabled: opts["enabled"].BoolValue(),
	}
	if opt, ok := opts["channel"]; ok {
		input.ChannelID = opt.ChannelValue(s).ID
	}

	out, err := c.settingsService.SetWelcome(ctx, input)
	if err != nil {
		if input.Enabled && input.ChannelID == "" {
			return RespondWithEphemeralMessage(s, i, "Pick a channel to enable welcome messages.")
		}
		c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to update welcome settings")
		return RespondWithError(s, i, "Something went wrong saving the settings.")
	}

	if out.Settings.WelcomeEnabled {
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("Welcome messages are on, posting to <#%s>.", out.Settings.WelcomeChannelID))
	}
	return RespondWithEphemeralMessage(s, i, "Welcome messages are off.")
}

// handleVideoReact handles the videoreact subcommand
func (c *SettingsCommand) handleVideoReact(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()
	opts := optionMap(options)

	input := &settings.SetVideoReactInput{
		GuildID: i.GuildID,
		Enabled: opts["enabled"].BoolValue(),
	}
	if opt, ok := opts["emoji"]; ok {
		input.Emoji = opt.StringValue()
	}

	out, err := c.settingsService.SetVideoReact(ctx, input)
	if err != nil {
		c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to update video reaction settings")
		return RespondWithError(s, i, "Something went wrong saving the settings.")
	}

	if out.Settings.VideoReactEnabled {
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("Video reactions are on, using %s.", out.Settings.ReactEmoji()))
	}
	return RespondWithEphemeralMessage(s, i, "Video reactions are off.")
}

// handleShow handles the show subcommand
func (c *SettingsCommand) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := c.settingsService.GetSettings(ctx, &settings.GetSettingsInput{GuildID: i.GuildID})
	if err != nil {
		c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to load settings")
		return RespondWithError(s, i, "Something went wrong loading the settings.")
	}

	st := out.Settings

	welcome := "off"
	if st.WelcomeEnabled {
		welcome = fmt.Sprintf("on, posting to <#%s>", st.WelcomeChannelID)
	}

	videoReact := "off"
	if st.VideoReactEnabled {
		videoReact = fmt.Sprintf("on, using %s", st.ReactEmoji())
	}

	embed := &discordgo.MessageEmbed{
		Title: "Server Settings",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Welcome messages", Value: welcome},
			{Name: "Video reactions", Value: videoReact},
		},
	}
	return RespondWithEphemeralEmbed(s, i, embed)
}
