package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/squadkit/squadbot/internal/log"
	"github.com/squadkit/squadbot/internal/services/session"
)

// SessionCommand handles the /session command
type SessionCommand struct {
	BaseCommand
	sessionService session.Service
	logger         zerolog.Logger
}

// NewSessionCommand creates a new session command handler
func NewSessionCommand(sessionService session.Service) *SessionCommand {
	return &SessionCommand{
		BaseCommand: BaseCommand{
			Name:        "session",
			Description: "Schedule and manage gaming sessions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Schedule a new gaming session",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "activity",
							Description: "What you'll be playing",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "time",
							Description: "When it starts: now, in 30 minutes, at 8pm",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "description",
							Description: "Optional details for the session",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List this server's open sessions",
				},
			},
		},
		sessionService: sessionService,
		logger:         log.Component("session_command"),
	}
}

// Handle processes a Discord interaction for the session command
func (c *SessionCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	switch data.Options[0].Name {
	case "create":
		return c.handleCreate(s, i, data.Options[0].Options)
	case "list":
		return c.handleList(s, i)
	default:
		return errors.New("unknown subcommand")
	}
}

// handleCreate handles the create subcommand
func (c *SessionCommand) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	userID, displayName := interactionUser(i)
	opts := optionMap(options)

	input := &session.CreateSessionInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		HostID:    userID,
		HostName:  displayName,
		Activity:  opts["activity"].StringValue(),
		TimeText:  opts["time"].StringValue(),
	}
	if opt, ok := opts["description"]; ok {
		input.Description = opt.StringValue()
	}

	out, err := c.sessionService.CreateSession(ctx, input)
	if err != nil {
		if errors.Is(err, session.ErrInvalidTimeExpression) {
			return RespondWithEphemeralMessage(s, i,
				"I couldn't understand that time. Try `now`, `in 30 minutes`, or `at 8pm` (up to 24 hours ahead).")
		}
		if errors.Is(err, session.ErrHorizonExceeded) {
			return RespondWithEphemeralMessage(s, i, "Sessions can only be scheduled up to 24 hours ahead.")
		}
		c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to create session")
		return RespondWithError(s, i, "Something went wrong creating the session.")
	}

	if out.RenderDegraded {
		return RespondWithEphemeralMessage(s, i,
			"Session created, but I couldn't post its message in this channel. Check my permissions.")
	}

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("**%s** is on the calendar. You're hosting!", out.Session.Activity))
}

// handleList handles the list subcommand
func (c *SessionCommand) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := c.sessionService.ListSessions(ctx, &session.ListSessionsInput{GuildID: i.GuildID})
	if err != nil {
		c.logger.Error().Err(err).Str("guild_id", i.GuildID).Msg("failed to list sessions")
		return RespondWithError(s, i, "Something went wrong listing sessions.")
	}

	if len(out.Sessions) == 0 {
		return RespondWithEphemeralMessage(s, i, "No sessions right now. Start one with `/session create`.")
	}

	var lines []string
	for _, sess := range out.Sessions {
		when := fmt.Sprintf("<t:%d:R>", sess.ScheduledAt.Unix())
		if sess.IsLive(time.Now()) {
			when = "🔴 live"
		}
		lines = append(lines, fmt.Sprintf("**%s** — %s, %d player(s), hosted by <@%s>",
			sess.Activity, when, len(sess.Participants), sess.HostID))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Open Sessions",
		Description: strings.Join(lines, "\n"),
		Color:       0x5865F2,
	}
	return RespondWithEphemeralEmbed(s, i, embed)
}
