package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/squadkit/squadbot/internal/log"
)

// maxClearAmount is the Discord bulk-delete ceiling.
const maxClearAmount = 100

// ClearCommand handles the /clear command
type ClearCommand struct {
	BaseCommand
	logger zerolog.Logger
}

// NewClearCommand creates a new clear command handler
func NewClearCommand() *ClearCommand {
	manageMessages := int64(discordgo.PermissionManageMessages)

	return &ClearCommand{
		BaseCommand: BaseCommand{
			Name:                     "clear",
			Description:              "Bulk delete recent messages in this channel",
			DefaultMemberPermissions: &manageMessages,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: fmt.Sprintf("How many messages to delete (1-%d)", maxClearAmount),
					Required:    true,
				},
			},
		},
		logger: log.Component("clear_command"),
	}
}

// Handle processes a Discord interaction for the clear command
func (c *ClearCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	amount := int(data.Options[0].IntValue())
	if amount < 1 || amount > maxClearAmount {
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("Amount must be between 1 and %d.", maxClearAmount))
	}

	messages, err := s.ChannelMessages(i.ChannelID, amount, "", "", "")
	if err != nil {
		c.logger.Error().Err(err).Str("channel_id", i.ChannelID).Msg("failed to fetch messages")
		return RespondWithError(s, i, "I couldn't fetch messages in this channel.")
	}

	if len(messages) == 0 {
		return RespondWithEphemeralMessage(s, i, "Nothing to delete.")
	}

	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)
	}

	if err := s.ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
		c.logger.Error().Err(err).Str("channel_id", i.ChannelID).Msg("failed to bulk delete messages")
		return RespondWithError(s, i,
			"I couldn't delete those messages. Bulk delete only covers messages newer than two weeks.")
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Deleted %d message(s).", len(ids)))
}
