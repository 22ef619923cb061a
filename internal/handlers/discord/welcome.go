package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/squadkit/squadbot/internal/services/settings"
)

// handleGuildMemberAdd posts a welcome message when a member joins, if the
// guild has welcomes enabled.
func (b *Bot) handleGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	ctx := context.Background()

	out, err := b.settingsService.GetSettings(ctx, &settings.GetSettingsInput{GuildID: m.GuildID})
	if err != nil {
		b.logger.Error().Err(err).Str("guild_id", m.GuildID).Msg("failed to load settings for welcome")
		return
	}

	st := out.Settings
	if !st.WelcomeEnabled || st.WelcomeChannelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Welcome! 👋",
		Description: fmt.Sprintf("Hey <@%s>, glad to have you here. Check out `/session list` to see what's being played.", m.User.ID),
		Color:       0x57F287,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: m.User.AvatarURL("256"),
		},
	}

	if guild, err := s.State.Guild(m.GuildID); err == nil && guild.MemberCount > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Member #%d", guild.MemberCount),
		}
	}

	if _, err := s.ChannelMessageSendEmbed(st.WelcomeChannelID, embed); err != nil {
		b.logger.Warn().
			Err(err).
			Str("guild_id", m.GuildID).
			Str("channel_id", st.WelcomeChannelID).
			Msg("failed to send welcome message")
	}
}
