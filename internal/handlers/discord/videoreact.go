package discord

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/squadkit/squadbot/internal/services/settings"
)

// videoExtensions are attachment/link suffixes treated as video content.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
	".avi":  true,
}

// videoHosts are link domains treated as video content.
var videoHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"youtu.be":        true,
	"clips.twitch.tv": true,
	"medal.tv":        true,
	"streamable.com":  true,
}

// handleMessageCreate reacts to messages carrying video content, if the
// guild has video reactions enabled.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore DMs and anything posted by a bot, ourselves included.
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}

	if !messageHasVideo(m.Message) {
		return
	}

	ctx := context.Background()
	out, err := b.settingsService.GetSettings(ctx, &settings.GetSettingsInput{GuildID: m.GuildID})
	if err != nil {
		b.logger.Error().Err(err).Str("guild_id", m.GuildID).Msg("failed to load settings for video reaction")
		return
	}

	if !out.Settings.VideoReactEnabled {
		return
	}

	if err := s.MessageReactionAdd(m.ChannelID, m.ID, out.Settings.ReactEmoji()); err != nil {
		b.logger.Warn().
			Err(err).
			Str("channel_id", m.ChannelID).
			Str("message_id", m.ID).
			Msg("failed to add video reaction")
	}
}

// messageHasVideo reports whether a message carries a video attachment or a
// link to a known video host.
func messageHasVideo(m *discordgo.Message) bool {
	for _, a := range m.Attachments {
		if strings.HasPrefix(a.ContentType, "video/") {
			return true
		}
		if videoExtensions[strings.ToLower(path.Ext(a.Filename))] {
			return true
		}
	}

	for _, word := range strings.Fields(m.Content) {
		if !strings.HasPrefix(word, "http://") && !strings.HasPrefix(word, "https://") {
			continue
		}
		u, err := url.Parse(word)
		if err != nil {
			continue
		}
		if videoHosts[strings.ToLower(u.Host)] {
			return true
		}
		if videoExtensions[strings.ToLower(path.Ext(u.Path))] {
			return true
		}
	}

	return false
}
