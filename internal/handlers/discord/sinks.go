package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/squadkit/squadbot/internal/services/session"
)

// messageSink renders session messages through the Discord API. It satisfies
// session.MessageSink so the lifecycle engine never touches discordgo
// directly.
type messageSink struct {
	session *discordgo.Session
}

// NewMessageSink creates a session message sink backed by a Discord session
func NewMessageSink(s *discordgo.Session) (session.MessageSink, error) {
	if s == nil {
		return nil, errors.New("discord session cannot be nil")
	}
	return &messageSink{session: s}, nil
}

// PublishSession creates the session message and returns its ID
func (m *messageSink) PublishSession(_ context.Context, input *session.PublishSessionInput) (*session.PublishSessionOutput, error) {
	msg, err := m.session.ChannelMessageSendComplex(input.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{sessionEmbed(input.Spec)},
		Components: sessionComponents(input.Spec),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send session message: %w", err)
	}

	return &session.PublishSessionOutput{MessageID: msg.ID}, nil
}

// UpdateSession re-renders an existing session message
func (m *messageSink) UpdateSession(_ context.Context, input *session.UpdateSessionInput) error {
	embeds := []*discordgo.MessageEmbed{sessionEmbed(input.Spec)}
	components := sessionComponents(input.Spec)

	_, err := m.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    input.ChannelID,
		ID:         input.MessageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to edit session message: %w", err)
	}

	return nil
}

// RetireSession deletes a session message
func (m *messageSink) RetireSession(_ context.Context, input *session.RetireSessionInput) error {
	if err := m.session.ChannelMessageDelete(input.ChannelID, input.MessageID); err != nil {
		return fmt.Errorf("failed to delete session message: %w", err)
	}
	return nil
}

// notifier pings participants through channel mentions. It satisfies
// session.Notifier.
type notifier struct {
	session *discordgo.Session
}

// NewNotifier creates a session start notifier backed by a Discord session
func NewNotifier(s *discordgo.Session) (session.Notifier, error) {
	if s == nil {
		return nil, errors.New("discord session cannot be nil")
	}
	return &notifier{session: s}, nil
}

// NotifySessionStart pings participants that their session is starting
func (n *notifier) NotifySessionStart(_ context.Context, input *session.NotifySessionStartInput) error {
	if len(input.UserIDs) == 0 {
		return nil
	}

	mentions := make([]string, 0, len(input.UserIDs))
	for _, id := range input.UserIDs {
		mentions = append(mentions, fmt.Sprintf("<@%s>", id))
	}

	content := fmt.Sprintf("%s — **%s** is starting now!", strings.Join(mentions, " "), input.Activity)
	if _, err := n.session.ChannelMessageSend(input.ChannelID, content); err != nil {
		return fmt.Errorf("failed to send start notification: %w", err)
	}

	return nil
}
