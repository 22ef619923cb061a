package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/squadkit/squadbot/internal/common/clock"
	"github.com/squadkit/squadbot/internal/log"
	"github.com/squadkit/squadbot/internal/models"
	settingsRepo "github.com/squadkit/squadbot/internal/repositories/settings"
)

// service implements the Service interface
type service struct {
	repo   settingsRepo.Repository
	clock  clock.Clock
	logger zerolog.Logger
}

// New creates a new settings service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Repo == nil {
		return nil, errors.New("settings repository cannot be nil")
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	return &service{
		repo:   cfg.Repo,
		clock:  c,
		logger: log.Component("settings"),
	}, nil
}

// GetSettings retrieves a guild's settings, falling back to defaults
func (s *service) GetSettings(ctx context.Context, input *GetSettingsInput) (*GetSettingsOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID are required")
	}

	stored, err := s.getOrDefault(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}

	return &GetSettingsOutput{Settings: stored}, nil
}

// SetWelcome configures the welcome message channel and toggle
func (s *service) SetWelcome(ctx context.Context, input *SetWelcomeInput) (*SetWelcomeOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID are required")
	}

	if input.Enabled && input.ChannelID == "" {
		return nil, errors.New("channel ID is required to enable welcome messages")
	}

	stored, err := s.getOrDefault(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}

	stored.WelcomeEnabled = input.Enabled
	if input.ChannelID != "" {
		stored.WelcomeChannelID = input.ChannelID
	}
	stored.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveSettings(ctx, &settingsRepo.SaveSettingsInput{Settings: stored}); err != nil {
		return nil, fmt.Errorf("failed to store settings: %w", err)
	}

	s.logger.Info().
		Str("guild_id", input.GuildID).
		Bool("enabled", input.Enabled).
		Msg("welcome settings updated")

	return &SetWelcomeOutput{Settings: stored}, nil
}

// SetVideoReact configures the video auto-reaction toggle and emoji
func (s *service) SetVideoReact(ctx context.Context, input *SetVideoReactInput) (*SetVideoReactOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID are required")
	}

	stored, err := s.getOrDefault(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}

	stored.VideoReactEnabled = input.Enabled
	if input.Emoji != "" {
		stored.VideoReactEmoji = input.Emoji
	}
	stored.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveSettings(ctx, &settingsRepo.SaveSettingsInput{Settings: stored}); err != nil {
		return nil, fmt.Errorf("failed to store settings: %w", err)
	}

	s.logger.Info().
		Str("guild_id", input.GuildID).
		Bool("enabled", input.Enabled).
		Msg("video reaction settings updated")

	return &SetVideoReactOutput{Settings: stored}, nil
}

// getOrDefault loads stored settings or builds the defaults for a guild
// that has never configured anything.
func (s *service) getOrDefault(ctx context.Context, guildID string) (*models.GuildSettings, error) {
	stored, err := s.repo.GetSettings(ctx, &settingsRepo.GetSettingsInput{GuildID: guildID})
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return &models.GuildSettings{GuildID: guildID}, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return stored, nil
}
