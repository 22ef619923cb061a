package rolepanel

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/squadkit/squadbot/internal/common/clock"
	"github.com/squadkit/squadbot/internal/common/uuid"
	"github.com/squadkit/squadbot/internal/log"
	"github.com/squadkit/squadbot/internal/models"
	panelRepo "github.com/squadkit/squadbot/internal/repositories/rolepanel"
)

// service implements the Service interface
type service struct {
	repo   panelRepo.Repository
	uuid   uuid.UUID
	clock  clock.Clock
	logger zerolog.Logger
}

// New creates a new role panel service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Repo == nil {
		return nil, errors.New("panel repository cannot be nil")
	}

	gen := cfg.UUIDGenerator
	if gen == nil {
		gen = uuid.New()
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	return &service{
		repo:   cfg.Repo,
		uuid:   gen,
		clock:  c,
		logger: log.Component("rolepanel"),
	}, nil
}

// CreatePanel creates an unpublished panel
func (s *service) CreatePanel(ctx context.Context, input *CreatePanelInput) (*CreatePanelOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.GuildID == "" || input.ChannelID == "" {
		return nil, errors.New("guild and channel IDs are required")
	}

	if input.Title == "" {
		return nil, errors.New("title cannot be empty")
	}

	now := s.clock.Now()
	panel := &models.RolePanel{
		ID:          s.uuid.NewUUID(),
		GuildID:     input.GuildID,
		ChannelID:   input.ChannelID,
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.SavePanel(ctx, &panelRepo.SavePanelInput{Panel: panel}); err != nil {
		return nil, fmt.Errorf("failed to store panel: %w", err)
	}

	s.logger.Info().
		Str("panel_id", panel.ID).
		Str("guild_id", panel.GuildID).
		Msg("role panel created")

	return &CreatePanelOutput{Panel: panel}, nil
}

// AddRole adds a toggleable role to a panel
func (s *service) AddRole(ctx context.Context, input *AddRoleInput) (*AddRoleOutput, error) {
	if input == nil || input.PanelID == "" || input.RoleID == "" {
		return nil, errors.New("input, panel ID and role ID are required")
	}

	panel, err := s.getPanel(ctx, input.PanelID)
	if err != nil {
		return nil, err
	}

	if panel.Role(input.RoleID) != nil {
		return nil, ErrRoleAlreadyOnPanel
	}

	if len(panel.Roles) >= models.MaxPanelRoles {
		return nil, ErrPanelFull
	}

	label := input.Label
	if label == "" {
		label = input.RoleID
	}

	panel.Roles = append(panel.Roles, &models.RoleOption{
		RoleID: input.RoleID,
		Label:  label,
		Emoji:  input.Emoji,
	})
	panel.UpdatedAt = s.clock.Now()

	if err := s.repo.SavePanel(ctx, &panelRepo.SavePanelInput{Panel: panel}); err != nil {
		return nil, fmt.Errorf("failed to store panel: %w", err)
	}

	return &AddRoleOutput{Panel: panel}, nil
}

// RemoveRole removes a role from a panel
func (s *service) RemoveRole(ctx context.Context, input *RemoveRoleInput) (*RemoveRoleOutput, error) {
	if input == nil || input.PanelID == "" || input.RoleID == "" {
		return nil, errors.New("input, panel ID and role ID are required")
	}

	panel, err := s.getPanel(ctx, input.PanelID)
	if err != nil {
		return nil, err
	}

	if panel.Role(input.RoleID) == nil {
		return nil, ErrRoleNotOnPanel
	}

	remaining := make([]*models.RoleOption, 0, len(panel.Roles)-1)
	for _, r := range panel.Roles {
		if r.RoleID != input.RoleID {
			remaining = append(remaining, r)
		}
	}
	panel.Roles = remaining
	panel.UpdatedAt = s.clock.Now()

	if err := s.repo.SavePanel(ctx, &panelRepo.SavePanelInput{Panel: panel}); err != nil {
		return nil, fmt.Errorf("failed to store panel: %w", err)
	}

	return &RemoveRoleOutput{Panel: panel}, nil
}

// GetPanel retrieves a panel by ID
func (s *service) GetPanel(ctx context.Context, input *GetPanelInput) (*GetPanelOutput, error) {
	if input == nil || input.PanelID == "" {
		return nil, errors.New("input and panel ID are required")
	}

	panel, err := s.getPanel(ctx, input.PanelID)
	if err != nil {
		return nil, err
	}

	return &GetPanelOutput{Panel: panel}, nil
}

// GetPanelByMessage retrieves a panel by its published message ID
func (s *service) GetPanelByMessage(ctx context.Context, input *GetPanelByMessageInput) (*GetPanelOutput, error) {
	if input == nil || input.MessageID == "" {
		return nil, errors.New("input and message ID are required")
	}

	panel, err := s.repo.GetPanelByMessage(ctx, &panelRepo.GetPanelByMessageInput{
		MessageID: input.MessageID,
	})
	if err != nil {
		if errors.Is(err, panelRepo.ErrPanelNotFound) {
			return nil, ErrPanelNotFound
		}
		return nil, err
	}

	return &GetPanelOutput{Panel: panel}, nil
}

// SetMessageRef records the published message for a panel
func (s *service) SetMessageRef(ctx context.Context, input *SetMessageRefInput) error {
	if input == nil || input.PanelID == "" || input.MessageID == "" {
		return errors.New("input, panel ID and message ID are required")
	}

	panel, err := s.getPanel(ctx, input.PanelID)
	if err != nil {
		return err
	}

	panel.MessageID = input.MessageID
	panel.UpdatedAt = s.clock.Now()

	if err := s.repo.SavePanel(ctx, &panelRepo.SavePanelInput{Panel: panel}); err != nil {
		return fmt.Errorf("failed to store panel: %w", err)
	}

	return nil
}

// ListPanels retrieves all panels for a guild
func (s *service) ListPanels(ctx context.Context, input *ListPanelsInput) (*ListPanelsOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID are required")
	}

	out, err := s.repo.ListPanels(ctx, &panelRepo.ListPanelsInput{GuildID: input.GuildID})
	if err != nil {
		return nil, err
	}

	return &ListPanelsOutput{Panels: out.Panels}, nil
}

// DeletePanel removes a panel
func (s *service) DeletePanel(ctx context.Context, input *DeletePanelInput) error {
	if input == nil || input.PanelID == "" {
		return errors.New("input and panel ID are required")
	}

	err := s.repo.DeletePanel(ctx, &panelRepo.DeletePanelInput{PanelID: input.PanelID})
	if err != nil {
		if errors.Is(err, panelRepo.ErrPanelNotFound) {
			return ErrPanelNotFound
		}
		return err
	}

	return nil
}

func (s *service) getPanel(ctx context.Context, panelID string) (*models.RolePanel, error) {
	panel, err := s.repo.GetPanel(ctx, &panelRepo.GetPanelInput{PanelID: panelID})
	if err != nil {
		if errors.Is(err, panelRepo.ErrPanelNotFound) {
			return nil, ErrPanelNotFound
		}
		return nil, err
	}
	return panel, nil
}
