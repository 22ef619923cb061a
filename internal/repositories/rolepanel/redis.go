package rolepanel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/squadkit/squadbot/internal/models"
)

const (
	// Key prefixes for Redis
	panelKeyPrefix   = "rolepanel:"
	messageKeyPrefix = "rolepanel:message:"
	guildIndexPrefix = "rolepanel:guild:"
)

// ErrPanelNotFound is returned when a panel is not found
var ErrPanelNotFound = errors.New("role panel not found")

// Config holds configuration for the Redis role panel repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed role panel repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SavePanel persists a panel to Redis
func (r *redisRepository) SavePanel(ctx context.Context, input *SavePanelInput) error {
	if input == nil || input.Panel == nil {
		return errors.New("input and panel cannot be nil")
	}

	panelJSON, err := json.Marshal(input.Panel)
	if err != nil {
		return fmt.Errorf("failed to marshal panel: %w", err)
	}

	pipe := r.client.Pipeline()

	panelKey := fmt.Sprintf("%s%s", panelKeyPrefix, input.Panel.ID)
	pipe.Set(ctx, panelKey, panelJSON, 0)

	// Index the panel under its guild and, once published, its message.
	guildKey := fmt.Sprintf("%s%s", guildIndexPrefix, input.Panel.GuildID)
	pipe.SAdd(ctx, guildKey, input.Panel.ID)

	if input.Panel.MessageID != "" {
		messageKey := fmt.Sprintf("%s%s", messageKeyPrefix, input.Panel.MessageID)
		pipe.Set(ctx, messageKey, input.Panel.ID, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save panel: %w", err)
	}

	return nil
}

// GetPanel retrieves a panel by ID from Redis
func (r *redisRepository) GetPanel(ctx context.Context, input *GetPanelInput) (*models.RolePanel, error) {
	if input == nil || input.PanelID == "" {
		return nil, errors.New("input and panel ID cannot be empty")
	}

	panelKey := fmt.Sprintf("%s%s", panelKeyPrefix, input.PanelID)
	panelJSON, err := r.client.Get(ctx, panelKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPanelNotFound
		}
		return nil, fmt.Errorf("failed to get panel: %w", err)
	}

	var panel models.RolePanel
	if err := json.Unmarshal([]byte(panelJSON), &panel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal panel: %w", err)
	}

	return &panel, nil
}

// GetPanelByMessage retrieves a panel by its published message ID
func (r *redisRepository) GetPanelByMessage(ctx context.Context, input *GetPanelByMessageInput) (*models.RolePanel, error) {
	if input == nil || input.MessageID == "" {
		return nil, errors.New("input and message ID cannot be empty")
	}

	messageKey := fmt.Sprintf("%s%s", messageKeyPrefix, input.MessageID)
	panelID, err := r.client.Get(ctx, messageKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPanelNotFound
		}
		return nil, fmt.Errorf("failed to get panel ID for message: %w", err)
	}

	return r.GetPanel(ctx, &GetPanelInput{
		PanelID: panelID,
	})
}

// DeletePanel removes a panel from Redis
func (r *redisRepository) DeletePanel(ctx context.Context, input *DeletePanelInput) error {
	if input == nil || input.PanelID == "" {
		return errors.New("input and panel ID cannot be empty")
	}

	panel, err := r.GetPanel(ctx, &GetPanelInput{
		PanelID: input.PanelID,
	})
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()

	panelKey := fmt.Sprintf("%s%s", panelKeyPrefix, input.PanelID)
	pipe.Del(ctx, panelKey)

	guildKey := fmt.Sprintf("%s%s", guildIndexPrefix, panel.GuildID)
	pipe.SRem(ctx, guildKey, input.PanelID)

	if panel.MessageID != "" {
		messageKey := fmt.Sprintf("%s%s", messageKeyPrefix, panel.MessageID)
		pipe.Del(ctx, messageKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete panel: %w", err)
	}

	return nil
}

// ListPanels retrieves all panels for a guild
func (r *redisRepository) ListPanels(ctx context.Context, input *ListPanelsInput) (*ListPanelsOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	guildKey := fmt.Sprintf("%s%s", guildIndexPrefix, input.GuildID)
	panelIDs, err := r.client.SMembers(ctx, guildKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list panel IDs: %w", err)
	}

	out := &ListPanelsOutput{}
	for _, panelID := range panelIDs {
		panel, err := r.GetPanel(ctx, &GetPanelInput{
			PanelID: panelID,
		})
		if err != nil {
			// A stale index entry is skipped, not fatal.
			if errors.Is(err, ErrPanelNotFound) {
				continue
			}
			return nil, err
		}
		out.Panels = append(out.Panels, panel)
	}

	return out, nil
}
