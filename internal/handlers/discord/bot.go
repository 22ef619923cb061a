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
	"github.com/squadkit/squadbot/internal/services/rolepanel"
	"github.com/squadkit/squadbot/internal/services/session"
	"github.com/squadkit/squadbot/internal/services/settings"
)

// defaultSweepInterval is how often expired sessions are swept.
const defaultSweepInterval = 30 * time.Minute

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID

	sessionService  session.Service
	panelService    rolepanel.Service
	settingsService settings.Service

	config    *Config
	logger    zerolog.Logger
	sweepStop chan struct{}
	sweepDone chan struct{}
}

// Config holds the configuration for the bot
type Config struct {
	// Session is an unopened Discord session
	Session *discordgo.Session

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// SessionService drives the gaming-session lifecycle
	SessionService session.Service

	// RolePanelService manages self-assign role panels
	RolePanelService rolepanel.Service

	// SettingsService manages per-guild configuration
	SettingsService settings.Service

	// SweepInterval overrides how often expired sessions are swept
	SweepInterval time.Duration
}

// New creates a new Discord bot around an existing session
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("discord session cannot be nil")
	}

	if cfg.SessionService == nil {
		return nil, errors.New("session service cannot be nil")
	}

	if cfg.RolePanelService == nil {
		return nil, errors.New("role panel service cannot be nil")
	}

	if cfg.SettingsService == nil {
		return nil, errors.New("settings service cannot be nil")
	}

	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	bot := &Bot{
		session:         cfg.Session,
		commands:        make(map[string]CommandHandler),
		commandIDs:      make(map[string]string),
		sessionService:  cfg.SessionService,
		panelService:    cfg.RolePanelService,
		settingsService: cfg.SettingsService,
		config:          cfg,
		logger:          log.Component("bot"),
		sweepStop:       make(chan struct{}),
		sweepDone:       make(chan struct{}),
	}

	cfg.Session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	cfg.Session.AddHandler(bot.handleInteraction)
	cfg.Session.AddHandler(bot.handleGuildMemberAdd)
	cfg.Session.AddHandler(bot.handleMessageCreate)

	return bot, nil
}

// Start opens the Discord connection, registers commands and starts the
// expiry sweep.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	handlers := []CommandHandler{
		NewSessionCommand(b.sessionService),
		NewRolePanelCommand(b.panelService),
		NewSettingsCommand(b.settingsService),
		NewClearCommand(),
	}
	for _, cmd := range handlers {
		if err := b.RegisterCommand(cmd); err != nil {
			return fmt.Errorf("failed to register %s command: %w", cmd.GetName(), err)
		}
	}

	go b.sweepLoop()

	b.logger.Info().Msg("bot is running")
	return nil
}

// Stop halts the sweep, removes commands and closes the Discord connection
func (b *Bot) Stop() error {
	close(b.sweepStop)
	<-b.sweepDone

	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.logger.Warn().Err(err).Str("command", cmdName).Msg("failed to delete command")
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info().Str("command", cmd.GetName()).Str("command_id", createdCmd.ID).Msg("registered command")

	return nil
}

// sweepLoop periodically tears down expired sessions until the bot stops.
func (b *Bot) sweepLoop() {
	defer close(b.sweepDone)

	ticker := time.NewTicker(b.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			out, err := b.sessionService.SweepExpired(context.Background(), &session.SweepExpiredInput{})
			if err != nil {
				b.logger.Error().Err(err).Msg("expiry sweep failed")
				continue
			}
			if out.Removed > 0 {
				b.logger.Info().Int("removed", out.Removed).Msg("expiry sweep removed sessions")
			}
		case <-b.sweepStop:
			return
		}
	}
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				b.logger.Error().
					Err(err).
					Str("command", i.ApplicationCommandData().Name).
					Msg("command handler failed")
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			b.logger.Error().Err(err).Msg("component handler failed")
		}
	}
}

// handleComponentInteraction routes button clicks by custom ID prefix
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	prefix, payload := splitCustomID(i.MessageComponentData().CustomID)

	switch prefix {
	case ButtonSessionJoin:
		return b.handleSessionJoin(s, i, payload)
	case ButtonSessionLeave:
		return b.handleSessionLeave(s, i, payload)
	case ButtonSessionInfo:
		return b.handleSessionInfo(s, i, payload)
	case ButtonSessionEnd:
		return b.handleSessionEnd(s, i, payload)
	case ButtonRoleToggle:
		return b.handleRoleToggle(s, i, payload)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", prefix))
	}
}

// handleSessionJoin handles the join button on a session message
func (b *Bot) handleSessionJoin(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID string) error {
	ctx := context.Background()
	userID, displayName := interactionUser(i)

	out, err := b.sessionService.JoinSession(ctx, &session.JoinSessionInput{
		SessionID:   sessionID,
		UserID:      userID,
		DisplayName: displayName,
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return RespondWithEphemeralMessage(s, i, "That session is gone.")
		}
		b.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to join session")
		return RespondWithError(s, i, "Something went wrong joining the session.")
	}

	if !out.Added {
		return RespondWithEphemeralMessage(s, i, "You're already in this session.")
	}

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("You're in! %d player(s) signed up.", out.ParticipantCount))
}

// handleSessionLeave handles the leave button on a session message
func (b *Bot) handleSessionLeave(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID string) error {
	ctx := context.Background()
	userID, _ := interactionUser(i)

	out, err := b.sessionService.LeaveSession(ctx, &session.LeaveSessionInput{
		SessionID: sessionID,
		UserID:    userID,
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return RespondWithEphemeralMessage(s, i, "That session is gone.")
		}
		b.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to leave session")
		return RespondWithError(s, i, "Something went wrong leaving the session.")
	}

	if !out.Removed {
		return RespondWithEphemeralMessage(s, i, "You weren't in this session.")
	}

	if out.HostTransferredTo != "" {
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("You left. <@%s> is the new host.", out.HostTransferredTo))
	}

	return RespondWithEphemeralMessage(s, i, "You left the session.")
}

// handleSessionInfo handles the info button on a session message
func (b *Bot) handleSessionInfo(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID string) error {
	ctx := context.Background()

	out, err := b.sessionService.GetSession(ctx, &session.GetSessionInput{SessionID: sessionID})
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return RespondWithEphemeralMessage(s, i, "That session is gone.")
		}
		b.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to get session")
		return RespondWithError(s, i, "Something went wrong loading the session.")
	}

	spec := session.RenderSession(out.Session, time.Now())
	embed := sessionEmbed(spec)
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Created %s", out.Session.CreatedAt.Format("Jan 2 15:04")),
	}

	return RespondWithEphemeralEmbed(s, i, embed)
}

// handleSessionEnd handles the end button on a session message
func (b *Bot) handleSessionEnd(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID string) error {
	ctx := context.Background()
	userID, _ := interactionUser(i)

	_, err := b.sessionService.EndSession(ctx, &session.EndSessionInput{
		SessionID:   sessionID,
		RequesterID: userID,
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return RespondWithEphemeralMessage(s, i, "That session is already gone.")
		}
		if errors.Is(err, session.ErrNotHost) {
			return RespondWithEphemeralMessage(s, i, "Only the host can end the session.")
		}
		b.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to end session")
		return RespondWithError(s, i, "Something went wrong ending the session.")
	}

	return RespondWithEphemeralMessage(s, i, "Session ended. 👋")
}

// handleRoleToggle handles a role panel button, adding or removing the role
// depending on whether the member already has it.
func (b *Bot) handleRoleToggle(s *discordgo.Session, i *discordgo.InteractionCreate, payload string) error {
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		return RespondWithError(s, i, "Malformed role button.")
	}
	panelID, roleID := parts[0], parts[1]

	ctx := context.Background()

	// Re-check the panel so buttons on stale messages can't hand out roles
	// that were since removed from it.
	out, err := b.panelService.GetPanel(ctx, &rolepanel.GetPanelInput{PanelID: panelID})
	if err != nil {
		if errors.Is(err, rolepanel.ErrPanelNotFound) {
			return RespondWithEphemeralMessage(s, i, "This panel no longer exists.")
		}
		b.logger.Error().Err(err).Str("panel_id", panelID).Msg("failed to load panel")
		return RespondWithError(s, i, "Something went wrong loading the panel.")
	}

	option := out.Panel.Role(roleID)
	if option == nil {
		return RespondWithEphemeralMessage(s, i, "That role is no longer on this panel.")
	}

	if i.Member == nil {
		return RespondWithEphemeralMessage(s, i, "Role panels only work inside a server.")
	}

	hasRole := false
	for _, r := range i.Member.Roles {
		if r == roleID {
			hasRole = true
			break
		}
	}

	userID, _ := interactionUser(i)
	if hasRole {
		if err := s.GuildMemberRoleRemove(i.GuildID, userID, roleID); err != nil {
			b.logger.Error().Err(err).Str("role_id", roleID).Msg("failed to remove role")
			return RespondWithError(s, i, "I couldn't remove that role. Check my role hierarchy.")
		}
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Removed **%s**.", option.Label))
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, userID, roleID); err != nil {
		b.logger.Error().Err(err).Str("role_id", roleID).Msg("failed to add role")
		return RespondWithError(s, i, "I couldn't add that role. Check my role hierarchy.")
	}
	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Added **%s**.", option.Label))
}
