package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/squadkit/squadbot/internal/handlers/discord"
	"github.com/squadkit/squadbot/internal/log"
	rolePanelRepo "github.com/squadkit/squadbot/internal/repositories/rolepanel"
	sessionRepo "github.com/squadkit/squadbot/internal/repositories/session"
	settingsRepo "github.com/squadkit/squadbot/internal/repositories/settings"
	"github.com/squadkit/squadbot/internal/scheduler"
	rolePanelService "github.com/squadkit/squadbot/internal/services/rolepanel"
	sessionService "github.com/squadkit/squadbot/internal/services/session"
	settingsService "github.com/squadkit/squadbot/internal/services/settings"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log.Configure(log.Config{Level: os.Getenv("LOG_LEVEL")})
	logger := log.Component("main")

	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken == "" {
		logger.Fatal().Msg("DISCORD_TOKEN environment variable is required")
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// Initialize repositories
	panelRepo, err := rolePanelRepo.NewRedis(&rolePanelRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create role panel repository")
	}

	guildSettingsRepo, err := settingsRepo.NewRedis(&settingsRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create settings repository")
	}

	sessionRegistry := sessionRepo.NewMemory()

	// The Discord session is created here, unopened, so the sinks and the
	// bot share one gateway connection.
	discordSession, err := discordgo.New("Bot " + discordToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create Discord session")
	}

	messageSink, err := discord.NewMessageSink(discordSession)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create message sink")
	}

	notifier, err := discord.NewNotifier(discordSession)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create notifier")
	}

	sched, err := scheduler.New(&scheduler.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create scheduler")
	}

	// Initialize services
	sessionSvc, err := sessionService.New(&sessionService.Config{
		Repo:        sessionRegistry,
		Scheduler:   sched,
		MessageSink: messageSink,
		Notifier:    notifier,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session service")
	}

	panelSvc, err := rolePanelService.New(&rolePanelService.Config{
		Repo: panelRepo,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create role panel service")
	}

	settingsSvc, err := settingsService.New(&settingsService.Config{
		Repo: guildSettingsRepo,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create settings service")
	}

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Session:          discordSession,
		ApplicationID:    os.Getenv("APPLICATION_ID"),
		GuildID:          os.Getenv("GUILD_ID"),
		SessionService:   sessionSvc,
		RolePanelService: panelSvc,
		SettingsService:  settingsSvc,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create Discord bot")
	}

	// Ops HTTP surface: health and Prometheus metrics
	opsAddr := getEnv("OPS_ADDR", ":8090")
	opsServer := newOpsServer(opsAddr, redisClient)
	go func() {
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("ops server stopped")
		}
	}()

	if err := bot.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start Discord bot")
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("ops server shutdown failed")
	}

	if err := bot.Stop(); err != nil {
		logger.Warn().Err(err).Msg("error stopping bot")
	}

	logger.Info().Msg("bot has been shut down")
}

// newOpsServer builds the health and metrics HTTP server
func newOpsServer(addr string, redisClient *redis.Client) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
