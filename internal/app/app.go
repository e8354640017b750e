package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/tower15/internal/assistant"
	"github.com/joshua-takyi/tower15/internal/config"
	"github.com/joshua-takyi/tower15/internal/connect"
	"github.com/joshua-takyi/tower15/internal/container"
	"github.com/joshua-takyi/tower15/internal/models"
)

// Bootstrap loads configuration, opens every backing connection and builds the container.
// The returned cleanup closes those connections.
func Bootstrap(ctx context.Context) (*container.Container, func(), error) {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %v", err)
	}
	logger := SetupLogger(cfg)

	cld, err := connect.CloudinaryCredentials(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cld == nil {
		logger.Warn("Cloudinary not configured, image upload disabled")
	}

	supaClient, err := connect.InitSupabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to Supabase successfully")

	mongoClient, err := connect.MongoDBConnect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to MongoDB successfully")

	if err := models.MongodbNewRepo(mongoClient, cfg.MongoDBName).EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure MongoDB indexes", "error", err)
	}

	redisClient, err := connect.RedisConnect(ctx, cfg)
	if err != nil {
		// catalog caching is optional
		logger.Warn("Redis unavailable, catalog cache disabled", "error", err)
		redisClient = nil
	}

	ai, err := assistant.New(ctx, cfg.AI, logger)
	if err != nil {
		connect.MongoDBDisconnect(mongoClient)
		return nil, nil, fmt.Errorf("failed to initialize assistant: %v", err)
	}

	c := container.NewContainer(cfg, logger, container.Clients{
		Cloudinary: cld,
		Supabase:   supaClient,
		MongoDB:    mongoClient,
		Redis:      redisClient,
		Assistant:  ai,
	})

	if err := c.SettingsService.ConfigureChannel(ctx); err != nil {
		logger.Warn("Could not read Hosthub key from settings, using environment", "error", err)
	}

	cleanup := func() {
		c.TokenValidator.Close()
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Error("Error closing Redis", "error", err)
			}
		}
		if err := connect.MongoDBDisconnect(mongoClient); err != nil {
			logger.Error("Error disconnecting from MongoDB", "error", err)
		}
	}
	return c, cleanup, nil
}

func SetupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	level := parseLevel(cfg.LogLevel)

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
