// Package main is the entrypoint for the shortener API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/shortenerproject/shortener/internal/alias"
	"github.com/shortenerproject/shortener/internal/cache"
	"github.com/shortenerproject/shortener/internal/config"
	"github.com/shortenerproject/shortener/internal/handler"
	"github.com/shortenerproject/shortener/internal/metrics"
	"github.com/shortenerproject/shortener/internal/middleware"
	"github.com/shortenerproject/shortener/internal/repository"
	"github.com/shortenerproject/shortener/internal/server"
	"github.com/shortenerproject/shortener/internal/service"
)

const startupTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := initLogger(cfg)
	if err := run(cfg, logger); err != nil {
		logger.Error("server_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if cfg.MigrateOnStart {
		if err := repository.MigrateUp(cfg.DatabaseURL); err != nil {
			logger.Error("migration_failed",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", cfg.RedactedDatabaseURL()),
			)
			return err
		}
		logger.Info("migrations_applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", cfg.RedactedDatabaseURL()),
		)
		return err
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL, cfg.AuthCacheTTL)
	if err != nil {
		repo.Close()
		logger.Error("failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return err
	}
	logger.Info("connected to Redis")

	recorder := metrics.NewInMemory()
	allocator := alias.NewAllocator(alias.NewGenerator(), repo, cfg.AliasMaxAttempts, logger, recorder)
	linkService := service.NewLinkService(repo, repo, allocator, logger, recorder)

	router := handler.NewRouter(handler.RouterConfig{
		Logger: logger,
		Auth: middleware.AuthConfig{
			Logger: logger,
			Keys:   repo,
			Cache:  cacheClient,
		},
		Health:        handler.NewHealthHandler(repo, cacheClient),
		Metrics:       handler.NewMetricsHandler(recorder),
		Links:         handler.NewLinkHandler(linkService, cfg.BaseURL, logger),
		Redirects:     handler.NewRedirectHandler(linkService, logger),
		IsDevelopment: cfg.IsDevelopment(),
		MaxBodySize:   cfg.MaxRequestBodySize,
	})

	srv := server.New(router, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		slog.Int("port", cfg.AppPort),
		slog.String("base_url", cfg.BaseURL),
		slog.String("env", cfg.AppEnv),
		slog.Int("alias_max_attempts", allocator.MaxAttempts()),
	)

	return srv.Run(context.Background())
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	return parsed.Redacted()
}

// sanitizeError strips connection secrets from driver error messages.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
