// @title			agentdesk API
// @version		1.0
// @description	Versioning of AI agent configurations: drafts, immutable versions, rollback and comparison.
// @BasePath		/
// @securityDefinitions.apikey	TenantID
// @in							header
// @name						X-Tenant-ID
// @description				Tenant id set by the gateway. X-User-ID identifies the acting user.

//go:generate swag init -g cmd/agentdesk/main.go -d ../../ -o ../../docs

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/agentdesk/internal/cache"
	"github.com/mtlprog/agentdesk/internal/config"
	"github.com/mtlprog/agentdesk/internal/database"
	"github.com/mtlprog/agentdesk/internal/handler"
	"github.com/mtlprog/agentdesk/internal/logger"
	"github.com/mtlprog/agentdesk/internal/metrics"
	"github.com/mtlprog/agentdesk/internal/middleware"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/mtlprog/agentdesk/internal/service"
)

const configKey = "config"

func main() {
	app := &cli.App{
		Name:  "agentdesk",
		Usage: "Agent configuration versioning service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
				EnvVars: []string{"AGENTDESK_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL database URL",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Value:   config.DefaultRedisURL,
				Usage:   "Redis URL for the version list cache and change notifications (empty disables)",
				EnvVars: []string{"REDIS_URL"},
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger.Setup(logger.ParseLevel(cfg.Log.Level))
			c.App.Metadata = map[string]interface{}{configKey: cfg}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: runMigrate,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then applies explicitly set flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("database-url") {
		cfg.Database.URL = c.String("database-url")
	}
	if c.IsSet("redis-url") {
		cfg.Redis.URL = c.String("redis-url")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.String("port")
	}

	return cfg, nil
}

func configFrom(c *cli.Context) *config.Config {
	return c.App.Metadata[configKey].(*config.Config)
}

func runServe(c *cli.Context) error {
	ctx := c.Context
	cfg := configFrom(c)

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := handler.Options{
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		ReadRetry: service.ReadRetry{
			Attempts: cfg.Versions.ReadRetryAttempts,
			Delay:    cfg.Versions.ReadRetryDelay,
		},
	}

	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("parse redis URL: %w", err)
		}
		rdb := redis.NewClient(redisOpts)
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Warn("failed to close redis client", "error", err)
			}
		}()

		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable at startup, cache calls will fail open", "error", err)
		}

		opts.Cache = cache.NewVersionCache(rdb, cfg.Versions.ListCacheTTL)
		opts.Notifier = cache.NewNotifier(rdb)
		slog.Info("version list cache enabled", "ttl", cfg.Versions.ListCacheTTL)
	}

	h := handler.New(repository.NewPostgresStore(db.Pool()), opts)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           middleware.RequestLogger(mux),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runMigrate(c *cli.Context) error {
	ctx := c.Context
	cfg := configFrom(c)

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
