package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-manager-api/internal/api"
	"github.com/phrazzld/task-manager-api/internal/api/middleware"
	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/mail"
	"github.com/phrazzld/task-manager-api/internal/platform/postgres"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	registry *prometheus.Registry
	metrics  *middleware.Metrics
	routes   api.Routes
}

// newApplication wires stores, services and handlers. db is used lazily, so
// construction performs no queries. A nil redisClient disables rate
// limiting.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	redisClient *redis.Client,
	registry *prometheus.Registry,
) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		redis:    redisClient,
		registry: registry,
		metrics:  middleware.NewMetrics(registry),
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"access_token_lifetime_minutes", cfg.Auth.AccessTokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes,
		"session_lifetime_minutes", cfg.Auth.SessionLifetimeMinutes)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tx := store.NewDBTransactor(db)

	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	tagStore := postgres.NewPostgresTagStore(db, logger)
	resetStore := postgres.NewPostgresPasswordResetStore(db, logger)

	mailer := mail.New(cfg.Mail, logger)

	userService := service.NewUserService(userStore, tx, hasher, logger)
	resetService := service.NewPasswordResetService(
		userStore,
		resetStore,
		tx,
		hasher,
		mailer,
		time.Duration(cfg.Auth.ResetTokenLifetimeMinutes)*time.Minute,
		logger,
	)
	taskService := service.NewTaskService(taskStore, tx, logger)
	tagService := service.NewTagService(tagStore, logger)

	var counter middleware.WindowCounter
	if redisClient != nil {
		counter = middleware.NewRedisCounter(redisClient)
	}

	app.routes = api.Routes{
		Auth: api.NewAuthHandler(userService, resetService, jwtService, api.AuthHandlerConfig{
			Cookies:        api.CookieConfig{Secure: cfg.Server.ProdMode},
			FrontendURL:    cfg.Server.FrontendURL,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}),
		Users:          api.NewUserHandler(userService),
		Tasks:          api.NewTaskHandler(taskService),
		Tags:           api.NewTagHandler(tagService),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtService, userService),
		RateLimiter: middleware.NewRateLimiter(
			counter,
			cfg.Redis.AuthRateLimit,
			time.Duration(cfg.Redis.AuthRateWindowSeconds)*time.Second,
			app.metrics,
		),
	}

	logger.Info("application initialized",
		"smtp_configured", cfg.Mail.SMTPHost != "",
		"rate_limiting", counter != nil)
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the database and redis connections.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
