// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/carterperez-dev/yamdb/internal/admin"
	"github.com/carterperez-dev/yamdb/internal/auth"
	"github.com/carterperez-dev/yamdb/internal/catalog"
	"github.com/carterperez-dev/yamdb/internal/config"
	"github.com/carterperez-dev/yamdb/internal/core"
	"github.com/carterperez-dev/yamdb/internal/health"
	"github.com/carterperez-dev/yamdb/internal/mail"
	"github.com/carterperez-dev/yamdb/internal/middleware"
	"github.com/carterperez-dev/yamdb/internal/migrations"
	"github.com/carterperez-dev/yamdb/internal/review"
	"github.com/carterperez-dev/yamdb/internal/server"
	"github.com/carterperez-dev/yamdb/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("genkeys", false, "write a new ES256 key pair to the configured paths and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := run(*configPath, *genKeys); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string, genKeys bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	if genKeys {
		if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
			return err
		}
		logger.Info("key pair written",
			"private", cfg.JWT.PrivateKeyPath,
			"public", cfg.JWT.PublicKeyPath,
		)
		return nil
	}

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	mailer, err := mail.New(cfg.Mail, logger)
	if err != nil {
		return err
	}

	codes, err := auth.NewCodeStrategy(cfg.Confirm, auth.NewCodeRepository(db.DB))
	if err != nil {
		return err
	}
	logger.Info("confirmation codes configured",
		"strategy", cfg.Confirm.Strategy,
		"ttl", cfg.Confirm.TTL,
		"mail_provider", cfg.Mail.Provider,
	)

	userSvc := user.NewService(user.NewRepository(db.DB))
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(auth.ServiceConfig{
		Users:       userSvc,
		Codes:       codes,
		Tokens:      jwtManager,
		Mailer:      mailer,
		MailSubject: cfg.Mail.Subject,
		Logger:      logger,
	})
	authHandler := auth.NewHandler(authSvc)

	catalogSvc := catalog.NewService(
		catalog.NewCategoryRepository(db.DB),
		catalog.NewGenreRepository(db.DB),
		catalog.NewTitleRepository(db.DB),
	)
	catalogHandler := catalog.NewHandler(catalogSvc)

	reviewSvc := review.NewService(review.NewRepository(db.DB), logger)
	reviewHandler := review.NewHandler(reviewSvc)

	healthHandler := health.NewHandler(
		health.Check{Name: "database", Pinger: db},
		health.Check{Name: "redis", Pinger: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Users:      userSvc,
		Content:    []admin.ContentCounter{catalogSvc, reviewSvc},
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.Per(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager, userSvc)
	optionalAuth := middleware.OptionalAuth(jwtManager, userSvc)

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthBurst,
		),
		Prefix:   "yamdb:rl:auth",
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: true,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authLimiter)
		userHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator)

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			catalogHandler.RegisterRoutes(r, reviewHandler.RegisterRoutes)
		})
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
