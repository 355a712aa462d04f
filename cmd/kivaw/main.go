package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kivaw/kivaw/internal/app"
	"github.com/kivaw/kivaw/internal/auth"
	"github.com/kivaw/kivaw/internal/authz"
	"github.com/kivaw/kivaw/internal/content"
	"github.com/kivaw/kivaw/internal/observability"
	"github.com/kivaw/kivaw/internal/platform/cache"
	"github.com/kivaw/kivaw/internal/platform/db"
	"github.com/kivaw/kivaw/internal/recommend"
	"github.com/kivaw/kivaw/internal/shared"
	"github.com/kivaw/kivaw/internal/social"
	"github.com/kivaw/kivaw/internal/users"
	"github.com/kivaw/kivaw/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "kivaw_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)

	guard := &authz.Guard{
		Identities:       authService,
		Roles:            authService,
		Cache:            authz.NewRoleCache(redisClient, cfg.RoleCacheTTL),
		Logger:           logger,
		DevAllowlist:     cfg.AuthzDevAllowlist,
		DevBypassEnabled: !cfg.IsProduction(),
	}

	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager, guard)

	contentRepo := content.NewRepository(dbpool)
	contentService := content.NewService(contentRepo)
	contentHandler := content.NewHandler(logger, contentService)

	recommendRepo := recommend.NewRepository(dbpool)
	recommendService := recommend.NewService(recommendRepo)
	recommendHandler := recommend.NewHandler(logger, recommendService, metrics)

	socialRepo := social.NewRepository(dbpool)
	socialService := social.NewService(socialRepo)
	socialHandler := social.NewHandler(logger, socialService)

	usersHandler := users.NewHandler(logger, users.NewRepository(dbpool), guard)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(jobClient, inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		Guard:            guard,
		AuthHandler:      authHandler,
		RecommendHandler: recommendHandler,
		ContentHandler:   contentHandler,
		SocialHandler:    socialHandler,
		UsersHandler:     usersHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
