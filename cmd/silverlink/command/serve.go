package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/askwhyharsh/silverlink/internal/activity"
	"github.com/askwhyharsh/silverlink/internal/api"
	"github.com/askwhyharsh/silverlink/internal/auth"
	"github.com/askwhyharsh/silverlink/internal/catalog"
	"github.com/askwhyharsh/silverlink/internal/config"
	"github.com/askwhyharsh/silverlink/internal/member"
	"github.com/askwhyharsh/silverlink/internal/profile"
	"github.com/askwhyharsh/silverlink/internal/ratelimit"
	"github.com/askwhyharsh/silverlink/internal/session"
	"github.com/askwhyharsh/silverlink/internal/storage"
	"github.com/askwhyharsh/silverlink/pkg/logger"
	"github.com/askwhyharsh/silverlink/pkg/validator"
)

func runServer(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	appLogger := logger.NewLogger(cfg.Server.Env, cfg.Monitoring.LogLevel)
	if z, ok := appLogger.(*logger.ZapLogger); ok {
		defer z.Sync()
	}
	appLogger.Info("Starting silverlink server...")

	redisClient, err := connectRedis(cfg, appLogger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	db, err := storage.OpenSQL(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening %s database: %w", cfg.Database.Driver, err)
	}
	defer db.Close()
	appLogger.Info("Database ready", "driver", db.Driver())

	provider, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	val := validator.NewValidator()

	sessionService := session.NewService(redisClient, cfg.Auth.SessionTTL)
	sessionManager := session.NewManager(sessionService, cfg.Auth.SweepInterval, appLogger)

	rateLimiter := ratelimit.NewLimiter(redisClient, cfg.RateLimit)
	rateLimitMiddleware := ratelimit.NewMiddleware(rateLimiter, appLogger)

	profileService := profile.NewService(profile.NewSQLStore(db), provider, val, appLogger)

	authService := auth.NewService(auth.Deps{
		Accounts:  auth.NewSQLAccountStore(db),
		Profiles:  profileService,
		Sessions:  sessionService,
		Tokens:    auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Hasher:    auth.NewHasher(cfg.Auth.HashIterations),
		Limiter:   rateLimiter,
		Validator: val,
		Logger:    appLogger,
	})

	ranking := activity.NewService(
		provider,
		activity.NewRedisCache(redisClient, cfg.Catalog.CacheTTL),
		appLogger,
	)
	if cfg.Catalog.SeedFile != "" {
		if err := invalidateRankings(ctx, provider, ranking); err != nil {
			appLogger.Warn("Failed to drop cached rankings", "seed", cfg.Catalog.SeedFile, "error", err)
		}
	}

	apiHandler := api.NewHandler(api.HandlerDeps{
		Catalog:    provider,
		Vocabulary: provider,
		Ranking:    ranking,
		Directory:  member.NewDirectory(provider, cfg.Location.GeohashPrecision, appLogger),
		Auth:       authService,
		Profiles:   profileService,
		Validator:  val,
		Location:   cfg.Location,
		Logger:     appLogger,
	})

	// Start background services
	go sessionManager.Start(ctx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	api.SetupRoutes(router, apiHandler, api.RouteOptions{
		Logger:        appLogger,
		RateLimit:     rateLimitMiddleware,
		RequireAuth:   auth.RequireAuth(authService, appLogger),
		EnableMetrics: cfg.Monitoring.EnableMetrics,
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Server starting", "address", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	}

	appLogger.Info("Shutting down server...")

	// Cancel context to stop background services
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server stopped")
	return nil
}

// connectRedis dials the configured Redis. Outside production an
// unreachable server falls back to the in-process store.
func connectRedis(cfg *config.Config, log logger.Logger) (storage.RedisClient, error) {
	client, err := storage.NewRedisClient(cfg)
	if err == nil {
		log.Info("Connected to Redis", "address", cfg.RedisAddr())
		return client, nil
	}

	if cfg.IsProduction() {
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr(), err)
	}

	log.Warn("Redis unavailable, using in-memory store", "address", cfg.RedisAddr(), "error", err)
	return storage.NewMemoryClient(), nil
}

// invalidateRankings drops rankings a previous catalog may have left in
// the shared cache.
func invalidateRankings(ctx context.Context, provider catalog.Provider, ranking *activity.Service) error {
	cats, err := provider.Categories(ctx)
	if err != nil {
		return err
	}

	slugs := make([]string, len(cats))
	for i, c := range cats {
		slugs[i] = c.Slug
	}
	return ranking.Invalidate(ctx, slugs...)
}
