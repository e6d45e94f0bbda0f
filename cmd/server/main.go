package main

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
	appcatalog "github.com/rently/backend/internal/application/catalog"
	appfinance "github.com/rently/backend/internal/application/finance"
	appidentity "github.com/rently/backend/internal/application/identity"
	apprental "github.com/rently/backend/internal/application/rental"
	"github.com/rently/backend/internal/application/report"
	"github.com/rently/backend/internal/infrastructure/auth"
	"github.com/rently/backend/internal/infrastructure/cache"
	"github.com/rently/backend/internal/infrastructure/config"
	"github.com/rently/backend/internal/infrastructure/logger"
	"github.com/rently/backend/internal/infrastructure/persistence"
	"github.com/rently/backend/internal/interfaces/http/handler"
	"github.com/rently/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.FromAppConfig(cfg.App.Env, cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName))

	// Redis is optional; without it the dashboard computes live on every request
	var redisClient *cache.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, dashboard caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			log.Info("Connected to redis", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	userRepo := persistence.NewGormUserRepository(db.DB)
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	statusHistoryRepo := persistence.NewGormStatusHistoryRepository(db.DB)
	rentalRepo := persistence.NewGormRentalRepository(db.DB)
	summaryRepo := persistence.NewGormFinancialSummaryRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	authService := appidentity.NewAuthService(userRepo, jwtService, log)
	userService := appidentity.NewUserService(userRepo, log)
	assetService := appcatalog.NewAssetService(assetRepo, statusHistoryRepo, rentalRepo, log)
	lifecycleService := apprental.NewLifecycleService(txScope, rentalRepo, assetRepo, userRepo, log)
	summaryService := appfinance.NewSummaryService(summaryRepo, rentalRepo, userRepo, log)

	var dashboardCache report.Cache
	var cachePinger handler.Pinger
	if redisClient != nil {
		dashboardCache = redisClient
		cachePinger = redisClient
	}
	dashboardService := report.NewDashboardService(
		assetRepo, rentalRepo, userRepo, summaryRepo,
		dashboardCache, cfg.Dashboard.CacheTTL, log)

	var rateLimit float64
	if cfg.HTTP.RateLimitEnabled {
		rateLimit = float64(cfg.HTTP.RateLimitRequests) / cfg.HTTP.RateLimitWindow.Seconds()
	}

	engine := router.New(router.Config{
		JWTService:     jwtService,
		Logger:         log,
		AllowedOrigins: cfg.HTTP.CORSAllowOrigins,
		RateLimit:      rateLimit,
		RateLimitBurst: cfg.HTTP.RateLimitRequests,
		MaxBodyBytes:   cfg.HTTP.MaxBodySize,
	}, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Asset:     handler.NewAssetHandler(assetService),
		Rental:    handler.NewRentalHandler(lifecycleService),
		Finance:   handler.NewFinanceHandler(summaryService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		System:    handler.NewSystemHandler(db, cachePinger),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return fmt.Errorf("setting trusted proxies: %w", err)
		}
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
