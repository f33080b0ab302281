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
	"time"

	"github.com/Dosada05/event-hub/cache"
	"github.com/Dosada05/event-hub/config"
	"github.com/Dosada05/event-hub/db"
	"github.com/Dosada05/event-hub/handlers"
	"github.com/Dosada05/event-hub/live"
	"github.com/Dosada05/event-hub/repositories"
	api "github.com/Dosada05/event-hub/routes"
	"github.com/Dosada05/event-hub/services"
	"github.com/Dosada05/event-hub/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Feed cache: Redis when configured, in-process otherwise. Never the
	// source of truth for phase or check-in state.
	var feedCache cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisCache.Close()
		feedCache = redisCache
		logger.Info("redis feed cache initialized")
	} else {
		feedCache = cache.NewMemoryCache()
		logger.Info("in-memory feed cache initialized")
	}

	// Media URLs are optional: without R2 credentials logos render without
	// URLs instead of failing startup.
	var uploader storage.FileUploader = storage.NoopUploader{}
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Resolver(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 resolver", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 media resolver initialized")
	}

	liveHub := live.NewHub(logger)
	go liveHub.Run()
	logger.Info("live hub started")

	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	entryRepo := repositories.NewPostgresEntryRepository(dbConn)
	checkInRepo := repositories.NewPostgresCheckInRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	membershipRepo := repositories.NewPostgresMembershipRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	announcementRepo := repositories.NewPostgresAnnouncementRepository(dbConn)
	logger.Info("repositories initialized")

	checkInService := services.NewCheckInService(checkInRepo, liveHub, logger)
	rosterService := services.NewRosterService(
		dbConn, // for per-swap transactions
		teamRepo,
		membershipRepo,
		userRepo,
		uploader,
		liveHub,
		logger,
	)
	hubService := services.NewHubService(
		eventRepo,
		entryRepo,
		teamRepo,
		membershipRepo,
		userRepo,
		announcementRepo,
		checkInService,
		feedCache,
		uploader,
		logger,
	)
	logger.Info("services initialized")

	hubHandler := handlers.NewHubHandler(hubService)
	rosterHandler := handlers.NewRosterHandler(rosterService, hubService)
	webSocketHandler := handlers.NewWebSocketHandler(liveHub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		[]byte(cfg.JWTSecretKey),
		hubHandler,
		rosterHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
