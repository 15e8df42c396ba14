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

	"github.com/openclassical/league-engine/config"
	"github.com/openclassical/league-engine/db"
	"github.com/openclassical/league-engine/handlers"
	"github.com/openclassical/league-engine/live"
	"github.com/openclassical/league-engine/repositories"
	"github.com/openclassical/league-engine/routes"
	"github.com/openclassical/league-engine/services"
	"github.com/openclassical/league-engine/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	presets, err := config.LoadScoringPresets(cfg.ScoringPresetsFile)
	if err != nil {
		logger.Error("failed to load scoring presets", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("scoring presets loaded", slog.Int("count", len(presets)))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.SnapshotsEnabled() {
		uploader, err = storage.NewS3Uploader(storage.S3UploaderConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("snapshot object store initialized", slog.String("bucket", cfg.S3Bucket))
	} else {
		logger.Warn("snapshot archival disabled: object store not configured")
	}

	hub := live.NewHub()
	go hub.Run()
	logger.Info("websocket hub started")

	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	seasonRepo := repositories.NewPostgresSeasonRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	bracketRepo := repositories.NewPostgresBracketRepository(dbConn)

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.TokenTTL)
	leagueService := services.NewLeagueService(leagueRepo, seasonRepo)
	standingsService := services.NewStandingsService(leagueRepo, seasonRepo, roundRepo, presets)
	knockoutService := services.NewKnockoutService(dbConn, seasonRepo, roundRepo, bracketRepo, presets, hub)
	snapshotService := services.NewSnapshotService(seasonRepo, roundRepo, uploader, presets)

	router := routes.InitRoutes(routes.Handlers{
		Leagues:   handlers.NewLeagueHandler(leagueService, standingsService),
		Standings: handlers.NewStandingsHandler(standingsService, snapshotService),
		Knockout:  handlers.NewKnockoutHandler(knockoutService),
		Auth:      handlers.NewAuthHandler(authService),
		WebSocket: handlers.NewWebSocketHandler(hub),
	}, authService)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		logger.Info("shutting down server", slog.String("signal", s.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	logger.Info("starting server", slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	if err := <-shutdownErr; err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
