package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jlin/promptfinder/internal/api"
	"github.com/jlin/promptfinder/internal/config"
	"github.com/jlin/promptfinder/internal/logger"
	"github.com/jlin/promptfinder/internal/ratelimit"
	"github.com/jlin/promptfinder/internal/repository"
	"github.com/jlin/promptfinder/internal/service"
	"github.com/jlin/promptfinder/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	log := logger.New(nil)
	logger.SetDefault(log)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	promptRepo := repository.NewPromptRepository(db)
	imageRepo := repository.NewImageRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	requestLogRepo := repository.NewRequestLogRepository(db)
	packRepo := repository.NewPackRepository(db)

	// Initialize storage (supports MinIO, R2, S3)
	objectStorage, err := storage.NewStorage(&storage.Config{
		Provider:  cfg.Storage.Provider,
		Type:      storage.StorageType(cfg.Storage.Type),
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure bucket exists
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		log.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	// Initialize services
	captionService := service.NewCaptionService(&service.CaptionConfig{
		APIKey:  cfg.Caption.APIKey,
		BaseURL: cfg.Caption.BaseURL,
		Models:  cfg.Caption.Models,
		Timeout: time.Duration(cfg.Caption.TimeoutSeconds) * time.Second,
	})

	generateService := service.NewGenerateService(promptRepo, imageRepo, objectStorage, captionService, log)
	ratingService := service.NewRatingService(ratingRepo, promptRepo, log)
	favoriteService := service.NewFavoriteService(favoriteRepo, promptRepo, log)
	browseService := service.NewBrowseService(promptRepo, favoriteRepo, imageRepo, objectStorage)
	packService := service.NewPackService(packRepo, promptRepo, browseService)

	// Initialize rate limiter with background pruning of expired windows
	limiter := ratelimit.NewLimiter(requestLogRepo, &cfg.RateLimit, log)
	go limiter.PruneLoop(ctx, 10*time.Minute)

	// Setup router
	router := api.SetupRouter(cfg, api.Services{
		Generate: generateService,
		Rating:   ratingService,
		Favorite: favoriteService,
		Browse:   browseService,
		Pack:     packService,
	}, limiter, profileRepo)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
