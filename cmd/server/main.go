package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stocklens/reorder/internal/api"
	"github.com/stocklens/reorder/internal/cache"
	"github.com/stocklens/reorder/internal/config"
	"github.com/stocklens/reorder/internal/repository"
	"github.com/stocklens/reorder/internal/repository/postgres"
	"github.com/stocklens/reorder/internal/repository/sqlite"
	"github.com/stocklens/reorder/internal/service"
	"github.com/stocklens/reorder/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, closeStore, err := buildRepository(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open snapshot store")
	}
	defer closeStore()

	repo, err = buildCache(repo, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to cache")
	}

	analysisService := service.NewAnalysisService(repo)

	router := api.NewRouter(analysisService, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// buildRepository opens the configured snapshot store. The sqlite driver also
// bootstraps the database file from the CSV snapshot on first start.
func buildRepository(cfg *config.Config) (repository.ProductRepository, func(), error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewProductRepository(db), func() { _ = db.Close() }, nil
	default:
		db, err := sqlite.New(cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Bootstrap(context.Background(), cfg.Snapshot.Dir); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlite.NewProductRepository(db), func() { _ = db.Close() }, nil
	}
}

// buildCache wraps the repository in the redis memo when enabled, flushing
// rows memoized by a previous session so a swapped snapshot starts clean.
func buildCache(repo repository.ProductRepository, cfg *config.Config) (repository.ProductRepository, error) {
	cached, err := cache.NewCachedRepository(repo, cfg.Cache)
	if err != nil {
		return nil, err
	}

	if memo, ok := cached.(*cache.CachedRepository); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := memo.InvalidateAll(ctx); err != nil {
			logger.Log.Warn().Err(err).Msg("failed to flush memoized snapshot rows")
		}
	}

	return cached, nil
}
