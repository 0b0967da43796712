package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"proffy-mobile/config"
	"proffy-mobile/internal/api"
	"proffy-mobile/internal/favorites"
	"proffy-mobile/internal/listing"
	"proffy-mobile/internal/logger"
	"proffy-mobile/internal/metrics"
	"proffy-mobile/internal/store"
	"proffy-mobile/internal/view"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck
	zl.Info("configuration loaded", zap.String("path", configPath), zap.String("env", cfg.Env))

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, closeStore, err := store.Open(ctx, &cfg.Storage, zl)
	if err != nil {
		zl.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStore()
	zl.Info("device storage ready", zap.String("driver", cfg.Storage.Driver))

	m := metrics.New()
	repo := favorites.NewRepository(kv)
	client := listing.NewClient(&cfg.Listing, zl.Named("listing"), m)

	favView := view.NewFavoritesView(repo, zl.Named("favorites"), m)
	listView := view.NewTeacherListView(client, repo, view.TeacherListConfig{
		ErrorClearAfter: cfg.Views.ErrorClearAfter,
		Scheduler:       view.WallClock(),
		Logger:          zl.Named("teacher_list"),
		Metrics:         m,
	})

	handler := api.NewHandler(repo, favView, listView, zl)
	router := api.NewRouter(&cfg.Server, handler, zl, m)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		zl.Info("HTTP server starting", zap.Int("port", cfg.Server.Port), zap.String("listing", cfg.Listing.BaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	zl.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("HTTP server Shutdown", zap.Error(err))
	}

	zl.Info("server gracefully stopped")
}
