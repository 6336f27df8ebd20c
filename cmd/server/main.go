package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linguachat/chat-api/internal/api"
	"github.com/linguachat/chat-api/internal/infrastructure/db/mongo"
	"github.com/linguachat/chat-api/internal/infrastructure/db/redis"
	"github.com/linguachat/chat-api/internal/infrastructure/queue"
	"github.com/linguachat/chat-api/internal/infrastructure/storage"
	"github.com/linguachat/chat-api/internal/infrastructure/translate"
	"github.com/linguachat/chat-api/internal/pkg/config"
	"github.com/linguachat/chat-api/internal/realtime"
	"github.com/linguachat/chat-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- External collaborators ---
	images, err := storage.NewImageStore(ctx, storage.Config{
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("image store init failed")
	}

	translator := translate.NewClient(translate.Config{
		URL:     cfg.Translate.URL,
		APIKey:  cfg.Translate.APIKey,
		Model:   cfg.Translate.Model,
		Timeout: cfg.Translate.Timeout,
	}, log)

	// --- Realtime delivery ---
	hub := realtime.NewHub(log)
	defer hub.Close()

	dispatcher := queue.NewDispatcher(0, hub, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		DB:            db,
		Redis:         rdb,
		Images:        images,
		Translator:    translator,
		Hub:           hub,
		Notifier:      dispatcher,
		JWTSecret:     cfg.JWTSecret,
		SecureCookies: cfg.Env != "development",
		Logger:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
