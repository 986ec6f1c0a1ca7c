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

	"mediahub/database"
	"mediahub/internal/cache"
	"mediahub/internal/config"
	"mediahub/internal/events"
	"mediahub/internal/logging"
	"mediahub/internal/microservices/http-api/router"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("could not load config")
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("invalid config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Connect to the database (runs migrations)
	db, err := database.Connect(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("database connection failed")
	}
	defer database.Close(db)

	deps := router.Deps{DB: db}

	// 3. Optional cache and event publisher
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			logging.Warn().Err(err).Msg("redis unavailable, running without cache")
		} else {
			defer redisCache.Close()
			deps.Cache = redisCache
			logging.Info().Dur("ttl", cfg.CacheTTL).Msg("redis cache enabled")
		}
	}
	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
		if err != nil {
			logging.Warn().Err(err).Msg("rabbitmq unavailable, catalog events disabled")
		} else {
			defer publisher.Close()
			deps.Events = publisher
			logging.Info().Str("queue", cfg.EventsQueue).Msg("catalog events enabled")
		}
	}

	// 4. Serve
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router.New(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("catalog service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
