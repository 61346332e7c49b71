package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"atelier/web/internal/cache"
	"atelier/web/internal/config"
	"atelier/web/internal/content"
	"atelier/web/internal/handlers"
	"atelier/web/internal/jobs"
	"atelier/web/internal/log"
	"atelier/web/internal/server"
	"atelier/web/internal/service"
	"atelier/web/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, listing cache disabled")
			redisClient = nil
		}
	}

	workCache := cache.NewWorkCache(redisClient, cfg.Cache.TTL, logger)
	apiClient := content.NewClient(cfg.ContentAPI, nil, logger)
	workService := service.NewWorkService(apiClient, workCache, logger)

	store := session.NewCookieStore(cfg.Session)
	guard := session.NewGuard(store, apiClient, "/admin/login", cfg.Session.VerifyTimeout, logger)

	handlerSet, err := handlers.NewHandlerSet(logger, cfg, workService, apiClient, guard, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build handlers")
	}

	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	var scheduler *jobs.Scheduler
	if workCache.Enabled() {
		scheduler = jobs.NewScheduler(workService, cfg.Cache.WarmSchedule, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
		}
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if scheduler != nil {
		cancel := scheduler.Stop()
		cancel()
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
