// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ragchat-storage/internal/config"
	"ragchat-storage/internal/infra/ai"
	pg "ragchat-storage/internal/infra/db/postgres"
	"ragchat-storage/internal/infra/logging"
	"ragchat-storage/internal/infra/metrics"
	red "ragchat-storage/internal/infra/redis"
	"ragchat-storage/internal/infra/web"
	"ragchat-storage/internal/infra/worker"
	"ragchat-storage/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, schema bootstrap)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if cfg.Runtime.Dev {
		if err := pg.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("schema bootstrap")
		}
	}
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	sessionCache := red.NewSessionCache(redisClient, cfg.Redis.CacheTTL)

	// ---- Event publisher ----
	events := worker.NewPool(cfg.Events.Workers, logger)
	events.Start(ctx)
	defer events.Stop()
	publisher := red.NewStreamPublisher(redisClient, events, cfg.Events.SessionStream, cfg.Events.MessageStream, logger)

	// ---- Repositories ----
	sessionRepo := pg.NewSessionRepo(pool, sessionCache)
	messageRepo := pg.NewMessageRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Completion client ----
	completion := ai.NewClient(cfg.AI, logger)
	logger.Info().Str("base", cfg.AI.BaseURL).Str("model", cfg.AI.Model).Msg("completion client ready")

	// ---- Use cases ----
	sessionUC := usecase.NewSessionUseCase(sessionRepo, messageRepo, txManager, publisher, logger)
	messageUC := usecase.NewMessageUseCase(sessionRepo, messageRepo, rateLimiter, completion, publisher, logger)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Auth)
	srv := web.NewServer(sessionUC, messageUC, rateLimiter, auth, logger)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
