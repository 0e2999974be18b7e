package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"curry-craft/config"
	httpapi "curry-craft/stats-svc/internal/api/http"
	"curry-craft/stats-svc/internal/service"
	"curry-craft/stats-svc/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newServer(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) (*http.Server, *storage.Store) {
	store := storage.NewStore(rdb, cfg.StatsTTL)
	handler := &httpapi.Handler{
		Stats:  service.NewStatsService(store),
		Logger: logger,
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}, store
}

func main() {
	cfg := config.Load(":8083")
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(cfg, logger)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg)
	defer reader.Close()

	srv, store := newServer(cfg, rdb, logger)

	consumer := service.NewConsumer(reader, store, logger)
	go consumer.Start(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
	}()

	if err := httpapi.StartServer(srv, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
