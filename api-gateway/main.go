package main

import (
	"net/http"
	"time"

	"curry-craft/api-gateway/internal/gateway"
	"curry-craft/config"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load(":8080")
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gw := gateway.NewGateway(gateway.Config{
		StoreSvcURL: cfg.StoreSvcURL,
		StatsSvcURL: cfg.StatsSvcURL,
	}, &http.Client{Timeout: 30 * time.Second}, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Info("api gateway starting", zap.String("addr", cfg.HTTPAddr))
	if err := http.ListenAndServe(cfg.HTTPAddr, c.Handler(gw.SetupRoutes())); err != nil {
		logger.Fatal("gateway stopped", zap.Error(err))
	}
}
