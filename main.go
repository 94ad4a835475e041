package main

import (
	"log"

	"github.com/SundayYogurt/bachelor-point/config"
	"github.com/SundayYogurt/bachelor-point/internal/api"
	"github.com/SundayYogurt/bachelor-point/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer lg.Sync()

	if err := api.StartServer(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}
