package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flymate/api"
	"github.com/Domenick1991/flymate/config"
	"github.com/Domenick1991/flymate/internal/bootstrap"
	"github.com/Domenick1991/flymate/internal/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.New("error", "text").Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	container, err := bootstrap.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Error("init services", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if err := bootstrap.Run(ctx, cfg, container.Router(cfg), api.OpenAPI, log); err != nil {
		log.Error("server error", "error", err)
		container.Close()
		os.Exit(1)
	}
}
