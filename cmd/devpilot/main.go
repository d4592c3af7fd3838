package main

import (
	"flag"
	"os"

	"github.com/devpilot-dev/devpilot/db"
	"github.com/devpilot-dev/devpilot/internal/auth"
	"github.com/devpilot-dev/devpilot/internal/config"
	"github.com/devpilot-dev/devpilot/internal/logger"
	"github.com/devpilot-dev/devpilot/internal/router"
	"github.com/devpilot-dev/devpilot/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		// .env is optional; env vars may come from the environment itself.
		logger.Debug("no .env file loaded", "err", err)
	}

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	if err := auth.InitJWTSecret(cfg.JWT.Secret); err != nil {
		logger.Error("JWT secret missing", "err", err)
		os.Exit(1)
	}

	if err := db.ConnectDatabase(cfg.DSN()); err != nil {
		logger.Error("database connect failed", "err", err)
		os.Exit(1)
	}

	if err := db.MigrateDatabase(); err != nil {
		logger.Error("database migration failed", "err", err)
		os.Exit(1)
	}

	st := store.New(db.DB)
	r := router.NewRouter(cfg, st)

	logger.Info("starting server", "addr", cfg.Addr())

	if err := r.Run(cfg.Addr()); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
