package main

import (
	"os"

	"github.com/bellapacxx/bingo-hall/config"
	"github.com/bellapacxx/bingo-hall/utils/logger"
)

func main() {
	defer logger.Sync()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatalf("[FATAL] Invalid configuration: %v", err)
	}

	if _, err := config.SetupDatabase(cfg.DatabaseURL); err != nil { // connects + migrates
		logger.Fatalf("[FATAL] %v", err)
	}
	logger.Info("Database migration completed successfully")
}
