// Command bakectl manages roles, promo grants and chat mutes from the shell.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sashabakes/sasha-bakes/backend/config"
	"github.com/sashabakes/sasha-bakes/backend/internal/database"
	"github.com/sashabakes/sasha-bakes/backend/internal/logging"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New(config.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	admins := service.NewAdminService(db, service.NewAccessService(db, logger))
	if err := newRootCmd(admins).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
