package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/sashabakes/sasha-bakes/backend/config"
	"github.com/sashabakes/sasha-bakes/backend/internal/database"
	"github.com/sashabakes/sasha-bakes/backend/internal/logging"
	"github.com/sashabakes/sasha-bakes/backend/internal/server"
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

	if err := config.ValidateConfig(cfg); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	opts := server.Options{}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("continuing without redis", zap.Error(err))
	} else {
		defer redisClient.Close()
		opts.Redis = redisClient
	}

	if cfg.S3Bucket != "" {
		bucket, err := config.NewPhotoBucket(context.Background(), cfg)
		if err != nil {
			logger.Fatal("failed to configure photo storage", zap.Error(err))
		}
		opts.Photos = service.NewS3PhotoStorage(bucket, logger)
	} else {
		logger.Warn("S3_BUCKET_NAME not set, recipe photo uploads disabled")
	}

	srv, err := server.New(cfg, db, logger, opts)
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	if err := srv.Start(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
