package main

import (
	"time"

	"github.com/AndrewHnidets/demo-repositories/internal/auth"
	"github.com/AndrewHnidets/demo-repositories/internal/cache"
	"github.com/AndrewHnidets/demo-repositories/internal/config"
	"github.com/AndrewHnidets/demo-repositories/internal/event"
	"github.com/AndrewHnidets/demo-repositories/internal/handler"
	"github.com/AndrewHnidets/demo-repositories/internal/localization"
	"github.com/AndrewHnidets/demo-repositories/internal/location"
	"github.com/AndrewHnidets/demo-repositories/internal/logger"
	"github.com/AndrewHnidets/demo-repositories/internal/logic"
	"github.com/AndrewHnidets/demo-repositories/internal/repository"
	"github.com/AndrewHnidets/demo-repositories/internal/router"
	"github.com/AndrewHnidets/demo-repositories/internal/scheduler"
	"github.com/AndrewHnidets/demo-repositories/internal/storage"
)

const eventPoolSize = 16

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	redisClient, err := repository.InitRedis(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize redis: %v", err)
	}

	dispatcher, err := event.NewDispatcher(eventPoolSize)
	if err != nil {
		logger.Fatal("Failed to initialize event dispatcher: %v", err)
	}
	defer dispatcher.Close()
	event.NewProjectProcessor(db).Register(dispatcher)

	images := storage.NewImageStore(cfg.Storage.Root)
	locations := location.NewService(db)
	localized := localization.NewService(db)
	views := cache.NewViewCounter(redisClient)

	projects := logic.NewProjectLogic(db, images, locations, localized, dispatcher)
	users := logic.NewUserLogic(db, images, locations, localized)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)

	authHandler := handler.NewAuthHandler(users, tokens)
	userHandler := handler.NewUserHandler(users)
	projectHandler := handler.NewProjectHandler(projects, views)

	r := router.Setup(cfg, db, tokens, authHandler, userHandler, projectHandler)

	manager, err := scheduler.Start(projects, views, cfg)
	if err != nil {
		logger.Fatal("Failed to start scheduler: %v", err)
	}
	defer manager.Stop()

	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

func setupLogger(cfg *config.Config) {
	level := logger.ParseLevel(cfg.Log.Level)
	if cfg.Log.Output == "file" {
		logger.SetDefault(logger.NewWithRotation(level, logger.RotationConfig{
			Filename:   cfg.Log.File,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		}))
		return
	}
	l, err := logger.New(level)
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	logger.SetDefault(l)
}
