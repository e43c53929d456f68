package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/yukikurage/event-rsvp/internal/config"
	"github.com/yukikurage/event-rsvp/internal/database"
	"github.com/yukikurage/event-rsvp/internal/logging"
	"github.com/yukikurage/event-rsvp/internal/repository"
	"github.com/yukikurage/event-rsvp/internal/services"
	"github.com/yukikurage/event-rsvp/internal/token"
	"go.uber.org/zap"
)

func main() {
	username := flag.String("username", "", "superuser name")
	email := flag.String("email", "", "superuser email (optional)")
	password := flag.String("password", os.Getenv("SUPERUSER_PASSWORD"), "superuser password, defaults to $SUPERUSER_PASSWORD")
	flag.Parse()

	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	authService := services.NewAuthService(
		repository.NewUserRepository(db),
		token.NewJWTActivator(cfg.TokenSecret, cfg.ActivationTTL, nil),
		nil,
	)

	user, err := authService.CreateSuperuser(context.Background(), *username, *email, *password)
	if err != nil {
		logger.Fatal("Failed to create superuser", zap.Error(err))
	}
	logger.Info("Superuser created", zap.Uint64("user_id", user.ID), zap.String("username", user.Username))
}
