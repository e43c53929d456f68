package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-rsvp/internal/config"
	"github.com/yukikurage/event-rsvp/internal/database"
	"github.com/yukikurage/event-rsvp/internal/logging"
	"github.com/yukikurage/event-rsvp/internal/server"
	"github.com/yukikurage/event-rsvp/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.LogLevel, cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		logger.Fatal("Failed to create session store", zap.Error(err))
	}

	images, err := storage.New(context.Background(), cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to create image storage", zap.Error(err))
	}

	r, err := server.NewRouter(server.Dependencies{
		Config:       cfg,
		DB:           db,
		Logger:       logger,
		SessionStore: store,
		Images:       images,
	})
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// newSessionStore uses Redis unless SESSION_STORE=cookie.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.SessionStore == "cookie" {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	} else {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
