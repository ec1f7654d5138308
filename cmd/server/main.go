package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnold/simlegacy-api/internal/config"
	"github.com/arnold/simlegacy-api/internal/database"
	"github.com/arnold/simlegacy-api/internal/handlers"
	"github.com/arnold/simlegacy-api/internal/logger"
	"github.com/arnold/simlegacy-api/internal/repository"
	"github.com/arnold/simlegacy-api/internal/routes"
	"github.com/arnold/simlegacy-api/internal/services"
	"github.com/arnold/simlegacy-api/internal/wizard"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := database.Connect(cfg, log); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(database.DB); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	repo := repository.New(database.DB)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	persistence, closeRedis := draftPersistence(initCtx, cfg, log)
	defer closeRedis()
	push := services.NewPushService(initCtx, cfg.FCMServiceAccount, repo, log)
	initCancel()

	saver := wizard.NewAutoSaver(persistence, cfg.WizardDebounce, log)
	drafts := wizard.NewDrafts(persistence, saver, log)
	notifier := services.NewNotifier(repo, push, log)
	hub := handlers.NewHub(log)

	h := handlers.New(repo, cfg, log, hub, notifier, drafts)
	app := routes.NewApp(h, cfg, log)

	go func() {
		log.Info("Server starting", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	saver.Flush(flushCtx, "")
	flushCancel()

	log.Info("Server stopped")
}

// draftPersistence connects to Redis when REDIS_ADDR is set and falls back
// to process memory otherwise or when Redis is unreachable.
func draftPersistence(ctx context.Context, cfg *config.Config, log *zap.Logger) (wizard.Persistence, func()) {
	if cfg.RedisAddr == "" {
		log.Info("Wizard drafts kept in memory")
		return wizard.NewMemoryPersistence(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, wizard drafts kept in memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		client.Close()
		return wizard.NewMemoryPersistence(), func() {}
	}
	log.Info("Wizard drafts stored in Redis", zap.String("addr", cfg.RedisAddr))
	return wizard.NewRedisPersistence(client, log), func() { client.Close() }
}
