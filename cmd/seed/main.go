// Command seed loads demo coaches, the quiz and a week of slots into an empty
// database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saeid-a/CoachMatchBack/internal/cache"
	"github.com/saeid-a/CoachMatchBack/internal/config"
	"github.com/saeid-a/CoachMatchBack/internal/database"
	"github.com/saeid-a/CoachMatchBack/internal/logging"
	"github.com/saeid-a/CoachMatchBack/internal/seed"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.ConnectDB(ctx, cfg.DBUrl, database.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	}, zapLogger); err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB()

	var coachCache cache.CoachCache
	if cfg.RedisURL != "" {
		if redisClient, err := cache.Connect(ctx, cfg.RedisURL); err != nil {
			zapLogger.Warn("redis unavailable, skipping cache invalidation", zap.Error(err))
		} else {
			defer redisClient.Close()
			coachCache = cache.NewCoachCache(redisClient, cfg.CoachCacheTTL)
		}
	}

	result, err := seed.Run(ctx, database.DB, coachCache, time.Now(), zapLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if result.Skipped {
		fmt.Println("Database already has data, nothing seeded")
		return
	}
	fmt.Printf("Seeded %d coaches, %d quiz questions and %d slots\n", result.Coaches, result.Questions, result.Slots)
}
