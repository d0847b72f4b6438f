package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/saeid-a/CoachMatchBack/internal/cache"
	"github.com/saeid-a/CoachMatchBack/internal/config"
	"github.com/saeid-a/CoachMatchBack/internal/database"
	"github.com/saeid-a/CoachMatchBack/internal/logging"
	"github.com/saeid-a/CoachMatchBack/internal/middleware"
	"github.com/saeid-a/CoachMatchBack/internal/routes"
	"github.com/saeid-a/CoachMatchBack/internal/seed"
	"github.com/saeid-a/CoachMatchBack/internal/telemetry"
	slotws "github.com/saeid-a/CoachMatchBack/internal/websocket"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Config
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

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, cfg.OTelServiceName)
	if err != nil {
		zapLogger.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			zapLogger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	// 2. Connect to Database
	if err := database.ConnectDB(ctx, cfg.DBUrl, database.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	}, zapLogger); err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB()

	var coachCache cache.CoachCache
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			zapLogger.Warn("redis unavailable, coach cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			coachCache = cache.NewCoachCache(redisClient, cfg.CoachCacheTTL)
		}
	}

	if cfg.SeedOnStart {
		if _, err := seed.Run(ctx, database.DB, coachCache, time.Now(), zapLogger); err != nil {
			zapLogger.Fatal("failed to seed database", zap.Error(err))
		}
	}

	hub := slotws.NewHub(zapLogger)
	go hub.Run(ctx)

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "CoachMatchBack",
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: strings.Join([]string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept}, ", "),
	}))
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Routes
	if err := routes.RegisterRoutes(app, cfg, database.DB, routes.Dependencies{
		Logger:     zapLogger,
		Hub:        hub,
		CoachCache: coachCache,
	}); err != nil {
		zapLogger.Fatal("failed to register routes", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		zapLogger.Info("shutting down server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			zapLogger.Warn("server shutdown failed", zap.Error(err))
		}
	}()

	// 4. Start Server
	zapLogger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Error("server failed", zap.Error(err))
	}
}
