package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var DB *pgxpool.Pool

type PoolOptions struct {
	MaxConns int32
	MinConns int32
}

func ConnectDB(ctx context.Context, dbUrl string, opts PoolOptions, logger *zap.Logger) error {
	config, err := pgxpool.ParseConfig(dbUrl)
	if err != nil {
		return fmt.Errorf("unable to parse database config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns >= 0 && opts.MinConns <= config.MaxConns {
		config.MinConns = opts.MinConns
	}
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	DB, err = pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := DB.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	if logger != nil {
		logger.Info("connected to PostgreSQL",
			zap.Int32("max_conns", config.MaxConns),
			zap.Int32("min_conns", config.MinConns),
		)
	}
	return nil
}

func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}
