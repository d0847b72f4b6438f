package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/saeid-a/CoachMatchBack/internal/config"
	"github.com/saeid-a/CoachMatchBack/internal/logging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	migrationsPath, err := findMigrationsDir()
	if err != nil {
		logger.Fatal("migrations directory not found", zap.Error(err))
	}

	m, err := migrate.New("file://"+filepath.ToSlash(migrationsPath), cfg.DBUrl)
	if err != nil {
		logger.Fatal("failed to open migrations", zap.Error(err))
	}
	defer m.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if len(os.Args) < 3 {
			logger.Fatal("usage: migrate steps <n>")
		}
		n, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			logger.Fatal("steps must be an integer", zap.String("value", os.Args[2]))
		}
		err = m.Steps(n)
	case "version":
		version, dirty, versionErr := m.Version()
		if versionErr != nil && !errors.Is(versionErr, migrate.ErrNilVersion) {
			logger.Fatal("failed to read migration version", zap.Error(versionErr))
		}
		logger.Info("migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return
	default:
		logger.Fatal("unknown command, expected up, down, steps or version", zap.String("command", cmd))
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("migration failed", zap.String("command", cmd), zap.Error(err))
	}
	logger.Info("migration successful", zap.String("command", cmd))
}

// findMigrationsDir looks for migrations/ in the working directory and its
// parents, then next to the executable.
func findMigrationsDir() (string, error) {
	var candidates []string

	if cwd, err := os.Getwd(); err == nil {
		current := cwd
		for i := 0; i < 6; i++ {
			candidates = append(candidates, filepath.Join(current, "migrations"))
			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		candidates = append(candidates,
			filepath.Join(exeDir, "migrations"),
			filepath.Join(exeDir, "..", "migrations"),
			filepath.Join(exeDir, "..", "..", "migrations"),
		)
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return "", errors.New("no migrations directory in working tree or next to executable")
}
