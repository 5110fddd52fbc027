package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"finstatements.com/internal/domain/port"
	"finstatements.com/internal/infrastructure/config"
	"finstatements.com/internal/infrastructure/database"
	"finstatements.com/internal/infrastructure/logger"
	"finstatements.com/internal/infrastructure/repository"
)

const serverDir = "server"

var configDirFlag string //nolint:gochecknoglobals

// loadConfig resolves the config directory relative to where the binary runs
func loadConfig() (*config.Config, error) {
	configDir := configDirFlag
	if configDir == "" {
		configDir = filepath.Join("cmd", "config", serverDir)
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			configDir = filepath.Join("config", serverDir)
		}
	}

	return config.LoadConfig(configDir)
}

// stores bundles the repositories for the configured driver together with
// whatever must be closed on shutdown.
type stores struct {
	statements port.StatementRepository
	users      port.UserRepository
	migrate    func(ctx context.Context) error
	close      func() error
}

func openStores(ctx context.Context, cfg config.Storage, log logger.Logger) (*stores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return &stores{
			statements: repository.NewPostgresStatements(db, log),
			users:      repository.NewPostgresUsers(db),
			migrate:    func(ctx context.Context) error { return repository.MigratePostgres(ctx, db) },
			close:      db.Close,
		}, nil

	case config.DriverMySQL:
		client, err := database.NewMySQLClient(ctx, cfg.MySQL, log)
		if err != nil {
			return nil, err
		}
		return &stores{
			statements: repository.NewMySQLStatements(client, log),
			users:      repository.NewMySQLUsers(client),
			migrate:    func(ctx context.Context) error { return repository.MigrateMySQL(ctx, client.DB()) },
			close:      client.Close,
		}, nil

	case config.DriverMemory:
		return &stores{
			statements: repository.NewInMemoryStatements(log),
			users:      repository.NewInMemoryUsers(log),
			migrate:    func(context.Context) error { return nil },
			close:      func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
