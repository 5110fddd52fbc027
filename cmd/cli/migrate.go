package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finstatements.com/internal/infrastructure/config"
	"finstatements.com/internal/infrastructure/logger"
)

var migrateCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "migrate",
	Short: "Create the database schema for the configured storage driver.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		appLogger := logger.NewLogger(cfg.Log.Level)

		if cfg.Storage.Driver == config.DriverMemory {
			appLogger.LogWarning(cmd.Context(), "Memory driver has no schema to migrate")
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		st, err := openStores(ctx, cfg.Storage, appLogger)
		if err != nil {
			appLogger.LogError(ctx, "Failed to open storage", err, "driver", cfg.Storage.Driver)
			return err
		}
		defer st.close()

		if err := st.migrate(ctx); err != nil {
			appLogger.LogError(ctx, "Migration failed", err, "driver", cfg.Storage.Driver)
			return err
		}

		appLogger.LogInfo(ctx, "Migration completed", "driver", cfg.Storage.Driver)
		return nil
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}
