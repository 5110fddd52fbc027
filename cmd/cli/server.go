package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"finstatements.com/internal/application/usecase"
	"finstatements.com/internal/domain/port"
	"finstatements.com/internal/infrastructure/auth"
	"finstatements.com/internal/infrastructure/events"
	httphandler "finstatements.com/internal/infrastructure/http"
	"finstatements.com/internal/infrastructure/logger"

	"github.com/spf13/cobra"
)

var apiServerCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "server",
	Short: "Run API Server.",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			logger.NewLogger("info").LogError(context.TODO(), "Failed to load config", err)
			return fmt.Errorf("failed to load config: %w", err)
		}

		appLogger := logger.NewLogger(cfg.Log.Level)
		appLogger.LogInfo(context.TODO(), "Configuration loaded",
			"port", cfg.Server.Port,
			"storage_driver", cfg.Storage.Driver,
			"kafka_brokers", len(cfg.Events.Kafka.Brokers))
		for _, warning := range cfg.Warnings() {
			appLogger.LogWarning(context.TODO(), warning, "config_env", cfg.Env)
		}

		// Initialize infrastructure adapters
		st, err := openStores(context.TODO(), cfg.Storage, appLogger)
		if err != nil {
			appLogger.LogError(context.TODO(), "Failed to open storage", err, "driver", cfg.Storage.Driver)
			return err
		}
		defer func() {
			if err := st.close(); err != nil {
				appLogger.LogError(context.TODO(), "Failed to close storage", err)
			}
		}()

		var publisher port.EventPublisher = events.NoopPublisher{}
		if len(cfg.Events.Kafka.Brokers) > 0 {
			kafkaPublisher := events.NewKafkaPublisher(cfg.Events.Kafka, appLogger)
			defer func() {
				if err := kafkaPublisher.Close(); err != nil {
					appLogger.LogError(context.TODO(), "Failed to close kafka writer", err)
				}
			}()
			publisher = kafkaPublisher
		}

		tokens := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

		// Initialize use cases
		useCases := httphandler.UseCases{
			CreateStatement:  usecase.NewCreateStatementUseCase(st.users, st.statements, publisher, appLogger),
			GetBalance:       usecase.NewGetBalanceUseCase(st.users, st.statements),
			GetStatement:     usecase.NewGetStatementOperationUseCase(st.users, st.statements),
			CreateUser:       usecase.NewCreateUserUseCase(st.users, hasher),
			AuthenticateUser: usecase.NewAuthenticateUserUseCase(st.users, hasher, tokens),
			ShowUserProfile:  usecase.NewShowUserProfileUseCase(st.users),
		}

		handler := httphandler.NewHandler(useCases, tokens, appLogger)
		mux := handler.SetupRoutes()

		addr := ":" + cfg.Server.Port
		server := &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		// Channel to capture termination signals
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		errChan := make(chan error, 1)

		go func() {
			appLogger.LogInfo(context.TODO(), "Starting server", "address", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		select {
		case <-signalChan:
			appLogger.LogInfo(context.TODO(), "Received termination signal. Initiating graceful shutdown...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				appLogger.LogError(context.TODO(), "Server forced to shutdown", err)
				return err
			}

			appLogger.LogInfo(context.TODO(), "Server stopped gracefully")
		case err := <-errChan:
			appLogger.LogError(context.TODO(), "Server error", err)
			return err
		}

		return nil
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(apiServerCmd)
}
