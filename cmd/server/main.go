package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"notes-backend/internal/config"
	"notes-backend/internal/logger"
	"notes-backend/internal/server"
)

var configFile string

// rootCmd запускает gRPC и HTTP серверы до сигнала остановки
var rootCmd = &cobra.Command{
	Use:           "notes-server",
	Short:         "Notes service with gRPC and HTTP APIs",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "config.yml", "Path to config file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	appConfig, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("error initializing config: %w", err)
	}

	appLogger, err := logger.New(appConfig.Logger)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}

	srv, err := server.New(appConfig, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = srv.Initialize(initCtx)
	cancel()
	if err != nil {
		_ = srv.Shutdown()
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	errChan := srv.Start()

	// Ожидание сигнала или ошибки
	select {
	case err := <-errChan:
		appLogger.WithError(err).Error("server error")
	case <-ctx.Done():
		appLogger.Info("received shutdown signal")
	}

	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("shutdown finished with errors: %w", err)
	}

	appLogger.WithField("config", configFile).Info("notes service stopped")
	return nil
}
