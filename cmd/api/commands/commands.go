package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifehub/core/internal/adapters/alert"
	"github.com/lifehub/core/internal/adapters/storage"
	"github.com/lifehub/core/internal/application/store"
	"github.com/lifehub/core/internal/infrastructure/config"
	"github.com/lifehub/core/internal/infrastructure/logger"
	"github.com/lifehub/core/internal/infrastructure/server"
	"github.com/lifehub/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the LifeHub API server",
		Long:  "Start the LifeHub API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewSnapshotCommand creates the snapshot inspection command
func NewSnapshotCommand() *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Snapshot slot commands",
		Long:  "Inspect the durable snapshot slot",
	}

	snapshotCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the snapshot slot location",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			fmt.Println(cfg.Storage.DataFile)
		},
	})

	snapshotCmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print the persisted snapshot blob",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			data, err := os.ReadFile(cfg.Storage.DataFile)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("{}")
					return
				}
				log.Fatalf("Failed to read snapshot: %v", err)
			}
			fmt.Println(string(data))
		},
	})

	return snapshotCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print LifeHub version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("LifeHub Core v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	fileStorage := storage.NewFileStorage(cfg.Storage.DataFile, appLogger)

	var alerter ports.Alerter = alert.Disabled{}
	if cfg.Alerts.Enabled {
		alerter = alert.New(ports.AlertPermission(cfg.Alerts.Permission), appLogger)
	}

	st, err := store.New(fileStorage, alerter, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize store", "error", err.Error())
	}

	srv, err := server.New(cfg, st, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err.Error())
	}

	appLogger.Infow("Starting LifeHub API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"data_file", cfg.Storage.DataFile,
	)

	go func() {
		if err := srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)); err != nil {
			appLogger.Infow("Server stopped", "error", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Server shutdown failed", "error", err.Error())
	}
}
