package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mdesign/internal/app"
	"github.com/xxxsen/mdesign/internal/config"
	"github.com/xxxsen/mdesign/internal/db"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "mdesign",
		Short: "mdesign backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run mdesign server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			return runServer(cfg, conn)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			logutil.GetLogger(context.Background()).Info("migrations applied", zap.String("driver", cfg.Database.Driver))
			return conn.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func setup(configPath string) (*config.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
	return cfg, nil
}

func openDB(cfg *config.Config) (*sqlx.DB, error) {
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return conn, nil
}

func runServer(cfg *config.Config, conn *sqlx.DB) error {
	lg := logutil.GetLogger(context.Background())
	lg.Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("file_store", cfg.FileStore.Type),
	)

	application, err := app.New(cfg, conn)
	if err != nil {
		_ = conn.Close()
		return err
	}
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           application.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	application.StartJobs(ctx)

	errCh := make(chan error, 1)
	go func() {
		lg.Info("http server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = application.Close()
			return fmt.Errorf("http server: %w", err)
		}
	}

	lg.Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// hijacked websocket conns are not tracked by Shutdown; drop them first.
	if err := application.Channel().Close(); err != nil {
		lg.Warn("close realtime channel", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("http shutdown", zap.Error(err))
	}
	return application.Close()
}
