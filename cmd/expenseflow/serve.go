package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/expenseflow/expenseflow/internal/api"
	"github.com/expenseflow/expenseflow/internal/common"
	"github.com/expenseflow/expenseflow/internal/storage"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the expense API server",
		Long: `Start the HTTP API backed by the SQLite expense store.

Schema migrations run automatically on startup. The server shuts down
gracefully on SIGINT/SIGTERM.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :4000)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("server.addr")
	}

	dbPath := databasePath()
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return common.NewUserError("could not open the expense database", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewServer(store, slog.Default()).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Expense API listening", "addr", addr, "database", dbPath)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}
