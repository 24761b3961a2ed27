package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/quicksortapp/quicksort/internal/api"
	"github.com/quicksortapp/quicksort/internal/auth"
	"github.com/quicksortapp/quicksort/internal/classify"
	"github.com/quicksortapp/quicksort/internal/cli"
	"github.com/quicksortapp/quicksort/internal/config"
	"github.com/quicksortapp/quicksort/internal/engine"
	"github.com/quicksortapp/quicksort/internal/guide"
	"github.com/quicksortapp/quicksort/internal/imagestore"
	"github.com/quicksortapp/quicksort/internal/storage"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quicksort HTTP API",
		Long: `Start the HTTP server exposing the full analysis pipeline:
registration and login, photo analysis, history, rank, and leaderboard.`,
		RunE: runServe,
	}

	cmd.Flags().String("listen", "", "listen address (default :8080)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.ListenAddr = listen
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	classifier, err := classify.NewHTTPClient(classify.Config{BaseURL: cfg.ClassifierURL})
	if err != nil {
		return err
	}
	if err := classifier.Ping(ctx); err != nil {
		cmd.Println(cli.WarningStyle.Render("warning: classifier not reachable at " + cfg.ClassifierURL))
		slog.Warn("classifier not reachable at startup", "url", cfg.ClassifierURL, "error", err)
	}

	images, err := imagestore.NewS3Store(ctx, cfg.ImageBucket, cfg.ImageRegion)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	resolver := guide.NewResolver(store)
	eng := engine.New(store, images, classifier, resolver)
	authSvc := auth.NewService(store, cfg.SessionTTL)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewServer(store, eng, resolver, authSvc).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("quicksort API listening", "addr", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
