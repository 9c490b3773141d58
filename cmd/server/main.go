package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/Gmacem/recipebook-e2e/internal/config"
	"github.com/Gmacem/recipebook-e2e/internal/fixtures"
	"github.com/Gmacem/recipebook-e2e/internal/logger"
	"github.com/Gmacem/recipebook-e2e/internal/server"
	"github.com/Gmacem/recipebook-e2e/internal/store"
	"github.com/spf13/cobra"
)

func main() {
	var configFile string

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Reference recipe-book API for the lifecycle suite",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			return serve(cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file (default: ./recipebook.yaml)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, cfg *config.Config) error {
	log, err := logger.New(os.Stdout, cfg.LogLevel, "json")
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	ctx := cmd.Context()

	var s store.Store
	if cfg.Server.DatabaseURL != "" {
		if err := store.Migrate(cfg.Server.DatabaseURL); err != nil {
			return err
		}
		pg, err := store.NewPostgresStore(ctx, cfg.Server.DatabaseURL)
		if err != nil {
			return err
		}
		s = pg
		log.Info("Using PostgreSQL store")
	} else {
		s = store.NewMemoryStore()
		log.Info("Using in-memory store")
	}
	defer s.Close()

	opts := server.Options{
		JWTSecret:      cfg.Server.JWTSecret,
		LoginPath:      cfg.LoginPath,
		RequestLogging: true,
	}
	if cfg.Server.Preload {
		set, err := fixtures.Load(cfg.Fixtures)
		if err != nil {
			return err
		}
		opts.Fixtures = set
	}

	handler, err := server.New(ctx, s, opts)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting server", "addr", addr)
	err = http.ListenAndServe(addr, handler)
	log.Error("Server stopped", "error", err)
	return err
}
