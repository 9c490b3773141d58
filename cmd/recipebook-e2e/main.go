package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gmacem/recipebook-e2e/internal/config"
	"github.com/Gmacem/recipebook-e2e/internal/logger"
	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/Gmacem/recipebook-e2e/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
	v       *viper.Viper
	cfg     *config.Config
	log     *slog.Logger
	// tokens lives for the whole process so every command authenticates once.
	tokens session.TokenCache

	rootCmd = &cobra.Command{
		Use:   "recipebook-e2e",
		Short: "Lifecycle checks for a recipe-book API",
		Long: `recipebook-e2e runs create/read/update/delete scripts for categories and
recipes against a running recipe-book API and reports every failed assertion.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
		PersistentPostRun: func(*cobra.Command, []string) { closeTokens() },
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./recipebook.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(scenariosCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeTokens()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	var err error
	v, err = config.New(cfgFile)
	if err != nil {
		return err
	}

	flags := map[string]string{
		"base_url":   "base-url",
		"log_level":  "log-level",
		"log_format": "log-format",
	}
	for key, flag := range flags {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	cfg, err = config.Decode(v)
	if err != nil {
		return err
	}

	log, err = logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	slog.SetDefault(log)

	closeTokens()
	tokens, err = session.NewRistrettoCache(nil)
	if err != nil {
		return fmt.Errorf("failed to create token cache: %w", err)
	}
	return nil
}

func closeTokens() {
	if tokens != nil {
		tokens.Close()
		tokens = nil
	}
}

// authenticatedClient returns a client carrying a token for the configured
// user. Tokens come from the process-wide cache after the first login.
func authenticatedClient(ctx context.Context) (*recipebook.Client, error) {
	client := recipebook.NewClient(cfg.BaseURL, recipebook.Options{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
	})

	sess, err := session.NewAuthenticator(client, cfg.LoginPath, tokens, log).
		Authenticate(ctx, cfg.Email, cfg.Password)
	if err != nil {
		return nil, err
	}
	return client.WithToken(sess.Token), nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
