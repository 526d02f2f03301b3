// Package cmd implements the purse CLI commands.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/config"
	"github.com/theirongolddev/purse/internal/ledger"
	"github.com/theirongolddev/purse/internal/logger"
	"github.com/theirongolddev/purse/internal/store"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagEnvFile   string
	flagEphemeral bool
	flagYes       bool
	flagLogLevel  string
)

// Loaded by PersistentPreRunE for every command.
var (
	cfg config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "purse",
	Short:             "Terminal budget tracker",
	Long:              "Record purchases against a monthly budget with a daily spending limit.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE:              runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Load environment overrides from this file when it exists")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Keep the ledger in memory only for this run")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Answer yes to every confirmation")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

func loadSettings(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return err
	}

	path := flagConfig
	if path == "" {
		path = config.Path()
	}
	loaded, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	log = logger.New(logger.Config{Level: level, Format: cfg.Logging.Format})
	return nil
}

func prompter() cli.Prompter {
	return cli.Prompter{AssumeYes: flagYes}
}

func budget() ledger.Budget {
	return ledger.Budget{
		Monthly:    cfg.Budget.Monthly,
		DailyLimit: cfg.Budget.DailyLimit,
	}
}

// openLedger opens the configured backend and restores the controller over
// it. The returned func closes the backend.
func openLedger(ctx context.Context, opts ...ledger.Option) (*ledger.Controller, func(), error) {
	backend := strings.ToLower(cfg.Storage.Backend)
	if flagEphemeral {
		backend = store.BackendMemory
	}

	st, err := store.Open(ctx, store.Options{
		Backend:  backend,
		Path:     cfg.DBPath(),
		RedisURL: cfg.Storage.RedisURL,
		Key:      cfg.Storage.Key,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("backend", backend).Msg("storage opened")

	p := prompter()
	base := []ledger.Option{
		ledger.WithLogger(log),
		ledger.WithConfirmer(p),
		ledger.WithNotifier(p),
	}
	ctrl := ledger.New(ctx, st, budget(), append(base, opts...)...)

	closeFn := func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("closing storage")
		}
	}
	return ctrl, closeFn, nil
}
