package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/config"
	"github.com/theirongolddev/purse/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set budget, daily limit, storage and theme",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	monthly := cfg.Budget.Monthly.String()
	daily := cfg.Budget.DailyLimit.String()
	backend := cfg.Storage.Backend
	redisURL := cfg.Storage.RedisURL
	themeName := cfg.Appearance.Theme

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly budget").
				Value(&monthly).
				Validate(cli.ValidatePrice),
			huh.NewInput().
				Title("Daily limit").
				Value(&daily).
				Validate(cli.ValidatePrice),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Storage").
				Options(
					huh.NewOption("SQLite file (default)", "sqlite"),
					huh.NewOption("Redis", "redis"),
				).
				Value(&backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Redis URL").
				Value(&redisURL),
		).WithHideFunc(func() bool { return backend != "redis" }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&themeName),
		),
	)
	if err := form.RunWithContext(cmd.Context()); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	cfg.Budget.Monthly = decimal.RequireFromString(strings.TrimSpace(monthly))
	cfg.Budget.DailyLimit = decimal.RequireFromString(strings.TrimSpace(daily))
	cfg.Storage.Backend = backend
	cfg.Storage.RedisURL = strings.TrimSpace(redisURL)
	cfg.Appearance.Theme = themeName

	path := flagConfig
	if path == "" {
		path = config.Path()
	}
	if err := config.SaveFile(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `purse setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
