package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	path := flagConfig
	if path == "" {
		path = config.Path()
	}

	fmt.Printf("  Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Monthly budget: %s\n", cli.FormatMoney(cfg.Budget.Monthly))
	fmt.Printf("    Daily limit:    %s\n", cli.FormatMoney(cfg.Budget.DailyLimit))
	fmt.Println()

	fmt.Println("  [Storage]")
	backend := cfg.Storage.Backend
	if flagEphemeral {
		backend = "memory (--ephemeral)"
	}
	fmt.Printf("    Backend: %s\n", backend)
	switch cfg.Storage.Backend {
	case "redis":
		fmt.Printf("    Redis:   %s\n", maskURL(cfg.Storage.RedisURL))
	default:
		fmt.Printf("    Path:    %s\n", cfg.DBPath())
	}
	fmt.Printf("    Key:     %s\n", cfg.Storage.Key)
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Rollover check: every %s\n", cfg.General.RolloverInterval)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Printf("    TUI log: %s\n", config.LogPath())
	fmt.Println()

	fmt.Println("  Run `purse setup` to reconfigure.")
	return nil
}

// maskURL hides the password part of a redis URL.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
