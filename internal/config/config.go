// Package config loads purse settings from TOML, the environment and .env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all purse configuration.
type Config struct {
	Budget     BudgetConfig     `toml:"budget"`
	Storage    StorageConfig    `toml:"storage"`
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
}

// BudgetConfig holds the two spending thresholds.
type BudgetConfig struct {
	Monthly    decimal.Decimal `toml:"monthly"     env:"PURSE_MONTHLY_BUDGET"`
	DailyLimit decimal.Decimal `toml:"daily_limit" env:"PURSE_DAILY_LIMIT"`
}

// StorageConfig selects and addresses the ledger backend.
type StorageConfig struct {
	Backend  string `toml:"backend"             env:"PURSE_STORAGE_BACKEND"` // sqlite, redis, memory
	Path     string `toml:"path,omitempty"      env:"PURSE_DB_PATH"`
	RedisURL string `toml:"redis_url,omitempty" env:"PURSE_REDIS_URL"`
	Key      string `toml:"key"                 env:"PURSE_STORAGE_KEY"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	RolloverInterval time.Duration `toml:"rollover_interval" env:"PURSE_ROLLOVER_INTERVAL"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"PURSE_THEME"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `toml:"level"  env:"PURSE_LOG_LEVEL"`
	Format string `toml:"format" env:"PURSE_LOG_FORMAT"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Budget: BudgetConfig{
			Monthly:    decimal.NewFromInt(150000),
			DailyLimit: decimal.NewFromInt(5000),
		},
		Storage: StorageConfig{
			Backend:  "sqlite",
			RedisURL: "redis://localhost:6379/0",
			Key:      "shoppingHistory",
		},
		General: GeneralConfig{
			RolloverInterval: time.Minute,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "purse")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "purse")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the database and log.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "purse")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "purse")
}

// DBPath returns the SQLite path, honoring storage.path.
func (c Config) DBPath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(DataDir(), "purse.db")
}

// LogPath returns the log file used while the TUI owns the terminal.
func LogPath() string {
	return filepath.Join(DataDir(), "purse.log")
}

// LoadEnvFile loads a .env file into the process environment when present.
// Variables already set win.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies PURSE_* environment overrides.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-selected config path
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the thresholds and backend name.
func (c Config) Validate() error {
	if c.Budget.Monthly.IsNegative() {
		return fmt.Errorf("budget.monthly must not be negative, got %s", c.Budget.Monthly)
	}
	if c.Budget.DailyLimit.IsNegative() {
		return fmt.Errorf("budget.daily_limit must not be negative, got %s", c.Budget.DailyLimit)
	}
	switch strings.ToLower(c.Storage.Backend) {
	case "", "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("storage.backend %q is not one of sqlite, redis, memory", c.Storage.Backend)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile is Save for an explicit path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-selected config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
