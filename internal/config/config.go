package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/fintrack/internal/accounts"
	"github.com/cleared-dev/fintrack/internal/model"
)

// FileName is the config file at the root of a data directory.
const FileName = "fintrack.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FINTRACK_"

// Config represents the top-level fintrack.yaml configuration.
type Config struct {
	Owner         string              `yaml:"owner"`
	Storage       StorageConfig       `yaml:"storage"`
	Defaults      DefaultsConfig      `yaml:"defaults"`
	Subscriptions SubscriptionsConfig `yaml:"subscriptions"`
	Categories    []string            `yaml:"categories,omitempty"`
	Rules         map[string]string   `yaml:"rules,omitempty"`
	Git           GitConfig           `yaml:"git"`
	Log           LogConfig           `yaml:"log"`
}

// StorageConfig selects the persistence backend. Path is relative to the
// data directory unless absolute.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "csv" or "sqlite"
	Path    string `yaml:"path"`
}

// DefaultsConfig holds parameters applied to newly opened accounts.
type DefaultsConfig struct {
	CheckingMonthlyFee     string `yaml:"checking_monthly_fee"`
	CheckingMinimumBalance string `yaml:"checking_minimum_balance"`
	SavingsWithdrawalLimit int    `yaml:"savings_withdrawal_limit"`
}

// SubscriptionsConfig tunes recurring charge detection.
type SubscriptionsConfig struct {
	Tolerance string `yaml:"tolerance"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig sets the log level: trace, debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a fintrack.yaml file from disk and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default(owner string) *Config {
	return &Config{
		Owner: owner,
		Storage: StorageConfig{
			Backend: "csv",
			Path:    ".",
		},
		Defaults: DefaultsConfig{
			CheckingMonthlyFee:     "10.00",
			CheckingMinimumBalance: "500.00",
			SavingsWithdrawalLimit: 6,
		},
		Subscriptions: SubscriptionsConfig{
			Tolerance: "1.00",
		},
		Rules: map[string]string{
			"NETFLIX": "Subscription",
			"SPOTIFY": "Subscription",
			"PAYROLL": "Income",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "fintrack",
			AuthorEmail: "fintrack@localhost",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg from FINTRACK_* variables looked up with getenv.
func (cfg *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	str("OWNER", &cfg.Owner)
	str("STORAGE_BACKEND", &cfg.Storage.Backend)
	str("STORAGE_PATH", &cfg.Storage.Path)
	str("SUBSCRIPTION_TOLERANCE", &cfg.Subscriptions.Tolerance)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("GIT_AUTHOR_NAME", &cfg.Git.AuthorName)
	str("GIT_AUTHOR_EMAIL", &cfg.Git.AuthorEmail)

	if v := getenv(EnvPrefix + "GIT_AUTO_COMMIT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sGIT_AUTO_COMMIT: %w", EnvPrefix, err)
		}
		cfg.Git.AutoCommit = b
	}
	return cfg.Validate()
}

// Validate checks every field that has a fixed vocabulary or numeric form.
func (cfg *Config) Validate() error {
	switch strings.ToLower(cfg.Storage.Backend) {
	case "csv", "sqlite":
	default:
		return fmt.Errorf("config: storage.backend %q must be csv or sqlite", cfg.Storage.Backend)
	}
	if _, err := cfg.AccountDefaults(); err != nil {
		return err
	}
	if _, err := cfg.Tolerance(); err != nil {
		return err
	}
	if _, err := cfg.AllowedCategories(); err != nil {
		return err
	}
	for kw, name := range cfg.Rules {
		if _, err := model.ParseCategory(name); err != nil {
			return fmt.Errorf("config: rules[%q]: %w", kw, err)
		}
	}
	return nil
}

// DefaultDatabase is the SQLite file used when storage.path names no file.
const DefaultDatabase = "fintrack.db"

// StorageLocation resolves storage.path against the data directory root.
// The CSV backend needs a directory; SQLite needs a file, so a bare "." or
// empty path becomes DefaultDatabase.
func (cfg *Config) StorageLocation(root string) string {
	p := cfg.Storage.Path
	if strings.EqualFold(cfg.Storage.Backend, "sqlite") && (p == "" || p == ".") {
		p = DefaultDatabase
	}
	if p == "" {
		p = "."
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// AccountDefaults converts the defaults section.
func (cfg *Config) AccountDefaults() (accounts.Defaults, error) {
	d := accounts.StandardDefaults()
	var err error
	if cfg.Defaults.CheckingMonthlyFee != "" {
		if d.CheckingMonthlyFee, err = nonNegative("defaults.checking_monthly_fee", cfg.Defaults.CheckingMonthlyFee); err != nil {
			return d, err
		}
	}
	if cfg.Defaults.CheckingMinimumBalance != "" {
		if d.CheckingMinimumBalance, err = nonNegative("defaults.checking_minimum_balance", cfg.Defaults.CheckingMinimumBalance); err != nil {
			return d, err
		}
	}
	if cfg.Defaults.SavingsWithdrawalLimit < 0 {
		return d, fmt.Errorf("config: defaults.savings_withdrawal_limit cannot be negative")
	}
	if cfg.Defaults.SavingsWithdrawalLimit > 0 {
		d.SavingsWithdrawalLimit = cfg.Defaults.SavingsWithdrawalLimit
	}
	return d, nil
}

// Tolerance returns the subscription amount tolerance; zero when unset.
func (cfg *Config) Tolerance() (decimal.Decimal, error) {
	if cfg.Subscriptions.Tolerance == "" {
		return decimal.Zero, nil
	}
	return nonNegative("subscriptions.tolerance", cfg.Subscriptions.Tolerance)
}

// AllowedCategories returns the category allow-list, or every category
// when the list is empty.
func (cfg *Config) AllowedCategories() ([]model.Category, error) {
	if len(cfg.Categories) == 0 {
		return model.Categories(), nil
	}
	out := make([]model.Category, 0, len(cfg.Categories))
	for _, name := range cfg.Categories {
		c, err := model.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("config: categories: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

func nonNegative(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: %s %q is not a number", field, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("config: %s cannot be negative", field)
	}
	return d, nil
}
