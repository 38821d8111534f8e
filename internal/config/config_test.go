package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fintrack/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Uzzam")
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Path = "fintrack.db"
	cfg.Categories = []string{"Food", "Income", "Fees"}
	cfg.Rules["WHOLEFDS"] = "Food"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Owner, got.Owner)
	assert.Equal(t, cfg.Storage, got.Storage)
	assert.Equal(t, cfg.Defaults, got.Defaults)
	assert.Equal(t, cfg.Subscriptions, got.Subscriptions)
	assert.Equal(t, cfg.Categories, got.Categories)
	assert.Equal(t, cfg.Rules, got.Rules)
	assert.Equal(t, cfg.Git, got.Git)
	assert.Equal(t, cfg.Log, got.Log)
}

func TestDefaults(t *testing.T) {
	cfg := Default("Uzzam")

	assert.Equal(t, "Uzzam", cfg.Owner)
	assert.Equal(t, "csv", cfg.Storage.Backend)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())

	d, err := cfg.AccountDefaults()
	require.NoError(t, err)
	assert.Equal(t, "10", d.CheckingMonthlyFee.String())
	assert.Equal(t, "500", d.CheckingMinimumBalance.String())
	assert.Equal(t, 6, d.SavingsWithdrawalLimit)

	tol, err := cfg.Tolerance()
	require.NoError(t, err)
	assert.Equal(t, "1", tol.String())

	cats, err := cfg.AllowedCategories()
	require.NoError(t, err)
	assert.Equal(t, model.Categories(), cats)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("owner: Sam\nlog:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sam", cfg.Owner)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "csv", cfg.Storage.Backend)
	assert.Equal(t, "10.00", cfg.Defaults.CheckingMonthlyFee)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"backend", func(c *Config) { c.Storage.Backend = "postgres" }, "storage.backend"},
		{"fee", func(c *Config) { c.Defaults.CheckingMonthlyFee = "ten" }, "checking_monthly_fee"},
		{"negative minimum", func(c *Config) { c.Defaults.CheckingMinimumBalance = "-1" }, "checking_minimum_balance"},
		{"withdrawal limit", func(c *Config) { c.Defaults.SavingsWithdrawalLimit = -2 }, "savings_withdrawal_limit"},
		{"tolerance", func(c *Config) { c.Subscriptions.Tolerance = "-0.5" }, "tolerance"},
		{"category", func(c *Config) { c.Categories = []string{"Food", "Pets"} }, "categories"},
		{"rule", func(c *Config) { c.Rules["UBER"] = "Rides" }, "UBER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("Uzzam")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FINTRACK_OWNER":           "Robin",
		"FINTRACK_STORAGE_BACKEND": "sqlite",
		"FINTRACK_STORAGE_PATH":    "/tmp/ft.db",
		"FINTRACK_LOG_LEVEL":       "warn",
		"FINTRACK_GIT_AUTO_COMMIT": "false",
	}
	cfg := Default("Uzzam")
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "Robin", cfg.Owner)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/ft.db", cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "fintrack", cfg.Git.AuthorName, "unset variables leave the file value")
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	cfg := Default("Uzzam")
	err := cfg.ApplyEnv(func(k string) string {
		if k == "FINTRACK_GIT_AUTO_COMMIT" {
			return "sometimes"
		}
		return ""
	})
	require.Error(t, err)

	cfg = Default("Uzzam")
	err = cfg.ApplyEnv(func(k string) string {
		if k == "FINTRACK_STORAGE_BACKEND" {
			return "redis"
		}
		return ""
	})
	require.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FINTRACK_TEST_LOADENV=from-file\n"), 0o644))

	t.Setenv("FINTRACK_TEST_LOADENV", "")
	os.Unsetenv("FINTRACK_TEST_LOADENV")

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("FINTRACK_TEST_LOADENV"))
}

func TestLoadEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FINTRACK_TEST_KEEP=from-file\n"), 0o644))

	t.Setenv("FINTRACK_TEST_KEEP", "from-shell")
	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-shell", os.Getenv("FINTRACK_TEST_KEEP"))
}

func TestStorageLocation(t *testing.T) {
	root := filepath.Join("data", "home")
	tests := []struct {
		name    string
		backend string
		path    string
		want    string
	}{
		{"csv default", "csv", ".", root},
		{"csv subdir", "csv", "ledger", filepath.Join(root, "ledger")},
		{"sqlite default", "sqlite", ".", filepath.Join(root, DefaultDatabase)},
		{"sqlite empty", "sqlite", "", filepath.Join(root, DefaultDatabase)},
		{"sqlite file", "sqlite", "money.db", filepath.Join(root, "money.db")},
		{"absolute", "sqlite", "/var/lib/fintrack.db", "/var/lib/fintrack.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("Uzzam")
			cfg.Storage.Backend = tt.backend
			cfg.Storage.Path = tt.path
			assert.Equal(t, tt.want, cfg.StorageLocation(root))
		})
	}
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Uzzam")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "owner: Uzzam")
	assert.Contains(t, contents, "backend: csv")
	assert.Contains(t, contents, "savings_withdrawal_limit: 6")
	assert.Contains(t, contents, "auto_commit: true")
}
