package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "model", cfg.Data.ProductColumn)
	assert.Equal(t, 5, cfg.Report.TopN)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
logging:
  level: debug
data:
  product_column: vehicle
report:
  top_n: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "vehicle", cfg.Data.ProductColumn)
	assert.Equal(t, 10, cfg.Report.TopN)
	// Untouched values keep their defaults.
	assert.Equal(t, "date", cfg.Data.DateColumn)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	t.Setenv("SALESPULSE_LOGGING_LEVEL", "warn")
	t.Setenv("SALESPULSE_REPORT_TOP_N", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Report.TopN)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"zero top n", func(c *Config) { c.Report.TopN = 0 }},
		{"missing input file", func(c *Config) { c.Data.InputFile = "" }},
		{"missing date column", func(c *Config) { c.Data.DateColumn = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths = PathsConfig{
		DataDir:      filepath.Join(base, "data"),
		ProcessedDir: filepath.Join(base, "data", "processed"),
		ReportsDir:   filepath.Join(base, "reports"),
		TablesDir:    filepath.Join(base, "reports", "tables"),
		LogsDir:      filepath.Join(base, "logs"),
	}

	require.NoError(t, cfg.EnsureDirectories())

	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.TablesDir, cfg.Paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
