package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "a missing config file falls back to defaults")

	require.Equal(t, 15, cfg.Fetch.TimeoutSeconds)
	require.Equal(t, "3mo", cfg.Fetch.OHLCVPeriod)
	require.Equal(t, 30, cfg.Fetch.MinPoints)
	require.Equal(t, 3, cfg.Fetch.MaxRetries)
	require.Equal(t, []string{"akshare", "alltick", "yfinance", "snowball"}, cfg.Providers.Quote)
	require.Equal(t, []string{"yfinance"}, cfg.Providers.Fundamentals)
	require.Equal(t, []string{"yfinance", "newsapi"}, cfg.Providers.News)
	require.Equal(t, "data", cfg.Output.DataDir)
	require.Equal(t, 24, cfg.Quality.MaxAgeHours)
	require.NoError(t, cfg.Validate())
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := writeConfig(t, `
fetch:
  timeout_seconds: 30
  ohlcv_period: 1y
providers:
  quote: [yfinance]
output:
  data_dir: /tmp/market-data
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 30, cfg.Fetch.TimeoutSeconds)
	require.Equal(t, "1y", cfg.Fetch.OHLCVPeriod)
	require.Equal(t, []string{"yfinance"}, cfg.Providers.Quote)
	require.Equal(t, "/tmp/market-data", cfg.Output.DataDir)
	require.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "fh-key")
	t.Setenv("SNOWBALL_TOKEN", "sb-token")
	t.Setenv("RUN_ON_START", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, "fh-key", cfg.Keys.Finnhub)
	require.Equal(t, "sb-token", cfg.Keys.Snowball)
	require.True(t, cfg.Schedule.RunOnStart)
}

func TestValidateRejectsBadPeriod(t *testing.T) {
	path := writeConfig(t, `
fetch:
  ohlcv_period: 2w
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyProviders(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.Providers.Quote = nil
	require.Error(t, cfg.Validate())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "fetch: [not a map")
	_, err := Load(path)
	require.Error(t, err)
}
