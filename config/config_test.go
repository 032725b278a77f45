package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://divvydiary.com", cfg.Site.Origin)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 20*time.Second, cfg.Browser.PageTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Browser.PollInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "8000", cfg.Server.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PAGE_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Browser.PageTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SEARCH_TIMEOUT=7s\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SEARCH_TIMEOUT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.Search.Timeout)
}

func TestMonthURL(t *testing.T) {
	site := SiteConfig{MonthURLTemplate: "https://divvydiary.com/en/calendar/%d-%s"}
	assert.Equal(t, "https://divvydiary.com/en/calendar/2025-march", site.MonthURL(2025, time.March))
	assert.Equal(t, "https://divvydiary.com/en/calendar/2025-december", site.MonthURL(2025, time.December))
}
