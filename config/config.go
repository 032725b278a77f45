// Package config loads runtime settings from the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Site    SiteConfig
	Browser BrowserConfig
	Search  SearchConfig
	Logging LogConfig
	Server  ServerConfig
}

// SiteConfig describes the dividend calendar being scraped
type SiteConfig struct {
	Origin      string `envconfig:"SITE_ORIGIN" default:"https://divvydiary.com"`
	CalendarURL string `envconfig:"CALENDAR_URL" default:"https://divvydiary.com/en/calendar"`
	// MonthURLTemplate takes the year and the lowercase English month name
	MonthURLTemplate  string `envconfig:"MONTH_URL_TEMPLATE" default:"https://divvydiary.com/en/calendar/%d-%s"`
	DetailButtonXPath string `envconfig:"DETAIL_BUTTON_XPATH" default:"//button[contains(@class,'font-mono')]"`
}

// BrowserConfig holds headless Chrome settings
type BrowserConfig struct {
	Headless      bool          `envconfig:"BROWSER_HEADLESS" default:"true"`
	UserAgent     string        `envconfig:"BROWSER_USER_AGENT" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"`
	PageTimeout   time.Duration `envconfig:"PAGE_TIMEOUT" default:"20s"`
	DetailTimeout time.Duration `envconfig:"DETAIL_TIMEOUT" default:"10s"`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"500ms"`
}

// SearchConfig points at the symbol search endpoint
type SearchConfig struct {
	URL     string        `envconfig:"SEARCH_URL" default:"https://query2.finance.yahoo.com/v1/finance/search"`
	Timeout time.Duration `envconfig:"SEARCH_TIMEOUT" default:"10s"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
}

// Load reads an optional .env file and then the environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// MonthURL returns the calendar page of one month
func (s SiteConfig) MonthURL(year int, month time.Month) string {
	return fmt.Sprintf(s.MonthURLTemplate, year, strings.ToLower(month.String()))
}
