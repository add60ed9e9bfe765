package auth

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/kelseyhightower/envconfig"
)

const defaultIntervalDays = 7

// RefreshConfig is the set of environment knobs controlling the
// refresh subsystem (spec §3 "RefreshConfig", §6). IntervalDays and
// Enabled are deliberately excluded from the envconfig tags below:
// both have a custom "invalid input falls back silently" semantic
// (spec §3) that envconfig's strict parsing doesn't express, so they
// are resolved by hand in LoadRefreshConfig.
type RefreshConfig struct {
	CredentialsPath string `envconfig:"SLACK_CREDENTIALS_PATH"`
	Workspace       string `envconfig:"SLACK_WORKSPACE"`
	ErrorLogPath    string `envconfig:"SLACK_ERROR_LOG_PATH"`
	MemoryDir       string `envconfig:"SLACK_MEMORY_DIR"`
	IntervalDays    int
	Enabled         bool
}

// LoadRefreshConfig reads RefreshConfig from the environment.
func LoadRefreshConfig() (RefreshConfig, error) {
	var cfg RefreshConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}

	cfg.IntervalDays = defaultIntervalDays
	if raw := os.Getenv("SLACK_REFRESH_INTERVAL_DAYS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.IntervalDays = n
		}
	}

	// Spec only cares about the literal "false" disabling; every other
	// value, including unset, enables.
	cfg.Enabled = os.Getenv("SLACK_REFRESH_ENABLED") != "false"

	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = defaultUnderHome(".slack-mcp-server", "credentials.json")
	}
	if cfg.ErrorLogPath == "" {
		cfg.ErrorLogPath = defaultUnderHome(".slack-mcp-server", "error.log")
	}

	return cfg, nil
}

func defaultUnderHome(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(append([]string{home}, parts...)...)
}
