package app

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScriptPath  string // .hcl or plain shell lines
	Interactive bool
	KeepGoing   bool

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	HistoryFeedURL  string
	FeedNamespace   string
	FeedInsecure    bool
}

// NewConfig validates cfg. Without a script the session is interactive.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptPath == "" {
		cfg.Interactive = true
	}
	if cfg.KeepGoing && cfg.ScriptPath == "" {
		return nil, errors.New("keep-going only applies to script runs")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}

	if cfg.HistoryFeedURL == "" && (cfg.FeedNamespace != "" || cfg.FeedInsecure) {
		return nil, errors.New("history feed options require a history feed URL")
	}
	if cfg.FeedNamespace != "" && !strings.HasPrefix(cfg.FeedNamespace, "/") {
		return nil, fmt.Errorf("history feed namespace %q must start with '/'", cfg.FeedNamespace)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	return &cfg, nil
}
