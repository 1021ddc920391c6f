// Package config assembles run settings from defaults, an optional YAML
// file, and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultStateDir           = "state"
	defaultDigestIntervalMins = 30
	defaultNewsWindowStart    = "13:30"
	defaultNewsWindowEnd      = "13:35"
)

var defaultSymbols = []string{"AAPL", "MSFT", "TSLA", "GOOGL", "META"}

type Config struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`

	Symbols  []string `yaml:"symbols"`
	StateDir string   `yaml:"state_dir"`

	DigestIntervalMins int `yaml:"digest_interval_mins"`

	// The news window gates headline scraping to a fixed UTC slot, matching
	// the scheduled run right after the US market open. Disabled means
	// scrape on every run.
	NewsWindowEnabled bool   `yaml:"news_window_enabled"`
	NewsWindowStart   string `yaml:"news_window_start"`
	NewsWindowEnd     string `yaml:"news_window_end"`

	// Evaluator knobs; see signal.Rules.
	TrendMode           string `yaml:"trend_mode"`
	ScoreScale          int    `yaml:"score_scale"`
	CrossoverWeight     int    `yaml:"crossover_weight"`
	RecoveryDoubleCount bool   `yaml:"recovery_double_count"`

	TracingEnabled bool   `yaml:"tracing_enabled"`
	LogLevel       string `yaml:"log_level"`
}

func defaults() *Config {
	return &Config{
		Symbols:             defaultSymbols,
		StateDir:            defaultStateDir,
		DigestIntervalMins:  defaultDigestIntervalMins,
		NewsWindowEnabled:   true,
		NewsWindowStart:     defaultNewsWindowStart,
		NewsWindowEnd:       defaultNewsWindowEnd,
		RecoveryDoubleCount: true,
		LogLevel:            "info",
	}
}

// Load builds the config. A YAML file named by CONFIG_FILE is applied over
// the defaults, then environment variables over both.
func Load() (*Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.BotToken = v
	}
	if v := strings.TrimSpace(os.Getenv("CHAT_ID")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CHAT_ID %q: %w", v, err)
		}
		c.ChatID = n
	}
	if v := strings.TrimSpace(os.Getenv("SYMBOLS")); v != "" {
		c.Symbols = parseSymbols(v)
	}
	if v := strings.TrimSpace(os.Getenv("STATE_DIR")); v != "" {
		c.StateDir = v
	}
	if v := strings.TrimSpace(os.Getenv("DIGEST_INTERVAL_MINS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.DigestIntervalMins = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("NEWS_WINDOW_ENABLED")); v != "" {
		c.NewsWindowEnabled = strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("NEWS_WINDOW_START")); v != "" {
		c.NewsWindowStart = v
	}
	if v := strings.TrimSpace(os.Getenv("NEWS_WINDOW_END")); v != "" {
		c.NewsWindowEnd = v
	}
	if v := strings.TrimSpace(os.Getenv("TREND_MODE")); v != "" {
		c.TrendMode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("SCORE_SCALE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ScoreScale = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CROSSOVER_WEIGHT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.CrossoverWeight = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("RECOVERY_DOUBLE_COUNT")); v != "" {
		if strings.EqualFold(v, "true") {
			c.RecoveryDoubleCount = true
		} else if strings.EqualFold(v, "false") {
			c.RecoveryDoubleCount = false
		}
	}
	if v := strings.TrimSpace(os.Getenv("TRACING_ENABLED")); v != "" {
		c.TracingEnabled = strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

// Validate rejects configs the run cannot work with. Telegram credentials
// are checked up front so a bad deploy fails before any market data is
// fetched.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.ChatID == 0 {
		return fmt.Errorf("CHAT_ID is required")
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	for _, w := range []string{c.NewsWindowStart, c.NewsWindowEnd} {
		if _, err := time.Parse("15:04", w); err != nil {
			return fmt.Errorf("invalid news window time %q: %w", w, err)
		}
	}
	return nil
}

// DigestInterval is the minimum gap between digest messages.
func (c *Config) DigestInterval() time.Duration {
	return time.Duration(c.DigestIntervalMins) * time.Minute
}

// InNewsWindow reports whether now (UTC) falls inside the scraping slot.
// Always true when the window gate is disabled.
func (c *Config) InNewsWindow(now time.Time) bool {
	if !c.NewsWindowEnabled {
		return true
	}
	start, err := time.Parse("15:04", c.NewsWindowStart)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", c.NewsWindowEnd)
	if err != nil {
		return false
	}
	utc := now.UTC()
	minutes := utc.Hour()*60 + utc.Minute()
	return minutes >= start.Hour()*60+start.Minute() && minutes < end.Hour()*60+end.Minute()
}

func parseSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		sym := strings.ToUpper(strings.TrimSpace(p))
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}
