package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config - global bot configuration, loaded once at startup
type Config struct {
	Env string // "local", "prod"

	Database DatabaseConfig
	Telegram TelegramConfig
	Tracker  TrackerConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type TelegramConfig struct {
	BotToken string
	// AllowedIDs - users permitted to talk to the bot. Everyone else
	// gets "Unauthorized access."
	AllowedIDs []int64
}

type TrackerConfig struct {
	// CheckThreshold - a tracking is due when last_check is older than
	// this. Kept 1h below the sweep period to absorb cycle drift.
	CheckThreshold time.Duration
	// SweepPeriod - pause between sweeps.
	SweepPeriod time.Duration
	// ChartPeriod - history range of the chart attached to updates.
	ChartPeriod string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "trackerbot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Tracker: TrackerConfig{
			CheckThreshold: getEnvDuration("CHECK_THRESHOLD", 11*time.Hour),
			SweepPeriod:    getEnvDuration("SWEEP_PERIOD", 12*time.Hour),
			ChartPeriod:    getEnv("CHART_PERIOD", "1mo"),
		},
	}

	if cfg.Telegram.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	ids, err := parseIDList(os.Getenv("TELEGRAM_ALLOWED_IDS"))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_ALLOWED_IDS: %w", err)
	}
	cfg.Telegram.AllowedIDs = ids

	return cfg, nil
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return fallback
}
