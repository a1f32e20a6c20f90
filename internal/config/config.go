package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken        string
	DatabaseURL          string
	Env                  string
	BotDebug             bool
	CurrencyFeedURL      string
	CurrencyCodes        []string
	CurrencyRefreshEvery time.Duration
	StatusPageURL        string
}

// IsProduction reports whether the bot runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:        strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Env:                  getEnv("ENV", "dev"),
		BotDebug:             getEnvAsBool("BOT_DEBUG", false),
		CurrencyFeedURL:      getEnv("CURRENCY_FEED_URL", "https://www.cbr.ru/scripts/XML_daily.asp"),
		CurrencyCodes:        splitList(getEnv("CURRENCY_CODES", "R01235,R01239")),
		CurrencyRefreshEvery: parseHours(strings.TrimSpace(os.Getenv("CURRENCY_REFRESH_HOURS"))),
		StatusPageURL:        getEnv("STATUS_PAGE_URL", "http://status.upwork.com"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "karma.db"
	}

	if cfg.CurrencyRefreshEvery == 0 {
		cfg.CurrencyRefreshEvery = 4 * time.Hour
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return v
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
