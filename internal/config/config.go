// Package config loads the bot configuration from the environment.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
)

// Каналы Telegram имеют id вида -100xxxxxxxxxx.
var channelIDPattern = regexp.MustCompile(`^-100\d+$`)

type Config struct {
	// Telegram settings
	TelegramToken  string
	TelegramChatID string
	AdminID        int64
	BotURL         string

	// Yandex Cloud settings
	YandexAPIKey   string
	YandexArtKey   string
	YandexFolderID string

	// Rewrite settings
	RewriteProvider  string // "yandexgpt" or "gemini"
	GeminiAPIKey     string
	MaxAIRequestsDay int // 0 = unlimited

	// RSS settings
	FeedsConfigPath string
	MaxNewsPool     int

	// Schedule settings
	NewsCron string
	GiftCron string
	Timezone string

	// State files
	SentPostsFile   string
	ResourcesFile   string
	GiftHistoryFile string
	GiftStatsFile   string
	SuggestionsFile string

	// App settings
	Port           string
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		RewriteProvider: "yandexgpt",
		FeedsConfigPath: "configs/feeds.yaml",
		MaxNewsPool:     15,
		NewsCron:        "50 9,12,13 * * *",
		GiftCron:        "03 14 * * *",
		Timezone:        "Europe/Moscow",
		SentPostsFile:   "sent_posts.json",
		ResourcesFile:   "resources.json",
		GiftHistoryFile: "gift_history.json",
		GiftStatsFile:   "gift_stats.json",
		SuggestionsFile: "suggestions.txt",
		Port:            "3000",
		RequestTimeout:  30 * time.Second,
		RetryAttempts:   3,
		RetryDelay:      2 * time.Second,
	}

	// Load from environment
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.BotURL = os.Getenv("BOT_URL")
	cfg.YandexAPIKey = os.Getenv("YANDEX_API_KEY")
	cfg.YandexArtKey = os.Getenv("YANDEX_ART_KEY")
	cfg.YandexFolderID = os.Getenv("YANDEX_FOLDER_ID")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if v := os.Getenv("ADMIN_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.AdminID = id
		}
	}

	if v := os.Getenv("REWRITE_PROVIDER"); v != "" {
		cfg.RewriteProvider = v
	}
	if v := os.Getenv("MAX_AI_REQUESTS_PER_DAY"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MaxAIRequestsDay = val
		}
	}

	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.SentPostsFile = getEnvOrDefault("SENT_POSTS_FILE", cfg.SentPostsFile)
	cfg.ResourcesFile = getEnvOrDefault("RESOURCES_FILE", cfg.ResourcesFile)
	cfg.GiftHistoryFile = getEnvOrDefault("GIFT_HISTORY_FILE", cfg.GiftHistoryFile)
	cfg.GiftStatsFile = getEnvOrDefault("GIFT_STATS_FILE", cfg.GiftStatsFile)
	cfg.SuggestionsFile = getEnvOrDefault("SUGGESTIONS_FILE", cfg.SuggestionsFile)

	cfg.NewsCron = getEnvOrDefault("NEWS_CRON", cfg.NewsCron)
	cfg.GiftCron = getEnvOrDefault("GIFT_CRON", cfg.GiftCron)
	cfg.Timezone = getEnvOrDefault("TIMEZONE", cfg.Timezone)
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)

	if v := os.Getenv("MAX_NEWS_POOL"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MaxNewsPool = val
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}
	if !channelIDPattern.MatchString(c.TelegramChatID) {
		return fmt.Errorf("TELEGRAM_CHAT_ID must look like -100xxxxxxxxxx, got %q", c.TelegramChatID)
	}
	switch c.RewriteProvider {
	case "yandexgpt":
		if c.YandexAPIKey == "" {
			return fmt.Errorf("YANDEX_API_KEY is required")
		}
		if c.YandexFolderID == "" {
			return fmt.Errorf("YANDEX_FOLDER_ID is required")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when REWRITE_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("REWRITE_PROVIDER must be 'yandexgpt' or 'gemini'")
	}
	return nil
}
