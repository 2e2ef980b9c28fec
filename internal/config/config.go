// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string
	SessionTTL  time.Duration

	// Model access.
	AnthropicAPIKey string
	ModelName       string
	MaxTokens       int

	// Assistant behavior.
	MaxToolRounds      int
	MaxHistoryEntries  int
	SMSReplyMaxChars   int
	DangerousFlagCount int

	// Local directories the file tools operate on.
	NotesDir     string
	DownloadsDir string
	DocumentsDir string

	// Companion phone screenshot server. Empty disables phone tools.
	PhoneServerURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		FrontendURL:        getEnv("FRONTEND_URL", ""),
		DBPath:             getEnv("DB_PATH", "./data/techpal.db"),
		SessionTTL:         24 * time.Hour,
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		ModelName:          getEnv("MODEL_NAME", "claude-sonnet-4-20250514"),
		MaxTokens:          getEnvInt("MAX_TOKENS", 4096),
		MaxToolRounds:      getEnvInt("MAX_TOOL_ROUNDS", 5),
		MaxHistoryEntries:  getEnvInt("MAX_HISTORY_ENTRIES", 16),
		SMSReplyMaxChars:   getEnvInt("SMS_REPLY_MAX_CHARS", 1500),
		DangerousFlagCount: getEnvInt("SCAM_DANGER_FLAG_COUNT", 3),
		NotesDir:           getEnv("NOTES_DIR", "./data/notes"),
		DownloadsDir:       getEnv("DOWNLOADS_DIR", "./data/downloads"),
		DocumentsDir:       getEnv("DOCUMENTS_DIR", "./data/documents"),
		PhoneServerURL:     getEnv("PHONE_SERVER_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.MaxToolRounds <= 0 {
		return fmt.Errorf("MAX_TOOL_ROUNDS must be > 0")
	}
	if c.MaxHistoryEntries <= 0 {
		return fmt.Errorf("MAX_HISTORY_ENTRIES must be > 0")
	}
	if c.SMSReplyMaxChars <= 3 {
		return fmt.Errorf("SMS_REPLY_MAX_CHARS must be > 3")
	}
	if c.DangerousFlagCount <= 0 {
		return fmt.Errorf("SCAM_DANGER_FLAG_COUNT must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
