package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `validate:"required"`
	HTTPPort    string `validate:"required,numeric"`
	DatabaseDSN string

	TonAPIBaseURL    string `validate:"omitempty,url"`
	TonAPIKey        string
	TelegramBotToken string

	SweepInterval      time.Duration `validate:"min=1s"`
	SweepBatchSize     int           `validate:"min=1"`
	VerificationWindow time.Duration `validate:"min=1m"`

	EnablePublishSweep    bool
	EnableCompletionSweep bool
	EnableStaleSweep      bool
}

func Load() (Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "adbroker"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	cfg := Config{
		ServiceName: service,
		HTTPPort:    port,
		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		TonAPIBaseURL:    envDefault("TON_API_BASE_URL", "https://toncenter.com/api/v2"),
		TonAPIKey:        os.Getenv("TON_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		SweepInterval:      envDuration("SWEEP_INTERVAL", 30*time.Second),
		SweepBatchSize:     envInt("SWEEP_BATCH_SIZE", 100),
		VerificationWindow: envDuration("VERIFICATION_WINDOW", 24*time.Hour),

		EnablePublishSweep:    envBool("ENABLE_PUBLISH_SWEEP", true),
		EnableCompletionSweep: envBool("ENABLE_COMPLETION_SWEEP", true),
		EnableStaleSweep:      envBool("ENABLE_STALE_SWEEP", true),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func envDefault(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
