// Package config loads service configuration from the environment
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the join counter bot
type Config struct {
	Telegram Telegram
	Database Database
	Kafka    Kafka
	Razorpay Razorpay
	Plans    Plans
	Logging  Logging
	Service  Service
}

// Telegram holds Bot API and MTProto credentials
type Telegram struct {
	BotToken   string
	APIID      int
	APIHash    string
	SessionDir string
}

// Database holds PostgreSQL connection configuration
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Kafka holds broker configuration for subscription events
type Kafka struct {
	Brokers []string
	Topic   string
}

// Razorpay holds payment gateway credentials
type Razorpay struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// Plans holds subscription plan pricing
type Plans struct {
	DurationDays      int
	BasicPricePaise   int
	ProPricePaise     int
	PremiumPricePaise int
}

// Logging holds logging configuration
type Logging struct {
	Level string
}

// Service holds service identity configuration
type Service struct {
	Name string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *Telegram
	Database *Database
	Kafka    *Kafka
	Razorpay *Razorpay
	Plans    *Plans
	Logging  *Logging
	Service  *Service
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Database: &cfg.Database,
		Kafka:    &cfg.Kafka,
		Razorpay: &cfg.Razorpay,
		Plans:    &cfg.Plans,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: Telegram{
			BotToken:   getEnv("BOT_TOKEN", ""),
			APIID:      getEnvInt("API_ID", 0),
			APIHash:    getEnv("API_HASH", ""),
			SessionDir: getEnv("SESSION_DIR", "sessions"),
		},
		Database: Database{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "joincounter"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: Kafka{
			Brokers: splitNonEmpty(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_SUBSCRIPTION_TOPIC", "subscription.events"),
		},
		Razorpay: Razorpay{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
			BaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
		},
		Plans: Plans{
			DurationDays:      getEnvInt("PLAN_DURATION_DAYS", 30),
			BasicPricePaise:   getEnvInt("BASIC_PRICE_PAISE", 69900),
			ProPricePaise:     getEnvInt("PRO_PRICE_PAISE", 149900),
			PremiumPricePaise: getEnvInt("PREMIUM_PRICE_PAISE", 249900),
		},
		Logging: Logging{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: Service{
			Name: getEnv("SERVICE_NAME", "join-counter-bot"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.Telegram.APIID == 0 || c.Telegram.APIHash == "" {
		return fmt.Errorf("API_ID and API_HASH are required")
	}

	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
