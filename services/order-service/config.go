package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/yashrajoria/ecommerce-microservices/services/common/messaging"
)

// Config holds all environment variables for the order service.
type Config struct {
	Port      string // Service port (default: 8083)
	MongoURI  string // MongoDB connection string
	MongoDB   string // Database name
	RabbitURL string // Broker connection string; defaults to the local broker

	ConsumerMaxAttempts int           // Broker connection attempts before giving up
	ConsumerBackoff     time.Duration // Fixed delay between attempts
}

// LoadConfig loads environment variables into Config struct and validates
// them. An unset RABBITMQ_URL is not an error: only connection attempts may
// fail, and a dead broker leaves the HTTP surface fully operational.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8083"),
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDB:             getEnv("MONGO_DB", "ecommerce_db"),
		RabbitURL:           messaging.BrokerURL(),
		ConsumerMaxAttempts: getEnvInt("CONSUMER_MAX_ATTEMPTS", messaging.DefaultMaxConnectAttempts),
		ConsumerBackoff:     time.Duration(getEnvInt("CONSUMER_BACKOFF_SECONDS", 5)) * time.Second,
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
