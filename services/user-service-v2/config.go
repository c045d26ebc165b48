package main

import (
	"fmt"
	"os"

	"github.com/yashrajoria/ecommerce-microservices/services/common/messaging"
)

// Config holds all environment variables for the user service (v2).
type Config struct {
	Port      string // Service port (default: 8082)
	MongoURI  string // MongoDB connection string
	MongoDB   string // Database name
	RabbitURL string // Broker connection string; defaults to the local broker
}

// LoadConfig loads environment variables into Config struct and validates
// them. An unset RABBITMQ_URL is not an error: the publisher is best-effort
// and only connection attempts may fail.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8082"),
		MongoURI:  os.Getenv("MONGO_URI"),
		MongoDB:   getEnv("MONGO_DB", "ecommerce_db"),
		RabbitURL: messaging.BrokerURL(),
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
