package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the gateway routing configuration. It is loaded once at
// startup and passed by reference to the route handlers; the process must
// not serve traffic without a valid split percentage.
type Config struct {
	UserV1Percentage int    `json:"user_v1_percentage"` // share of user traffic routed to v1, 0-100
	UserV1URL        string `json:"user_v1_url"`
	UserV2URL        string `json:"user_v2_url"`
	OrderURL         string `json:"order_url"`

	Port           string        `json:"-"` // listen port, from PORT env
	ForwardTimeout time.Duration `json:"-"` // per-request upstream timeout
}

// DefaultConfigPath is used when GATEWAY_CONFIG is not set.
const DefaultConfigPath = "gateway-config.json"

// Load reads and validates the gateway configuration document at path.
// Any missing or malformed field is an error; callers treat it as fatal.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gateway config %s: %w", path, err)
	}

	cfg := &Config{UserV1Percentage: -1}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse gateway config %s: %w", path, err)
	}

	if cfg.UserV1Percentage < 0 || cfg.UserV1Percentage > 100 {
		return nil, fmt.Errorf("user_v1_percentage must be between 0 and 100, got %d", cfg.UserV1Percentage)
	}
	if cfg.UserV1URL == "" {
		return nil, fmt.Errorf("user_v1_url is required")
	}
	if cfg.UserV2URL == "" {
		return nil, fmt.Errorf("user_v2_url is required")
	}
	if cfg.OrderURL == "" {
		return nil, fmt.Errorf("order_url is required")
	}

	cfg.Port = getEnv("PORT", "8080")
	cfg.ForwardTimeout = forwardTimeout()

	return cfg, nil
}

// LoadFromEnv resolves the config path from GATEWAY_CONFIG and loads it.
func LoadFromEnv() (*Config, error) {
	return Load(getEnv("GATEWAY_CONFIG", DefaultConfigPath))
}

func forwardTimeout() time.Duration {
	if v := os.Getenv("GATEWAY_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 5 * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
