package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway-config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, `{
			"user_v1_percentage": 70,
			"user_v1_url": "http://localhost:8081",
			"user_v2_url": "http://localhost:8082",
			"order_url": "http://localhost:8083"
		}`)

		cfg, err := Load(path)

		assert.NoError(t, err)
		assert.Equal(t, 70, cfg.UserV1Percentage)
		assert.Equal(t, "http://localhost:8081", cfg.UserV1URL)
		assert.Equal(t, "http://localhost:8082", cfg.UserV2URL)
		assert.Equal(t, "http://localhost:8083", cfg.OrderURL)
		assert.Equal(t, 5*time.Second, cfg.ForwardTimeout)
	})

	t.Run("boundary percentages are valid", func(t *testing.T) {
		for _, pct := range []string{"0", "100"} {
			path := writeConfig(t, `{
				"user_v1_percentage": `+pct+`,
				"user_v1_url": "http://localhost:8081",
				"user_v2_url": "http://localhost:8082",
				"order_url": "http://localhost:8083"
			}`)

			_, err := Load(path)
			assert.NoError(t, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeConfig(t, `{"user_v1_percentage": `)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing percentage", func(t *testing.T) {
		path := writeConfig(t, `{
			"user_v1_url": "http://localhost:8081",
			"user_v2_url": "http://localhost:8082",
			"order_url": "http://localhost:8083"
		}`)

		_, err := Load(path)
		assert.ErrorContains(t, err, "user_v1_percentage")
	})

	t.Run("percentage out of range", func(t *testing.T) {
		path := writeConfig(t, `{
			"user_v1_percentage": 101,
			"user_v1_url": "http://localhost:8081",
			"user_v2_url": "http://localhost:8082",
			"order_url": "http://localhost:8083"
		}`)

		_, err := Load(path)
		assert.ErrorContains(t, err, "between 0 and 100")
	})

	t.Run("missing url", func(t *testing.T) {
		path := writeConfig(t, `{
			"user_v1_percentage": 50,
			"user_v1_url": "http://localhost:8081",
			"order_url": "http://localhost:8083"
		}`)

		_, err := Load(path)
		assert.ErrorContains(t, err, "user_v2_url")
	})

	t.Run("timeout from env", func(t *testing.T) {
		t.Setenv("GATEWAY_TIMEOUT_SECONDS", "10")
		path := writeConfig(t, `{
			"user_v1_percentage": 50,
			"user_v1_url": "http://localhost:8081",
			"user_v2_url": "http://localhost:8082",
			"order_url": "http://localhost:8083"
		}`)

		cfg, err := Load(path)

		assert.NoError(t, err)
		assert.Equal(t, 10*time.Second, cfg.ForwardTimeout)
	})
}
