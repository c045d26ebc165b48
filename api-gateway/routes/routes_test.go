package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yashrajoria/ecommerce-microservices/api-gateway/config"
)

func gatewayRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterAllRoutes(r, cfg, zap.NewNop())
	return r
}

func markerServer(t *testing.T, marker string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"service": marker, "path": r.URL.Path})
	}))
}

func TestHealth(t *testing.T) {
	cfg := &config.Config{
		UserV1Percentage: 50,
		UserV1URL:        "http://127.0.0.1:1",
		UserV2URL:        "http://127.0.0.1:1",
		OrderURL:         "http://127.0.0.1:1",
		ForwardTimeout:   time.Second,
	}
	router := gatewayRouter(cfg)

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestUserRoutingRespectsSplitBoundaries(t *testing.T) {
	v1 := markerServer(t, "v1")
	defer v1.Close()
	v2 := markerServer(t, "v2")
	defer v2.Close()

	cases := []struct {
		name    string
		percent int
		want    string
	}{
		{"all traffic to v1 at 100", 100, "v1"},
		{"all traffic to v2 at 0", 0, "v2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{
				UserV1Percentage: tc.percent,
				UserV1URL:        v1.URL,
				UserV2URL:        v2.URL,
				OrderURL:         "http://127.0.0.1:1",
				ForwardTimeout:   time.Second,
			}
			router := gatewayRouter(cfg)

			for i := 0; i < 50; i++ {
				req, _ := http.NewRequest(http.MethodGet, "/users/abc123", nil)
				recorder := httptest.NewRecorder()
				router.ServeHTTP(recorder, req)

				assert.Equal(t, http.StatusOK, recorder.Code)

				var body map[string]string
				assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, tc.want, body["service"])
				assert.Equal(t, "/users/abc123", body["path"])
			}
		})
	}
}

func TestOrderRoutingSingleTarget(t *testing.T) {
	orderSvc := markerServer(t, "orders")
	defer orderSvc.Close()

	cfg := &config.Config{
		UserV1Percentage: 50,
		UserV1URL:        "http://127.0.0.1:1",
		UserV2URL:        "http://127.0.0.1:1",
		OrderURL:         orderSvc.URL,
		ForwardTimeout:   time.Second,
	}
	router := gatewayRouter(cfg)

	req, _ := http.NewRequest(http.MethodPut, "/orders/ord1/status", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "orders", body["service"])
	assert.Equal(t, "/orders/ord1/status", body["path"])
}

func TestInfoEndpoints(t *testing.T) {
	cfg := &config.Config{
		UserV1Percentage: 30,
		UserV1URL:        "http://v1",
		UserV2URL:        "http://v2",
		OrderURL:         "http://orders",
		ForwardTimeout:   time.Second,
	}
	router := gatewayRouter(cfg)

	req, _ := http.NewRequest(http.MethodGet, "/users", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"routing_percentage_v1":30`)
}
