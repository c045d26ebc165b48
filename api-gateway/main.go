package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yashrajoria/ecommerce-microservices/api-gateway/config"
	"github.com/yashrajoria/ecommerce-microservices/api-gateway/logger"
	"github.com/yashrajoria/ecommerce-microservices/api-gateway/middlewares"
	"github.com/yashrajoria/ecommerce-microservices/api-gateway/routes"
	awspkg "github.com/yashrajoria/ecommerce-microservices/pkg/aws"
	commonmw "github.com/yashrajoria/ecommerce-microservices/services/common/middleware"
)

func main() {
	_ = godotenv.Load()

	logger.InitLogger()
	defer logger.Sync()

	logger.Log.Info("Starting API Gateway...")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Log.Fatal("Failed to load gateway config", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(commonmw.RequestLogger(logger.Log))

	metricsClient, err := awspkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Log.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}
	if metricsClient != nil {
		r.Use(commonmw.MetricsMiddleware(metricsClient, "api-gateway"))
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterAllRoutes(r, cfg, logger.Log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("API Gateway listening",
			zap.String("port", cfg.Port),
			zap.Int("user_v1_percentage", cfg.UserV1Percentage),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down gateway...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Log.Info("Gateway exited cleanly")
}
