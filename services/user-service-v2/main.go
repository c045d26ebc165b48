package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/ecommerce-microservices/pkg/aws"
	"github.com/yashrajoria/ecommerce-microservices/services/common/messaging"
	commonmw "github.com/yashrajoria/ecommerce-microservices/services/common/middleware"
	"github.com/yashrajoria/ecommerce-microservices/services/user-service-v2/controllers"
	"github.com/yashrajoria/ecommerce-microservices/services/user-service-v2/database"
	"github.com/yashrajoria/ecommerce-microservices/services/user-service-v2/repository"
	"github.com/yashrajoria/ecommerce-microservices/services/user-service-v2/routes"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting User Service v2...")

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}
	defer func() {
		if err := database.Close(client); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}()

	metricsClient, err := awspkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}

	repo := repository.NewUserRepository(client.Database(cfg.MongoDB))
	publisher := messaging.NewPublisher(
		messaging.DialProvider{URL: cfg.RabbitURL},
		logger,
		metricsClient,
		"user-service-v2",
	)
	controller := controllers.NewUserController(repo, publisher, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(commonmw.RequestLogger(logger))
	if metricsClient != nil {
		r.Use(commonmw.MetricsMiddleware(metricsClient, "user-service-v2"))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "user-service-v2"})
	})

	routes.RegisterUserRoutes(r, controller)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("User Service v2 started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited cleanly")
}
