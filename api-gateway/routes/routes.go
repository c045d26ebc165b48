package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/ecommerce-microservices/api-gateway/config"
	"github.com/yashrajoria/ecommerce-microservices/api-gateway/splitter"
	"github.com/yashrajoria/ecommerce-microservices/api-gateway/utils"
)

// RegisterAllRoutes wires the externally visible endpoint surface. The user
// family is split-routed between the v1 and v2 services (strangler
// migration); the order family always goes to the single order service.
func RegisterAllRoutes(r *gin.Engine, cfg *config.Config, log *zap.Logger) {
	client := &http.Client{Timeout: cfg.ForwardTimeout}

	// Health check; never touches an upstream.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Info endpoints describing the routing policy.
	r.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":               "User endpoint gateway. POST/PUT/GET will be forwarded internally.",
			"routing_percentage_v1": cfg.UserV1Percentage,
			"v1_base_url":           cfg.UserV1URL,
			"v2_base_url":           cfg.UserV2URL,
		})
	})
	r.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":           "Order endpoint gateway. All requests forwarded to order service.",
			"order_service_url": cfg.OrderURL,
		})
	})

	users := func(c *gin.Context) {
		decision := splitter.Pick(cfg.UserV1Percentage, cfg.UserV1URL, cfg.UserV2URL)
		log.Info("User route decision",
			zap.String("variant", string(decision.Variant)),
			zap.String("target", decision.Target),
		)
		utils.ForwardRequest(c, utils.ForwardOptions{
			TargetBase: decision.Target + "/users",
			Client:     client,
			Logger:     log,
		})
	}
	r.GET("/users/*any", users)
	r.POST("/users/*any", users)
	r.PUT("/users/*any", users)
	r.DELETE("/users/*any", users)

	orders := func(c *gin.Context) {
		utils.ForwardRequest(c, utils.ForwardOptions{
			TargetBase: cfg.OrderURL + "/orders",
			Client:     client,
			Logger:     log,
		})
	}
	r.GET("/orders/*any", orders)
	r.POST("/orders/*any", orders)
	r.PUT("/orders/*any", orders)
	r.DELETE("/orders/*any", orders)
}
