package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/ecommerce-microservices/services/order-service/controllers"
)

func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController) {
	orders := r.Group("/orders")
	orders.POST("", oc.CreateOrder)
	orders.GET("", oc.ListOrders)
	orders.GET("/:orderId", oc.GetOrder)
	orders.PUT("/:orderId/status", oc.UpdateStatus)
	orders.PUT("/:orderId/email", oc.UpdateEmail)
	orders.PUT("/:orderId/address", oc.UpdateAddress)
}
