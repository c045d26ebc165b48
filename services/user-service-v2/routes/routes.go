package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/ecommerce-microservices/services/user-service-v2/controllers"
)

func RegisterUserRoutes(r *gin.Engine, uc *controllers.UserController) {
	users := r.Group("/users")
	users.POST("", uc.CreateUser)
	users.GET("/:userId", uc.GetUser)
	users.PUT("/:userId/email", uc.UpdateEmail)
	users.PUT("/:userId/address", uc.UpdateAddress)
}
