package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/yashrajoria/ecommerce-microservices/services/order-service/models"
	"github.com/yashrajoria/ecommerce-microservices/services/order-service/repository"
)

type OrderController struct {
	repo   repository.OrderRepository
	logger *zap.Logger
}

func NewOrderController(repo repository.OrderRepository, logger *zap.Logger) *OrderController {
	return &OrderController{
		repo:   repo,
		logger: logger,
	}
}

// CreateOrder stores a new order with a snapshot of the user's email and
// delivery address. The snapshot may go stale; the event consumer brings it
// back in sync when the user changes.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order := &models.Order{
		UserID:          req.UserID,
		Items:           req.Items,
		Email:           req.Email,
		DeliveryAddress: req.DeliveryAddress,
	}
	if err := oc.repo.Create(c.Request.Context(), order); err != nil {
		oc.logger.Error("Failed to create order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, order.Response())
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := oc.objectID(c)
	if !ok {
		return
	}

	order, err := oc.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		oc.notFoundOrError(c, err, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, order.Response())
}

// ListOrders returns the orders of one user (?userId=...).
func (oc *OrderController) ListOrders(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter is required"})
		return
	}

	orders, err := oc.repo.FindByUser(c.Request.Context(), userID)
	if err != nil {
		oc.logger.Error("Failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	responses := make([]models.OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, o.Response())
	}
	c.JSON(http.StatusOK, gin.H{"orders": responses})
}

func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := oc.objectID(c)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	updated, err := oc.repo.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		oc.notFoundOrError(c, err, "Failed to update status")
		return
	}

	c.JSON(http.StatusOK, updated.Response())
}

func (oc *OrderController) UpdateEmail(c *gin.Context) {
	id, ok := oc.objectID(c)
	if !ok {
		return
	}

	var req models.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	updated, err := oc.repo.UpdateEmail(c.Request.Context(), id, req.Email)
	if err != nil {
		oc.notFoundOrError(c, err, "Failed to update email")
		return
	}

	c.JSON(http.StatusOK, updated.Response())
}

func (oc *OrderController) UpdateAddress(c *gin.Context) {
	id, ok := oc.objectID(c)
	if !ok {
		return
	}

	var req models.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	updated, err := oc.repo.UpdateAddress(c.Request.Context(), id, req.DeliveryAddress)
	if err != nil {
		oc.notFoundOrError(c, err, "Failed to update address")
		return
	}

	c.JSON(http.StatusOK, updated.Response())
}

func (oc *OrderController) objectID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func (oc *OrderController) notFoundOrError(c *gin.Context, err error, msg string) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found!"})
		return
	}
	oc.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
