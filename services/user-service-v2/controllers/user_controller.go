package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/yashrajoria/ecommerce-microservices/services/common/events"
	"github.com/yashrajoria/ecommerce-microservices/services/user-service-v2/models"
	"github.com/yashrajoria/ecommerce-microservices/services/user-service-v2/repository"
)

// EventPublisher is the slice of the messaging publisher the controller
// needs. Publishing happens after the mutation commits and is best-effort.
type EventPublisher interface {
	PublishUserUpdated(ctx context.Context, event events.UserUpdatedEvent)
}

type UserController struct {
	repo      repository.UserRepository
	publisher EventPublisher
	logger    *zap.Logger
}

func NewUserController(repo repository.UserRepository, publisher EventPublisher, logger *zap.Logger) *UserController {
	return &UserController{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if err := uc.repo.Create(c.Request.Context(), user); err != nil {
		uc.logger.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user.Response())
}

func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := uc.objectID(c)
	if !ok {
		return
	}

	user, err := uc.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		uc.notFoundOrError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, user.Response())
}

// UpdateEmail mutates the email and publishes a UserUpdated event carrying
// the structured-address schema variant.
func (uc *UserController) UpdateEmail(c *gin.Context) {
	id, ok := uc.objectID(c)
	if !ok {
		return
	}

	var req models.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	updated, err := uc.repo.UpdateEmail(c.Request.Context(), id, req.Email)
	if err != nil {
		uc.notFoundOrError(c, err, "Failed to update email")
		return
	}

	uc.publisher.PublishUserUpdated(c.Request.Context(), updatedEvent(updated))

	c.JSON(http.StatusOK, updated.Response())
}

func (uc *UserController) UpdateAddress(c *gin.Context) {
	id, ok := uc.objectID(c)
	if !ok {
		return
	}

	var req models.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	updated, err := uc.repo.UpdateAddress(c.Request.Context(), id, req.Address)
	if err != nil {
		uc.notFoundOrError(c, err, "Failed to update address")
		return
	}

	uc.publisher.PublishUserUpdated(c.Request.Context(), updatedEvent(updated))

	c.JSON(http.StatusOK, updated.Response())
}

// updatedEvent maps the post-mutation document to the shared event schema.
func updatedEvent(user *models.User) events.UserUpdatedEvent {
	return events.NewStructuredAddressEvent(user.ID.Hex(), user.Email, events.Address{
		Street: user.Address.Street,
		City:   user.Address.City,
		Postal: user.Address.Postal,
	})
}

func (uc *UserController) objectID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func (uc *UserController) notFoundOrError(c *gin.Context, err error, msg string) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User Not Found!"})
		return
	}
	uc.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
