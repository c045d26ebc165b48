package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	StatusPending   = "PENDING"
	StatusShipped   = "SHIPPED"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

type OrderItem struct {
	ProductID string `bson:"productId" json:"productId" binding:"required"`
	Quantity  int    `bson:"quantity" json:"quantity" binding:"required,gt=0"`
}

// Order caches the owning user's email and delivery address (denormalized
// fields). They are kept in sync by the event consumer, which overwrites
// both whenever a UserUpdated event arrives for the order's userId. The
// delivery address is always a single string here, whatever shape the
// source event carried.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"userId"`
	Items           []OrderItem        `bson:"items"`
	Email           string             `bson:"email"`
	DeliveryAddress string             `bson:"deliveryAddress"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

// OrderResponse is the serialized API shape.
type OrderResponse struct {
	OrderID         string      `json:"orderId"`
	UserID          string      `json:"userId"`
	Items           []OrderItem `json:"items"`
	Email           string      `json:"email"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func (o *Order) Response() OrderResponse {
	return OrderResponse{
		OrderID:         o.ID.Hex(),
		UserID:          o.UserID,
		Items:           o.Items,
		Email:           o.Email,
		DeliveryAddress: o.DeliveryAddress,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

type CreateOrderRequest struct {
	UserID          string      `json:"userId" binding:"required"`
	Items           []OrderItem `json:"items" binding:"required,dive"`
	Email           string      `json:"email" binding:"required,email"`
	DeliveryAddress string      `json:"deliveryAddress" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdateAddressRequest struct {
	DeliveryAddress string `json:"deliveryAddress" binding:"required"`
}
