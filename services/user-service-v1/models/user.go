package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the legacy (v1) user schema: the delivery address is a single
// flat string.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Email           string             `bson:"email"`
	DeliveryAddress string             `bson:"deliveryAddress"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

// UserResponse is the serialized API shape.
type UserResponse struct {
	UserID          string    `json:"userId"`
	Email           string    `json:"email"`
	DeliveryAddress string    `json:"deliveryAddress"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (u *User) Response() UserResponse {
	return UserResponse{
		UserID:          u.ID.Hex(),
		Email:           u.Email,
		DeliveryAddress: u.DeliveryAddress,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type CreateUserRequest struct {
	Email           string `json:"email" binding:"required,email"`
	DeliveryAddress string `json:"deliveryAddress" binding:"required"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdateAddressRequest struct {
	DeliveryAddress string `json:"deliveryAddress" binding:"required"`
}
