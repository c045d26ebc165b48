package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is the structured address record introduced by the v2 schema.
type Address struct {
	Street string `bson:"street" json:"street" binding:"required"`
	City   string `bson:"city" json:"city" binding:"required"`
	Postal string `bson:"postal" json:"postal" binding:"required"`
}

// User is the current (v2) user schema. It is intentionally incompatible
// with v1: richer identity fields and a structured address.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	Address   Address            `bson:"address"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// UserResponse is the serialized API shape.
type UserResponse struct {
	UserID    string    `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) Response() UserResponse {
	return UserResponse{
		UserID:    u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type CreateUserRequest struct {
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     string  `json:"phone" binding:"required"`
	Address   Address `json:"address" binding:"required"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdateAddressRequest struct {
	Address Address `json:"address" binding:"required"`
}
