package dto

import (
	"time"

	"github.com/spec-kit/hotspot-service/internal/domain"
)

// UserSummary is the public projection of an account. The password hash has
// no field here and can never leak through this type.
type UserSummary struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       domain.Role       `json:"role"`
	Status     domain.UserStatus `json:"status"`
	LocationID *string           `json:"location_id,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewUserSummary projects a domain user.
func NewUserSummary(user *domain.User) UserSummary {
	return UserSummary{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Status:     user.Status,
		LocationID: user.LocationID,
		CreatedAt:  user.CreatedAt,
	}
}

// CreateUserRequest payload for provisioning an account.
type CreateUserRequest struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	Role       string  `json:"role" validate:"required"`
	LocationID *string `json:"location_id"`
}

// UpdateUserRequest payload for partial account mutation.
type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Password   *string `json:"password" validate:"omitempty,min=6"`
	LocationID *string `json:"location_id"`
}
