package dto

import (
	"time"

	"github.com/spec-kit/hotspot-service/internal/domain"
)

// ControllerSummary is the public projection of a controller. The stored
// admin password is write-only and never serialized.
type ControllerSummary struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	IPAddress  string                  `json:"ip_address"`
	Port       int                     `json:"port"`
	Username   string                  `json:"username"`
	SiteID     string                  `json:"site_id"`
	LocationID *string                 `json:"location_id,omitempty"`
	Status     domain.ControllerStatus `json:"status"`
	CreatedAt  time.Time               `json:"created_at"`
}

// NewControllerSummary projects a domain controller.
func NewControllerSummary(controller *domain.Controller) ControllerSummary {
	return ControllerSummary{
		ID:         controller.ID,
		Name:       controller.Name,
		IPAddress:  controller.IPAddress,
		Port:       controller.Port,
		Username:   controller.Username,
		SiteID:     controller.SiteID,
		LocationID: controller.LocationID,
		Status:     controller.Status,
		CreatedAt:  controller.CreatedAt,
	}
}

// CreateControllerRequest payload for registering a controller.
type CreateControllerRequest struct {
	Name       string  `json:"name" validate:"required"`
	IPAddress  string  `json:"ip_address" validate:"required,ip"`
	Port       int     `json:"port" validate:"omitempty,min=1,max=65535"`
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	SiteID     string  `json:"site_id"`
	LocationID *string `json:"location_id"`
}

// UpdateControllerRequest payload for partial controller mutation.
type UpdateControllerRequest struct {
	Name       *string `json:"name"`
	IPAddress  *string `json:"ip_address" validate:"omitempty,ip"`
	Port       *int    `json:"port" validate:"omitempty,min=1,max=65535"`
	Username   *string `json:"username"`
	Password   *string `json:"password"`
	SiteID     *string `json:"site_id"`
	LocationID *string `json:"location_id"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive"`
}
