package dto

import (
	"time"

	"github.com/spec-kit/hotspot-service/internal/domain"
)

// PlanSummary is the public projection of a plan.
type PlanSummary struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Price             float64           `json:"price"`
	DurationHours     *int              `json:"duration_hours,omitempty"`
	DataLimitMB       *int              `json:"data_limit_mb,omitempty"`
	BandwidthDownKbps *int              `json:"bandwidth_down_kbps,omitempty"`
	BandwidthUpKbps   *int              `json:"bandwidth_up_kbps,omitempty"`
	LocationID        *string           `json:"location_id,omitempty"`
	Status            domain.PlanStatus `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
}

// NewPlanSummary projects a domain plan.
func NewPlanSummary(plan *domain.Plan) PlanSummary {
	return PlanSummary{
		ID:                plan.ID,
		Name:              plan.Name,
		Description:       plan.Description,
		Price:             plan.Price,
		DurationHours:     plan.DurationHours,
		DataLimitMB:       plan.DataLimitMB,
		BandwidthDownKbps: plan.BandwidthDownKbps,
		BandwidthUpKbps:   plan.BandwidthUpKbps,
		LocationID:        plan.LocationID,
		Status:            plan.Status,
		CreatedAt:         plan.CreatedAt,
	}
}

// CreatePlanRequest payload for creating a plan.
type CreatePlanRequest struct {
	Name              string  `json:"name" validate:"required"`
	Description       string  `json:"description"`
	Price             float64 `json:"price" validate:"min=0"`
	DurationHours     *int    `json:"duration_hours" validate:"omitempty,min=1"`
	DataLimitMB       *int    `json:"data_limit_mb" validate:"omitempty,min=1"`
	BandwidthDownKbps *int    `json:"bandwidth_down_kbps" validate:"omitempty,min=1"`
	BandwidthUpKbps   *int    `json:"bandwidth_up_kbps" validate:"omitempty,min=1"`
	LocationID        *string `json:"location_id"`
}

// UpdatePlanRequest payload for partial plan mutation.
type UpdatePlanRequest struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price" validate:"omitempty,min=0"`
	DurationHours     *int     `json:"duration_hours" validate:"omitempty,min=1"`
	DataLimitMB       *int     `json:"data_limit_mb" validate:"omitempty,min=1"`
	BandwidthDownKbps *int     `json:"bandwidth_down_kbps" validate:"omitempty,min=1"`
	BandwidthUpKbps   *int     `json:"bandwidth_up_kbps" validate:"omitempty,min=1"`
	LocationID        *string  `json:"location_id"`
	Status            *string  `json:"status" validate:"omitempty,oneof=active inactive"`
}
