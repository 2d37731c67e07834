package domain

import "time"

// PlanStatus represents whether a plan can be sold.
type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// Plan describes a sellable internet access package. Nil limit fields mean
// unlimited.
type Plan struct {
	ID                string
	Name              string
	Description       string
	Price             float64
	DurationHours     *int
	DataLimitMB       *int
	BandwidthDownKbps *int
	BandwidthUpKbps   *int
	LocationID        *string
	Status            PlanStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
