package service

import (
	"context"

	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/repository"
	apperrors "github.com/spec-kit/hotspot-service/pkg/util/errorutil"
)

// PlanService manages internet access plans.
type PlanService struct {
	plans repository.PlanRepository
}

// NewPlanService builds the service.
func NewPlanService(plans repository.PlanRepository) *PlanService {
	return &PlanService{plans: plans}
}

// PlanCreateInput carries new plan fields.
type PlanCreateInput struct {
	Name              string
	Description       string
	Price             float64
	DurationHours     *int
	DataLimitMB       *int
	BandwidthDownKbps *int
	BandwidthUpKbps   *int
	LocationID        *string
}

// PlanUpdateInput carries partial plan mutations.
type PlanUpdateInput struct {
	Name              *string
	Description       *string
	Price             *float64
	DurationHours     *int
	DataLimitMB       *int
	BandwidthDownKbps *int
	BandwidthUpKbps   *int
	LocationID        *string
	Status            *domain.PlanStatus
}

// List returns plans matching the filter.
func (s *PlanService) List(ctx context.Context, filter repository.PlanFilter) ([]domain.Plan, error) {
	return s.plans.List(ctx, filter)
}

// Create registers a plan.
func (s *PlanService) Create(ctx context.Context, input PlanCreateInput) (*domain.Plan, error) {
	if input.Price < 0 {
		return nil, apperrors.NewValidationError("price must not be negative", nil)
	}
	plan := &domain.Plan{
		Name:              input.Name,
		Description:       input.Description,
		Price:             input.Price,
		DurationHours:     input.DurationHours,
		DataLimitMB:       input.DataLimitMB,
		BandwidthDownKbps: input.BandwidthDownKbps,
		BandwidthUpKbps:   input.BandwidthUpKbps,
		LocationID:        input.LocationID,
		Status:            domain.PlanStatusActive,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Update applies a partial mutation.
func (s *PlanService) Update(ctx context.Context, id string, input PlanUpdateInput) (*domain.Plan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		plan.Name = *input.Name
	}
	if input.Description != nil {
		plan.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.NewValidationError("price must not be negative", nil)
		}
		plan.Price = *input.Price
	}
	if input.DurationHours != nil {
		plan.DurationHours = input.DurationHours
	}
	if input.DataLimitMB != nil {
		plan.DataLimitMB = input.DataLimitMB
	}
	if input.BandwidthDownKbps != nil {
		plan.BandwidthDownKbps = input.BandwidthDownKbps
	}
	if input.BandwidthUpKbps != nil {
		plan.BandwidthUpKbps = input.BandwidthUpKbps
	}
	if input.LocationID != nil {
		plan.LocationID = input.LocationID
	}
	if input.Status != nil {
		plan.Status = *input.Status
	}

	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Delete removes a plan.
func (s *PlanService) Delete(ctx context.Context, id string) error {
	return s.plans.Delete(ctx, id)
}
