package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hotspot-service/internal/api/dto"
	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/repository"
	"github.com/spec-kit/hotspot-service/internal/service"
	apperrors "github.com/spec-kit/hotspot-service/pkg/util/errorutil"
)

// PlansHandler exposes plan CRUD endpoints.
type PlansHandler struct {
	plans *service.PlanService
}

// NewPlansHandler constructs handler.
func NewPlansHandler(planService *service.PlanService) *PlansHandler {
	return &PlansHandler{plans: planService}
}

// List handles GET /api/plans.
func (h *PlansHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	filter := repository.PlanFilter{LocationID: scopedLocation(c, principal)}
	if status := c.Query("status"); status != "" {
		s := domain.PlanStatus(status)
		filter.Status = &s
	}

	plans, err := h.plans.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	items := make([]dto.PlanSummary, 0, len(plans))
	for i := range plans {
		items = append(items, dto.NewPlanSummary(&plans[i]))
	}
	return respondOK(c, "Plans retrieved successfully", items)
}

// Create handles POST /api/plans.
func (h *PlansHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePlanRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	plan, err := h.plans.Create(c.UserContext(), service.PlanCreateInput{
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		DurationHours:     req.DurationHours,
		DataLimitMB:       req.DataLimitMB,
		BandwidthDownKbps: req.BandwidthDownKbps,
		BandwidthUpKbps:   req.BandwidthUpKbps,
		LocationID:        req.LocationID,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, "Plan created successfully", dto.NewPlanSummary(plan))
}

// Update handles PUT /api/plans/:id.
func (h *PlansHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("plan id is required", nil)
	}

	var req dto.UpdatePlanRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	input := service.PlanUpdateInput{
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		DurationHours:     req.DurationHours,
		DataLimitMB:       req.DataLimitMB,
		BandwidthDownKbps: req.BandwidthDownKbps,
		BandwidthUpKbps:   req.BandwidthUpKbps,
		LocationID:        req.LocationID,
	}
	if req.Status != nil {
		status := domain.PlanStatus(*req.Status)
		input.Status = &status
	}

	plan, err := h.plans.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return respondOK(c, "Plan updated successfully", dto.NewPlanSummary(plan))
}

// Delete handles DELETE /api/plans/:id.
func (h *PlansHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("plan id is required", nil)
	}
	if err := h.plans.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return respondOK(c, "Plan deleted successfully", nil)
}
