package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hotspot-service/internal/api/dto"
	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/service"
	apperrors "github.com/spec-kit/hotspot-service/pkg/util/errorutil"
)

// ControllersHandler exposes wireless controller CRUD endpoints.
type ControllersHandler struct {
	controllers *service.ControllerService
}

// NewControllersHandler constructs handler.
func NewControllersHandler(controllerService *service.ControllerService) *ControllersHandler {
	return &ControllersHandler{controllers: controllerService}
}

// List handles GET /api/controllers.
func (h *ControllersHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	controllers, err := h.controllers.List(c.UserContext(), scopedLocation(c, principal))
	if err != nil {
		return err
	}

	items := make([]dto.ControllerSummary, 0, len(controllers))
	for i := range controllers {
		items = append(items, dto.NewControllerSummary(&controllers[i]))
	}
	return respondOK(c, "Controllers retrieved successfully", items)
}

// Create handles POST /api/controllers.
func (h *ControllersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateControllerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	controller, err := h.controllers.Create(c.UserContext(), service.ControllerCreateInput{
		Name:       req.Name,
		IPAddress:  req.IPAddress,
		Port:       req.Port,
		Username:   req.Username,
		Password:   req.Password,
		SiteID:     req.SiteID,
		LocationID: req.LocationID,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, "Controller created successfully", dto.NewControllerSummary(controller))
}

// Update handles PUT /api/controllers/:id.
func (h *ControllersHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("controller id is required", nil)
	}

	var req dto.UpdateControllerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	input := service.ControllerUpdateInput{
		Name:       req.Name,
		IPAddress:  req.IPAddress,
		Port:       req.Port,
		Username:   req.Username,
		Password:   req.Password,
		SiteID:     req.SiteID,
		LocationID: req.LocationID,
	}
	if req.Status != nil {
		status := domain.ControllerStatus(*req.Status)
		input.Status = &status
	}

	controller, err := h.controllers.Update(c.UserContext(), principal, id, input)
	if err != nil {
		return err
	}
	return respondOK(c, "Controller updated successfully", dto.NewControllerSummary(controller))
}

// Delete handles DELETE /api/controllers/:id.
func (h *ControllersHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("controller id is required", nil)
	}
	if err := h.controllers.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return respondOK(c, "Controller deleted successfully", nil)
}
