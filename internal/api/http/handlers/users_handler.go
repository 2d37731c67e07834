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

// UsersHandler exposes dashboard account management endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	filter := repository.UserFilter{LocationID: scopedLocation(c, principal)}
	if role := c.Query("role"); role != "" {
		r := domain.Role(role)
		filter.Role = &r
	}

	users, err := h.users.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	items := make([]dto.UserSummary, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserSummary(&users[i]))
	}
	return respondOK(c, "Users retrieved successfully", items)
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Create(c.UserContext(), principal, service.UserCreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       domain.Role(req.Role),
		LocationID: req.LocationID,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, "User created successfully", dto.NewUserSummary(user))
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("user id is required", nil)
	}

	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	input := service.UserUpdateInput{
		Name:       req.Name,
		Password:   req.Password,
		LocationID: req.LocationID,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		input.Status = &status
	}

	user, err := h.users.Update(c.UserContext(), principal, id, input)
	if err != nil {
		return err
	}
	return respondOK(c, "User updated successfully", dto.NewUserSummary(user))
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("user id is required", nil)
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return respondOK(c, "User deleted successfully", nil)
}
