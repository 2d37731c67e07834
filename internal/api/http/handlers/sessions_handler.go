package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hotspot-service/internal/api/dto"
	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/repository"
	"github.com/spec-kit/hotspot-service/internal/service"
	apperrors "github.com/spec-kit/hotspot-service/pkg/util/errorutil"
)

// SessionsHandler exposes session monitoring endpoints.
type SessionsHandler struct {
	sessions *service.SessionService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(sessionService *service.SessionService) *SessionsHandler {
	return &SessionsHandler{sessions: sessionService}
}

// Active handles GET /api/sessions/active.
func (h *SessionsHandler) Active(c *fiber.Ctx) error {
	sessions, err := h.sessions.Active(c.UserContext(), queryPtr(c, "controller_id"))
	if err != nil {
		return err
	}
	return respondOK(c, "Active sessions retrieved", sessionSummaries(sessions))
}

// History handles GET /api/sessions/history.
func (h *SessionsHandler) History(c *fiber.Ctx) error {
	filter := repository.SessionFilter{
		ControllerID: queryPtr(c, "controller_id"),
	}
	if status := c.Query("status"); status != "" {
		s := domain.SessionStatus(status)
		filter.Status = &s
	}
	if start, err := time.Parse(time.RFC3339, c.Query("start_date")); err == nil {
		filter.StartDate = &start
	}
	if end, err := time.Parse(time.RFC3339, c.Query("end_date")); err == nil {
		filter.EndDate = &end
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}

	sessions, err := h.sessions.History(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return respondOK(c, "Session history retrieved", sessionSummaries(sessions))
}

// Terminate handles POST /api/sessions/terminate.
func (h *SessionsHandler) Terminate(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.TerminateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID == "" {
		return apperrors.NewValidationError("session id is required", nil)
	}

	session, err := h.sessions.Terminate(c.UserContext(), principal, req.ID)
	if err != nil {
		return err
	}
	return respondOK(c, "Session terminated successfully", dto.NewSessionSummary(session, time.Now()))
}

func sessionSummaries(sessions []domain.Session) []dto.SessionSummary {
	now := time.Now()
	items := make([]dto.SessionSummary, 0, len(sessions))
	for i := range sessions {
		items = append(items, dto.NewSessionSummary(&sessions[i], now))
	}
	return items
}
