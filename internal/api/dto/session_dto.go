package dto

import (
	"time"

	"github.com/spec-kit/hotspot-service/internal/domain"
)

// SessionSummary is the public projection of a network session.
type SessionSummary struct {
	ID              string               `json:"id"`
	ControllerID    string               `json:"controller_id"`
	VoucherID       *string              `json:"voucher_id,omitempty"`
	PlanName        *string              `json:"plan_name,omitempty"`
	MacAddress      string               `json:"mac_address"`
	IPAddress       string               `json:"ip_address"`
	Status          domain.SessionStatus `json:"status"`
	StartedAt       time.Time            `json:"started_at"`
	EndedAt         *time.Time           `json:"ended_at,omitempty"`
	DurationMinutes int                  `json:"duration_minutes"`
}

// NewSessionSummary projects a domain session, computing elapsed duration
// against now for still-open sessions.
func NewSessionSummary(session *domain.Session, now time.Time) SessionSummary {
	return SessionSummary{
		ID:              session.ID,
		ControllerID:    session.ControllerID,
		VoucherID:       session.VoucherID,
		PlanName:        session.PlanName,
		MacAddress:      session.MacAddress,
		IPAddress:       session.IPAddress,
		Status:          session.Status,
		StartedAt:       session.StartedAt,
		EndedAt:         session.EndedAt,
		DurationMinutes: session.DurationMinutes(now),
	}
}

// TerminateSessionRequest payload for terminating a session.
type TerminateSessionRequest struct {
	ID string `json:"id" validate:"required"`
}
