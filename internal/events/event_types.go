package events

import (
	"time"

	"github.com/spec-kit/hotspot-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated           EventType = "user_created"
	EventVoucherBatchGenerated EventType = "voucher_batch_generated"
	EventVoucherRedeemed       EventType = "voucher_redeemed"
	EventSessionTerminated     EventType = "session_terminated"
	EventControllerUpdated     EventType = "controller_updated"
)

// Actor identifies the dashboard account behind an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// VoucherBatchGeneratedPayload payload.
type VoucherBatchGeneratedPayload struct {
	BatchID   string  `json:"batch_id"`
	BatchName *string `json:"batch_name,omitempty"`
	PlanID    string  `json:"plan_id"`
	Quantity  int     `json:"quantity"`
}

// VoucherRedeemedPayload payload.
type VoucherRedeemedPayload struct {
	VoucherID string `json:"voucher_id"`
	Code      string `json:"code"`
	PlanID    string `json:"plan_id"`
}

// SessionTerminatedPayload payload.
type SessionTerminatedPayload struct {
	SessionID    string `json:"session_id"`
	ControllerID string `json:"controller_id"`
	MacAddress   string `json:"mac_address"`
}

// ControllerUpdatedPayload payload.
type ControllerUpdatedPayload struct {
	ControllerID string                  `json:"controller_id"`
	Status       domain.ControllerStatus `json:"status"`
}
