package domain

import "time"

// SessionStatus tracks a client session lifecycle.
type SessionStatus string

const (
	SessionStatusActive     SessionStatus = "active"
	SessionStatusEnded      SessionStatus = "ended"
	SessionStatusTerminated SessionStatus = "terminated"
)

// Session is a network session recorded against a controller. Rows are
// written by an external accounting collector; this service only reads and
// terminates them.
type Session struct {
	ID           string
	ControllerID string
	VoucherID    *string
	PlanName     *string
	MacAddress   string
	IPAddress    string
	Status       SessionStatus
	StartedAt    time.Time
	EndedAt      *time.Time
}

// DurationMinutes returns whole minutes between start and end, or elapsed
// minutes for a still-open session.
func (s *Session) DurationMinutes(now time.Time) int {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	d := end.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}
