package service

import (
	"context"
	"time"

	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/events"
	"github.com/spec-kit/hotspot-service/internal/observability"
	"github.com/spec-kit/hotspot-service/internal/repository"
)

// SessionService reads and terminates network sessions.
type SessionService struct {
	sessions   repository.SessionRepository
	dispatcher events.Dispatcher
}

// NewSessionService builds the service.
func NewSessionService(sessions repository.SessionRepository, dispatcher events.Dispatcher) *SessionService {
	return &SessionService{sessions: sessions, dispatcher: dispatcher}
}

// Active lists open sessions, optionally for one controller.
func (s *SessionService) Active(ctx context.Context, controllerID *string) ([]domain.Session, error) {
	return s.sessions.ListActive(ctx, controllerID)
}

// History lists past and present sessions matching the filter.
func (s *SessionService) History(ctx context.Context, filter repository.SessionFilter) ([]domain.Session, error) {
	return s.sessions.History(ctx, filter)
}

// Terminate closes an active session from the dashboard. The controller-side
// disconnect is the external collector's job.
func (s *SessionService) Terminate(ctx context.Context, actor *auth.Principal, id string) (*domain.Session, error) {
	if err := s.sessions.Terminate(ctx, id, time.Now()); err != nil {
		return nil, err
	}
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	observability.SessionsTerminatedTotal.Inc()
	if s.dispatcher != nil {
		event := events.Event{
			Type:      events.EventSessionTerminated,
			Timestamp: time.Now(),
			Payload: events.SessionTerminatedPayload{
				SessionID:    session.ID,
				ControllerID: session.ControllerID,
				MacAddress:   session.MacAddress,
			},
		}
		if actor != nil {
			event.Actor = events.Actor{UserID: actor.UserID, Role: actor.Role}
		}
		_ = s.dispatcher.Publish(ctx, event)
	}
	return session, nil
}
