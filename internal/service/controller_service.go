package service

import (
	"context"
	"time"

	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/events"
	"github.com/spec-kit/hotspot-service/internal/repository"
)

// ControllerService manages wireless controller records. Talking the
// controller protocol itself is out of scope; this is inventory only.
type ControllerService struct {
	controllers repository.ControllerRepository
	dispatcher  events.Dispatcher
}

// NewControllerService builds the service.
func NewControllerService(controllers repository.ControllerRepository, dispatcher events.Dispatcher) *ControllerService {
	return &ControllerService{controllers: controllers, dispatcher: dispatcher}
}

// ControllerCreateInput carries new controller fields.
type ControllerCreateInput struct {
	Name       string
	IPAddress  string
	Port       int
	Username   string
	Password   string
	SiteID     string
	LocationID *string
}

// ControllerUpdateInput carries partial controller mutations.
type ControllerUpdateInput struct {
	Name       *string
	IPAddress  *string
	Port       *int
	Username   *string
	Password   *string
	SiteID     *string
	LocationID *string
	Status     *domain.ControllerStatus
}

// List returns controllers, optionally scoped to a location.
func (s *ControllerService) List(ctx context.Context, locationID *string) ([]domain.Controller, error) {
	return s.controllers.List(ctx, locationID)
}

// Create registers a controller.
func (s *ControllerService) Create(ctx context.Context, input ControllerCreateInput) (*domain.Controller, error) {
	controller := &domain.Controller{
		Name:       input.Name,
		IPAddress:  input.IPAddress,
		Port:       input.Port,
		Username:   input.Username,
		Password:   input.Password,
		SiteID:     input.SiteID,
		LocationID: input.LocationID,
		Status:     domain.ControllerStatusActive,
	}
	if controller.Port == 0 {
		controller.Port = 8043
	}
	if controller.SiteID == "" {
		controller.SiteID = "default"
	}
	if err := s.controllers.Create(ctx, controller); err != nil {
		return nil, err
	}
	return controller, nil
}

// Update applies a partial mutation.
func (s *ControllerService) Update(ctx context.Context, actor *auth.Principal, id string, input ControllerUpdateInput) (*domain.Controller, error) {
	controller, err := s.controllers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		controller.Name = *input.Name
	}
	if input.IPAddress != nil {
		controller.IPAddress = *input.IPAddress
	}
	if input.Port != nil {
		controller.Port = *input.Port
	}
	if input.Username != nil {
		controller.Username = *input.Username
	}
	if input.Password != nil {
		controller.Password = *input.Password
	}
	if input.SiteID != nil {
		controller.SiteID = *input.SiteID
	}
	if input.LocationID != nil {
		controller.LocationID = input.LocationID
	}
	if input.Status != nil {
		controller.Status = *input.Status
	}

	if err := s.controllers.Update(ctx, controller); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		event := events.Event{
			Type:      events.EventControllerUpdated,
			Timestamp: time.Now(),
			Payload: events.ControllerUpdatedPayload{
				ControllerID: controller.ID,
				Status:       controller.Status,
			},
		}
		if actor != nil {
			event.Actor = events.Actor{UserID: actor.UserID, Role: actor.Role}
		}
		_ = s.dispatcher.Publish(ctx, event)
	}
	return controller, nil
}

// Delete removes a controller.
func (s *ControllerService) Delete(ctx context.Context, id string) error {
	return s.controllers.Delete(ctx, id)
}
