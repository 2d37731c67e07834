package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/events"
	"github.com/spec-kit/hotspot-service/internal/repository"
	apperrors "github.com/spec-kit/hotspot-service/pkg/util/errorutil"
)

// UserService manages dashboard accounts.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, bcryptCost int) *UserService {
	return &UserService{users: users, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// UserCreateInput carries new account fields.
type UserCreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	LocationID *string
}

// UserUpdateInput carries partial account mutations. Nil fields are left
// untouched; a non-nil Password resets the stored hash.
type UserUpdateInput struct {
	Name       *string
	Role       *domain.Role
	Status     *domain.UserStatus
	Password   *string
	LocationID *string
}

// List returns accounts visible under the filter.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	return s.users.List(ctx, filter)
}

// Create provisions a new account with a hashed password. Only admins may
// grant the admin role; without this, a manager holding users.create could
// mint a wildcard account.
func (s *UserService) Create(ctx context.Context, actor *auth.Principal, input UserCreateInput) (*domain.User, error) {
	if !domain.ValidRole(input.Role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if input.Role == domain.RoleAdmin && !actorIsAdmin(actor) {
		return nil, apperrors.NewForbidden("only admins may grant the admin role")
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Status:       domain.UserStatusActive,
		LocationID:   input.LocationID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, actor, events.EventUserCreated, events.UserCreatedPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	return user, nil
}

// Update applies a partial mutation to an account. Admin accounts and the
// admin role itself may only be touched by an admin actor.
func (s *UserService) Update(ctx context.Context, actor *auth.Principal, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleAdmin && !actorIsAdmin(actor) {
		return nil, apperrors.NewForbidden("only admins may modify admin accounts")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		if *input.Role == domain.RoleAdmin && !actorIsAdmin(actor) {
			return nil, apperrors.NewForbidden("only admins may grant the admin role")
		}
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.LocationID != nil {
		user.LocationID = input.LocationID
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account. Already-issued tokens for the account keep
// verifying until expiry; handlers loading the subject treat the missing row
// as an invalid subject.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func actorIsAdmin(actor *auth.Principal) bool {
	return actor != nil && actor.Role == domain.RoleAdmin
}

func (s *UserService) publish(ctx context.Context, actor *auth.Principal, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if actor != nil {
		event.Actor = events.Actor{UserID: actor.UserID, Role: actor.Role}
	}
	_ = s.dispatcher.Publish(ctx, event)
}
