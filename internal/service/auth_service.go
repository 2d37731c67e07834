package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/config"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/observability"
	"github.com/spec-kit/hotspot-service/internal/repository"
	apperrors "github.com/spec-kit/hotspot-service/pkg/util/errorutil"
)

// ErrInvalidCredentials is the single generic denial for every credential
// failure: unknown email, wrong password, inactive account. All three paths
// return this exact error so their responses are observably identical.
var ErrInvalidCredentials = apperrors.NewUnauthorized("invalid credentials")

// AuthService coordinates the login flow and password lifecycle.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	throttle   *LoginThrottle
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Throttle          *LoginThrottle
	Logger            *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		throttle:   deps.Throttle,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// Login verifies credentials and issues an access token. The caller has
// already checked that both fields are present.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if s.throttle.TooMany(ctx, email) {
		observability.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		s.logger.Warn("login throttled", zap.String("email", email))
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Burn a hash comparison so this path costs about the same
			// as a wrong password.
			auth.DummyCompare(password)
			return nil, "", time.Time{}, s.failLogin(ctx, email, "unknown email")
		}
		return nil, "", time.Time{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, s.failLogin(ctx, email, "password mismatch")
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", time.Time{}, s.failLogin(ctx, email, "inactive account")
	}

	token, expiresAt, err := s.tokenMgr.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.throttle.Reset(ctx, email)
	observability.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return user, token, expiresAt, nil
}

// failLogin records the failure for audit and throttling. The reason is
// logged server-side only; the caller always sees the generic denial.
func (s *AuthService) failLogin(ctx context.Context, email, reason string) error {
	s.throttle.RecordFailure(ctx, email)
	observability.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	s.logger.Warn("login rejected", zap.String("email", email), zap.String("reason", reason))
	return ErrInvalidCredentials
}

// Logout is a no-op for stateless tokens; clients discard the token. Kept so
// the dashboard's logout call keeps its contract.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// RequestPasswordReset persists a single-use reset token. Unknown emails
// return (nil, nil) so the endpoint can answer identically either way.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid or expired reset token", nil)
		}
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("invalid or expired reset token", nil)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, token.ID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
