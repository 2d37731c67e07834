package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/config"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/repository"
)

type stubUserRepository struct {
	users map[string]*domain.User
}

func newStubUserRepository(users ...*domain.User) *stubUserRepository {
	repo := &stubUserRepository{users: make(map[string]*domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *stubUserRepository) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepository) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *stubUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepository) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		if filter.LocationID != nil && (user.LocationID == nil || *user.LocationID != *filter.LocationID) {
			continue
		}
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

type stubResetRepository struct {
	tokens map[string]*repository.PasswordResetToken
}

func newStubResetRepository() *stubResetRepository {
	return &stubResetRepository{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (r *stubResetRepository) Create(_ context.Context, token *repository.PasswordResetToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	token.CreatedAt = time.Now()
	r.tokens[token.Token] = token
	return nil
}

func (r *stubResetRepository) GetByToken(_ context.Context, token string) (*repository.PasswordResetToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (r *stubResetRepository) MarkUsed(_ context.Context, id string) error {
	for _, t := range r.tokens {
		if t.ID == id && t.UsedAt == nil {
			now := time.Now()
			t.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "0123456789abcdef0123456789abcdef",
			AccessTokenTTLSeconds:   3600,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return hash
}

func adminUser(t *testing.T) *domain.User {
	t.Helper()
	return &domain.User{
		ID:           "user-admin",
		Name:         "Admin",
		Email:        "admin@example.com",
		PasswordHash: mustHash(t, "admin123"),
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
	}
}

func newTestAuthService(t *testing.T, users *stubUserRepository) (*AuthService, *stubResetRepository) {
	t.Helper()
	resets := newStubResetRepository()
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
	})
	return svc, resets
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepository(adminUser(t)))

	user, token, expiresAt, err := svc.Login(context.Background(), "admin@example.com", "admin123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Fatalf("unexpected user %q", user.Email)
	}
	if until := time.Until(expiresAt); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := svc.TokenManager().Verify(token)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if claims.UserID != "user-admin" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepository(adminUser(t)))

	if _, _, _, err := svc.Login(context.Background(), "ADMIN@Example.COM", "admin123"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepository(adminUser(t)))

	_, _, _, wrongPass := svc.Login(context.Background(), "admin@example.com", "wrong")
	_, _, _, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "admin123")

	if wrongPass == nil || unknownEmail == nil {
		t.Fatalf("expected both logins to fail")
	}
	if wrongPass != ErrInvalidCredentials {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", wrongPass)
	}
	if unknownEmail != ErrInvalidCredentials {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", unknownEmail)
	}
	if wrongPass.Error() != unknownEmail.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPass.Error(), unknownEmail.Error())
	}
}

func TestLoginInactiveAccountRejected(t *testing.T) {
	user := adminUser(t)
	user.Status = domain.UserStatusInactive
	svc, _ := newTestAuthService(t, newStubUserRepository(user))

	_, _, _, err := svc.Login(context.Background(), "admin@example.com", "admin123")
	if err != ErrInvalidCredentials {
		t.Fatalf("inactive account: got %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	users := newStubUserRepository(adminUser(t))
	svc, _ := newTestAuthService(t, users)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, "user-admin", "wrong", "newpass1"); err != ErrInvalidCredentials {
		t.Fatalf("wrong current password: got %v, want ErrInvalidCredentials", err)
	}

	if err := svc.ChangePassword(ctx, "user-admin", "admin123", "newpass1"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "admin@example.com", "admin123"); err != ErrInvalidCredentials {
		t.Fatalf("old password should be rejected, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "admin@example.com", "newpass1"); err != nil {
		t.Fatalf("new password should log in, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	users := newStubUserRepository(adminUser(t))
	svc, _ := newTestAuthService(t, users)
	ctx := context.Background()

	// Unknown email produces no token and no error, so the endpoint can
	// answer identically either way.
	token, err := svc.RequestPasswordReset(ctx, "nobody@example.com")
	if err != nil || token != nil {
		t.Fatalf("unknown email: got (%v, %v), want (nil, nil)", token, err)
	}

	token, err = svc.RequestPasswordReset(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}
	if token == nil || token.Token == "" {
		t.Fatalf("expected a reset token")
	}

	if err := svc.ConfirmPasswordReset(ctx, token.Token, "resetpass1"); err != nil {
		t.Fatalf("ConfirmPasswordReset returned error: %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "admin@example.com", "resetpass1"); err != nil {
		t.Fatalf("reset password should log in, got %v", err)
	}

	// Tokens are single use.
	if err := svc.ConfirmPasswordReset(ctx, token.Token, "another1"); err == nil {
		t.Fatalf("expected reused token to be rejected")
	}

	if err := svc.ConfirmPasswordReset(ctx, "no-such-token", "another1"); err == nil {
		t.Fatalf("expected unknown token to be rejected")
	}
}
