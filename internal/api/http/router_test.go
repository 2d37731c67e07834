package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/hotspot-service/internal/api/http/handlers"
	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/config"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/repository"
	"github.com/spec-kit/hotspot-service/internal/service"
)

type memoryUserRepository struct {
	users map[string]*domain.User
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepository) List(_ context.Context, _ repository.UserFilter) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	adminHash, err := auth.HashPassword("admin123", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	staffHash, err := auth.HashPassword("staff123", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	users := &memoryUserRepository{users: map[string]*domain.User{
		"user-admin": {
			ID:           "user-admin",
			Name:         "Admin",
			Email:        "admin@example.com",
			PasswordHash: adminHash,
			Role:         domain.RoleAdmin,
			Status:       domain.UserStatusActive,
		},
		"user-staff": {
			ID:           "user-staff",
			Name:         "Front Desk",
			Email:        "staff@example.com",
			PasswordHash: staffHash,
			Role:         domain.RoleStaff,
			Status:       domain.UserStatusActive,
		},
	}}

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "0123456789abcdef0123456789abcdef",
			AccessTokenTTLSeconds: 3600,
			BcryptCost:            4,
		},
	}

	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users})
	userService := service.NewUserService(users, nil, cfg.Auth.BcryptCost)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("hotspot-service", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Controllers:    handlers.NewControllersHandler(service.NewControllerService(nil, nil)),
		Plans:          handlers.NewPlansHandler(service.NewPlanService(nil)),
		Vouchers:       handlers.NewVouchersHandler(service.NewVoucherService(nil, nil, nil, nil, nil)),
		Sessions:       handlers.NewSessionsHandler(service.NewSessionService(nil, nil)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp, env
}

func loginToken(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	resp, env := doJSON(t, app, fiber.MethodPost, "/api/auth/login",
		`{"email":"`+email+`","password":"`+password+`"}`, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login as %s: status %d", email, resp.StatusCode)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("login response carried no token: %s", env.Data)
	}
	return data.Token
}

func TestLoginMissingFields(t *testing.T) {
	app := newTestApp(t)

	for _, body := range []string{`{}`, `{"email":"admin@example.com"}`, `{"password":"admin123"}`} {
		resp, env := doJSON(t, app, fiber.MethodPost, "/api/auth/login", body, "")
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("body %s: status %d, want 400", body, resp.StatusCode)
		}
		if env.Success {
			t.Fatalf("body %s: expected success=false", body)
		}
	}
}

func TestLoginFailureShapeIdentical(t *testing.T) {
	app := newTestApp(t)

	wrongPass, wrongEnv := doJSON(t, app, fiber.MethodPost, "/api/auth/login",
		`{"email":"admin@example.com","password":"nope"}`, "")
	unknown, unknownEnv := doJSON(t, app, fiber.MethodPost, "/api/auth/login",
		`{"email":"ghost@example.com","password":"admin123"}`, "")

	if wrongPass.StatusCode != fiber.StatusUnauthorized || unknown.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("statuses %d/%d, want 401/401", wrongPass.StatusCode, unknown.StatusCode)
	}
	if wrongEnv.Message != unknownEnv.Message {
		t.Fatalf("messages differ: %q vs %q", wrongEnv.Message, unknownEnv.Message)
	}
}

func TestLoginResponseOmitsPasswordHash(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, fiber.MethodPost, "/api/auth/login",
		`{"email":"admin@example.com","password":"admin123"}`, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	if strings.Contains(strings.ToLower(string(env.Data)), "password") {
		t.Fatalf("login payload leaks password material: %s", env.Data)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "not-a-jwt"},
	}
	for _, tc := range cases {
		resp, env := doJSON(t, app, fiber.MethodGet, "/api/users/", "", tc.token)
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s: status %d, want 401", tc.name, resp.StatusCode)
		}
		if env.Success {
			t.Fatalf("%s: expected success=false", tc.name)
		}
	}
}

func TestRoleEnforcement(t *testing.T) {
	app := newTestApp(t)
	adminToken := loginToken(t, app, "admin@example.com", "admin123")
	staffToken := loginToken(t, app, "staff@example.com", "staff123")

	// Staff holds a valid token but lacks the users.view action.
	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/users/", "", staffToken)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("staff on /api/users: status %d, want 403", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/sessions/terminate",
		`{"session_id":"sess-1"}`, staffToken)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("staff on terminate: status %d, want 403", resp.StatusCode)
	}

	resp, env := doJSON(t, app, fiber.MethodGet, "/api/users/", "", adminToken)
	if resp.StatusCode != fiber.StatusOK || !env.Success {
		t.Fatalf("admin on /api/users: status %d success %v", resp.StatusCode, env.Success)
	}
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/health/live", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("health live: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
}
