package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hotspot-service/internal/domain"
	apperrors "github.com/spec-kit/hotspot-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal is the per-request authorization context decoded from a verified
// token. It is never persisted and carries claims only; handlers needing the
// full user record load it themselves.
type Principal struct {
	UserID     string
	Email      string
	Role       domain.Role
	LocationID *string
}

// AuthMiddleware validates bearer tokens and stores the principal.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. It rejects before any
// downstream work happens; the three failure shapes (missing header, bad
// header, rejected token) all map to 401 with distinct messages.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(principalKey, &Principal{
		UserID:     claims.UserID,
		Email:      claims.Email,
		Role:       claims.Role,
		LocationID: claims.LocationID,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
