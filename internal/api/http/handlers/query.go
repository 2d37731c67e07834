package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/domain"
)

// scopedLocation resolves the location filter for a request. Admins may ask
// for any location (or all of them); everyone else is pinned to their own
// location claim regardless of the query string.
func scopedLocation(c *fiber.Ctx, principal *auth.Principal) *string {
	if principal != nil && principal.Role != domain.RoleAdmin {
		return principal.LocationID
	}
	return queryPtr(c, "location_id")
}

// queryPtr returns the query parameter as a pointer, nil when absent.
func queryPtr(c *fiber.Ctx, key string) *string {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	return &val
}
