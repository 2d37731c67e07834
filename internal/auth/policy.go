package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hotspot-service/internal/domain"
	apperrors "github.com/spec-kit/hotspot-service/pkg/util/errorutil"
)

// Action tags a privileged operation. Every protected handler declares
// exactly one action and defers the allow/deny decision to the policy table
// below; role comparisons are never inlined in handlers.
type Action string

const (
	ActionUsersView   Action = "users.view"
	ActionUsersCreate Action = "users.create"
	ActionUsersUpdate Action = "users.update"
	ActionUsersDelete Action = "users.delete"

	ActionControllersView   Action = "controllers.view"
	ActionControllersCreate Action = "controllers.create"
	ActionControllersUpdate Action = "controllers.update"
	ActionControllersDelete Action = "controllers.delete"

	ActionPlansView   Action = "plans.view"
	ActionPlansCreate Action = "plans.create"
	ActionPlansUpdate Action = "plans.update"
	ActionPlansDelete Action = "plans.delete"

	ActionVouchersView     Action = "vouchers.view"
	ActionVouchersGenerate Action = "vouchers.generate"
	ActionVouchersValidate Action = "vouchers.validate"

	ActionSessionsView      Action = "sessions.view"
	ActionSessionsTerminate Action = "sessions.terminate"
)

type actionSet map[Action]struct{}

func actions(list ...Action) actionSet {
	set := make(actionSet, len(list))
	for _, a := range list {
		set[a] = struct{}{}
	}
	return set
}

// rolePermissions is the single authorization table. RoleAdmin is the
// wildcard role and is checked before this table is consulted. Roles absent
// here (customer, unknown) are denied everything.
var rolePermissions = map[domain.Role]actionSet{
	domain.RoleManager: actions(
		ActionUsersView, ActionUsersCreate, ActionUsersUpdate,
		ActionControllersView, ActionControllersCreate, ActionControllersUpdate, ActionControllersDelete,
		ActionPlansView, ActionPlansCreate, ActionPlansUpdate, ActionPlansDelete,
		ActionVouchersView, ActionVouchersGenerate, ActionVouchersValidate,
		ActionSessionsView, ActionSessionsTerminate,
	),
	domain.RoleStaff: actions(
		ActionVouchersView, ActionVouchersGenerate, ActionVouchersValidate,
		ActionSessionsView,
	),
}

// Allow reports whether role may perform action. Unknown roles and unknown
// actions both deny.
func Allow(role domain.Role, action Action) bool {
	if role == domain.RoleAdmin {
		return true
	}
	permitted, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = permitted[action]
	return ok
}

// RequireAction builds a Fiber middleware enforcing the policy for one
// action. Missing principal is an authentication failure; a known principal
// with insufficient role is an authorization failure.
func RequireAction(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !Allow(principal.Role, action) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
