package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/hotspot-service/internal/api/http/handlers"
	"github.com/spec-kit/hotspot-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Controllers    *handlers.ControllersHandler
	Plans          *handlers.PlansHandler
	Vouchers       *handlers.VouchersHandler
	Sessions       *handlers.SessionsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Each privileged route names its action
// once; the policy table owns the role decision.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.RequireAction(auth.ActionUsersView), cfg.Users.List)
	users.Post("/", auth.RequireAction(auth.ActionUsersCreate), cfg.Users.Create)
	users.Put("/:id", auth.RequireAction(auth.ActionUsersUpdate), cfg.Users.Update)
	users.Delete("/:id", auth.RequireAction(auth.ActionUsersDelete), cfg.Users.Delete)

	controllers := api.Group("/controllers", cfg.AuthMiddleware.Handle)
	controllers.Get("/", auth.RequireAction(auth.ActionControllersView), cfg.Controllers.List)
	controllers.Post("/", auth.RequireAction(auth.ActionControllersCreate), cfg.Controllers.Create)
	controllers.Put("/:id", auth.RequireAction(auth.ActionControllersUpdate), cfg.Controllers.Update)
	controllers.Delete("/:id", auth.RequireAction(auth.ActionControllersDelete), cfg.Controllers.Delete)

	plans := api.Group("/plans", cfg.AuthMiddleware.Handle)
	plans.Get("/", auth.RequireAction(auth.ActionPlansView), cfg.Plans.List)
	plans.Post("/", auth.RequireAction(auth.ActionPlansCreate), cfg.Plans.Create)
	plans.Put("/:id", auth.RequireAction(auth.ActionPlansUpdate), cfg.Plans.Update)
	plans.Delete("/:id", auth.RequireAction(auth.ActionPlansDelete), cfg.Plans.Delete)

	vouchers := api.Group("/vouchers", cfg.AuthMiddleware.Handle)
	vouchers.Get("/", auth.RequireAction(auth.ActionVouchersView), cfg.Vouchers.List)
	vouchers.Get("/stats", auth.RequireAction(auth.ActionVouchersView), cfg.Vouchers.Stats)
	vouchers.Post("/generate", auth.RequireAction(auth.ActionVouchersGenerate), cfg.Vouchers.Generate)
	vouchers.Post("/validate", auth.RequireAction(auth.ActionVouchersValidate), cfg.Vouchers.Validate)

	sessions := api.Group("/sessions", cfg.AuthMiddleware.Handle)
	sessions.Get("/active", auth.RequireAction(auth.ActionSessionsView), cfg.Sessions.Active)
	sessions.Get("/history", auth.RequireAction(auth.ActionSessionsView), cfg.Sessions.History)
	sessions.Post("/terminate", auth.RequireAction(auth.ActionSessionsTerminate), cfg.Sessions.Terminate)
}
