package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/http/handlers"
	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Records        *handlers.RecordsHandler
	Users          *handlers.UsersHandler
	Organizations  *handlers.OrganizationsHandler
	Reminders      *handlers.RemindersHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Fine-grained checks (tenant scoping,
// record ownership, role reach over user targets) live in the services;
// route-level guards only gate whole surfaces.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/auth/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	credentials := app.Group("/credentials", cfg.AuthMiddleware.Handle)
	credentials.Post("/", cfg.Records.Create)
	credentials.Get("/", cfg.Records.List)
	credentials.Get("/:id", cfg.Records.Get)
	credentials.Put("/:id", cfg.Records.Update)
	credentials.Delete("/:id", cfg.Records.Delete)

	adminOnly := auth.RequireRole(domain.RolePlatformAdmin, domain.RoleOrgSuperAdmin, domain.RoleAdmin)
	emails := app.Group("/emails", cfg.AuthMiddleware.Handle, adminOnly)
	emails.Post("/send-reminders", cfg.Reminders.SendReminders)
	emails.Post("/send-summary", cfg.Reminders.SendSummary)
	emails.Get("/last-run", cfg.Reminders.LastRun)

	platformOnly := auth.RequireRole(domain.RolePlatformAdmin)
	organizations := app.Group("/organizations", cfg.AuthMiddleware.Handle, platformOnly)
	organizations.Post("/", cfg.Organizations.Create)
	organizations.Get("/", cfg.Organizations.List)
	organizations.Patch("/:id", cfg.Organizations.SetActive)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Patch("/:id/access-status", cfg.Users.SetAccessStatus)

	app.Get("/activity", cfg.AuthMiddleware.Handle, adminOnly, cfg.Activity.List)
}
