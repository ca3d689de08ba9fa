package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/interpreteya/booking-service/internal/api/http/handlers"
	"github.com/interpreteya/booking-service/internal/auth"
	"github.com/interpreteya/booking-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Bookings       *handlers.BookingsHandler
	Interpreters   *handlers.InterpretersHandler
	Manager        *handlers.ManagerHandler
	Watch          *handlers.WatchHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Accounts.RegisterDeafUser)
	authGroup.Post("/interpreters/register", cfg.Accounts.RegisterInterpreter)
	authGroup.Post("/login", cfg.Accounts.Login)
	authGroup.Post("/login/rut", cfg.Accounts.LoginRut)
	authGroup.Post("/managers/login", cfg.Accounts.ManagerLogin)
	authGroup.Post("/password/reset/request", cfg.Accounts.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Accounts.ConfirmPasswordReset)

	authed := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyAccount())
	authed.Post("/logout", cfg.Accounts.Logout)
	authed.Post("/password/change", cfg.Accounts.ChangePassword)

	me := app.Group("/me", cfg.AuthMiddleware.Handle, auth.RequireAnyAccount())
	me.Get("/", cfg.Accounts.Me)
	me.Put("/night-consent", cfg.Accounts.SetNightConsent)

	interpreters := app.Group("/interpreters", cfg.AuthMiddleware.Handle, auth.RequireAnyAccount())
	interpreters.Get("/", cfg.Interpreters.List)
	interpreters.Get("/:id/ratings", cfg.Interpreters.Ratings)

	bookings := app.Group("/bookings", cfg.AuthMiddleware.Handle, auth.RequireAnyAccount())
	bookings.Post("/", cfg.Bookings.Create)
	bookings.Post("/emergency", cfg.Bookings.CreateEmergency)
	bookings.Post("/urgent", cfg.Bookings.CreateUrgent)
	bookings.Get("/", cfg.Bookings.List)
	bookings.Get("/:id", cfg.Bookings.Get)
	bookings.Post("/:id/pay", cfg.Bookings.Pay)
	bookings.Post("/:id/rating", cfg.Bookings.Rate)

	watch := app.Group("/watch", cfg.AuthMiddleware.Handle, auth.RequireAnyAccount())
	watch.Get("/:collection", cfg.Watch.Watch)

	manager := app.Group("/manager", cfg.AuthMiddleware.Handle, auth.RequireManager())
	manager.Get("/accounts/pending", cfg.Manager.PendingAccounts)
	manager.Get("/accounts/blocked", cfg.Manager.BlockedAccounts)
	manager.Post("/accounts/:id/approve", cfg.Manager.ApproveAccount)
	manager.Post("/accounts/:id/reject", cfg.Manager.RejectAccount)
	manager.Post("/accounts/:id/block", cfg.Manager.BlockAccount)
	manager.Post("/accounts/:id/unblock", cfg.Manager.UnblockAccount)
	manager.Get("/bookings", cfg.Manager.ListBookings)
	manager.Get("/bookings/export", cfg.Manager.ExportBookings)
	manager.Put("/bookings/:id/status", cfg.Manager.SetBookingStatus)
	manager.Put("/bookings/:id/interpreter", cfg.Manager.AssignBooking)
	manager.Delete("/bookings/:id/interpreter", cfg.Manager.UnassignBooking)
}
