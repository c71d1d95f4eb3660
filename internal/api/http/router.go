package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gymtracker/backend/internal/api/http/handlers"
	"github.com/gymtracker/backend/internal/auth"
	"github.com/gymtracker/backend/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health             *handlers.HealthHandler
	Auth               *handlers.AuthHandler
	ServiceToken       *handlers.ServiceTokenHandler
	Exercises          *handlers.ExercisesHandler
	Workouts           *handlers.WorkoutsHandler
	Internal           *handlers.InternalHandler
	Admin              *handlers.AdminHandler
	Notifications      *handlers.NotificationsHandler
	AuthMiddleware     *auth.AuthMiddleware
	ServiceTokenFilter *auth.ServiceTokenFilter
}

// RegisterRoutes wires HTTP routes. The strict service-token filter runs
// before the lenient user filter on every request; route groups then add
// their own role or scope gates.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.ServiceTokenFilter.Handle)
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/oauth", cfg.Auth.OAuthLogin)
	authGroup.Get("/me", auth.RequireUser(), cfg.Auth.Me)
	authGroup.Post("/password/change", auth.RequireUser(), cfg.Auth.ChangePassword)

	api.Post("/service/token", cfg.ServiceToken.Token)

	exercises := api.Group("/exercises", auth.RequireUser())
	exercises.Get("/", cfg.Exercises.List)
	exercises.Post("/", cfg.Exercises.Create)
	exercises.Get("/:id", cfg.Exercises.Get)
	exercises.Put("/:id", cfg.Exercises.Update)
	exercises.Delete("/:id", cfg.Exercises.Delete)

	workouts := api.Group("/workouts", auth.RequireUser())
	workouts.Get("/", cfg.Workouts.List)
	workouts.Post("/", cfg.Workouts.Create)
	workouts.Get("/:id", cfg.Workouts.Get)
	workouts.Put("/:id", cfg.Workouts.Update)
	workouts.Delete("/:id", cfg.Workouts.Delete)

	notifications := api.Group("/notifications", auth.RequireUser())
	notifications.Get("/", cfg.Notifications.List)
	notifications.Put("/:id/read", cfg.Notifications.MarkRead)

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Put("/users/:id/role", cfg.Admin.SetRole)
	admin.Put("/users/:id/enabled", cfg.Admin.SetEnabled)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)

	internal := app.Group("/internal")
	internal.Get("/exercises/export", auth.RequireScope(domain.ScopeRAGSync), cfg.Internal.ExportExercises)
	internal.Get("/exercises/updated-since", auth.RequireScope(domain.ScopeRAGSync), cfg.Internal.ExercisesUpdatedSince)
	internal.Get("/workouts/updated-since", auth.RequireScope(domain.ScopeRAGSync), cfg.Internal.WorkoutsUpdatedSince)
	internal.Get("/users/:id/workouts", auth.RequireScope(domain.ScopeRAGRead), cfg.Internal.UserWorkouts)
	internal.Get("/users/:id/stats", auth.RequireScope(domain.ScopeRAGRead), cfg.Internal.UserStats)
}
