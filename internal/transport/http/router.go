package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/people-registry-api/internal/application/auth"
	"github.com/people-registry-api/internal/application/person"
	"github.com/people-registry-api/internal/application/project"
	"github.com/people-registry-api/internal/application/subscription"
	"github.com/people-registry-api/internal/config"
	"github.com/people-registry-api/internal/transport/http/handler"
	appmiddleware "github.com/people-registry-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	personSvc := person.NewService(deps.PersonRepo, deps.SubscriptionRepo, deps.AuditRepo)
	projectSvc := project.NewService(deps.ProjectRepo)
	subscriptionSvc := subscription.NewService(deps.SubscriptionRepo, deps.PersonRepo, deps.ProjectRepo)

	authDeps := auth.Deps{
		PersonRepo:      deps.PersonRepo,
		LockoutRepo:     deps.LockoutRepo,
		ResetRepo:       deps.ResetRepo,
		AuditRepo:       deps.AuditRepo,
		Mailer:          deps.Mailer,
		Alerts:          deps.Alerts,
		MaxFailedLogins: cfg.MaxFailedLogins,
		LockoutDuration: cfg.LockoutDuration,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		ResetTokenTTL:   cfg.PasswordResetTTL,
	}
	if deps.JWTProvider != nil {
		authDeps.JWTProvider = deps.JWTProvider
	}
	authSvc := auth.NewService(authDeps)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	personH := handler.NewPersonHandler(personSvc)
	projectH := handler.NewProjectHandler(projectSvc)
	subscriptionH := handler.NewSubscriptionHandler(subscriptionSvc)
	imageH := handler.NewImageHandler(deps.S3Store)
	adminH := handler.NewAdminHandler(deps.PersonRepo, projectSvc, deps.AuditRepo)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)
		r.With(sensitiveRL.Limit).Post("/auth/password/reset", authH.RequestPasswordReset)
		r.With(sensitiveRL.Limit).Post("/auth/password/reset/confirm", authH.ConfirmPasswordReset)
		r.With(sensitiveRL.Limit).Post("/people", personH.Register)
		r.Get("/projects/public", projectH.ListPublic)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/logout", authH.Logout)
			r.Post("/auth/password/change", authH.ChangePassword)

			// Any authenticated person (handlers enforce self-or-admin)
			r.Get("/people/{id}", personH.Get)
			r.Put("/people/{id}", personH.Update)
			r.Get("/people/{id}/subscriptions", subscriptionH.ListByPerson)
			r.Get("/projects", projectH.List)
			r.Get("/projects/{id}", projectH.Get)
			r.Post("/subscriptions", subscriptionH.Subscribe)
			r.Get("/subscriptions/{id}", subscriptionH.Get)
			r.Post("/subscriptions/{id}/cancel", subscriptionH.Cancel)
			r.Post("/images", imageH.Upload)
			r.Post("/images/base64", imageH.UploadBase64)
			r.Get("/images/{key}", imageH.Download)
			r.Delete("/images/{key}", imageH.Delete)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireAdmin())

				r.Get("/people", personH.List)
				r.Delete("/people/{id}", personH.Delete)
				r.Get("/people/{id}/audit-events", adminH.AuditTrail)

				r.Post("/projects", projectH.Create)
				r.Put("/projects/{id}", projectH.Update)
				r.Delete("/projects/{id}", projectH.Delete)
				r.Get("/projects/{id}/subscriptions", subscriptionH.ListByProject)

				r.Put("/subscriptions/{id}", subscriptionH.Update)
				r.Delete("/subscriptions/{id}", subscriptionH.Delete)

				r.Get("/admin/stats", adminH.Stats)
			})
		})
	})

	return r
}
