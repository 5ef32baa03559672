package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pah-access/internal/config"
	"pah-access/internal/handler"
	"pah-access/internal/metrics"
	"pah-access/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Status *handler.StatusHandler
	Docs   *handler.DocsHandler
}

// New builds the HTTP surface. m may be nil, in which case no metrics are
// recorded and /metrics is not served.
func New(cfg *config.Config, sessions *middleware.SessionMiddleware, h Handlers, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	inFlight := middleware.NewInFlight()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	if m != nil {
		r.Use(m.Middleware)
		r.Handle("/metrics", m.Handler())
	}

	r.Get("/health", h.Status.Health)
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(sessions.Restore)
		api.Use(inFlight.Guard)

		api.Get("/status", h.Status.Status)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/logout", h.Auth.Logout)
			auth.With(sessions.RequireSession).Get("/session", h.Auth.Session)
		})

		api.Route("/admin/users", func(admin chi.Router) {
			admin.Use(sessions.RequireSession, sessions.RequireAdminPanel)

			admin.Get("/", h.User.List)
			admin.Post("/", h.User.Create)
			admin.Put("/{username}", h.User.Update)
			admin.Delete("/{username}", h.User.Delete)
		})
	})

	return r
}
