package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/almonteweb/listaescolar-backend/internal/config"
	"github.com/almonteweb/listaescolar-backend/internal/transport/middleware"
)

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	Health      *HealthHandler
	Courses     *CourseHandler
	Lists       *ListHandler
	Logger      *slog.Logger
	CORS        config.CORSConfig
	RateLimiter *middleware.RateLimiter
	RateLimit   int
}

// NewRouter builds the HTTP route tree with the standard middleware stack.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.CORS(deps.CORS))
	if deps.RateLimiter != nil && deps.RateLimit > 0 {
		r.Use(deps.RateLimiter.Limit(deps.RateLimit))
	}

	r.Get("/health", deps.Health.Health)
	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", deps.Courses.List)
			r.Post("/", deps.Courses.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/deactivate", deps.Courses.Deactivate)

				r.Get("/list", deps.Lists.GetCurrent)
				r.Get("/versions", deps.Lists.ListVersions)
				r.Post("/items", deps.Lists.AddItem)
				r.Patch("/items/{itemId}", deps.Lists.UpdateItem)
				r.Delete("/items/{itemId}", deps.Lists.RemoveItem)
				r.Post("/reorder", deps.Lists.Reorder)
				r.Post("/import", deps.Lists.Import)
				r.Post("/classify", deps.Lists.Classify)
			})
		})
	})

	return r
}
