package proxy

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sorabridge/internal/infra"
	"sorabridge/internal/middleware"
)

// NewRouter wires the proxy's HTTP surface.
func NewRouter(app *App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.AllowedOrigins))
	}
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/healthz", app.Health)

	r.Route("/api/videos", func(r chi.Router) {
		r.Post("/", app.CreateVideo)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.GetVideo)
			r.Delete("/", app.DeleteVideo)
			r.Post("/remix", app.RemixVideo)
			r.Get("/content", app.DownloadVideoContent)
		})
	})

	return r
}
