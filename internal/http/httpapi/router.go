// Package httpapi assembles the chi router for the public API surface.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/drafterhq/drafter/internal/http/handlers"
	"github.com/drafterhq/drafter/internal/infra"
	"github.com/drafterhq/drafter/internal/middleware"
)

// NewRouter wires routes and middleware around the handler container.
func NewRouter(app *handlers.App, logger infra.Logger, rateLimitPerMin int) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/drafts", func(r chi.Router) {
		r.With(middleware.RateLimit(rateLimitPerMin, time.Minute)).Post("/", app.CreateDraft)
	})

	r.Route("/v1/jobs", func(r chi.Router) {
		r.Get("/{id}", app.GetJob)
		r.Post("/{id}/cancel", app.CancelJob)
		r.Get("/{id}/artifacts.zip", app.DownloadArtifacts)
	})

	return r
}
