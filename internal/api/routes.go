package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// SetupRoutes mounts the inspector endpoints and, when stream is non-nil,
// the websocket feed at /ws.
func SetupRoutes(handler *Handler, stream http.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	for _, mw := range SetupMiddleware(handler.logger) {
		r.Use(mw)
	}

	// The websocket upgrade must not get a JSON content type or a timeout.
	if stream != nil {
		r.Handle("/ws", stream)
	}

	r.Group(func(r chi.Router) {
		for _, mw := range JSONMiddleware() {
			r.Use(mw)
		}
		r.Use(render.SetContentType(render.ContentTypeJSON))

		// Health check endpoint
		r.Get("/health", handler.HealthCheck)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/state", handler.GetState)
			r.Get("/terrain", handler.GetTerrain)
			r.Get("/height", handler.GetHeight)
			r.Get("/world", handler.GetWorld)
		})
	})

	return r
}
