package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RequestTimeout bounds every JSON request. The websocket stream is exempt.
const RequestTimeout = 30 * time.Second

// SetupMiddleware returns the middleware shared by every route.
func SetupMiddleware(logger *log.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// Request ID for tracing
		middleware.RequestID,

		// Access log through the application logger
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}),
			NoColor: true,
		}),

		// Recovery middleware
		middleware.Recoverer,

		// CORS middleware; the inspector is read-only
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	}
}

// JSONMiddleware applies to the request/response routes only.
func JSONMiddleware() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// Content type middleware
		middleware.SetHeader("Content-Type", "application/json"),

		// Timeout middleware
		middleware.Timeout(RequestTimeout),
	}
}
