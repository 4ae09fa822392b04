package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/jsamuelsen11/user-action-service/internal/platform/config"
)

// CORS returns middleware that answers preflight requests and sets the
// Access-Control-* headers for the configured browser origins. With no
// allowed origins it returns a pass-through.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{headerRequestID, headerCorrelationID, "Location"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
