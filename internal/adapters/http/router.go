// Package http is the inbound HTTP adapter: the user routes, the health
// probes and the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/user-action-service/internal/app/action"
)

// UsersPath is the collection route of the user endpoints.
const UsersPath = "/api/v1/users"

// NewRouter mounts the user and health endpoints behind middlewares, which
// run outermost first. Unknown routes and methods still answer with an
// envelope so clients can branch on kind.
func NewRouter(
	users *handlers.UserHandler,
	health *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		_ = dto.Write(w, http.StatusNotFound, dto.Failure(action.KindNotFound, "Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = dto.Write(w, http.StatusMethodNotAllowed,
			dto.Failure(action.KindValidation, r.Method+" is not supported on "+r.URL.Path))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", health.Liveness)
		r.Get("/ready", health.Readiness)
	})

	r.Route(UsersPath, func(r chi.Router) {
		r.Get("/", users.ListUsers)
		r.Post("/", users.CreateUser)
		r.Post("/import", users.ImportUsers)
		r.Get("/{id}", users.GetUser)
		r.Patch("/{id}", users.UpdateUser)
		r.Delete("/{id}", users.DeleteUser)
	})

	return r
}
