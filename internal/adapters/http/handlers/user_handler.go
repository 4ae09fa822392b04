package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// UserHandler handles HTTP requests for user actions. Every response body is
// a dto.Envelope whose status code follows the envelope's kind.
type UserHandler struct {
	actions ports.UserActions
}

// NewUserHandler creates a new UserHandler backed by the given actions.
func NewUserHandler(actions ports.UserActions) *UserHandler {
	return &UserHandler{actions: actions}
}

// CreateUser handles POST /api/v1/users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeJSONBody[dto.UserResponse](w, r, &req) {
		return
	}

	env := dto.FromResult(h.actions.Create(r.Context(), req.ToInput()), dto.ToUserResponse)
	if env.Success {
		w.Header().Set("Location", r.URL.Path+"/"+env.Entity.ID)
	}
	writeEnvelope(w, r, env, http.StatusCreated)
}

// ListUsers handles GET /api/v1/users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter, field, msg := parseFilter(r)
	if field != "" {
		writeEnvelope(w, r, dto.InvalidRequest[dto.UserListResponse](field, msg), http.StatusOK)
		return
	}

	env := dto.FromResult(h.actions.List(r.Context(), filter), dto.ToUserListResponse)
	writeEnvelope(w, r, env, http.StatusOK)
}

// GetUser handles GET /api/v1/users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	env := dto.FromResult(h.actions.Get(r.Context(), chi.URLParam(r, "id")), dto.ToUserResponse)
	writeEnvelope(w, r, env, http.StatusOK)
}

// UpdateUser handles PATCH /api/v1/users/{id}.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if !decodeJSONBody[dto.UserResponse](w, r, &req) {
		return
	}

	res := h.actions.Update(r.Context(), chi.URLParam(r, "id"), req.ToPatch())
	writeEnvelope(w, r, dto.FromResult(res, dto.ToUserResponse), http.StatusOK)
}

// DeleteUser handles DELETE /api/v1/users/{id}.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	env := dto.FromResult(h.actions.Delete(r.Context(), chi.URLParam(r, "id")), dto.ToUserResponse)
	writeEnvelope(w, r, env, http.StatusOK)
}

// ImportUsers handles POST /api/v1/users/import. A non-atomic import
// answers 200 even when some items failed; the per-item envelopes say which.
func (h *UserHandler) ImportUsers(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportUsersRequest
	if !decodeJSONBody[dto.ImportResponse](w, r, &req) {
		return
	}

	res := h.actions.Import(r.Context(), req.Inputs(), req.Atomic)
	writeEnvelope(w, r, dto.FromResult(res, dto.ToImportResponse), http.StatusOK)
}
