package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/user-action-service/internal/app/action"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
	"github.com/jsamuelsen11/user-action-service/mocks"
)

// --- CreateUser ---

func TestCreateUser_Success(t *testing.T) {
	t.Parallel()

	u := validUser()
	actions := mocks.NewMockUserActions(t)
	actions.EXPECT().
		Create(mock.Anything, user.CreateInput{Name: "Ann", Email: "ann@example.com"}).
		Return(action.OK(&u))

	h := handlers.NewUserHandler(actions)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users",
		jsonBody(t, map[string]any{"name": "Ann", "email": "ann@example.com"}))
	h.CreateUser(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	assert.Equal(t, "/api/v1/users/"+testUserID, rec.Header().Get("Location"))

	env := decodeJSON[dto.Envelope[dto.UserResponse]](t, rec)
	assert.True(t, env.Success)
	require.NotNil(t, env.Entity)
	assert.Equal(t, testUserID, env.Entity.ID)
	assert.False(t, env.Entity.EmailVerified)
	assert.Empty(t, env.Error)
}

func TestCreateUser_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		result     action.Result[user.User]
		wantStatus int
	}{
		{
			name:       "validation",
			result:     action.Fail[user.User](action.KindValidation, "Name is required"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "conflict",
			result:     action.Fail[user.User](action.KindConflict, "Failed to create user"),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "backend",
			result:     action.Fail[user.User](action.KindBackend, "Failed to create user"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			actions := mocks.NewMockUserActions(t)
			actions.EXPECT().Create(mock.Anything, mock.Anything).Return(tt.result)

			h := handlers.NewUserHandler(actions)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users",
				jsonBody(t, map[string]any{"name": "", "email": "bad"}))
			h.CreateUser(rec, req)

			requireStatus(t, rec, tt.wantStatus)
			assert.Empty(t, rec.Header().Get("Location"))

			env := decodeJSON[dto.Envelope[dto.UserResponse]](t, rec)
			assert.False(t, env.Success)
			assert.Nil(t, env.Entity)
			assert.Equal(t, tt.result.Kind, env.Kind)
			assert.Equal(t, tt.result.Error, env.Error)
		})
	}
}

func TestCreateUser_InvalidBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{invalid`},
		{name: "wrong field type", body: `{"name": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			actions := mocks.NewMockUserActions(t)
			h := handlers.NewUserHandler(actions)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(tt.body))
			h.CreateUser(rec, req)

			requireStatus(t, rec, http.StatusBadRequest)
			env := decodeJSON[dto.Envelope[dto.UserResponse]](t, rec)
			assert.Equal(t, action.KindValidation, env.Kind)
			assert.Equal(t, "Invalid request body", env.Error)
		})
	}
}

func TestCreateUser_BodyTooLarge(t *testing.T) {
	t.Parallel()

	actions := mocks.NewMockUserActions(t)
	h := handlers.NewUserHandler(actions)

	body := `{"name":"` + strings.Repeat("a", 1<<20) + `"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	h.CreateUser(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
	env := decodeJSON[dto.Envelope[dto.UserResponse]](t, rec)
	assert.Equal(t, "Request body is too large", env.Error)
}

// --- GetUser ---

func TestGetUser(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		u := validUser()
		actions := mocks.NewMockUserActions(t)
		actions.EXPECT().Get(mock.Anything, testUserID).Return(action.OK(&u))

		h := handlers.NewUserHandler(actions)
		rec := httptest.NewRecorder()
		req := withChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/users/"+testUserID, nil),
			map[string]string{"id": testUserID})
		h.GetUser(rec, req)

		requireStatus(t, rec, http.StatusOK)
		env := decodeJSON[dto.Envelope[dto.UserResponse]](t, rec)
		assert.True(t, env.Success)
		require.NotNil(t, env.Entity)
		assert.Equal(t, "2026-02-12T15:04:05.000Z", env.Entity.CreatedAt)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		actions := mocks.NewMockUserActions(t)
		actions.EXPECT().Get(mock.Anything, "missing").
			Return(action.Fail[user.User](action.KindNotFound, "User not found"))

		h := handlers.NewUserHandler(actions)
		rec := httptest.NewRecorder()
		req := withChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/users/missing", nil),
			map[string]string{"id": "missing"})
		h.GetUser(rec, req)

		requireStatus(t, rec, http.StatusNotFound)
		env := decodeJSON[dto.Envelope[dto.UserResponse]](t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "User not found", env.Error)
		assert.Nil(t, env.Entity)
	})
}

// --- UpdateUser ---

func TestUpdateUser_PassesPatch(t *testing.T) {
	t.Parallel()

	u := validUser()
	u.Name = "Annie"
	actions := mocks.NewMockUserActions(t)
	actions.EXPECT().
		Update(mock.Anything, testUserID, mock.MatchedBy(func(p user.Patch) bool {
			return p.Name != nil && *p.Name == "Annie" &&
				p.EmailVerified != nil && *p.EmailVerified &&
				p.Email == nil && p.Image == nil
		})).
		Return(action.OK(&u))

	h := handlers.NewUserHandler(actions)
	rec := httptest.NewRecorder()
	req := withChiParams(
		httptest.NewRequest(http.MethodPatch, "/api/v1/users/"+testUserID,
			strings.NewReader(`{"name":"Annie","emailVerified":true}`)),
		map[string]string{"id": testUserID})
	h.UpdateUser(rec, req)

	requireStatus(t, rec, http.StatusOK)
	env := decodeJSON[dto.Envelope[dto.UserResponse]](t, rec)
	require.NotNil(t, env.Entity)
	assert.Equal(t, "Annie", env.Entity.Name)
}

func TestUpdateUser_EmptyPatch(t *testing.T) {
	t.Parallel()

	actions := mocks.NewMockUserActions(t)
	actions.EXPECT().Update(mock.Anything, testUserID, user.Patch{}).
		Return(action.Fail[user.User](action.KindValidation, "No fields to update"))

	h := handlers.NewUserHandler(actions)
	rec := httptest.NewRecorder()
	req := withChiParams(
		httptest.NewRequest(http.MethodPatch, "/api/v1/users/"+testUserID, strings.NewReader(`{}`)),
		map[string]string{"id": testUserID})
	h.UpdateUser(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
	env := decodeJSON[dto.Envelope[dto.UserResponse]](t, rec)
	assert.Equal(t, "No fields to update", env.Error)
}

// --- DeleteUser ---

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		result     action.Result[user.User]
		wantStatus int
		wantBody   string
	}{
		{
			name:       "deleted",
			result:     action.OK[user.User](nil),
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true}`,
		},
		{
			name:       "missing",
			result:     action.Fail[user.User](action.KindNotFound, "User not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"success":false,"error":"User not found","kind":"not_found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			actions := mocks.NewMockUserActions(t)
			actions.EXPECT().Delete(mock.Anything, testUserID).Return(tt.result)

			h := handlers.NewUserHandler(actions)
			rec := httptest.NewRecorder()
			req := withChiParams(httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+testUserID, nil),
				map[string]string{"id": testUserID})
			h.DeleteUser(rec, req)

			requireStatus(t, rec, tt.wantStatus)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

// --- ListUsers ---

func TestListUsers_ParsesPaging(t *testing.T) {
	t.Parallel()

	u := validUser()
	actions := mocks.NewMockUserActions(t)
	actions.EXPECT().List(mock.Anything, user.Filter{Limit: 10, Offset: 20}).
		Return(action.OK(&user.Page{Users: []user.User{u}, Total: 21, Limit: 10, Offset: 20}))

	h := handlers.NewUserHandler(actions)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users?limit=10&offset=20", nil)
	h.ListUsers(rec, req)

	requireStatus(t, rec, http.StatusOK)
	env := decodeJSON[dto.Envelope[dto.UserListResponse]](t, rec)
	require.NotNil(t, env.Entity)
	assert.Len(t, env.Entity.Users, 1)
	assert.Equal(t, 21, env.Entity.Total)
}

func TestListUsers_InvalidQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantField string
	}{
		{name: "non-numeric limit", query: "limit=ten", wantField: "limit"},
		{name: "negative offset", query: "offset=-1", wantField: "offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			actions := mocks.NewMockUserActions(t)
			h := handlers.NewUserHandler(actions)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users?"+tt.query, nil)
			h.ListUsers(rec, req)

			requireStatus(t, rec, http.StatusBadRequest)
			env := decodeJSON[dto.Envelope[dto.UserListResponse]](t, rec)
			assert.Contains(t, env.Fields, tt.wantField)
		})
	}
}

// --- ImportUsers ---

func TestImportUsers(t *testing.T) {
	t.Parallel()

	u := validUser()
	actions := mocks.NewMockUserActions(t)
	actions.EXPECT().
		Import(mock.Anything, mock.MatchedBy(func(in []user.CreateInput) bool {
			return len(in) == 2 && in[0].Email == "ann@example.com" && in[1].Email == "taken@example.com"
		}), false).
		Return(action.OK(&ports.ImportReport{
			Items: []action.Result[user.User]{
				action.OK(&u),
				action.Fail[user.User](action.KindConflict, "Failed to create user"),
			},
			Succeeded: 1,
			Failed:    1,
		}))

	h := handlers.NewUserHandler(actions)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/import", jsonBody(t, map[string]any{
		"users": []map[string]any{
			{"name": "Ann", "email": "ann@example.com"},
			{"name": "Tak", "email": "taken@example.com"},
		},
	}))
	h.ImportUsers(rec, req)

	requireStatus(t, rec, http.StatusOK)
	env := decodeJSON[dto.Envelope[dto.ImportResponse]](t, rec)
	require.NotNil(t, env.Entity)
	assert.Equal(t, 1, env.Entity.Succeeded)
	require.Len(t, env.Entity.Items, 2)
	assert.Equal(t, action.KindConflict, env.Entity.Items[1].Kind)
}

func TestImportUsers_AtomicFailure(t *testing.T) {
	t.Parallel()

	actions := mocks.NewMockUserActions(t)
	actions.EXPECT().Import(mock.Anything, mock.Anything, true).
		Return(action.Fail[ports.ImportReport](action.KindConflict, "Failed to import users"))

	h := handlers.NewUserHandler(actions)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/import",
		strings.NewReader(`{"atomic":true,"users":[{"name":"Ann","email":"ann@example.com"}]}`))
	h.ImportUsers(rec, req)

	requireStatus(t, rec, http.StatusConflict)
	env := decodeJSON[dto.Envelope[dto.ImportResponse]](t, rec)
	assert.False(t, env.Success)
	assert.Nil(t, env.Entity)
}
