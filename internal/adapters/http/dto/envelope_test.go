package dto_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/user-action-service/internal/app/action"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		env      dto.Envelope[dto.UserResponse]
		okStatus int
		want     int
	}{
		{"success uses ok status", dto.Envelope[dto.UserResponse]{Success: true}, http.StatusCreated, http.StatusCreated},
		{"validation maps to 400", dto.Envelope[dto.UserResponse]{Kind: action.KindValidation}, http.StatusOK, http.StatusBadRequest},
		{"not found maps to 404", dto.Envelope[dto.UserResponse]{Kind: action.KindNotFound}, http.StatusOK, http.StatusNotFound},
		{"conflict maps to 409", dto.Envelope[dto.UserResponse]{Kind: action.KindConflict}, http.StatusOK, http.StatusConflict},
		{"backend maps to 500", dto.Envelope[dto.UserResponse]{Kind: action.KindBackend}, http.StatusOK, http.StatusInternalServerError},
		{"missing kind maps to 500", dto.Envelope[dto.UserResponse]{}, http.StatusOK, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := dto.StatusFor(tt.env, tt.okStatus); got != tt.want {
				t.Errorf("StatusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromResult(t *testing.T) {
	t.Parallel()

	t.Run("success converts entity", func(t *testing.T) {
		t.Parallel()
		u := testUser()
		env := dto.FromResult(action.OK(&u), dto.ToUserResponse)

		if !env.Success {
			t.Fatal("Success = false, want true")
		}
		if env.Entity == nil || env.Entity.ID != u.ID {
			t.Errorf("Entity = %+v, want id %q", env.Entity, u.ID)
		}
	})

	t.Run("failure keeps kind and fields", func(t *testing.T) {
		t.Parallel()
		res := action.Fail[int](action.KindValidation, "Name is required")
		res.Fields = map[string]string{"name": "Name is required"}

		called := false
		env := dto.FromResult(res, func(*int) string { called = true; return "" })

		if called {
			t.Error("convert called for a result without entity")
		}
		if env.Entity != nil {
			t.Errorf("Entity = %v, want nil", *env.Entity)
		}
		if env.Kind != action.KindValidation || env.Error != "Name is required" {
			t.Errorf("envelope = %+v", env)
		}
		if env.Fields["name"] != "Name is required" {
			t.Errorf("Fields = %v", env.Fields)
		}
	})
}

func TestEnvelope_JSONShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  dto.Envelope[dto.UserResponse]
		want string
	}{
		{
			name: "delete success has no entity",
			env:  dto.Envelope[dto.UserResponse]{Success: true},
			want: `{"success":true}`,
		},
		{
			name: "failure",
			env:  dto.InvalidRequest[dto.UserResponse]("body", "Invalid request body"),
			want: `{"success":false,"error":"Invalid request body","kind":"validation","fields":{"body":"Invalid request body"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b, err := json.Marshal(tt.env)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("Marshal() = %s, want %s", b, tt.want)
			}
		})
	}
}
