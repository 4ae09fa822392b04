package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/platform/validation"
)

func strPtr(s string) *string { return &s }

func requireValidation(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}

func TestStruct_CreateInput(t *testing.T) {
	t.Parallel()
	v := validation.New()

	tests := []struct {
		name        string
		in          user.CreateInput
		wantMessage string
		wantFields  map[string]string
	}{
		{
			name:        "empty name and bad email reports name first",
			in:          user.CreateInput{Name: "", Email: "bad"},
			wantMessage: "Name is required",
			wantFields: map[string]string{
				"name":  "Name is required",
				"email": "Invalid email address",
			},
		},
		{
			name:        "missing email",
			in:          user.CreateInput{Name: "Ann"},
			wantMessage: "Email is required",
			wantFields:  map[string]string{"email": "Email is required"},
		},
		{
			name:        "name too long",
			in:          user.CreateInput{Name: strings.Repeat("a", 101), Email: "a@x.com"},
			wantMessage: "Name must be at most 100 characters",
			wantFields:  map[string]string{"name": "Name must be at most 100 characters"},
		},
		{
			name:        "image must be a url",
			in:          user.CreateInput{Name: "Ann", Email: "a@x.com", Image: strPtr("not a url")},
			wantMessage: "Image must be a valid URL",
			wantFields:  map[string]string{"image": "Image must be a valid URL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := requireValidation(t, v.Struct(&tt.in))
			assert.Equal(t, tt.wantMessage, verr.Message)
			assert.Equal(t, tt.wantFields, verr.Fields)
		})
	}
}

func TestStruct_ValidCreateInput(t *testing.T) {
	t.Parallel()
	v := validation.New()

	in := user.CreateInput{Name: "Ann", Email: "a@x.com", Image: strPtr("https://img.example.com/a.png")}
	assert.NoError(t, v.Struct(&in))
}

func TestStruct_Patch(t *testing.T) {
	t.Parallel()
	v := validation.New()

	tests := []struct {
		name        string
		patch       user.Patch
		wantMessage string
		wantField   string
	}{
		{
			name:        "blank name",
			patch:       user.Patch{Name: strPtr("")},
			wantMessage: "Name must not be empty",
			wantField:   "name",
		},
		{
			name:        "whitespace name",
			patch:       user.Patch{Name: strPtr("   ")},
			wantMessage: "Name must not be empty",
			wantField:   "name",
		},
		{
			name:        "name too long",
			patch:       user.Patch{Name: strPtr(strings.Repeat("b", 101))},
			wantMessage: "Name must be at most 100 characters",
			wantField:   "name",
		},
		{
			name:        "bad email",
			patch:       user.Patch{Email: strPtr("nope")},
			wantMessage: "Invalid email address",
			wantField:   "email",
		},
		{
			name:        "bad image",
			patch:       user.Patch{Image: strPtr("ftp//broken")},
			wantMessage: "Image must be a valid URL",
			wantField:   "image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := requireValidation(t, v.Struct(&tt.patch))
			assert.Equal(t, tt.wantMessage, verr.Message)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestStruct_ValidPatch(t *testing.T) {
	t.Parallel()
	v := validation.New()
	verified := true

	tests := []struct {
		name  string
		patch user.Patch
	}{
		{name: "empty", patch: user.Patch{}},
		{name: "name only", patch: user.Patch{Name: strPtr("Bo")}},
		{name: "email only", patch: user.Patch{Email: strPtr("bo@example.com")}},
		{name: "verified only", patch: user.Patch{EmailVerified: &verified}},
		{
			name: "every field",
			patch: user.Patch{
				Name:          strPtr("Bo"),
				Email:         strPtr("bo@example.com"),
				EmailVerified: &verified,
				Image:         strPtr("https://img.example.com/bo.png"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.NotPanics(t, func() {
				assert.NoError(t, v.Struct(&tt.patch))
			})
		})
	}
}

func TestStruct_NonStructIsProgrammingError(t *testing.T) {
	t.Parallel()
	v := validation.New()

	err := v.Struct(42)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrValidation), "non-struct input must not look like user input failure")
}

func TestVar(t *testing.T) {
	t.Parallel()
	v := validation.New()

	verr := requireValidation(t, v.Var("id", "User id", "", "required"))
	assert.Equal(t, "User id is required", verr.Message)
	assert.Equal(t, map[string]string{"id": "User id is required"}, verr.Fields)

	assert.NoError(t, v.Var("id", "User id", "abc", "required"))
}
