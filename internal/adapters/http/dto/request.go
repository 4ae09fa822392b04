package dto

import "github.com/jsamuelsen11/user-action-service/internal/domain/user"

// CreateUserRequest represents the JSON body for creating a user. Values are
// passed through untouched; the action layer normalises and validates them.
type CreateUserRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	EmailVerified bool    `json:"emailVerified"`
	Image         *string `json:"image,omitempty"`
}

// ToInput converts the request into the domain create input.
func (r *CreateUserRequest) ToInput() user.CreateInput {
	return user.CreateInput{
		Name:          r.Name,
		Email:         r.Email,
		EmailVerified: r.EmailVerified,
		Image:         r.Image,
	}
}

// UpdateUserRequest represents the JSON body for a partial update.
// All fields are optional; nil means "do not change this field".
type UpdateUserRequest struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	EmailVerified *bool   `json:"emailVerified,omitempty"`
	Image         *string `json:"image,omitempty"`
}

// ToPatch converts the request into a domain patch.
func (r *UpdateUserRequest) ToPatch() user.Patch {
	return user.Patch{
		Name:          r.Name,
		Email:         r.Email,
		EmailVerified: r.EmailVerified,
		Image:         r.Image,
	}
}

// ImportUsersRequest represents the JSON body for a bulk import. With Atomic
// set either every user is created or none is.
type ImportUsersRequest struct {
	Users  []CreateUserRequest `json:"users"`
	Atomic bool                `json:"atomic"`
}

// Inputs converts every entry into a domain create input, in order.
func (r *ImportUsersRequest) Inputs() []user.CreateInput {
	inputs := make([]user.CreateInput, len(r.Users))
	for i := range r.Users {
		inputs[i] = r.Users[i].ToInput()
	}
	return inputs
}
