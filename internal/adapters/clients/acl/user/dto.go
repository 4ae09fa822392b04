// Package user implements the Anti-Corruption Layer translators for the
// downstream Users API's user resources.
package user

// UserDTO matches the downstream User schema. Timestamps are RFC 3339 with
// millisecond precision.
type UserDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	EmailVerified bool    `json:"email_verified"`
	Image         *string `json:"image_url,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// PatchUserRequestDTO matches the downstream PatchUserRequest schema.
// Nil means "do not change this field".
type PatchUserRequestDTO struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	EmailVerified *bool   `json:"email_verified,omitempty"`
	Image         *string `json:"image_url,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

// UserListResponseDTO matches the downstream UserListResponse schema.
type UserListResponseDTO struct {
	Users  []UserDTO `json:"users"`
	Total  int64     `json:"total"`
	Limit  int64     `json:"limit"`
	Offset int64     `json:"offset"`
}
