// Package dto provides the HTTP request bodies, response bodies and result
// envelope for the inbound HTTP adapter layer.
package dto

import (
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// TimeLayout is RFC 3339 with fixed millisecond precision, matching the
// precision stored by every backend.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// UserResponse represents a single user in HTTP responses.
type UserResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	EmailVerified bool    `json:"emailVerified"`
	Image         *string `json:"image,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUserResponse converts a domain User to an HTTP response DTO.
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
		CreatedAt:     u.CreatedAt.UTC().Format(TimeLayout),
		UpdatedAt:     u.UpdatedAt.UTC().Format(TimeLayout),
	}
}

// UserListResponse represents one page of users.
type UserListResponse struct {
	Users  []UserResponse `json:"users"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ToUserListResponse converts a domain Page to an HTTP response DTO.
func ToUserListResponse(p *user.Page) UserListResponse {
	users := make([]UserResponse, len(p.Users))
	for i := range p.Users {
		users[i] = ToUserResponse(&p.Users[i])
	}
	return UserListResponse{
		Users:  users,
		Total:  p.Total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}
}

// ImportResponse holds one envelope per imported user, in request order.
type ImportResponse struct {
	Items     []Envelope[UserResponse] `json:"items"`
	Succeeded int                      `json:"succeeded"`
	Failed    int                      `json:"failed"`
}

// ToImportResponse converts an import report to an HTTP response DTO.
func ToImportResponse(r *ports.ImportReport) ImportResponse {
	items := make([]Envelope[UserResponse], len(r.Items))
	for i, item := range r.Items {
		items[i] = FromResult(item, ToUserResponse)
	}
	return ImportResponse{
		Items:     items,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
	}
}
