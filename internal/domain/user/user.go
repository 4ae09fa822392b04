// Package user defines the User entity, its create/update inputs, and the
// declarative validation schema carried on those inputs as struct tags.
package user

import (
	"strings"
	"time"
)

// User is a persisted account record. ID is assigned by the action layer at
// creation time, never by the caller.
type User struct {
	ID            string
	Name          string
	Email         string
	EmailVerified bool
	Image         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateInput is the untrusted payload for creating a user. The validate
// tags are the schema; label names the field in human-readable messages.
type CreateInput struct {
	Name          string  `json:"name" label:"Name" validate:"required,max=100"`
	Email         string  `json:"email" label:"Email" validate:"required,email,max=254"`
	EmailVerified bool    `json:"emailVerified"`
	Image         *string `json:"image,omitempty" label:"Image" validate:"omitnil,url,max=2048"`
}

// Normalize trims whitespace and lower-cases the email so that uniqueness
// checks are case-insensitive. It is applied before validation.
func (in *CreateInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Image = trimPtr(in.Image)
}

// NewUser builds a record from a validated input.
func (in *CreateInput) NewUser(id string, now time.Time) User {
	return User{
		ID:            id,
		Name:          in.Name,
		Email:         in.Email,
		EmailVerified: in.EmailVerified,
		Image:         clonePtr(in.Image),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Patch is a partial update. A nil field means "do not change this field".
// UpdatedAt is stamped by the service and never read from callers.
type Patch struct {
	Name          *string   `json:"name,omitempty" label:"Name" validate:"omitnil,notblank,max=100"`
	Email         *string   `json:"email,omitempty" label:"Email" validate:"omitnil,email,max=254"`
	EmailVerified *bool     `json:"emailVerified,omitempty"`
	Image         *string   `json:"image,omitempty" label:"Image" validate:"omitnil,url,max=2048"`
	UpdatedAt     time.Time `json:"-"`
}

// IsEmpty reports whether no updatable field is present.
func (p *Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.EmailVerified == nil && p.Image == nil
}

// Normalize applies the same canonicalisation as CreateInput.Normalize to
// the present fields.
func (p *Patch) Normalize() {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		p.Email = &email
	}
	p.Image = trimPtr(p.Image)
}

// Apply copies the present fields onto u and stamps UpdatedAt when set.
func (p *Patch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.EmailVerified != nil {
		u.EmailVerified = *p.EmailVerified
	}
	if p.Image != nil {
		u.Image = clonePtr(p.Image)
	}
	if !p.UpdatedAt.IsZero() {
		u.UpdatedAt = p.UpdatedAt
	}
}

// Clone returns a deep copy so that stores never share pointers with callers.
func (u *User) Clone() User {
	c := *u
	c.Image = clonePtr(u.Image)
	return c
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
