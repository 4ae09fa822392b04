// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/platform/validation"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Compile-time check that UserService implements ports.UserService.
var _ ports.UserService = (*UserService)(nil)

// UserService implements ports.UserService on top of a UserRepository. It
// normalises and validates input, assigns IDs and timestamps, and wraps
// repository errors with the operation. Failures are returned, not logged;
// the action boundary logs them once with full detail.
type UserService struct {
	repo      ports.UserRepository
	validator *validation.Validator
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

// ServiceOption configures a UserService.
type ServiceOption func(*UserService)

// WithIDGenerator replaces the UUID v4 generator.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *UserService) { s.newID = fn }
}

// WithClock replaces time.Now for timestamps.
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *UserService) { s.now = fn }
}

// NewUserService creates a UserService. A nil validator gets the default
// schema validator; a nil logger discards output.
func NewUserService(repo ports.UserRepository, v *validation.Validator, logger *slog.Logger, opts ...ServiceOption) *UserService {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &UserService{
		repo:      repo,
		validator: v,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser validates in and persists a new user with a generated ID.
func (s *UserService) CreateUser(ctx context.Context, in user.CreateInput) (*user.User, error) {
	u, err := s.Prepare(in)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "creating user", slog.String("user_id", u.ID))

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("creating user %s: %w", u.ID, err)
	}
	return u, nil
}

// Prepare normalises and validates in and builds the record CreateUser would
// persist, without touching the repository. Bulk imports use it to validate
// a whole batch before writing anything.
func (s *UserService) Prepare(in user.CreateInput) (*user.User, error) {
	in.Normalize()
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}
	u := in.NewUser(s.newID(), s.timestamp())
	return &u, nil
}

// GetUser returns a single user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", id, err)
	}
	return u, nil
}

// UpdateUser validates patch and applies it. An empty patch is rejected
// before the repository is contacted.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch user.Patch) (*user.User, error) {
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, &domain.ValidationError{Message: "No fields to update"}
	}

	patch.Normalize()
	if err := s.validator.Struct(&patch); err != nil {
		return nil, err
	}
	patch.UpdatedAt = s.timestamp()

	s.logger.InfoContext(ctx, "updating user", slog.String("user_id", id))

	u, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("updating user %s: %w", id, err)
	}
	return u, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "deleting user", slog.String("user_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return nil
}

// ListUsers returns a page of users. The filter is clamped to the supported
// paging range.
func (s *UserService) ListUsers(ctx context.Context, filter user.Filter) (*user.Page, error) {
	filter = filter.Normalized()

	page, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return page, nil
}

// timestamp truncates to milliseconds so records compare equal after a
// round trip through any backend.
func (s *UserService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.NewValidationError("id", "User id is required")
	}
	return id, nil
}
