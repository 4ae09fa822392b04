package acl

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/clients/acl/user"
	domainuser "github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/platform/httpclient"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Compile-time interface check.
var _ ports.UserRepository = (*UserClient)(nil)

const (
	usersPath  = "/api/v1/users"
	usersRoute = usersPath
	userRoute  = usersPath + "/{id}"
)

// UserClient is the outbound adapter for the downstream Users API. It
// implements [ports.UserRepository] so the action layer can persist through
// another service exactly as it would through a local database.
//
// HTTP errors are mapped to domain errors (ErrNotFound, ErrConflict, ...)
// by [TranslateHTTPError]. The underlying [httpclient.Client] provides
// circuit breaking, rate limiting, retry with exponential backoff, and
// OpenTelemetry tracing for every call.
type UserClient struct {
	req *Requester
}

// NewUserClient creates a UserClient that sends requests through client.
// The client's base URL should point to the downstream API root.
func NewUserClient(client *httpclient.Client, logger *slog.Logger) *UserClient {
	return &UserClient{req: NewRequester(client, logger)}
}

// Create sends POST /api/v1/users with the full record. The user ID doubles
// as the idempotency key so that transport failures can be retried safely.
func (c *UserClient) Create(ctx context.Context, u *domainuser.User) error {
	return c.req.Do(ctx, Call{
		Method:     http.MethodPost,
		Route:      usersRoute,
		Path:       usersPath,
		WantStatus: http.StatusCreated,
		Body:       user.ToUserDTO(u),
		Header:     http.Header{"Idempotency-Key": []string{u.ID}},
	})
}

// Get fetches GET /api/v1/users/{id}. Returns [domain.ErrNotFound] on 404.
func (c *UserClient) Get(ctx context.Context, id string) (*domainuser.User, error) {
	var dto user.UserDTO
	if err := c.req.Do(ctx, Call{
		Method:     http.MethodGet,
		Route:      userRoute,
		Path:       userPath(id),
		WantStatus: http.StatusOK,
		Out:        &dto,
	}); err != nil {
		return nil, err
	}
	return user.ToDomainUser(&dto)
}

// Update sends PATCH /api/v1/users/{id}. The downstream applies the patch
// atomically and returns the updated record.
func (c *UserClient) Update(ctx context.Context, id string, patch domainuser.Patch) (*domainuser.User, error) {
	var dto user.UserDTO
	if err := c.req.Do(ctx, Call{
		Method:     http.MethodPatch,
		Route:      userRoute,
		Path:       userPath(id),
		WantStatus: http.StatusOK,
		Body:       user.ToPatchRequest(&patch),
		Out:        &dto,
	}); err != nil {
		return nil, err
	}
	return user.ToDomainUser(&dto)
}

// Delete sends DELETE /api/v1/users/{id}.
func (c *UserClient) Delete(ctx context.Context, id string) error {
	return c.req.Do(ctx, Call{
		Method:     http.MethodDelete,
		Route:      userRoute,
		Path:       userPath(id),
		WantStatus: http.StatusNoContent,
	})
}

// List fetches GET /api/v1/users?limit=&offset=.
func (c *UserClient) List(ctx context.Context, filter domainuser.Filter) (*domainuser.Page, error) {
	filter = filter.Normalized()

	q := url.Values{}
	q.Set("limit", strconv.Itoa(filter.Limit))
	q.Set("offset", strconv.Itoa(filter.Offset))

	var dto user.UserListResponseDTO
	if err := c.req.Do(ctx, Call{
		Method:     http.MethodGet,
		Route:      usersRoute,
		Path:       usersPath + "?" + q.Encode(),
		WantStatus: http.StatusOK,
		Out:        &dto,
	}); err != nil {
		return nil, err
	}
	return user.ToDomainPage(dto)
}

func userPath(id string) string {
	return usersPath + "/" + url.PathEscape(id)
}

// Name is the health registry key, shared with the client's telemetry.
func (c *UserClient) Name() string {
	return c.req.Name()
}

// HealthCheck reports the Users API from the circuit breaker state without
// a network call.
func (c *UserClient) HealthCheck(ctx context.Context) error {
	return c.req.HealthCheck(ctx)
}
