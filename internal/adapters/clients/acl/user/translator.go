package user

import (
	"fmt"
	"time"

	domainuser "github.com/jsamuelsen11/user-action-service/internal/domain/user"
)

// timeLayout is RFC 3339 with fixed millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// ToDomainUser converts a downstream UserDTO to a domain User. Malformed
// timestamps are reported rather than silently zeroed.
func ToDomainUser(dto *UserDTO) (*domainuser.User, error) {
	createdAt, err := parseTime(dto.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("user %s created_at: %w", dto.ID, err)
	}
	updatedAt, err := parseTime(dto.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("user %s updated_at: %w", dto.ID, err)
	}

	return &domainuser.User{
		ID:            dto.ID,
		Name:          dto.Name,
		Email:         dto.Email,
		EmailVerified: dto.EmailVerified,
		Image:         dto.Image,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// ToDomainPage converts a downstream list response to a domain Page.
func ToDomainPage(dto UserListResponseDTO) (*domainuser.Page, error) {
	page := &domainuser.Page{
		Users:  make([]domainuser.User, 0, len(dto.Users)),
		Total:  int(dto.Total),
		Limit:  int(dto.Limit),
		Offset: int(dto.Offset),
	}
	for i := range dto.Users {
		u, err := ToDomainUser(&dto.Users[i])
		if err != nil {
			return nil, err
		}
		page.Users = append(page.Users, *u)
	}
	return page, nil
}

// ToUserDTO converts a domain User to the downstream create payload. The
// downstream accepts caller-assigned IDs and timestamps.
func ToUserDTO(u *domainuser.User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
		CreatedAt:     formatTime(u.CreatedAt),
		UpdatedAt:     formatTime(u.UpdatedAt),
	}
}

// ToPatchRequest converts a domain Patch to the downstream patch payload.
func ToPatchRequest(p *domainuser.Patch) PatchUserRequestDTO {
	dto := PatchUserRequestDTO{
		Name:          p.Name,
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
		Image:         p.Image,
	}
	if !p.UpdatedAt.IsZero() {
		dto.UpdatedAt = formatTime(p.UpdatedAt)
	}
	return dto
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
