package user

import "cmp"

// Paging bounds for List.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Filter holds paging criteria for listing users. A zero Limit means
// DefaultLimit.
type Filter struct {
	Limit  int
	Offset int
}

// Normalized clamps the filter into the supported range.
func (f Filter) Normalized() Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Page is one slice of the user listing, ordered by creation time then ID.
type Page struct {
	Users  []User
	Total  int
	Limit  int
	Offset int
}

// CompareCreated orders users by creation time, then by ID. It is the
// listing order every backend uses.
func CompareCreated(a, b User) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
