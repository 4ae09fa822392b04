package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/storetest"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

func TestStore_Conformance(t *testing.T) {
	t.Parallel()
	storetest.Run(t, func(*testing.T) ports.UserRepository { return memory.New() })
}

func TestStore_ReturnsCopies(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	u := storetest.NewUser(1, "ann@example.com")
	require.NoError(t, s.Create(ctx, u))

	// Mutating the caller's value or a returned value must not leak in.
	*u.Image = "https://evil.example.com"
	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "User 1", again.Name)
	assert.Equal(t, "https://img.example.com/1.png", *again.Image)
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Create(ctx, storetest.NewUser(1, "a@x.com")), context.Canceled)
	_, err := s.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
