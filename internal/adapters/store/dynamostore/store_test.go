package dynamostore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/dynamostore"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/storetest"
	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

func TestStore_Conformance(t *testing.T) {
	t.Parallel()
	storetest.Run(t, func(t *testing.T) ports.UserRepository {
		return dynamostore.New(newFakeDynamo(2), "users")
	})
}

func TestStore_Create_WritesEmailMarker(t *testing.T) {
	t.Parallel()
	fake := newFakeDynamo(0)
	store := dynamostore.New(fake, "users")
	u := storetest.NewUser(1, "ann@example.com")

	require.NoError(t, store.Create(context.Background(), u))

	items := fake.snapshot()
	require.Len(t, items, 2)
	marker, ok := items["EMAIL#ann@example.com|EMAIL"]
	require.True(t, ok)
	assert.Equal(t, &types.AttributeValueMemberS{Value: u.ID}, marker["userId"])
	profile := items["USER#"+u.ID+"|PROFILE"]
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1"}, profile["version"])
}

func TestStore_Update_MovesEmailMarker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeDynamo(0)
	store := dynamostore.New(fake, "users")
	u := storetest.NewUser(1, "ann@example.com")
	require.NoError(t, store.Create(ctx, u))

	email := "annie@example.com"
	_, err := store.Update(ctx, u.ID, user.Patch{Email: &email})
	require.NoError(t, err)

	items := fake.snapshot()
	assert.Len(t, items, 2)
	assert.NotContains(t, items, "EMAIL#ann@example.com|EMAIL")
	assert.Contains(t, items, "EMAIL#annie@example.com|EMAIL")
	assert.Equal(t, &types.AttributeValueMemberN{Value: "2"}, items["USER#"+u.ID+"|PROFILE"]["version"])
}

func TestStore_Delete_ReleasesEmailMarker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeDynamo(0)
	store := dynamostore.New(fake, "users")
	u := storetest.NewUser(1, "ann@example.com")
	require.NoError(t, store.Create(ctx, u))

	require.NoError(t, store.Delete(ctx, u.ID))

	assert.Empty(t, fake.snapshot())
}

func TestStore_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantMsg string
	}{
		{
			name:    "missing table is unavailable",
			err:     &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "table not found"},
			wantIs:  domain.ErrUnavailable,
			wantMsg: "ResourceNotFoundException",
		},
		{
			name:    "throttling is unavailable",
			err:     &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"},
			wantIs:  domain.ErrUnavailable,
			wantMsg: "ThrottlingException",
		},
		{
			name:    "other api errors keep their code",
			err:     &smithy.GenericAPIError{Code: "ValidationException", Message: "bad key"},
			wantMsg: "ValidationException",
		},
		{
			name:    "transport errors are wrapped",
			err:     errors.New("dial tcp: connection refused"),
			wantMsg: "dynamodb get user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fake := newFakeDynamo(0)
			fake.fail(tt.err)
			store := dynamostore.New(fake, "users")

			_, err := store.Get(context.Background(), "id-1")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.NotErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestStore_Ping(t *testing.T) {
	t.Parallel()
	fake := newFakeDynamo(0)
	store := dynamostore.New(fake, "users")

	require.NoError(t, store.Ping(context.Background()))

	fake.fail(&smithy.GenericAPIError{Code: "ResourceNotFoundException"})
	assert.ErrorIs(t, store.Ping(context.Background()), domain.ErrUnavailable)
}

func TestOpen_RequiresTable(t *testing.T) {
	t.Parallel()

	_, err := dynamostore.Open(context.Background(), dynamostore.Config{Region: "us-east-1"})
	assert.Error(t, err)
}
