package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/backoffice/internal/identity"
	"github.com/stretchr/testify/require"
)

func TestAuthRepository_SessionRoundTrip(t *testing.T) {
	repo := NewAuthRepository(NewTestDB(t))
	ctx := context.Background()

	_, err := repo.GetSession(ctx, "app1", "laptop")
	require.ErrorIs(t, err, identity.ErrNoSession)

	require.NoError(t, repo.SaveUser(ctx, "app1", "u1", true))
	require.NoError(t, repo.SaveSession(ctx, "app1", "laptop", identity.StoredSession{UserID: "u1", Method: identity.MethodAnonymous}))

	sess, err := repo.GetSession(ctx, "app1", "laptop")
	require.NoError(t, err)
	require.Equal(t, "u1", sess.UserID)
	require.Equal(t, identity.MethodAnonymous, sess.Method)

	// Other tenants don't share sessions
	_, err = repo.GetSession(ctx, "app2", "laptop")
	require.ErrorIs(t, err, identity.ErrNoSession)
}

func TestAuthRepository_SaveUserTwice(t *testing.T) {
	repo := NewAuthRepository(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveUser(ctx, "app1", "u1", false))
	require.NoError(t, repo.SaveUser(ctx, "app1", "u1", false))
}

func TestAuthRepository_SaveSessionReplaces(t *testing.T) {
	repo := NewAuthRepository(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveUser(ctx, "app1", "u1", true))
	require.NoError(t, repo.SaveUser(ctx, "app1", "u2", false))
	require.NoError(t, repo.SaveSession(ctx, "app1", "laptop", identity.StoredSession{UserID: "u1", Method: identity.MethodAnonymous}))
	require.NoError(t, repo.SaveSession(ctx, "app1", "laptop", identity.StoredSession{UserID: "u2", Method: identity.MethodCustomToken}))

	sess, err := repo.GetSession(ctx, "app1", "laptop")
	require.NoError(t, err)
	require.Equal(t, "u2", sess.UserID)

	require.NoError(t, repo.DeleteSession(ctx, "app1", "laptop"))
	_, err = repo.GetSession(ctx, "app1", "laptop")
	require.ErrorIs(t, err, identity.ErrNoSession)
}
