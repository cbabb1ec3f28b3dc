package session_test

import (
	"testing"

	"github.com/rpggio/backoffice/internal/docstore/mocks"
	"github.com/rpggio/backoffice/internal/identity"
	"github.com/rpggio/backoffice/internal/session"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	store := &mocks.Store{}
	sess, err := session.New(store, "app", identity.Result{UserID: "u1", Method: identity.MethodAnonymous}, nil)
	require.NoError(t, err)
	require.Equal(t, "u1", sess.UserID())
	require.Equal(t, "artifacts/app/users/u1/tasks", sess.Namespace.Path("tasks"))
	require.Equal(t, identity.MethodAnonymous, sess.Method)
	require.NotNil(t, sess.Logger)
}

func TestNew_Degraded(t *testing.T) {
	_, err := session.New(&mocks.Store{}, "app", identity.Result{Degraded: true}, nil)
	require.ErrorIs(t, err, session.ErrDemoMode)

	_, err = session.New(&mocks.Store{}, " ", identity.Result{UserID: "u1"}, nil)
	require.ErrorIs(t, err, session.ErrNoTenant)
}
