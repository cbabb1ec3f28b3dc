package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/docstore/mocks"
	"github.com/rpggio/backoffice/internal/domain/form"
	"github.com/rpggio/backoffice/internal/domain/project"
	"github.com/stretchr/testify/require"
)

var ns = docstore.Namespace{TenantID: "app", UserID: "u1"}

func TestProjectService_CreateValidation(t *testing.T) {
	store := &mocks.Store{}
	svc := project.NewService(store, nil)

	f := form.New(project.Draft{Name: "   "})
	_, err := svc.Save(context.Background(), ns, f)
	require.ErrorIs(t, err, project.ErrInvalidInput)
	require.True(t, f.IsOpen())
	store.AssertNumberOfCalls(t, "Create", 0)
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	store := &mocks.Store{}
	store.On("Create", ctx, ns, "projects", docstore.Fields{"name": "Channel launch"}).Return("p1", nil)

	svc := project.NewService(store, nil)
	f := form.New(project.Draft{Name: " Channel launch "})
	id, err := svc.Save(ctx, ns, f)
	require.NoError(t, err)
	require.Equal(t, "p1", id)
	require.False(t, f.IsOpen())
	store.AssertExpectations(t)
}

func TestProjectService_Rename(t *testing.T) {
	ctx := context.Background()
	store := &mocks.Store{}
	store.On("Update", ctx, ns, "projects", "p1", docstore.Fields{"name": "Renamed"}).Return(nil)

	svc := project.NewService(store, nil)
	_, err := svc.Save(ctx, ns, form.Edit("p1", project.DraftOf(project.Project{ID: "p1", Name: "Renamed"})))
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestProjectService_StoreFailureKeepsFormOpen(t *testing.T) {
	ctx := context.Background()
	store := &mocks.Store{}
	store.On("Create", ctx, ns, "projects", docstore.Fields{"name": "X"}).Return("", errors.New("offline"))

	svc := project.NewService(store, nil)
	f := form.New(project.Draft{Name: "X"})
	_, err := svc.Save(ctx, ns, f)
	require.Error(t, err)
	require.True(t, f.IsOpen())
}

func TestProjectService_DeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	store := &mocks.Store{}
	svc := project.NewService(store, nil)

	deleted, err := svc.Delete(ctx, ns, "p1", form.Answer(false))
	require.NoError(t, err)
	require.False(t, deleted)
	store.AssertNumberOfCalls(t, "Delete", 0)

	store.On("Delete", ctx, ns, "projects", "p1").Return(nil)
	deleted, err = svc.Delete(ctx, ns, "p1", form.Answer(true))
	require.NoError(t, err)
	require.True(t, deleted)
}
