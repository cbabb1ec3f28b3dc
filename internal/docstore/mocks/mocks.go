package mocks

import (
	"context"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/stretchr/testify/mock"
)

// Store is a mock for docstore.Store.
type Store struct {
	mock.Mock
}

func (m *Store) Create(ctx context.Context, ns docstore.Namespace, collection string, fields docstore.Fields) (string, error) {
	args := m.Called(ctx, ns, collection, fields)
	return args.String(0), args.Error(1)
}

func (m *Store) Update(ctx context.Context, ns docstore.Namespace, collection, id string, fields docstore.Fields) error {
	args := m.Called(ctx, ns, collection, id, fields)
	return args.Error(0)
}

func (m *Store) Delete(ctx context.Context, ns docstore.Namespace, collection, id string) error {
	args := m.Called(ctx, ns, collection, id)
	return args.Error(0)
}

func (m *Store) Subscribe(ctx context.Context, ns docstore.Namespace, q docstore.Query) (*docstore.Subscription, error) {
	args := m.Called(ctx, ns, q)
	if sub, ok := args.Get(0).(*docstore.Subscription); ok {
		return sub, args.Error(1)
	}
	return nil, args.Error(1)
}
