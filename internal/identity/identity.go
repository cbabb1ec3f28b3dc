// Package identity establishes the user the dashboard reads and writes as.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrNoSession indicates no previously authenticated session exists.
	ErrNoSession = errors.New("no stored session")
	// ErrInvalidToken indicates a custom token failed verification.
	ErrInvalidToken = errors.New("invalid custom token")
	// ErrMissingSecret indicates custom tokens are used without a signing secret.
	ErrMissingSecret = errors.New("token secret not configured")
	// ErrNoProvider indicates the auth provider could not be initialized.
	ErrNoProvider = errors.New("auth provider unavailable")
)

// Method records how an identity was established.
type Method string

const (
	MethodSession     Method = "session"
	MethodCustomToken Method = "custom_token"
	MethodAnonymous   Method = "anonymous"
)

// StoredSession is a persisted sign-in for one client.
type StoredSession struct {
	UserID string
	Method Method
}

// Provider is the auth collaborator.
type Provider interface {
	// CurrentUser returns the previously authenticated user, or ErrNoSession.
	CurrentUser(ctx context.Context) (StoredSession, error)
	SignInWithCustomToken(ctx context.Context, token string) (string, error)
	SignInAnonymously(ctx context.Context) (string, error)
}

// Repository persists users and client sessions.
type Repository interface {
	GetSession(ctx context.Context, tenantID, clientID string) (*StoredSession, error)
	SaveUser(ctx context.Context, tenantID, userID string, anonymous bool) error
	SaveSession(ctx context.Context, tenantID, clientID string, sess StoredSession) error
	DeleteSession(ctx context.Context, tenantID, clientID string) error
}
