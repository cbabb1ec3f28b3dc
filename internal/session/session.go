// Package session carries the handles every dashboard component needs:
// the document store and the namespace of the resolved user. A Session is
// built once identity resolution succeeds and is replaced wholesale, never
// mutated, when the identity changes.
package session

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/identity"
)

var (
	// ErrNotReady is returned while identity resolution is still running.
	ErrNotReady = errors.New("identity resolution has not completed")
	// ErrDemoMode is returned when resolution finished without an identity.
	ErrDemoMode = errors.New("no identity could be established, running in demo mode")
	// ErrNoTenant is returned when the deployment has no tenant id.
	ErrNoTenant = errors.New("tenant id is required")
)

// Session is the immutable context of one signed-in user.
type Session struct {
	Store     docstore.Store
	Namespace docstore.Namespace
	Method    identity.Method
	Logger    *slog.Logger
}

// New builds the session for a resolution result. A degraded result yields
// ErrDemoMode.
func New(store docstore.Store, tenantID string, res identity.Result, logger *slog.Logger) (*Session, error) {
	if res.Degraded || strings.TrimSpace(res.UserID) == "" {
		return nil, ErrDemoMode
	}
	if strings.TrimSpace(tenantID) == "" {
		return nil, ErrNoTenant
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ns := docstore.Namespace{TenantID: tenantID, UserID: res.UserID}
	return &Session{
		Store:     store,
		Namespace: ns,
		Method:    res.Method,
		Logger:    logger.With("tenant_id", tenantID, "user_id", res.UserID),
	}, nil
}

// UserID returns the signed-in user.
func (s *Session) UserID() string {
	return s.Namespace.UserID
}
