package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/backoffice/internal/identity"
)

// AuthRepository implements identity.Repository for SQLite
type AuthRepository struct {
	db *DB
}

// NewAuthRepository creates a new AuthRepository
func NewAuthRepository(db *DB) *AuthRepository {
	return &AuthRepository{db: db}
}

// GetSession retrieves the stored sign-in for a client
func (r *AuthRepository) GetSession(ctx context.Context, tenantID, clientID string) (*identity.StoredSession, error) {
	query := `
		SELECT user_id, method
		FROM auth_sessions
		WHERE client_id = ? AND tenant_id = ?
	`

	var sess identity.StoredSession
	err := r.db.QueryRowContext(ctx, query, clientID, tenantID).Scan(&sess.UserID, &sess.Method)
	if err == sql.ErrNoRows {
		return nil, identity.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &sess, nil
}

// SaveUser records a user, refreshing last_sign_in if it already exists
func (r *AuthRepository) SaveUser(ctx context.Context, tenantID, userID string, anonymous bool) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_users (id, tenant_id, anonymous, created_at, last_sign_in)
		VALUES (?, ?, ?, ?, ?)
	`, userID, tenantID, anonymous, now, now)
	if err == nil {
		return nil
	}
	if !isUniqueViolation(err) {
		return fmt.Errorf("failed to create user: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE auth_users SET last_sign_in = ?
		WHERE id = ? AND tenant_id = ?
	`, now, userID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// SaveSession stores the sign-in for a client, replacing any previous one
func (r *AuthRepository) SaveSession(ctx context.Context, tenantID, clientID string, sess identity.StoredSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_sessions (client_id, tenant_id, user_id, method, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (client_id, tenant_id) DO UPDATE SET
			user_id = excluded.user_id,
			method = excluded.method,
			created_at = excluded.created_at
	`, clientID, tenantID, sess.UserID, string(sess.Method), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// DeleteSession forgets the sign-in for a client
func (r *AuthRepository) DeleteSession(ctx context.Context, tenantID, clientID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE client_id = ? AND tenant_id = ?`, clientID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
