package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// LocalProvider implements Provider on a Repository. Sessions are keyed by
// client id, so a restarted process for the same client signs back in as
// the same user.
type LocalProvider struct {
	repo     Repository
	tenantID string
	clientID string
	verifier *Verifier
	logger   *slog.Logger
}

// NewLocalProvider creates a provider. verifier may be nil, in which case
// custom token sign-in fails with ErrMissingSecret.
func NewLocalProvider(repo Repository, tenantID, clientID string, verifier *Verifier, logger *slog.Logger) *LocalProvider {
	return &LocalProvider{
		repo:     repo,
		tenantID: tenantID,
		clientID: clientID,
		verifier: verifier,
		logger:   logger,
	}
}

// CurrentUser returns the stored session for this client.
func (p *LocalProvider) CurrentUser(ctx context.Context) (StoredSession, error) {
	sess, err := p.repo.GetSession(ctx, p.tenantID, p.clientID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return StoredSession{}, ErrNoSession
		}
		return StoredSession{}, fmt.Errorf("loading session: %w", err)
	}
	return *sess, nil
}

// SignInWithCustomToken verifies token and signs in as its uid.
func (p *LocalProvider) SignInWithCustomToken(ctx context.Context, token string) (string, error) {
	if p.verifier == nil {
		return "", ErrMissingSecret
	}
	uid, err := p.verifier.Verify(token)
	if err != nil {
		return "", err
	}
	if err := p.signIn(ctx, uid, MethodCustomToken, false); err != nil {
		return "", err
	}
	return uid, nil
}

// SignInAnonymously creates a fresh anonymous user.
func (p *LocalProvider) SignInAnonymously(ctx context.Context) (string, error) {
	uid := uuid.NewString()
	if err := p.signIn(ctx, uid, MethodAnonymous, true); err != nil {
		return "", err
	}
	return uid, nil
}

// SignOut forgets the stored session for this client.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	if err := p.repo.DeleteSession(ctx, p.tenantID, p.clientID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (p *LocalProvider) signIn(ctx context.Context, uid string, method Method, anonymous bool) error {
	if err := p.repo.SaveUser(ctx, p.tenantID, uid, anonymous); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	if err := p.repo.SaveSession(ctx, p.tenantID, p.clientID, StoredSession{UserID: uid, Method: method}); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if p.logger != nil {
		p.logger.Info("signed in", "method", method, "user_id", uid)
	}
	return nil
}
