package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Result is the outcome of identity resolution. Degraded means resolution
// finished without an identity; callers run in demo mode and do not retry.
type Result struct {
	UserID   string
	Method   Method
	Degraded bool
}

// Resolver runs identity resolution once per process and signals readiness
// exactly once, whether or not an identity was established.
type Resolver struct {
	provider       Provider
	bootstrapToken string
	logger         *slog.Logger

	once   sync.Once
	ready  chan struct{}
	result Result
}

// NewResolver creates a resolver. provider may be nil when the auth
// collaborator could not be configured; resolution then degrades.
func NewResolver(provider Provider, bootstrapToken string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		provider:       provider,
		bootstrapToken: strings.TrimSpace(bootstrapToken),
		logger:         logger,
		ready:          make(chan struct{}),
	}
}

// Resolve performs resolution on the first call and returns the cached
// result on later calls.
func (r *Resolver) Resolve(ctx context.Context) Result {
	r.once.Do(func() {
		defer close(r.ready)

		res, err := r.resolve(ctx)
		if err != nil {
			r.logger.Error("identity resolution failed, continuing in demo mode", "error", err)
			r.result = Result{Degraded: true}
			return
		}
		r.result = res
		r.logger.Info("identity ready", "user_id", res.UserID, "method", res.Method)
	})
	<-r.ready
	return r.result
}

// Start runs Resolve in the background.
func (r *Resolver) Start(ctx context.Context) {
	go r.Resolve(ctx)
}

// Ready is closed once resolution has completed.
func (r *Resolver) Ready() <-chan struct{} {
	return r.ready
}

// Result returns the resolution outcome and whether it is available yet.
func (r *Resolver) Result() (Result, bool) {
	select {
	case <-r.ready:
		return r.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until resolution completes or ctx is done.
func (r *Resolver) Wait(ctx context.Context) (Result, error) {
	select {
	case <-r.ready:
		return r.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (r *Resolver) resolve(ctx context.Context) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("auth provider panic: %v", p)
		}
	}()

	if r.provider == nil {
		return Result{}, ErrNoProvider
	}

	sess, err := r.provider.CurrentUser(ctx)
	switch {
	case err == nil && sess.UserID != "":
		return Result{UserID: sess.UserID, Method: MethodSession}, nil
	case err != nil && !errors.Is(err, ErrNoSession):
		return Result{}, err
	}

	if r.bootstrapToken != "" {
		uid, err := r.provider.SignInWithCustomToken(ctx, r.bootstrapToken)
		if err != nil {
			return Result{}, fmt.Errorf("custom token sign-in: %w", err)
		}
		return Result{UserID: uid, Method: MethodCustomToken}, nil
	}

	uid, err := r.provider.SignInAnonymously(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("anonymous sign-in: %w", err)
	}
	return Result{UserID: uid, Method: MethodAnonymous}, nil
}
