package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/identity"
	"github.com/rpggio/backoffice/internal/session"
)

// ErrHostClosed is reported by a host after Close.
var ErrHostClosed = errors.New("dashboard host closed")

// Host owns the process dashboard. Until identity resolution completes it
// reports session.ErrNotReady; when resolution degrades it reports
// session.ErrDemoMode for the rest of the process.
type Host struct {
	store    docstore.Store
	tenantID string
	opts     Options
	logger   *slog.Logger

	mu    sync.RWMutex
	dash  *Dashboard
	err   error
	ready chan struct{}
	once  sync.Once
}

// NewHost creates a host that builds dashboards over store for tenantID.
func NewHost(store docstore.Store, tenantID string, opts Options, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{
		store:    store,
		tenantID: tenantID,
		opts:     opts,
		logger:   logger,
		err:      session.ErrNotReady,
		ready:    make(chan struct{}),
	}
}

// Establish waits for identity resolution, then builds and starts the
// dashboard. Failures leave the host in demo mode and are only logged; the
// returned error is non-nil only when ctx ends first.
func (h *Host) Establish(ctx context.Context, resolver *identity.Resolver) error {
	res, err := resolver.Wait(ctx)
	if err != nil {
		return err
	}

	sess, err := session.New(h.store, h.tenantID, res, h.logger)
	if err != nil {
		h.logger.Warn("no session, running in demo mode", "error", err)
		h.set(nil, session.ErrDemoMode)
		return nil
	}

	d := New(sess, h.opts)
	if err := d.Start(ctx); err != nil {
		d.Close()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		h.logger.Error("starting dashboard failed, running in demo mode", "error", err)
		h.set(nil, session.ErrDemoMode)
		return nil
	}

	h.set(d, nil)
	return nil
}

// Dashboard returns the live dashboard, or ErrNotReady / ErrDemoMode.
func (h *Host) Dashboard() (*Dashboard, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dash, h.err
}

// Ready is closed once the host has left the not-ready state.
func (h *Host) Ready() <-chan struct{} {
	return h.ready
}

// Replace swaps in a dashboard built for a new identity, closing the old
// one.
func (h *Host) Replace(d *Dashboard) {
	h.set(d, nil)
}

// Close closes the current dashboard. Afterwards Dashboard reports
// ErrHostClosed.
func (h *Host) Close() {
	h.set(nil, ErrHostClosed)
}

func (h *Host) set(d *Dashboard, err error) {
	h.mu.Lock()
	old := h.dash
	h.dash, h.err = d, err
	h.mu.Unlock()

	if old != nil && old != d {
		old.Close()
	}
	h.once.Do(func() { close(h.ready) })
}
