// Package dashboard composes one user's live collections, selections and
// mutation services. It is the only place derived views are built, always
// from the current snapshots.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rpggio/backoffice/internal/domain/contact"
	"github.com/rpggio/backoffice/internal/domain/flowchart"
	"github.com/rpggio/backoffice/internal/domain/ledger"
	"github.com/rpggio/backoffice/internal/domain/project"
	"github.com/rpggio/backoffice/internal/domain/task"
	"github.com/rpggio/backoffice/internal/livesync"
	"github.com/rpggio/backoffice/internal/session"
	"github.com/rpggio/backoffice/internal/views"
	"golang.org/x/sync/errgroup"
)

// Options configures a Dashboard.
type Options struct {
	// Observer receives sync events from every collection.
	Observer livesync.Observer
	// Now overrides the clock used for default transaction dates.
	Now func() time.Time
}

// Dashboard is the live state of one session.
type Dashboard struct {
	sess   *session.Session
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	projectSvc   *project.Service
	taskSvc      *task.Service
	contactSvc   *contact.Service
	ledgerSvc    *ledger.Service
	flowchartSvc *flowchart.Service

	projects     *livesync.Collection[project.Project]
	tasks        *livesync.Collection[task.Task]
	projectTasks *livesync.Collection[task.Task]
	contacts     *livesync.Collection[contact.Contact]
	transactions *livesync.Collection[ledger.Transaction]
	flowcharts   *livesync.Collection[flowchart.Flowchart]

	selectedProject   *livesync.Selection
	selectedFlowchart *livesync.Selection

	// scopeMu serializes reopening the project task sync so the last
	// selection change always wins.
	scopeMu sync.Mutex

	changeMu sync.Mutex
	changed  chan struct{}

	overview views.Memo[[3]uint64, views.Overview]
	board    views.Memo[uint64, views.Board]

	closeOnce sync.Once
}

// New wires the collections for sess. Nothing is subscribed until Start.
func New(sess *session.Session, opts Options) *Dashboard {
	logger := sess.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())

	d := &Dashboard{
		sess:         sess,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		projectSvc:   project.NewService(sess.Store, logger),
		taskSvc:      task.NewService(sess.Store, logger),
		contactSvc:   contact.NewService(sess.Store, logger),
		ledgerSvc:    ledger.NewService(sess.Store, logger),
		flowchartSvc: flowchart.NewService(sess.Store, logger),
		changed:      make(chan struct{}),
	}
	if opts.Now != nil {
		d.ledgerSvc.WithClock(opts.Now)
	}

	d.selectedProject = livesync.NewSelection(func(string) { d.syncProjectTasks() })
	d.selectedFlowchart = livesync.NewSelection(func(string) { d.broadcast() })

	store, ns := sess.Store, sess.Namespace
	d.projects = livesync.New(store, ns, project.Collection, livesync.DecodeJSON[project.Project], livesync.Options[project.Project]{
		OnPush: func(s livesync.Snapshot[project.Project]) {
			if len(s.Items) > 0 {
				d.selectedProject.Offer(s.Items[0].ID)
			}
			d.broadcast()
		},
		Observer: opts.Observer,
		Logger:   logger,
	})
	d.flowcharts = livesync.New(store, ns, flowchart.Collection, livesync.DecodeJSON[flowchart.Flowchart], livesync.Options[flowchart.Flowchart]{
		OnPush: func(s livesync.Snapshot[flowchart.Flowchart]) {
			if len(s.Items) > 0 {
				d.selectedFlowchart.Offer(s.Items[0].ID)
			}
			d.broadcast()
		},
		Observer: opts.Observer,
		Logger:   logger,
	})
	d.tasks = livesync.New(store, ns, task.Collection, livesync.DecodeJSON[task.Task], livesync.Options[task.Task]{
		OnPush:   func(livesync.Snapshot[task.Task]) { d.broadcast() },
		Observer: opts.Observer,
		Logger:   logger,
	})
	d.projectTasks = livesync.New(store, ns, task.Collection, livesync.DecodeJSON[task.Task], livesync.Options[task.Task]{
		RequireFilter: true,
		OnPush:        func(livesync.Snapshot[task.Task]) { d.broadcast() },
		Observer:      opts.Observer,
		Logger:        logger.With("scope", "project"),
	})
	d.contacts = livesync.New(store, ns, contact.Collection, livesync.DecodeJSON[contact.Contact], livesync.Options[contact.Contact]{
		OnPush:   func(livesync.Snapshot[contact.Contact]) { d.broadcast() },
		Observer: opts.Observer,
		Logger:   logger,
	})
	d.transactions = livesync.New(store, ns, ledger.Collection, livesync.DecodeJSON[ledger.Transaction], livesync.Options[ledger.Transaction]{
		OnPush:   func(livesync.Snapshot[ledger.Transaction]) { d.broadcast() },
		Observer: opts.Observer,
		Logger:   logger,
	})
	return d
}

// Session returns the session the dashboard was built for.
func (d *Dashboard) Session() *session.Session {
	return d.sess
}

// Start opens every unscoped collection, then the project task sync for
// whatever project is selected.
func (d *Dashboard) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error { return d.projects.Open(d.ctx, livesync.Scope{}) })
	g.Go(func() error { return d.tasks.Open(d.ctx, livesync.Scope{}) })
	g.Go(func() error { return d.contacts.Open(d.ctx, livesync.Scope{}) })
	g.Go(func() error { return d.transactions.Open(d.ctx, livesync.Scope{}) })
	g.Go(func() error { return d.flowcharts.Open(d.ctx, livesync.Scope{}) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("opening collections: %w", err)
	}

	d.syncProjectTasks()
	d.logger.Info("dashboard started")
	return nil
}

// Close tears every subscription down. Snapshots stay readable.
func (d *Dashboard) Close() {
	d.closeOnce.Do(func() {
		d.cancel()
		d.projects.Close()
		d.flowcharts.Close()
		d.projectTasks.Close()
		d.tasks.Close()
		d.contacts.Close()
		d.transactions.Close()
		d.broadcast()
		d.logger.Info("dashboard closed")
	})
}

// Changed returns a channel closed on the next change to any snapshot or
// selection.
func (d *Dashboard) Changed() <-chan struct{} {
	d.changeMu.Lock()
	defer d.changeMu.Unlock()
	return d.changed
}

// AwaitChange blocks until cond holds, re-checking after every change.
func (d *Dashboard) AwaitChange(ctx context.Context, cond func() bool) error {
	for {
		changed := d.Changed()
		if cond() {
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Loaded reports whether every open collection has received its first push.
func (d *Dashboard) Loaded() bool {
	return d.projects.Snapshot().Loaded &&
		d.tasks.Snapshot().Loaded &&
		d.projectTasks.Snapshot().Loaded &&
		d.contacts.Snapshot().Loaded &&
		d.transactions.Snapshot().Loaded &&
		d.flowcharts.Snapshot().Loaded
}

// WaitLoaded blocks until Loaded.
func (d *Dashboard) WaitLoaded(ctx context.Context) error {
	return d.AwaitChange(ctx, d.Loaded)
}

func (d *Dashboard) broadcast() {
	d.changeMu.Lock()
	close(d.changed)
	d.changed = make(chan struct{})
	d.changeMu.Unlock()
}

func (d *Dashboard) syncProjectTasks() {
	d.scopeMu.Lock()
	defer d.scopeMu.Unlock()

	scope := livesync.Scope{}
	if id, ok := d.selectedProject.Current(); ok {
		scope = livesync.Scope{Field: task.ProjectField, Value: id}
	}
	if err := d.projectTasks.Open(d.ctx, scope); err != nil && !errors.Is(err, livesync.ErrClosed) {
		d.logger.Error("reopening project tasks failed", "scope", scope.String(), "error", err)
	}
	d.broadcast()
}

func find[T any](items []T, id string, idOf func(T) string) (T, bool) {
	for _, item := range items {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
