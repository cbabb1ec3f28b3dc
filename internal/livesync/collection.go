// Package livesync mirrors live document-store queries into in-memory
// snapshots. A Collection owns at most one subscription at a time and is
// the only writer of its snapshot; readers load immutable snapshots and
// never observe a partial replacement.
package livesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rpggio/backoffice/internal/docstore"
)

// ErrClosed is returned when opening a collection that was torn down.
var ErrClosed = errors.New("collection closed")

// Decoder turns a stored document into an entity.
type Decoder[T any] func(docstore.Document) (T, error)

// DecodeJSON decodes a document through its JSON field names.
func DecodeJSON[T any](doc docstore.Document) (T, error) {
	var out T
	err := doc.Decode(&out)
	return out, err
}

// Scope is the equality filter a subscription is opened with. The zero
// Scope selects the whole collection.
type Scope struct {
	Field string
	Value string
}

// Filtered reports whether the scope carries a complete filter.
func (s Scope) Filtered() bool {
	return s.Field != "" && s.Value != ""
}

func (s Scope) String() string {
	if !s.Filtered() {
		return "*"
	}
	return fmt.Sprintf("%s==%s", s.Field, s.Value)
}

// Snapshot is the in-memory mirror of the last push for one scope.
type Snapshot[T any] struct {
	Items   []T
	Scope   Scope
	Version uint64
	// Loaded is false until the first push for Scope has been applied.
	Loaded bool
}

// Observer receives sync events, for metrics.
type Observer interface {
	SubscriptionOpened(collection string)
	SubscriptionClosed(collection string)
	PushApplied(collection string, items int)
	PushDiscarded(collection string)
	PushFailed(collection string)
}

// Options configures a Collection.
type Options[T any] struct {
	// RequireFilter keeps the collection closed and empty until a filtered
	// scope is supplied.
	RequireFilter bool
	// OnPush runs after every applied push, outside any lock.
	OnPush   func(Snapshot[T])
	Observer Observer
	Logger   *slog.Logger
}

// Collection keeps one in-memory sequence in step with one live query.
type Collection[T any] struct {
	store  docstore.Subscriber
	ns     docstore.Namespace
	name   string
	decode Decoder[T]
	opts   Options[T]
	logger *slog.Logger

	mu      sync.Mutex
	gen     uint64
	sub     *docstore.Subscription
	scope   Scope
	closed  bool
	version uint64
	changed chan struct{}

	snap atomic.Pointer[Snapshot[T]]
	wg   sync.WaitGroup
}

// New creates a collection sync. Nothing is subscribed until Open.
func New[T any](store docstore.Subscriber, ns docstore.Namespace, name string, decode Decoder[T], opts Options[T]) *Collection[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Collection[T]{
		store:   store,
		ns:      ns,
		name:    name,
		decode:  decode,
		opts:    opts,
		logger:  logger.With("collection", name),
		changed: make(chan struct{}),
	}
	c.snap.Store(&Snapshot[T]{Items: []T{}})
	return c
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Open subscribes for scope. Opening the scope that is already open is a
// no-op; any other scope tears the current subscription down first, and
// pushes still in flight from it are discarded.
func (c *Collection[T]) Open(ctx context.Context, scope Scope) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.scope == scope && (c.sub != nil || (c.opts.RequireFilter && !scope.Filtered() && c.snap.Load().Loaded)) {
		return nil
	}

	c.teardownLocked()
	c.scope = scope

	if c.opts.RequireFilter && !scope.Filtered() {
		c.storeLocked(&Snapshot[T]{Items: []T{}, Scope: scope, Loaded: true})
		return nil
	}
	c.storeLocked(&Snapshot[T]{Items: []T{}, Scope: scope})

	q := docstore.Query{Collection: c.name}
	if scope.Filtered() {
		q.Filters = []docstore.Filter{{Field: scope.Field, Value: scope.Value}}
	}
	sub, err := c.store.Subscribe(ctx, c.ns, q)
	if err != nil {
		c.logger.Error("subscribe failed", "scope", scope.String(), "error", err)
		return fmt.Errorf("subscribing to %s: %w", c.name, err)
	}

	c.sub = sub
	gen := c.gen
	c.wg.Add(1)
	go c.pump(sub, gen)

	if c.opts.Observer != nil {
		c.opts.Observer.SubscriptionOpened(c.name)
	}
	c.logger.Debug("subscription opened", "scope", scope.String())
	return nil
}

// Close tears the subscription down permanently and waits for its pump to
// exit. The last snapshot remains readable.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.teardownLocked()
	c.mu.Unlock()

	c.wg.Wait()
}

// Snapshot returns the current snapshot. Items must not be modified.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	return *c.snap.Load()
}

// Changed returns a channel that is closed on the next snapshot change.
func (c *Collection[T]) Changed() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changed
}

// Await blocks until ready reports true for the current snapshot.
func (c *Collection[T]) Await(ctx context.Context, ready func(Snapshot[T]) bool) (Snapshot[T], error) {
	for {
		changed := c.Changed()
		snap := c.Snapshot()
		if ready(snap) {
			return snap, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

func (c *Collection[T]) pump(sub *docstore.Subscription, gen uint64) {
	defer c.wg.Done()
	for {
		select {
		case <-sub.Done():
			return
		case snap := <-sub.Updates():
			c.apply(gen, snap)
		}
	}
}

// apply replaces the snapshot with a push from the subscription of
// generation gen. It reports whether the push was applied.
func (c *Collection[T]) apply(gen uint64, push docstore.Snapshot) bool {
	if push.Err != nil {
		c.logger.Error("live query error, keeping last snapshot", "error", push.Err)
		if c.opts.Observer != nil {
			c.opts.Observer.PushFailed(c.name)
		}
		return false
	}

	items := make([]T, 0, len(push.Docs))
	for _, doc := range push.Docs {
		item, err := c.decode(doc)
		if err != nil {
			c.logger.Warn("skipping undecodable document", "id", doc.ID, "error", err)
			continue
		}
		items = append(items, item)
	}

	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		c.logger.Debug("discarding stale push", "generation", gen)
		if c.opts.Observer != nil {
			c.opts.Observer.PushDiscarded(c.name)
		}
		return false
	}
	snap := &Snapshot[T]{Items: items, Scope: c.scope, Loaded: true}
	c.storeLocked(snap)
	c.mu.Unlock()

	if c.opts.Observer != nil {
		c.opts.Observer.PushApplied(c.name, len(items))
	}
	if c.opts.OnPush != nil {
		c.opts.OnPush(*snap)
	}
	return true
}

func (c *Collection[T]) storeLocked(snap *Snapshot[T]) {
	c.version++
	snap.Version = c.version
	c.snap.Store(snap)
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Collection[T]) teardownLocked() {
	c.gen++
	if c.sub == nil {
		return
	}
	c.sub.Close()
	c.sub = nil
	if c.opts.Observer != nil {
		c.opts.Observer.SubscriptionClosed(c.name)
	}
	c.logger.Debug("subscription closed", "scope", c.scope.String())
}
