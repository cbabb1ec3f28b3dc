package docstore

import (
	"context"
	"log/slog"
	"sync"
)

// FetchFunc loads the current result set of a query at a collection path.
type FetchFunc func(ctx context.Context, path string, filters []Filter) ([]Document, error)

// Feed fans committed writes out to live queries. Each subscriber has one
// goroutine that re-runs its query after a change and pushes the full
// result; changes that arrive while a push is pending are coalesced, so the
// subscriber always ends on the latest state and sees pushes in order.
type Feed struct {
	fetch  FetchFunc
	logger *slog.Logger

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*feedSub
}

type feedSub struct {
	path    string
	filters []Filter
	dirty   chan struct{}
	sub     *Subscription
	cancel  context.CancelFunc
}

// NewFeed creates a feed that loads snapshots with fetch.
func NewFeed(fetch FetchFunc, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Feed{
		fetch:  fetch,
		logger: logger,
		subs:   make(map[uint64]*feedSub),
	}
}

// Subscribe registers a live query. The first snapshot is pushed as soon as
// the consumer reads.
func (f *Feed) Subscribe(ns Namespace, q Query) (*Subscription, error) {
	if !ns.Valid() {
		return nil, ErrInvalidNamespace
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	fs := &feedSub{
		path:    ns.Path(q.Collection),
		filters: append([]Filter(nil), q.Filters...),
		dirty:   make(chan struct{}, 1),
		cancel:  cancel,
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	fs.sub = NewSubscription(func() {
		cancel()
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	})
	f.subs[id] = fs
	f.mu.Unlock()

	fs.dirty <- struct{}{}

	go f.run(ctx, fs)

	f.logger.Debug("live query opened", "path", fs.path, "filters", len(fs.filters))
	return fs.sub, nil
}

// Publish marks every live query on path as changed.
func (f *Feed) Publish(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fs := range f.subs {
		if fs.path != path {
			continue
		}
		select {
		case fs.dirty <- struct{}{}:
		default:
		}
	}
}

// Close closes every open subscription.
func (f *Feed) Close() {
	f.mu.Lock()
	subs := make([]*feedSub, 0, len(f.subs))
	for _, fs := range f.subs {
		subs = append(subs, fs)
	}
	f.mu.Unlock()

	for _, fs := range subs {
		fs.sub.Close()
	}
}

// Len returns the number of open subscriptions.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed) run(ctx context.Context, fs *feedSub) {
	for {
		select {
		case <-fs.sub.Done():
			return
		case <-fs.dirty:
		}

		docs, err := f.fetch(ctx, fs.path, fs.filters)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			f.logger.Warn("live query failed", "path", fs.path, "error", err)
		}
		if !fs.sub.Send(Snapshot{Docs: docs, Err: err}) {
			return
		}
	}
}
