package docstore

import "sync"

// Subscription carries the snapshots of one live query. The producer calls
// Send; the consumer reads Updates until Done is closed.
type Subscription struct {
	ch        chan Snapshot
	done      chan struct{}
	closeOnce sync.Once
	onClose   func()
}

// NewSubscription returns an open subscription. onClose, if non-nil, runs
// once when the subscription is closed.
func NewSubscription(onClose func()) *Subscription {
	return &Subscription{
		ch:      make(chan Snapshot),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// Updates returns the snapshot stream.
func (s *Subscription) Updates() <-chan Snapshot {
	return s.ch
}

// Done is closed when the subscription is closed.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Send delivers a snapshot, blocking until it is received or the
// subscription closes. It reports whether the snapshot was delivered.
func (s *Subscription) Send(snap Snapshot) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.ch <- snap:
		return true
	case <-s.done:
		return false
	}
}

// Close stops the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.onClose != nil {
			s.onClose()
		}
	})
}
