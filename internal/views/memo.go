package views

import "sync"

// Memo caches the last result of a builder, keyed on the versions of the
// snapshots it was built from. Builders are pure, so a key match means the
// cached value is still correct.
type Memo[K comparable, V any] struct {
	mu    sync.Mutex
	key   K
	value V
	set   bool
}

// Get returns the cached value for key, building it on a miss.
func (m *Memo[K, V]) Get(key K, build func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set && m.key == key {
		return m.value
	}
	m.value = build()
	m.key = key
	m.set = true
	return m.value
}
