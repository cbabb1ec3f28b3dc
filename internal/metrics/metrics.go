// Package metrics exports store and sync counters to Prometheus.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/backoffice/internal/docstore"
)

const namespace = "backoffice"

// Push outcomes.
const (
	OutcomeApplied = "applied"
	OutcomeStale   = "stale"
	OutcomeError   = "error"
)

// Metrics holds the process collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	writes        *prometheus.CounterVec
	pushes        *prometheus.CounterVec
	subscriptions *prometheus.GaugeVec
}

// New creates the collectors and registers them with the Go runtime
// collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_writes_total",
			Help:      "Document store writes by collection, operation and result.",
		}, []string{"collection", "op", "result"}),
		pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_pushes_total",
			Help:      "Live query pushes by collection and outcome.",
		}, []string{"collection", "outcome"}),
		subscriptions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscriptions_open",
			Help:      "Live query subscriptions currently open.",
		}, []string{"collection"}),
	}
	m.registry.MustRegister(
		m.writes,
		m.pushes,
		m.subscriptions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Writes returns the write counter.
func (m *Metrics) Writes() *prometheus.CounterVec { return m.writes }

// Pushes returns the push counter.
func (m *Metrics) Pushes() *prometheus.CounterVec { return m.pushes }

// Subscriptions returns the open-subscription gauge.
func (m *Metrics) Subscriptions() *prometheus.GaugeVec { return m.subscriptions }

// SubscriptionOpened implements livesync.Observer.
func (m *Metrics) SubscriptionOpened(collection string) {
	m.subscriptions.WithLabelValues(collection).Inc()
}

// SubscriptionClosed implements livesync.Observer.
func (m *Metrics) SubscriptionClosed(collection string) {
	m.subscriptions.WithLabelValues(collection).Dec()
}

// PushApplied implements livesync.Observer.
func (m *Metrics) PushApplied(collection string, _ int) {
	m.pushes.WithLabelValues(collection, OutcomeApplied).Inc()
}

// PushDiscarded implements livesync.Observer.
func (m *Metrics) PushDiscarded(collection string) {
	m.pushes.WithLabelValues(collection, OutcomeStale).Inc()
}

// PushFailed implements livesync.Observer.
func (m *Metrics) PushFailed(collection string) {
	m.pushes.WithLabelValues(collection, OutcomeError).Inc()
}

// InstrumentStore wraps a store so every write is counted.
func (m *Metrics) InstrumentStore(store docstore.Store) docstore.Store {
	return &instrumentedStore{Store: store, writes: m.writes}
}

type instrumentedStore struct {
	docstore.Store
	writes *prometheus.CounterVec
}

func (s *instrumentedStore) Create(ctx context.Context, ns docstore.Namespace, collection string, fields docstore.Fields) (string, error) {
	id, err := s.Store.Create(ctx, ns, collection, fields)
	s.observe(collection, "create", err)
	return id, err
}

func (s *instrumentedStore) Update(ctx context.Context, ns docstore.Namespace, collection, id string, fields docstore.Fields) error {
	err := s.Store.Update(ctx, ns, collection, id, fields)
	s.observe(collection, "update", err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, ns docstore.Namespace, collection, id string) error {
	err := s.Store.Delete(ctx, ns, collection, id)
	s.observe(collection, "delete", err)
	return err
}

func (s *instrumentedStore) observe(collection, op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	s.writes.WithLabelValues(collection, op, result).Inc()
}
