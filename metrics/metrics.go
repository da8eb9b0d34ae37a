// Package metrics exposes live commit/abort counters via Prometheus, so an
// operator can watch abort rate during a run rather than only at the end
// (spec.md §7 allows but does not require this; this repository surfaces it).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds the Prometheus collectors this benchmark publishes.
type Registry struct {
	Commits *prometheus.CounterVec
	Aborts  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New builds a Registry with its own prometheus.Registry, so a benchmark
// process never collides with the default global registry.
func New() *Registry {
	reg := prometheus.NewRegistry()

	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccbench",
		Name:      "commits_total",
		Help:      "Committed transactions, by worker id.",
	}, []string{"worker"})

	aborts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccbench",
		Name:      "aborts_total",
		Help:      "Aborted transactions, by worker id.",
	}, []string{"worker"})

	reg.MustRegister(commits, aborts)

	return &Registry{Commits: commits, Aborts: aborts, registry: reg}
}

// Gatherer exposes the underlying registry for promhttp.HandlerFor.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }
