// Package metrics exposes Prometheus collectors for the passport service.
package metrics

import (
	"database/sql"
	"net/http"
	"strings"

	"passport/config"
	"passport/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist, e.g. in tests.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
}

// sanitizeNamespace maps name onto the metric name alphabet [a-zA-Z0-9_],
// which may not start with a digit.
func sanitizeNamespace(name string) string {
	namespace := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if namespace[0] >= '0' && namespace[0] <= '9' {
		namespace = "_" + namespace
	}

	return namespace
}

// New creates the collectors and registers them with a fresh registry.
func New(cfg *config.Config) *Metrics {
	namespace := "passport"
	if cfg != nil && cfg.Env.ServiceName != "" {
		namespace = sanitizeNamespace(cfg.Env.ServiceName)
	}

	registry := prometheus.NewRegistry()
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Passport store operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	registry.MustRegister(
		operations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:   registry,
		operations: operations,
	}
}

// NewOperationRecorder exposes m as the domain recorder interface.
func NewOperationRecorder(m *Metrics) service.OperationRecorder {
	return m
}

// RecordPassportOperation increments the operation counter.
func (m *Metrics) RecordPassportOperation(operation, outcome string) {
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// RegisterDBStats exports the connection pool statistics of db under dbName.
func (m *Metrics) RegisterDBStats(db *sql.DB, dbName string) error {
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, dbName)); err != nil {
		return errors.Wrap(err, "failed to register database pool collector")
	}

	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
