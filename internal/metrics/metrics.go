// Package metrics exposes Prometheus instruments for the wizard
// controller. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "apply_wizard"

// Save outcomes.
const (
	OutcomeSaved              = "saved"
	OutcomeInvalid            = "invalid"
	OutcomeError              = "error"
	OutcomeInformationRequest = "information_request"
)

// Metrics holds the controller's instruments.
type Metrics struct {
	registry      *prometheus.Registry
	saves         *prometheus.CounterVec
	saveDuration  *prometheus.HistogramVec
	invalidations prometheus.Counter
	submissions   prometheus.Counter
	fetchErrors   *prometheus.CounterVec
}

// New creates the instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_saves_total",
			Help:      "Page submissions by form, task and outcome.",
		}, []string{"form", "task", "outcome"}),
		saveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_save_duration_seconds",
			Help:      "Time spent handling a page submission.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"form"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_invalidations_total",
			Help:      "Completed reviews cleared by an upstream edit.",
		}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Applications submitted.",
		}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_build_errors_total",
			Help:      "Page construction failures by form and task.",
		}, []string{"form", "task"}),
	}
	reg.MustRegister(m.saves, m.saveDuration, m.invalidations, m.submissions, m.fetchErrors)
	return m
}

// Save records one page submission.
func (m *Metrics) Save(form, task, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(form, task, outcome).Inc()
	m.saveDuration.WithLabelValues(form).Observe(took.Seconds())
}

// Invalidated records a cleared review.
func (m *Metrics) Invalidated() {
	if m == nil {
		return
	}
	m.invalidations.Inc()
}

// Submitted records a submission.
func (m *Metrics) Submitted() {
	if m == nil {
		return
	}
	m.submissions.Inc()
}

// BuildFailed records a page that could not be constructed.
func (m *Metrics) BuildFailed(form, task string) {
	if m == nil {
		return
	}
	m.fetchErrors.WithLabelValues(form, task).Inc()
}

// Registry returns the registry the instruments live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
