// Package metrics exposes Prometheus collectors for the interview pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "interview_coach"

// Metrics reports pipeline activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	questions     *prometheus.CounterVec
	scored        *prometheus.CounterVec
	scores        *prometheus.HistogramVec
	reactions     *prometheus.CounterVec
	aiDuration    *prometheus.HistogramVec
	cache         *prometheus.CounterVec
	activeBatches prometheus.Gauge
	swept         prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "questions",
			Name:      "synthesized_total",
			Help:      "Questions produced, by strategy and origin.",
		}, []string{"strategy", "origin"}),
		scored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "answers_total",
			Help:      "Answers scored, by scoring mode.",
		}, []string{"mode"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "normalized_score",
			Help:      "Answer scores on the 0..10 scale.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}, []string{"mode"}),
		reactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "followup",
			Name:      "reactions_total",
			Help:      "Interviewer reactions, by type and personality.",
		}, []string{"type", "personality"}),
		aiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "call_duration_seconds",
			Help:      "Duration of generation and embedding calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "ideal_answer_cache_total",
			Help:      "Ideal answer cache lookups, by result.",
		}, []string{"result"}),
		activeBatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active_batches",
			Help:      "Scoring batches currently running.",
		}),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "swept_total",
			Help:      "Sessions whose stale transient state was swept.",
		}),
	}

	registry.MustRegister(m.questions, m.scored, m.scores, m.reactions, m.aiDuration, m.cache, m.activeBatches, m.swept)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// QuestionsSynthesized counts a batch split into signal-derived and padded questions.
func (m *Metrics) QuestionsSynthesized(strategy string, derived, padded int) {
	if m == nil {
		return
	}
	m.questions.WithLabelValues(strategy, "derived").Add(float64(derived))
	m.questions.WithLabelValues(strategy, "generic").Add(float64(padded))
}

// AnswerScored records one score on the 0..10 scale.
func (m *Metrics) AnswerScored(mode string, normalized int) {
	if m == nil {
		return
	}
	m.scored.WithLabelValues(mode).Inc()
	m.scores.WithLabelValues(mode).Observe(float64(normalized))
}

func (m *Metrics) Reaction(reactionType, personality string) {
	if m == nil {
		return
	}
	m.reactions.WithLabelValues(reactionType, personality).Inc()
}

// ObserveAICall records the duration of an external call.
func (m *Metrics) ObserveAICall(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.aiDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

// BatchStarted increments the active batch gauge and returns its decrement.
func (m *Metrics) BatchStarted() func() {
	if m == nil {
		return func() {}
	}
	m.activeBatches.Inc()
	return m.activeBatches.Dec
}

func (m *Metrics) Swept(n int) {
	if m == nil {
		return
	}
	m.swept.Add(float64(n))
}
