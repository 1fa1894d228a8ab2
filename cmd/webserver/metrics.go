package main

import (
	"time"

	"studyquiz"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics records request and generation counters for /metrics
type serverMetrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	quizzes     prometheus.Counter
	fallbacks   *prometheus.CounterVec
	emptyInputs prometheus.Counter
	rateLimited prometheus.Counter
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)
	return &serverMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyquiz_http_requests_total",
				Help: "HTTP requests served, by route and status code.",
			},
			[]string{"route", "code"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studyquiz_http_request_duration_seconds",
				Help:    "HTTP request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		quizzes: factory.NewCounter(prometheus.CounterOpts{
			Name: "studyquiz_quizzes_generated_total",
			Help: "Quizzes generated from non-empty input.",
		}),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyquiz_generic_questions_total",
				Help: "Questions filled from generic fallback templates, by kind.",
			},
			[]string{"kind"},
		),
		emptyInputs: factory.NewCounter(prometheus.CounterOpts{
			Name: "studyquiz_empty_inputs_total",
			Help: "Generate requests rejected because the text was empty.",
		}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "studyquiz_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
}

func (m *serverMetrics) observeRequest(route string, code int, d time.Duration) {
	m.requests.WithLabelValues(route, statusLabel(code)).Inc()
	m.latency.WithLabelValues(route).Observe(d.Seconds())
}

func (m *serverMetrics) observeQuiz(q *studyquiz.Quiz) {
	m.quizzes.Inc()
	m.fallbacks.WithLabelValues("essay").Add(float64(q.Stats.GenericEssays))
	m.fallbacks.WithLabelValues("multiple_choice").Add(float64(q.Stats.GenericMC))
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
