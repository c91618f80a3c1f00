package observability

import (
	"context"
	"errors"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes used as the "outcome" label.
const (
	OutcomeApplied   = "applied"
	OutcomeFailed    = "failed"
	OutcomeDiscarded = "discarded"
)

// Service call results used as the "result" label.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultCanceled = "canceled"
)

// Metrics holds the explorer collectors.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	ResetsTotal      prometheus.Counter

	ServiceCallsTotal   *prometheus.CounterVec
	ServiceCallDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "explorer_requests_total",
				Help: "Total number of topic service requests resolved by navigation controllers",
			},
			[]string{"kind", "outcome"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "explorer_request_duration_seconds",
				Help:    "Time from issuing a request to resolving its response",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "explorer_requests_in_flight",
				Help: "Requests issued and not yet resolved",
			},
		),
		ResetsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "explorer_session_resets_total",
				Help: "Total number of session resets",
			},
		),
		ServiceCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "explorer_topic_service_calls_total",
				Help: "Total number of topic service calls",
			},
			[]string{"operation", "result"},
		),
		ServiceCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "explorer_topic_service_call_duration_seconds",
				Help:    "Duration of topic service calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// Hooks returns lifecycle hooks recording controller activity.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	resolved := func(outcome string) func(context.Context, *domain.RequestEvent) {
		return func(_ context.Context, e *domain.RequestEvent) {
			m.RequestsInFlight.Dec()
			m.RequestsTotal.WithLabelValues(string(e.Kind), outcome).Inc()
			m.RequestDuration.WithLabelValues(string(e.Kind)).Observe(e.Duration.Seconds())
		}
	}

	return domain.LifecycleHooks{
		OnRequestIssued: func(context.Context, *domain.RequestEvent) {
			m.RequestsInFlight.Inc()
		},
		OnRequestApplied:    resolved(OutcomeApplied),
		OnRequestFailed:     resolved(OutcomeFailed),
		OnResponseDiscarded: resolved(OutcomeDiscarded),
		OnReset: func(context.Context, *domain.ResetEvent) {
			m.ResetsTotal.Inc()
		},
	}
}

func (m *Metrics) observeCall(operation string, seconds float64, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
		if errors.Is(err, context.Canceled) {
			result = ResultCanceled
		}
	}
	m.ServiceCallsTotal.WithLabelValues(operation, result).Inc()
	m.ServiceCallDuration.WithLabelValues(operation).Observe(seconds)
}
