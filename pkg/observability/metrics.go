package observability

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the planner's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	ScreenVisits *prometheus.CounterVec
	Quotes       *prometheus.CounterVec
	Rejections   *prometheus.CounterVec
	GrandTotal   prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg.
// A nil reg gets a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		ScreenVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecovoyage_screen_visits_total",
				Help: "Total number of screen entries",
			},
			[]string{"screen"},
		),
		Quotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecovoyage_quotes_total",
				Help: "Total number of computed trip breakdowns",
			},
			[]string{"city"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecovoyage_rejections_total",
				Help: "Total number of rejected user actions",
			},
			[]string{"screen", "kind"},
		),
		GrandTotal: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ecovoyage_quote_grand_total_rupees",
				Help:    "Grand total of computed quotes",
				Buckets: prometheus.ExponentialBuckets(5000, 2, 10),
			},
		),
	}
	reg.MustRegister(m.ScreenVisits, m.Quotes, m.Rejections, m.GrandTotal)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks records metrics from planner events.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnScreenEnter: func(_ context.Context, e *domain.ScreenEvent) {
			m.ScreenVisits.WithLabelValues(string(e.Screen)).Inc()
		},
		OnQuote: func(_ context.Context, e *domain.QuoteEvent) {
			m.Quotes.WithLabelValues(e.Breakdown.City).Inc()
			m.GrandTotal.Observe(float64(e.Breakdown.GrandTotal))
		},
		OnRejected: func(_ context.Context, e *domain.RejectedEvent) {
			m.Rejections.WithLabelValues(string(e.Screen), e.Kind).Inc()
		},
	}
}

// LogHooks logs every planner event at info level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnScreenEnter: func(ctx context.Context, e *domain.ScreenEvent) {
			logger.InfoContext(ctx, "screen_enter", "session_id", e.SessionID, "screen", e.Screen, "event", e.Cause)
		},
		OnScreenLeave: func(ctx context.Context, e *domain.ScreenEvent) {
			logger.DebugContext(ctx, "screen_leave", "session_id", e.SessionID, "screen", e.Screen)
		},
		OnQuote: func(ctx context.Context, e *domain.QuoteEvent) {
			logger.InfoContext(ctx, "quote",
				"session_id", e.SessionID,
				"city", e.Breakdown.City,
				"grand_total", e.Breakdown.GrandTotal,
			)
		},
		OnRejected: func(ctx context.Context, e *domain.RejectedEvent) {
			logger.InfoContext(ctx, "rejected", "session_id", e.SessionID, "screen", e.Screen, "kind", e.Kind)
		},
	}
}
