// Package metrics bridges Grid Store lifecycle hooks to Prometheus collectors.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one pixel wall instance.
type Metrics struct {
	registry *prometheus.Registry

	updates       *prometheus.CounterVec
	loads         *prometheus.CounterVec
	fallbacks     prometheus.Counter
	storeDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixelwall_updates_total",
				Help: "Cell updates by result (ok, rejected).",
			},
			[]string{"result"},
		),
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixelwall_loads_total",
				Help: "Grid loads by outcome (loaded, created, fallback).",
			},
			[]string{"outcome"},
		),
		fallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pixelwall_load_fallbacks_total",
				Help: "Loads that served the default grid because the store was unreadable.",
			},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pixelwall_store_duration_seconds",
				Help:    "Duration of durable store calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "status"},
		),
	}

	m.registry.MustRegister(
		m.updates,
		m.loads,
		m.fallbacks,
		m.storeDuration,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.GridEvent) {
			outcome := "loaded"
			if e.Type == domain.EventGridCreated {
				outcome = "created"
			}
			m.loads.WithLabelValues(outcome).Inc()
		},
		OnFallback: func(ctx context.Context, e *domain.GridEvent) {
			m.loads.WithLabelValues("fallback").Inc()
			m.fallbacks.Inc()
		},
		OnUpdate: func(ctx context.Context, e *domain.CellEvent) {
			m.updates.WithLabelValues("ok").Inc()
		},
		OnReject: func(ctx context.Context, e *domain.CellEvent) {
			m.updates.WithLabelValues("rejected").Inc()
		},
		OnStoreCall: func(ctx context.Context, e *domain.StoreEvent) {
			status := "ok"
			if e.Err != nil {
				status = "error"
			}
			m.storeDuration.WithLabelValues(e.Op, status).Observe(e.Duration.Seconds())
		},
	}
}

// Chain combines several hook sets; each callback runs in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.GridEvent) {
			for _, h := range sets {
				if h.OnLoad != nil {
					h.OnLoad(ctx, e)
				}
			}
		},
		OnFallback: func(ctx context.Context, e *domain.GridEvent) {
			for _, h := range sets {
				if h.OnFallback != nil {
					h.OnFallback(ctx, e)
				}
			}
		},
		OnUpdate: func(ctx context.Context, e *domain.CellEvent) {
			for _, h := range sets {
				if h.OnUpdate != nil {
					h.OnUpdate(ctx, e)
				}
			}
		},
		OnReject: func(ctx context.Context, e *domain.CellEvent) {
			for _, h := range sets {
				if h.OnReject != nil {
					h.OnReject(ctx, e)
				}
			}
		},
		OnStoreCall: func(ctx context.Context, e *domain.StoreEvent) {
			for _, h := range sets {
				if h.OnStoreCall != nil {
					h.OnStoreCall(ctx, e)
				}
			}
		},
	}
}
