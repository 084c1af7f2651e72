package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics счётчики Prometheus для сервисов
type Metrics struct {
	registry       *prometheus.Registry
	browseDuration prometheus.Histogram
	browseResults  prometheus.Histogram
	cacheLookups   *prometheus.CounterVec
	slotsCommitted prometheus.Counter
	bookings       *prometheus.CounterVec
}

// NewMetrics регистрирует коллекторы в отдельном реестре
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		browseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_browse_duration_seconds",
			Help:    "Time spent filtering, sorting and paginating the catalog",
			Buckets: prometheus.DefBuckets,
		}),
		browseResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_browse_results",
			Help:    "Number of lessons matching a catalog query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Catalog cache lookups by result",
		}, []string{"result"}),
		slotsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_slots_committed_total",
			Help: "Booking slots created from calendar drafts",
		}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Bookings by event",
		}, []string{"event"}),
	}

	registry.MustRegister(
		m.browseDuration,
		m.browseResults,
		m.cacheLookups,
		m.slotsCommitted,
		m.bookings,
		collectors.NewGoCollector(),
	)

	return m
}

func (m *Metrics) ObserveBrowse(d time.Duration, items int) {
	m.browseDuration.Observe(d.Seconds())
	m.browseResults.Observe(float64(items))
}

func (m *Metrics) CacheHit()  { m.cacheLookups.WithLabelValues("hit").Inc() }
func (m *Metrics) CacheMiss() { m.cacheLookups.WithLabelValues("miss").Inc() }

func (m *Metrics) SlotsCommitted(n int) { m.slotsCommitted.Add(float64(n)) }

func (m *Metrics) BookingCreated()   { m.bookings.WithLabelValues("created").Inc() }
func (m *Metrics) BookingCancelled() { m.bookings.WithLabelValues("cancelled").Inc() }

// Handler отдаёт метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve поднимает HTTP сервер метрик и останавливает его вместе с ctx
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("Metrics server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
}
