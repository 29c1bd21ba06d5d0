package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "signals_planner"

// Metrics holds the Prometheus counters, histograms, and gauges for the planner.
type Metrics struct {
	PlansTotal *prometheus.CounterVec // labels: state={ready,need_input,no_pick}

	// Favorites store metrics.
	FavoritesWrites *prometheus.CounterVec // labels: op={add,remove,save}, outcome={success,error}
	FavoritesLoads  *prometheus.CounterVec // labels: outcome={success,empty,corrupt,error}
	FavoritesCount  prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram

	// Overlay metrics.
	OverlayRequests    *prometheus.CounterVec   // labels: outcome={success,error,malformed}
	OverlayCache       *prometheus.CounterVec   // labels: result={hit,miss}
	OverlayFeatures    *prometheus.HistogramVec // labels: kind={traffic_signals,stop}
	OverlayAPIDuration prometheus.Histogram

	// Map drawing and hand-off.
	MapDraws *prometheus.CounterVec // labels: outcome={drawn,need_input,not_found,closed}
	Handoffs *prometheus.CounterVec // labels: app={apple,google,waze}
}

func newMetrics() *Metrics {
	return &Metrics{
		PlansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Plan requests by resulting display state.",
		}, []string{"state"}),
		FavoritesWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorites_writes_total",
			Help:      "Favorites store writes by operation and outcome.",
		}, []string{"op", "outcome"}),
		FavoritesLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorites_loads_total",
			Help:      "Favorites store loads by outcome.",
		}, []string{"outcome"}),
		FavoritesCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "favorites_count",
			Help:      "Number of favorites after the last load or write.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Nominatim request duration in seconds, including rate limit wait.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		OverlayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overlay_requests_total",
			Help:      "Overpass API requests by outcome.",
		}, []string{"outcome"}),
		OverlayCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overlay_cache_total",
			Help:      "Overlay cache lookups by result.",
		}, []string{"result"}),
		OverlayFeatures: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overlay_features",
			Help:      "Overlay features returned per request by kind.",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"kind"}),
		OverlayAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overlay_api_duration_seconds",
			Help:      "Overpass request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}),
		MapDraws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_draws_total",
			Help:      "Map session draws by outcome.",
		}, []string{"outcome"}),
		Handoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handoffs_total",
			Help:      "Navigation hand-off links built by target app.",
		}, []string{"app"}),
	}
}

// NewMetrics creates and registers all planner metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PlansTotal,
		m.FavoritesWrites,
		m.FavoritesLoads,
		m.FavoritesCount,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.OverlayRequests,
		m.OverlayCache,
		m.OverlayFeatures,
		m.OverlayAPIDuration,
		m.MapDraws,
		m.Handoffs,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
