package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"bullet-hell/internal/config"
	"bullet-hell/internal/game"
	"bullet-hell/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (tag labels only ever take two values)
var (
	// Simulation metrics
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})

	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_ticks_total",
		Help: "Simulation ticks executed",
	})

	bulletsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sim_bullets_active",
		Help: "Bullets currently in flight",
	}, []string{"tag"})

	shotsSpawned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_shots_spawned_total",
		Help: "Bullets activated from a pool",
	}, []string{"tag"})

	shotsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_shots_dropped_total",
		Help: "Shots lost because the pool was exhausted",
	}, []string{"tag"})

	bulletsCulled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_bullets_culled_total",
		Help: "Bullets released after leaving the arena",
	})

	hitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_hits_total",
		Help: "Bullet impacts on health records",
	})

	deathsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_deaths_total",
		Help: "Health records brought to zero",
	})

	roundsOver = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_rounds_over_total",
		Help: "Rounds that reached game over",
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "render_frame_duration_seconds",
		Help:    "Time spent rendering a frame",
		Buckets: []float64{0.005, 0.01, 0.02, 0.033, 0.05, 0.1},
	})

	// Event log metrics
	eventLogTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "event_log_total",
		Help: "Total events logged",
	})

	eventLogDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "event_log_dropped",
		Help: "Events dropped due to rate limiting or buffer full",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter, origin check or token",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "unauthorized", "ws_total_limit", "ws_ip_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern, not the full URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages sent",
	})
)

// MetricsObserver feeds per-tick statistics from the engine into prometheus
type MetricsObserver struct{}

// NewMetricsObserver returns an observer for Engine.SetObserver
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// ObserveTick implements game.Observer
func (MetricsObserver) ObserveTick(duration time.Duration, stats game.TickStats) {
	tickDuration.Observe(duration.Seconds())
	ticksTotal.Inc()

	for _, tag := range []game.Tag{game.TagPlayer, game.TagEnemy} {
		label := tag.String()
		bulletsActive.WithLabelValues(label).Set(float64(stats.Active[tag]))
		if n := stats.Spawned[tag]; n > 0 {
			shotsSpawned.WithLabelValues(label).Add(float64(n))
		}
		if n := stats.Dropped[tag]; n > 0 {
			shotsDropped.WithLabelValues(label).Add(float64(n))
		}
	}

	bulletsCulled.Add(float64(stats.Culled))
	hitsTotal.Add(float64(stats.Hits))
	deathsTotal.Add(float64(stats.Deaths))
	if stats.Phase == game.PhaseGameOver {
		roundsOver.Inc()
	}
}

// NewDebugServer builds the internal observability server.
// The address is forced to localhost unless ALLOW_DEBUG_EXTERNAL=true.
func NewDebugServer(cfg config.DebugConfig) *http.Server {
	addr := cfg.ListenAddr
	if addr != "127.0.0.1:6060" && addr != "localhost:6060" {
		if os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
			logger.Log.WithField("requested", addr).Warn("Debug server forced to localhost")
			addr = "127.0.0.1:6060"
		}
	}

	mux := http.NewServeMux()

	// pprof endpoints for profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = mux
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// RunDebugServer serves the debug endpoints until ctx is cancelled.
// A disabled server returns immediately without error.
func RunDebugServer(ctx context.Context, cfg config.DebugConfig) error {
	if !cfg.Enabled {
		logger.Log.Info("Debug server disabled")
		return nil
	}

	srv := NewDebugServer(cfg)
	logger.Log.WithField("addr", srv.Addr).Info("Debug server starting (pprof, /metrics)")

	return serveUntilDone(ctx, srv)
}

// serveUntilDone runs srv and shuts it down gracefully when ctx ends
func serveUntilDone(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// basicAuthMiddleware adds basic authentication to the handler
func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordRender records render timing for metrics
func RecordRender(duration time.Duration) {
	renderDuration.Observe(duration.Seconds())
}

// UpdateEventLogStats mirrors the event log counters into gauges
func UpdateEventLogStats(total, dropped uint64) {
	eventLogTotal.Set(float64(total))
	eventLogDropped.Set(float64(dropped))
}

// RecordConnectionRejected increments the rejection counter
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments WebSocket message counter
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
