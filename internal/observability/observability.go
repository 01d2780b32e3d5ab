// Package observability runs an optional side HTTP listener exposing
// /healthz and /metrics, entirely separate from the NDJSON protocol on
// stdin/stdout.
package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the counters and gauges the tick loop updates. They live
// independent of any one Server instance so the caller can update them
// even when no side listener is running.
type Metrics struct {
	Ticks      prometheus.Counter
	Commands   prometheus.Counter
	Backlog    prometheus.Gauge
	TickMillis prometheus.Histogram
}

// NewMetrics registers a fresh set of metrics against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "atlantis_ticks_total",
			Help: "Number of snapshot lines processed.",
		}),
		Commands: factory.NewCounter(prometheus.CounterOpts{
			Name: "atlantis_commands_total",
			Help: "Number of commands emitted across all ticks.",
		}),
		Backlog: factory.NewGauge(prometheus.GaugeOpts{
			Name: "atlantis_plan_backlog",
			Help: "Number of pearls with a live execution plan after the most recent tick.",
		}),
		TickMillis: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "atlantis_tick_duration_ms",
			Help:    "Wall-clock time spent computing one tick's commands.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Server is the optional side listener. A nil *Server is valid: Serve on
// it listens on nothing and just waits for its context to be done.
type Server struct {
	httpServer *http.Server
}

// NewServer builds a side listener bound to addr, serving /healthz and
// /metrics (registered against reg).
func NewServer(addr string, reg *prometheus.Registry) *Server {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &Server{httpServer: &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}}
}

// Serve blocks serving the side listener until the process is told to
// shut down (ctx cancellation) or ListenAndServe itself errors. A nil
// Server serves nothing and returns nil once ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		<-ctx.Done()
		return nil
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
