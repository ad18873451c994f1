package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adamgarcia4/goLearning/rhocollide/rho"
)

// Metrics exposes a search's live Stats as Prometheus collectors. Every
// collector reads the atomic counters on scrape, so the search goroutines
// never touch Prometheus.
type Metrics struct {
	registry *prometheus.Registry

	// Counters
	trails     prometheus.CounterFunc
	steps      prometheus.CounterFunc
	dropped    prometheus.CounterFunc
	duplicates prometheus.CounterFunc
	attempts   prometheus.CounterFunc

	// Gauges
	tableSize prometheus.GaugeFunc
	phase     prometheus.GaugeFunc
}

// New registers collectors over stats
func New(stats *rho.Stats) *Metrics {
	counter := func(name, help string, read func(rho.StatsSnapshot) int64) prometheus.CounterFunc {
		return prometheus.NewCounterFunc(
			prometheus.CounterOpts{Namespace: "rho", Name: name, Help: help},
			func() float64 { return float64(read(stats.Snapshot())) },
		)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		trails: counter("trails_total", "trails delivered to the coordinator",
			func(s rho.StatsSnapshot) int64 { return s.Trails }),
		steps: counter("walk_steps_total", "walk function applications across all workers",
			func(s rho.StatsSnapshot) int64 { return s.Steps }),
		dropped: counter("dropped_trails_total", "trails abandoned at the step limit",
			func(s rho.StatsSnapshot) int64 { return s.Dropped }),
		duplicates: counter("duplicate_starts_total", "trails ignored because their start was already stored",
			func(s rho.StatsSnapshot) int64 { return s.Duplicates }),
		attempts: counter("attempts_total", "search attempts started",
			func(s rho.StatsSnapshot) int64 { return s.Attempts }),
		tableSize: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "rho",
				Name:      "rendezvous_entries",
				Help:      "distinct distinguished endpoints in the rendezvous table",
			},
			func() float64 { return float64(stats.Snapshot().TableSize) },
		),
		phase: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "rho",
				Name:      "phase",
				Help:      "current search phase (1 searching, 2 collision found, 3 refining, 4 reported, 5 failed)",
			},
			func() float64 { return float64(stats.Phase()) },
		),
	}

	m.registry.MustRegister(
		m.trails,
		m.steps,
		m.dropped,
		m.duplicates,
		m.attempts,
		m.tableSize,
		m.phase,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server serves /metrics until stopped
type Server struct {
	srv *http.Server
	lis net.Listener
}

// Serve binds addr synchronously, so a bad address fails here, then serves in the background
func (m *Metrics) Serve(addr string) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	s := &Server{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		lis: lis,
	}
	// Serve returns http.ErrServerClosed once Stop is called
	go func() { _ = s.srv.Serve(lis) }()
	return s, nil
}

// Addr returns the bound address
func (s *Server) Addr() string {
	return s.lis.Addr().String()
}

// Stop shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
