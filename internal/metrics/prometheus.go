package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

// Outcome labels.
const (
	OutcomeSuccess      = "success"
	OutcomeCanceled     = "canceled"
	OutcomePrecondition = "precondition"
	OutcomeError        = "error"
)

// Recorder exports multiplication metrics on its own registry. It satisfies
// the engine's Recorder interface.
type Recorder struct {
	registry *prometheus.Registry
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
}

// NewRecorder returns a Recorder whose registry also carries the Go runtime
// and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matcalc",
			Name:      "multiplications_total",
			Help:      "Multiplications attempted, by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "matcalc",
			Name:      "multiplication_duration_seconds",
			Help:      "Wall time of successful multiplications.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"strategy"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matcalc",
			Name:      "rows_computed_total",
			Help:      "Output rows produced by successful multiplications.",
		}, []string{"strategy"}),
	}
	r.registry.MustRegister(
		r.total, r.duration, r.rows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveMultiplication records one multiplication.
func (r *Recorder) ObserveMultiplication(strategy string, dim int, d time.Duration, err error) {
	outcome := classify(err)
	r.total.WithLabelValues(strategy, outcome).Inc()
	if outcome == OutcomeSuccess {
		r.duration.WithLabelValues(strategy).Observe(d.Seconds())
		r.rows.WithLabelValues(strategy).Add(float64(dim))
	}
}

func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case apperrors.IsContextError(err):
		return OutcomeCanceled
	case apperrors.IsPreconditionError(err):
		return OutcomePrecondition
	default:
		return OutcomeError
	}
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler returns an HTTP handler exposing the registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Server serves /metrics until its context is cancelled.
type Server struct {
	srv      *http.Server
	listener net.Listener
	logger   zerolog.Logger
}

// Listen binds addr and prepares a server for r's metrics.
func Listen(addr string, r *Recorder, logger zerolog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, apperrors.WrapError(err, "metrics listener on %s", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return &Server{
		srv:      &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		listener: ln,
		logger:   logger,
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Serve blocks until ctx is done, then shuts the server down.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(s.listener) }()
	s.logger.Info().Str("addr", s.Addr()).Msg("serving metrics")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
