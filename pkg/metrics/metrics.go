package metrics

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/arthur-debert/oukaro/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reconciliation metrics
var (
	// PassesTotal counts reconciliation passes by result (ok, failed)
	PassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oukaro_passes_total",
			Help: "Reconciliation passes by result",
		},
		[]string{"result"},
	)

	// PassDuration tracks how long a pass takes in seconds
	PassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oukaro_pass_duration_seconds",
			Help:    "Reconciliation pass duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// PackageOperationsTotal counts per-package outcomes
	PackageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oukaro_package_operations_total",
			Help: "Per-package reconciliation outcomes by role, operation and outcome",
		},
		[]string{"role", "op", "outcome"},
	)

	// DesiredPackages is the size of the declared set per role
	DesiredPackages = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oukaro_desired_packages",
			Help: "Declared packages per role",
		},
		[]string{"role"},
	)

	// AppliedPackages is the size of the applied snapshot per role
	AppliedPackages = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oukaro_applied_packages",
			Help: "Packages the reconciler believes are injected, per role",
		},
		[]string{"role"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve listens on addr until ctx ends. An empty addr disables the
// endpoint and returns immediately.
func Serve(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ServeListener(ctx, ln)
}

// ServeListener serves the metrics endpoint on ln until ctx ends.
func ServeListener(ctx context.Context, ln net.Listener) error {
	logger := logging.GetLogger("metrics")
	srv := &http.Server{
		Handler:           Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info().Str("addr", ln.Addr().String()).Msg("Serving metrics")

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
