package repository

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "player",
			Subsystem: "db",
			Name:      "operation_duration_seconds",
			Help:      "Repository operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"collection", "operation"},
	)

	opTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "player",
			Subsystem: "db",
			Name:      "operations_total",
			Help:      "Repository operations by outcome",
		},
		[]string{"collection", "operation", "result"},
	)
)

// SlowQueryThreshold is the duration above which an operation is logged.
const SlowQueryThreshold = 100 * time.Millisecond

type callCounterKey struct{}

// WithCallCounter returns a context in which every instrumented operation
// is counted. Concurrent operations under the same context share the count.
func WithCallCounter(ctx context.Context) context.Context {
	return context.WithValue(ctx, callCounterKey{}, new(atomic.Int64))
}

// Calls returns the operations counted under ctx, or 0 without a counter.
func Calls(ctx context.Context) int64 {
	if c, ok := ctx.Value(callCounterKey{}).(*atomic.Int64); ok {
		return c.Load()
	}
	return 0
}

// Instrument records duration and outcome of fn. Not-found is an expected
// outcome on the authorization path and is not logged.
func Instrument[T any](ctx context.Context, collection, operation string, fn func() (T, error)) (T, error) {
	if c, ok := ctx.Value(callCounterKey{}).(*atomic.Int64); ok {
		c.Add(1)
	}

	start := time.Now()
	result, err := fn()
	elapsed := time.Since(start)

	outcome := classifyError(err)
	opDuration.WithLabelValues(collection, operation).Observe(elapsed.Seconds())
	opTotal.WithLabelValues(collection, operation, outcome).Inc()

	attrs := []any{"collection", collection, "operation", operation, "duration_ms", elapsed.Milliseconds()}
	switch {
	case outcome == "not_found" || outcome == "success":
		if elapsed > SlowQueryThreshold {
			slog.WarnContext(ctx, "Slow database operation", attrs...)
		}
	case outcome == "canceled":
		slog.DebugContext(ctx, "Database operation canceled", attrs...)
	default:
		slog.ErrorContext(ctx, "Database operation failed", append(attrs, "error", err)...)
	}
	return result, err
}

// classifyError returns a label-safe outcome for metrics
func classifyError(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateKey):
		return "duplicate_key"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
