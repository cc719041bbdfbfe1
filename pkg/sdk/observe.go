package agentcommerce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentcommerce",
			Subsystem: "sdk",
			Name:      "calls_total",
			Help:      "Total SDK calls by operation and outcome code.",
		}, []string{"operation", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agentcommerce",
			Subsystem: "sdk",
			Name:      "call_duration_seconds",
			Help:      "SDK call duration in seconds, geocoding included.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or adopts the one already registered,
// so two clients can share a registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("agentcommerce: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("agentcommerce: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// outcome is "ok", the lowercased SearchError code, or a sentinel label.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var se *SearchError
	if errors.As(err, &se) {
		return strings.ToLower(string(se.Code))
	}
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}
	if errors.Is(err, ErrInvalidQuery) {
		return "invalid_query"
	}
	return "error"
}

// observer provides logging and metrics for SDK calls. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(ctx context.Context, op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	code := outcome(err)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(op, code).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("op", op),
		slog.String("code", code),
		slog.Duration("duration", dur),
	}
	if err != nil {
		// Caller-side problems (no location, unknown id) stay at info.
		level := slog.LevelInfo
		if code == "error" || code == "unknown" {
			level = slog.LevelWarn
		}
		o.logger.LogAttrs(ctx, level, "call failed", append(attrs, slog.Any("error", err))...)
		return
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "call completed", attrs...)
}
