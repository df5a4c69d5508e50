package shopassist

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/shopassist/internal/domain/reply"
)

// Operation names and statuses used in SDK metrics and logs.
const (
	opBuild = "build"
	opAsk   = "ask"

	statusOK       = "ok"
	statusError    = "error"
	statusDegraded = "degraded" // ask answered, but catalog search failed
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	replies    *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopassist",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status (ok, degraded, error).",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shopassist",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopassist",
			Subsystem: "sdk",
			Name:      "replies_total",
			Help:      "Replies returned by Ask, by source, canned rule and retrieval outcome.",
		}, []string{"source", "rule", "outcome"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.replies); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("shopassist: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("shopassist: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// observeBuild records the catalog index build done by New.
func (o *observer) observeBuild(start time.Time, products int, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	status := statusOK
	if err != nil {
		status = statusError
	}
	o.count(opBuild, status, dur)

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("catalog build failed",
			"records", products,
			"duration", dur,
			"error", err,
		)
		return
	}
	o.logger.Info("catalog built", "products", products, "duration", dur)
}

// observeAsk records one reply. A failed catalog search still produces an
// answer, so it is counted as degraded rather than as an error.
func (o *observer) observeAsk(start time.Time, r reply.Reply) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	status := statusOK
	if r.Outcome.IsFailure() {
		status = statusDegraded
	}
	o.count(opAsk, status, dur)
	if o.metrics != nil {
		o.metrics.replies.WithLabelValues(string(r.Source), r.Rule, string(r.Outcome)).Inc()
	}

	if o.logger == nil {
		return
	}
	if status == statusDegraded {
		o.logger.Warn("catalog search degraded",
			"outcome", string(r.Outcome),
			"duration", dur,
		)
		return
	}
	o.logger.Debug("reply",
		"source", string(r.Source),
		"rule", r.Rule,
		"outcome", string(r.Outcome),
		"products", len(r.Products),
		"duration", dur,
	)
}

func (o *observer) count(op, status string, dur time.Duration) {
	if o.metrics == nil {
		return
	}
	o.metrics.operations.WithLabelValues(op, status).Inc()
	o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
}
