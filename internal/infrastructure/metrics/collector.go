package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"barter_market/internal/domain/entity"
)

const namespace = "barter_market"

const (
	statusOK    = "ok"
	statusError = "error"
)

// Collector хранит метрики синхронизации каталога и расчёта прибыли.
type Collector struct {
	syncRuns        *prometheus.CounterVec
	syncDuration    prometheus.Histogram
	syncItems       prometheus.Counter
	syncBatches     *prometheus.CounterVec
	syncBatchItems  prometheus.Histogram
	skippedRuns     *prometheus.CounterVec
	profitQueries   *prometheus.CounterVec
	profitDuration  prometheus.Histogram
	profitableItems prometheus.Gauge
}

func NewCollector() *Collector {
	return &Collector{
		syncRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "runs_total",
				Help:      "Catalogue sync runs by status",
			},
			[]string{"status"},
		),
		syncDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "run_duration_seconds",
				Help:      "Catalogue sync run duration",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		syncItems: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "items_total",
				Help:      "Items written by committed batches",
			},
		),
		syncBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "batches_total",
				Help:      "Sync batches by status",
			},
			[]string{"status"},
		),
		syncBatchItems: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "batch_items",
				Help:      "Items per sync batch",
				Buckets:   prometheus.LinearBuckets(5, 5, 10), //nolint:mnd
			},
		),
		skippedRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "skipped_runs_total",
				Help:      "Sync triggers dropped because a run was already active",
			},
			[]string{"trigger"},
		),
		profitQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "profit",
				Name:      "queries_total",
				Help:      "Profit queries by status",
			},
			[]string{"status"},
		),
		profitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "profit",
				Name:      "query_duration_seconds",
				Help:      "Profit query duration including the upstream fetch",
				Buckets:   prometheus.DefBuckets,
			},
		),
		profitableItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "profit",
				Name:      "profitable_barters",
				Help:      "Profitable barters in the last successful query",
			},
		),
	}
}

// Register регистрирует все метрики. Повторная регистрация не считается ошибкой.
func (c *Collector) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		c.syncRuns,
		c.syncDuration,
		c.syncItems,
		c.syncBatches,
		c.syncBatchItems,
		c.skippedRuns,
		c.profitQueries,
		c.profitDuration,
		c.profitableItems,
	}

	for _, m := range collectors {
		if err := reg.Register(m); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return fmt.Errorf("reg.Register: %w", err)
		}
	}

	return nil
}

func (c *Collector) ObserveBatch(size int, err error) {
	c.syncBatches.WithLabelValues(status(err)).Inc()
	c.syncBatchItems.Observe(float64(size))
	if err == nil {
		c.syncItems.Add(float64(size))
	}
}

func (c *Collector) ObserveSync(report entity.SyncReport, err error) {
	c.syncRuns.WithLabelValues(status(err)).Inc()
	c.syncDuration.Observe(report.Duration.Seconds())
}

func (c *Collector) ObserveSkippedRun(trigger string) {
	c.skippedRuns.WithLabelValues(trigger).Inc()
}

func (c *Collector) ObserveProfitQuery(_, profitable int, duration time.Duration, err error) {
	c.profitQueries.WithLabelValues(status(err)).Inc()
	c.profitDuration.Observe(duration.Seconds())
	if err == nil {
		c.profitableItems.Set(float64(profitable))
	}
}

func status(err error) string {
	if err != nil {
		return statusError
	}
	return statusOK
}
