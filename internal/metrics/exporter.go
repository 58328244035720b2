package metrics

import (
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/kubev2v/taskpool/pkg/scheduler"
)

const defaultNamespace = "taskpool"

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// Exporter adapts scheduler.Metrics to Prometheus collectors.
type Exporter struct {
	taskOutcomeTotal    *prom.CounterVec
	taskDurationSeconds *prom.HistogramVec
	taskRetryTotal      *prom.CounterVec
	workerEventTotal    *prom.CounterVec
	workers             prom.Gauge
	busyWorkers         prom.Gauge
	queueDepth          prom.Gauge
}

var _ scheduler.Metrics = (*Exporter)(nil)

// NewExporter creates and registers the pool collectors on reg.
// Registering twice on the same registry reuses the existing collectors.
func NewExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*Exporter, error) {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	outcomeVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_outcome_total",
		Help:      "Total number of settled tasks by outcome.",
	}, []string{"type", "outcome"})
	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Duration of successful task attempts in seconds.",
		Buckets:   buckets,
	}, []string{"type"})
	retryVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_retry_total",
		Help:      "Total number of task retries by reason.",
	}, []string{"type", "reason"})
	workerVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "worker_event_total",
		Help:      "Total number of worker lifecycle events.",
	}, []string{"event"})
	workers := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "workers",
		Help:      "Current number of workers.",
	})
	busy := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "busy_workers",
		Help:      "Current number of workers running an attempt.",
	})
	depth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of queued tasks.",
	})

	var err error
	if outcomeVec, err = registerCollector(reg, outcomeVec); err != nil {
		return nil, err
	}
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if retryVec, err = registerCollector(reg, retryVec); err != nil {
		return nil, err
	}
	if workerVec, err = registerCollector(reg, workerVec); err != nil {
		return nil, err
	}
	if workers, err = registerCollector(reg, workers); err != nil {
		return nil, err
	}
	if busy, err = registerCollector(reg, busy); err != nil {
		return nil, err
	}
	if depth, err = registerCollector(reg, depth); err != nil {
		return nil, err
	}

	return &Exporter{
		taskOutcomeTotal:    outcomeVec,
		taskDurationSeconds: durationVec,
		taskRetryTotal:      retryVec,
		workerEventTotal:    workerVec,
		workers:             workers,
		busyWorkers:         busy,
		queueDepth:          depth,
	}, nil
}

func (e *Exporter) RecordTaskOutcome(taskType string, outcome scheduler.Outcome) {
	if e == nil {
		return
	}
	e.taskOutcomeTotal.WithLabelValues(normalizeLabel(taskType, "unknown"), normalizeLabel(string(outcome), "unknown")).Inc()
}

func (e *Exporter) RecordTaskDuration(taskType string, d time.Duration) {
	if e == nil {
		return
	}
	e.taskDurationSeconds.WithLabelValues(normalizeLabel(taskType, "unknown")).Observe(d.Seconds())
}

func (e *Exporter) RecordRetry(taskType string, reason string) {
	if e == nil {
		return
	}
	e.taskRetryTotal.WithLabelValues(normalizeLabel(taskType, "unknown"), normalizeLabel(reason, "unknown")).Inc()
}

func (e *Exporter) RecordWorkerEvent(event string) {
	if e == nil {
		return
	}
	e.workerEventTotal.WithLabelValues(normalizeLabel(event, "unknown")).Inc()
}

func (e *Exporter) RecordPoolState(workers, busy, queueDepth int) {
	if e == nil {
		return
	}
	e.workers.Set(float64(workers))
	e.busyWorkers.Set(float64(busy))
	e.queueDepth.Set(float64(queueDepth))
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
