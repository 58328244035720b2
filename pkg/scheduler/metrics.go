package scheduler

import "time"

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCanceled  Outcome = "canceled"
	OutcomeRejected  Outcome = "rejected"
)

const (
	WorkerEventCreated    = "created"
	WorkerEventTerminated = "terminated"
	WorkerEventReclaimed  = "reclaimed"
	WorkerEventFaulted    = "faulted"
)

// Metrics receives observations from the coordinator goroutine.
// Implementations must not block.
type Metrics interface {
	RecordTaskOutcome(taskType string, outcome Outcome)
	RecordTaskDuration(taskType string, d time.Duration)
	RecordRetry(taskType string, reason string)
	RecordWorkerEvent(event string)
	RecordPoolState(workers, busy, queueDepth int)
}

type noopMetrics struct{}

func (noopMetrics) RecordTaskOutcome(string, Outcome) {}
func (noopMetrics) RecordTaskDuration(string, time.Duration) {}
func (noopMetrics) RecordRetry(string, string) {}
func (noopMetrics) RecordWorkerEvent(string) {}
func (noopMetrics) RecordPoolState(int, int, int) {}
