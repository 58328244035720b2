package models

import (
	"fmt"
	"time"
)

type TaskOutcome string

const (
	TaskOutcomeCompleted TaskOutcome = "completed"
	TaskOutcomeFailed    TaskOutcome = "failed"
	TaskOutcomeTimedOut  TaskOutcome = "timed_out"
	TaskOutcomeCanceled  TaskOutcome = "canceled"
	TaskOutcomeRejected  TaskOutcome = "rejected"
)

func ParseTaskOutcome(s string) (TaskOutcome, error) {
	switch o := TaskOutcome(s); o {
	case TaskOutcomeCompleted, TaskOutcomeFailed, TaskOutcomeTimedOut, TaskOutcomeCanceled, TaskOutcomeRejected:
		return o, nil
	default:
		return "", fmt.Errorf("invalid task outcome: %s", s)
	}
}

func (o TaskOutcome) Value() string {
	return string(o)
}

// TaskRecord is the persisted trace of a task that reached a terminal state.
type TaskRecord struct {
	ID         int64
	TaskID     string
	Type       string
	Priority   int
	Outcome    TaskOutcome
	Attempts   int
	WorkerID   string
	Duration   time.Duration
	Error      string
	FinishedAt time.Time
}

// TaskTypeStats aggregates the history of one task type.
type TaskTypeStats struct {
	Type            string
	Total           int
	Completed       int
	Failed          int
	AverageDuration time.Duration
}
