package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/taskpool/internal/models"
	"github.com/kubev2v/taskpool/internal/store"
	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
	"github.com/kubev2v/taskpool/pkg/scheduler"
)

const (
	defaultRecorderBuffer = 1024
	insertTimeout         = 5 * time.Second
)

// HistoryRecorder turns scheduler outcomes into history rows. The hooks run on
// the coordinator goroutine and only hand the record to a buffered channel;
// a background goroutine writes to the store.
type HistoryRecorder struct {
	store   *store.Store
	records chan models.TaskRecord
	done    chan struct{}
	dropped atomic.Int64
	mu      sync.RWMutex
	closed  bool
	log     *zap.SugaredLogger
}

func NewHistoryRecorder(st *store.Store, bufferSize int) *HistoryRecorder {
	if bufferSize <= 0 {
		bufferSize = defaultRecorderBuffer
	}
	r := &HistoryRecorder{
		store:   st,
		records: make(chan models.TaskRecord, bufferSize),
		done:    make(chan struct{}),
		log:     zap.S().Named("history_recorder"),
	}
	go r.run()
	return r
}

// Hooks returns the scheduler hooks feeding this recorder.
func (r *HistoryRecorder) Hooks() scheduler.Hooks {
	return scheduler.Hooks{
		OnSuccess: r.onSuccess,
		OnError:   r.onError,
	}
}

// Dropped returns the number of records lost because the buffer was full.
func (r *HistoryRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops accepting records and waits until the buffered ones are written
// or ctx ends.
func (r *HistoryRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.records)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *HistoryRecorder) onSuccess(res scheduler.Result) {
	r.record(models.TaskRecord{
		TaskID:     res.TaskID,
		Type:       res.Type,
		Priority:   res.Priority,
		Outcome:    models.TaskOutcomeCompleted,
		Attempts:   res.Attempts,
		WorkerID:   res.WorkerID,
		Duration:   res.Duration,
		FinishedAt: time.Now(),
	})
}

func (r *HistoryRecorder) onError(err error, task scheduler.Task) {
	rec := models.TaskRecord{
		TaskID:     task.ID,
		Type:       task.Type,
		Priority:   task.Priority,
		Outcome:    ClassifyError(err),
		FinishedAt: time.Now(),
	}
	if err != nil {
		rec.Error = err.Error()
	}

	var failed *srvErrors.TaskFailedError
	if errors.As(err, &failed) {
		rec.Attempts = failed.Attempts
	}
	var timeout *srvErrors.TaskTimeoutError
	var fault *srvErrors.WorkerFaultError
	switch {
	case errors.As(err, &timeout):
		rec.WorkerID = timeout.WorkerID
	case errors.As(err, &fault):
		rec.WorkerID = fault.WorkerID
	}

	r.record(rec)
}

func (r *HistoryRecorder) record(rec models.TaskRecord) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.dropped.Add(1)
		return
	}
	select {
	case r.records <- rec:
	default:
		r.dropped.Add(1)
		r.log.Warnw("history buffer full, record dropped", "task", rec.TaskID, "outcome", rec.Outcome)
	}
}

func (r *HistoryRecorder) run() {
	defer close(r.done)

	for rec := range r.records {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		if err := r.store.History().Insert(ctx, &rec); err != nil {
			r.log.Errorw("failed to record task outcome", "task", rec.TaskID, "error", err)
		}
		cancel()
	}
}

// ClassifyError maps a terminal task error to a history outcome.
func ClassifyError(err error) models.TaskOutcome {
	switch {
	case errors.Is(err, context.Canceled):
		return models.TaskOutcomeCanceled
	case srvErrors.IsPoolTerminatedError(err),
		srvErrors.IsQueueFullError(err),
		srvErrors.IsInvalidArgumentError(err):
		return models.TaskOutcomeRejected
	case srvErrors.IsTaskTimeoutError(err):
		return models.TaskOutcomeTimedOut
	default:
		return models.TaskOutcomeFailed
	}
}
