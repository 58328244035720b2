package scheduler

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

// queuedTask is the per task state record. A pending task is in exactly one
// of the queue, the in-flight map (through current) or a retry timer.
type queuedTask struct {
	task       Task
	timeout    time.Duration
	maxRetries int

	seq         uint64
	index       int
	state       TaskState
	attempts    int
	submittedAt time.Time
	enqueuedAt  time.Time
	lastErr     error
	lastWorker  string
	lastElapsed time.Duration

	current    *attempt
	backoff    *backoff.ExponentialBackOff
	retryTimer *time.Timer

	result   chan Result
	resolved bool
}

// attempt is one delivery of a task to a worker. The token is the key of
// the in-flight map; whoever removes it first owns the outcome.
type attempt struct {
	token     uint64
	task      *queuedTask
	worker    *worker
	timer     *time.Timer
	cancel    context.CancelFunc
	startedAt time.Time
}

func (s *Scheduler) newQueuedTask(task Task) *queuedTask {
	qt := &queuedTask{
		task:        task,
		timeout:     task.Timeout,
		maxRetries:  s.cfg.MaxRetries,
		index:       -1,
		submittedAt: time.Now(),
		result:      make(chan Result, 1),
	}
	if qt.timeout <= 0 {
		qt.timeout = s.cfg.DefaultTimeout
	}
	if task.MaxRetries != nil && *task.MaxRetries >= 0 {
		qt.maxRetries = *task.MaxRetries
	}
	return qt
}

func (qt *queuedTask) info() TaskInfo {
	info := TaskInfo{
		ID:         qt.task.ID,
		Type:       qt.task.Type,
		Priority:   qt.task.Priority,
		State:      qt.state,
		Attempts:   qt.attempts,
		EnqueuedAt: qt.enqueuedAt,
	}
	if qt.current != nil {
		info.WorkerID = qt.current.worker.id
	}
	if qt.lastErr != nil {
		info.LastError = qt.lastErr.Error()
	}
	return info
}

func (s *Scheduler) enqueue(qt *queuedTask) {
	qt.state = TaskStateQueued
	qt.enqueuedAt = time.Now()
	s.queue.Push(qt)
}

// beginAttempt delivers qt to w and arms the timeout. It reports false when
// the worker inbox is full.
func (s *Scheduler) beginAttempt(w *worker, qt *queuedTask) bool {
	s.tokenSeq++
	token := s.tokenSeq
	ctx, cancel := context.WithCancel(w.ctx)

	msg := Message{
		ID:       qt.task.ID,
		Type:     qt.task.Type,
		Payload:  qt.task.Payload,
		Attempt:  qt.attempts + 1,
		Transfer: qt.task.Transfer,
	}

	select {
	case w.inbox <- delivery{token: token, ctx: ctx, msg: msg}:
	default:
		cancel()
		return false
	}

	now := time.Now()
	a := &attempt{
		token:     token,
		task:      qt,
		worker:    w,
		cancel:    cancel,
		startedAt: now,
	}
	qt.attempts++
	qt.state = TaskStateDispatched
	qt.current = a
	qt.lastWorker = w.id
	w.current = a
	w.lastUsedAt = now
	s.inflight[token] = a

	a.timer = time.AfterFunc(qt.timeout, func() {
		s.post(func() { s.onTimeout(token) })
	})
	return true
}

// finishAttempt clears the attempt from the tracker and frees its worker.
func (s *Scheduler) finishAttempt(a *attempt) {
	delete(s.inflight, a.token)
	a.timer.Stop()
	a.cancel()
	a.worker.current = nil
	a.worker.lastUsedAt = time.Now()
	if a.task.current == a {
		a.task.current = nil
	}
}

func (s *Scheduler) onWorkerResult(rep reply) {
	if rep.fault != nil {
		s.handleFault(rep.worker, rep.fault)
		s.drainQueue()
		return
	}

	a, ok := s.inflight[rep.token]
	if !ok {
		// late reply for an attempt that timed out or was torn down
		s.log.Debugw("ignoring stale reply", "worker", rep.worker.id, "token", rep.token)
		return
	}
	s.finishAttempt(a)
	w, qt := a.worker, a.task
	qt.lastElapsed = rep.elapsed

	switch {
	case qt.resolved:
		// canceled while in flight
	case rep.err == nil:
		w.recordSuccess(qt.task.Type, rep.elapsed, qt.timeout)
		s.metrics.CompletedTasks++
		s.cfg.Metrics.RecordTaskDuration(qt.task.Type, rep.elapsed)
		s.resolve(qt, Result{
			TaskID:   qt.task.ID,
			Success:  true,
			Data:     rep.data,
			Duration: rep.elapsed,
			Attempts: qt.attempts,
			WorkerID: w.id,
		})
	default:
		s.failAttempt(qt, srvErrors.NewTaskFailureError(qt.task.ID, rep.err))
	}

	s.releaseWorker(w)
	s.drainQueue()
}

func (s *Scheduler) onTimeout(token uint64) {
	a, ok := s.inflight[token]
	if !ok {
		return
	}
	s.finishAttempt(a)
	w, qt := a.worker, a.task
	w.errorCount++
	qt.lastElapsed = qt.timeout
	s.metrics.TimedOutTasks++

	s.log.Warnw("task attempt timed out", "task", qt.task.ID, "type", qt.task.Type, "worker", w.id, "attempt", qt.attempts, "timeout", qt.timeout)

	if !qt.resolved {
		s.failAttempt(qt, srvErrors.NewTaskTimeoutError(qt.task.ID, w.id, qt.timeout))
	}

	// the unit may still be inside Execute and cannot take another message
	s.terminateWorker(w, srvErrors.NewWorkerTerminatedError(w.id, "attempt timed out"))
	s.ensureMinWorkers()
	s.drainQueue()
}

// handleFault discards a worker whose unit crashed. The unit goroutine has
// already exited, so the worker is replaced whatever its error count.
func (s *Scheduler) handleFault(w *worker, cause any) {
	if _, ok := s.workers[w.id]; !ok {
		return
	}
	w.errorCount++
	s.log.Errorw("worker faulted", "worker", w.id, "panic", cause, "error_count", w.errorCount)
	s.cfg.Metrics.RecordWorkerEvent(WorkerEventFaulted)
	s.terminateWorker(w, srvErrors.NewWorkerFaultError(w.id, cause))
	s.ensureMinWorkers()
}

// releaseWorker runs after a worker finished an attempt. Retiring workers and
// workers over the error threshold leave the pool.
func (s *Scheduler) releaseWorker(w *worker) {
	if _, ok := s.workers[w.id]; !ok {
		return
	}
	switch {
	case w.retiring:
		s.terminateWorker(w, srvErrors.NewWorkerTerminatedError(w.id, "pool resized"))
	case w.errorCount > s.cfg.ErrorThreshold:
		s.log.Warnw("replacing unhealthy worker", "worker", w.id, "error_count", w.errorCount, "threshold", s.cfg.ErrorThreshold)
		s.terminateWorker(w, srvErrors.NewWorkerTerminatedError(w.id, "error threshold exceeded"))
		s.ensureMinWorkers()
	}
}

// failAttempt retries qt under its policy or rejects it once the attempts
// are exhausted.
func (s *Scheduler) failAttempt(qt *queuedTask, cause error) {
	qt.lastErr = cause
	if qt.attempts <= qt.maxRetries {
		s.metrics.RetriedTasks++
		s.cfg.Metrics.RecordRetry(qt.task.Type, retryReason(cause))
		s.log.Debugw("retrying task", "task", qt.task.ID, "attempt", qt.attempts, "max_retries", qt.maxRetries, "error", cause)
		s.scheduleRetry(qt)
		return
	}
	s.metrics.FailedTasks++
	s.reject(qt, srvErrors.NewTaskFailedError(qt.task.ID, qt.attempts, cause), OutcomeFailed)
}

// scheduleRetry requeues qt right away for the first retry and after an
// exponential backoff for later ones. The original sequence is kept.
func (s *Scheduler) scheduleRetry(qt *queuedTask) {
	if qt.attempts <= 1 {
		s.enqueue(qt)
		return
	}
	if qt.backoff == nil {
		qt.backoff = s.newBackoff()
	}
	delay := qt.backoff.NextBackOff()
	if delay == backoff.Stop || delay <= 0 {
		s.enqueue(qt)
		return
	}
	qt.state = TaskStateRetrying
	qt.retryTimer = time.AfterFunc(delay, func() {
		s.post(func() { s.onRetryReady(qt) })
	})
}

func (s *Scheduler) onRetryReady(qt *queuedTask) {
	if qt.resolved || qt.state != TaskStateRetrying {
		return
	}
	qt.retryTimer = nil
	s.enqueue(qt)
	s.drainQueue()
}

func (s *Scheduler) newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.Backoff.InitialInterval
	b.MaxInterval = s.cfg.Backoff.MaxInterval
	b.Multiplier = s.cfg.Backoff.Multiplier
	b.RandomizationFactor = s.cfg.Backoff.RandomizationFactor
	b.Reset()
	return b
}

// cancel rejects qt with context.Canceled. An in-flight attempt keeps its
// worker until the unit replies or the timeout fires.
func (s *Scheduler) cancel(qt *queuedTask) bool {
	if qt.resolved {
		return false
	}
	if qt.current != nil {
		qt.current.cancel()
	}
	s.metrics.CanceledTasks++
	s.reject(qt, context.Canceled, OutcomeCanceled)
	return true
}

// rejectPending rejects every queued, retrying and in-flight task.
func (s *Scheduler) rejectPending(cause error) {
	for _, qt := range s.queue.Drain() {
		s.reject(qt, cause, OutcomeRejected)
	}
	for _, qt := range s.tasks {
		if qt.current != nil {
			qt.current.cancel()
		}
		s.reject(qt, cause, OutcomeRejected)
	}
}

func (s *Scheduler) resolve(qt *queuedTask, res Result) {
	res.Type, res.Priority = qt.task.Type, qt.task.Priority
	if !s.settle(qt) {
		return
	}
	s.cfg.Metrics.RecordTaskOutcome(qt.task.Type, OutcomeCompleted)
	if s.cfg.Hooks.OnSuccess != nil {
		s.cfg.Hooks.OnSuccess(res)
	}
	qt.result <- res
}

func (s *Scheduler) reject(qt *queuedTask, err error, outcome Outcome) {
	if !s.settle(qt) {
		return
	}
	if outcome == OutcomeRejected {
		s.metrics.RejectedTasks++
	}
	s.cfg.Metrics.RecordTaskOutcome(qt.task.Type, outcome)
	s.log.Debugw("task rejected", "task", qt.task.ID, "outcome", outcome, "attempts", qt.attempts, "error", err)
	if s.cfg.Hooks.OnError != nil {
		s.cfg.Hooks.OnError(err, qt.task)
	}
	qt.result <- Result{
		TaskID:   qt.task.ID,
		Type:     qt.task.Type,
		Priority: qt.task.Priority,
		Err:      err,
		Duration: qt.lastElapsed,
		Attempts: qt.attempts,
		WorkerID: qt.lastWorker,
	}
}

// settle marks the task terminal once and forgets it. Hooks run before the
// result reaches the future.
func (s *Scheduler) settle(qt *queuedTask) bool {
	if qt.resolved {
		return false
	}
	qt.resolved = true
	if qt.retryTimer != nil {
		qt.retryTimer.Stop()
		qt.retryTimer = nil
	}
	s.queue.Remove(qt)
	if s.tasks[qt.task.ID] == qt {
		delete(s.tasks, qt.task.ID)
	}
	return true
}

func retryReason(err error) string {
	switch {
	case srvErrors.IsTaskTimeoutError(err):
		return "timeout"
	case srvErrors.IsWorkerFaultError(err):
		return "fault"
	case srvErrors.IsWorkerTerminatedError(err):
		return "terminated"
	default:
		return "failure"
	}
}
