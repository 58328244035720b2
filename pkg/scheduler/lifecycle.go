package scheduler

import (
	"errors"
	"sort"
	"time"

	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

var errSpawnThrottled = errors.New("worker spawn throttled")

// createWorker adds a worker unless the pool is at capacity or the spawn
// limiter refuses.
func (s *Scheduler) createWorker() (*worker, error) {
	if len(s.workers) >= s.maxWorkers {
		return nil, srvErrors.NewPoolAtCapacityError(s.maxWorkers)
	}
	if !s.spawn.Allow() {
		return nil, errSpawnThrottled
	}
	return s.spawnWorker(), nil
}

func (s *Scheduler) spawnWorker() *worker {
	s.workerSeq++
	w := newWorker(s.mainCtx, s.workerSeq, s.cfg.NewExecutor, s.cfg.LoadAge)
	s.workers[w.id] = w

	var warmup []Task
	if s.cfg.Preheat {
		warmup = s.cfg.PreheatTasks
	}
	s.unitsWG.Add(1)
	go w.run(s.replies, s.done, &s.unitsWG, warmup)

	s.metrics.WorkersCreated++
	if len(s.workers) > s.metrics.PeakWorkerCount {
		s.metrics.PeakWorkerCount = len(s.workers)
	}
	s.cfg.Metrics.RecordWorkerEvent(WorkerEventCreated)
	s.log.Debugw("worker created", "worker", w.id, "workers", len(s.workers))
	return w
}

// terminateWorker stops the unit and removes the worker. An attempt in
// flight is rejected when cause is a pool shutdown and retried otherwise.
func (s *Scheduler) terminateWorker(w *worker, cause error) {
	if _, ok := s.workers[w.id]; !ok {
		return
	}
	delete(s.workers, w.id)
	w.cancel()

	s.retired.Count += w.tasksCompleted
	s.retired.TotalTime += w.totalTime
	s.metrics.WorkersTerminated++
	s.cfg.Metrics.RecordWorkerEvent(WorkerEventTerminated)
	s.log.Debugw("worker terminated", "worker", w.id, "reason", cause, "workers", len(s.workers))

	a := w.current
	if a == nil {
		return
	}
	s.finishAttempt(a)
	qt := a.task
	if qt.resolved {
		return
	}
	if srvErrors.IsPoolTerminatedError(cause) {
		s.reject(qt, cause, OutcomeRejected)
		return
	}
	s.failAttempt(qt, cause)
}

// reclaimIdle terminates workers idle for longer than IdleTimeout, oldest
// first, as long as the pool stays at or above MinWorkers.
func (s *Scheduler) reclaimIdle() int {
	now := time.Now()
	var candidates []*worker
	for _, w := range s.idleWorkers() {
		if now.Sub(w.lastUsedAt) > s.cfg.IdleTimeout {
			candidates = append(candidates, w)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].lastUsedAt.Before(candidates[j].lastUsedAt)
	})

	reclaimed := 0
	for _, w := range candidates {
		if len(s.workers)-1 < s.minWorkers {
			break
		}
		s.terminateWorker(w, srvErrors.NewWorkerTerminatedError(w.id, "idle"))
		s.cfg.Metrics.RecordWorkerEvent(WorkerEventReclaimed)
		reclaimed++
	}
	if reclaimed > 0 {
		s.log.Infow("reclaimed idle workers", "count", reclaimed, "workers", len(s.workers))
	}
	return reclaimed
}

func (s *Scheduler) ensureMinWorkers() {
	for len(s.workers) < s.minWorkers {
		if _, err := s.createWorker(); err != nil {
			return
		}
	}
}

// sortedWorkers returns the workers ordered by creation.
func (s *Scheduler) sortedWorkers() []*worker {
	out := make([]*worker, 0, len(s.workers))
	for _, w := range s.workers {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (s *Scheduler) idleWorkers() []*worker {
	all := s.sortedWorkers()
	idle := all[:0]
	for _, w := range all {
		if !w.busy() {
			idle = append(idle, w)
		}
	}
	return idle
}
