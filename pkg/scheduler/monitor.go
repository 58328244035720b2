package scheduler

import "time"

const degradedErrorRate = 0.5

// healthCheck is the periodic job posted by the monitor goroutine.
func (s *Scheduler) healthCheck() {
	s.recomputeAverage()
	s.reclaimIdle()
	if !s.drained {
		s.ensureMinWorkers()
	}
	s.drainQueue()

	for _, w := range s.sortedWorkers() {
		if w.tasksCompleted+w.errorCount > 0 && w.errorRate() >= degradedErrorRate {
			s.log.Warnw("worker degraded", "worker", w.id, "error_rate", w.errorRate(), "error_count", w.errorCount, "tasks_completed", w.tasksCompleted)
		}
	}

	s.log.Debugw("health check", "workers", len(s.workers), "in_flight", len(s.inflight), "queue_depth", s.queue.Len(), "average_task_time", s.metrics.AverageTaskTime)
}

// recomputeAverage derives the pool average from live and retired worker
// histories.
func (s *Scheduler) recomputeAverage() {
	count, total := s.retired.Count, s.retired.TotalTime
	for _, w := range s.workers {
		count += w.tasksCompleted
		total += w.totalTime
	}
	if count == 0 {
		s.metrics.AverageTaskTime = 0
		return
	}
	s.metrics.AverageTaskTime = total / time.Duration(count)
}

func (s *Scheduler) publishState() {
	busy := len(s.workers) - len(s.idleWorkers())
	s.metrics.CurrentQueueDepth = s.queue.Len()
	s.cfg.Metrics.RecordPoolState(len(s.workers), busy, s.queue.Len())
}

func (s *Scheduler) snapshot() Status {
	s.recomputeAverage()
	s.metrics.CurrentQueueDepth = s.queue.Len()

	st := Status{
		WorkerCount: len(s.workers),
		QueueDepth:  s.queue.Len(),
		InFlight:    len(s.inflight),
		MinWorkers:  s.minWorkers,
		MaxWorkers:  s.maxWorkers,
		Metrics:     s.metrics,
	}
	for _, qt := range s.tasks {
		if qt.state == TaskStateRetrying {
			st.Retrying++
		}
	}
	for _, w := range s.sortedWorkers() {
		if w.busy() {
			st.BusyWorkers++
		}
		st.Workers = append(st.Workers, w.info())
	}
	st.IdleWorkers = st.WorkerCount - st.BusyWorkers
	return st
}
