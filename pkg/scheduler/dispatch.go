package scheduler

// tryDispatch hands qt to an idle worker, creating one when the pool has
// room. It reports whether the task is now in flight.
func (s *Scheduler) tryDispatch(qt *queuedTask) bool {
	for {
		w := s.selectWorker(qt)
		if w == nil {
			var err error
			if w, err = s.createWorker(); err != nil {
				return false
			}
		}
		if s.beginAttempt(w, qt) {
			return true
		}
		// the unit still holds an undelivered message; it is wedged
		s.log.Warnw("worker inbox full, replacing worker", "worker", w.id)
		s.handleFault(w, "inbox full")
	}
}

// drainQueue dispatches queued tasks in order until the queue is empty or
// no worker can take the head.
func (s *Scheduler) drainQueue() {
	for s.queue.Len() > 0 {
		qt := s.queue.Pop()
		if !s.tryDispatch(qt) {
			// same sequence, so it goes back to the head
			s.queue.Push(qt)
			break
		}
	}
	s.publishState()
}

// selectWorker picks the idle worker best suited for qt, or nil.
func (s *Scheduler) selectWorker(qt *queuedTask) *worker {
	idle := s.idleWorkers()
	if len(idle) == 0 {
		return nil
	}
	if !s.cfg.SmartScheduling {
		return idle[0]
	}
	return bestWorker(idle, qt.task.Type, s.cfg.Weights)
}
