package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"k8s.io/apimachinery/pkg/util/wait"

	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

// Scheduler dispatches tasks to a dynamically sized pool of workers.
// All mutable state is owned by the run goroutine; public methods talk to it
// through channels.
type Scheduler struct {
	cfg        Config
	minWorkers int
	maxWorkers int
	drained    bool

	workers   map[string]*worker
	workerSeq uint64
	queue     *taskQueue
	tasks     map[string]*queuedTask
	inflight  map[uint64]*attempt
	tokenSeq  uint64
	taskSeq   uint64
	metrics   PoolMetrics
	retired   TypeStats
	spawn     *rate.Limiter

	work    chan *queuedTask
	replies chan reply
	control chan func()
	close   chan struct{}
	done    chan struct{}

	mainCtx    context.Context
	mainCancel context.CancelFunc
	unitsWG    sync.WaitGroup
	monitorWG  sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	once   sync.Once
	final  Status

	log *zap.SugaredLogger
}

// NewScheduler validates cfg, spawns MinWorkers workers and starts the
// coordinator and the health monitor.
func NewScheduler(cfg Config) (*Scheduler, error) {
	s, err := newScheduler(cfg)
	if err != nil {
		return nil, err
	}
	s.start()
	return s, nil
}

func newScheduler(cfg Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cfg:        cfg,
		minWorkers: cfg.MinWorkers,
		maxWorkers: cfg.MaxWorkers,
		drained:    cfg.MaxWorkers == 0,
		workers:    make(map[string]*worker),
		queue:      newTaskQueue(),
		tasks:      make(map[string]*queuedTask),
		inflight:   make(map[uint64]*attempt),
		spawn:      rate.NewLimiter(cfg.SpawnRate, cfg.SpawnBurst),
		work:       make(chan *queuedTask),
		replies:    make(chan reply, 64),
		control:    make(chan func()),
		close:      make(chan struct{}),
		done:       make(chan struct{}),
		mainCtx:    ctx,
		mainCancel: cancel,
		log:        zap.S().Named("scheduler"),
	}
	return s, nil
}

func (s *Scheduler) start() {
	// initial workers are not subject to the spawn limiter
	for len(s.workers) < s.minWorkers {
		s.spawnWorker()
	}

	go s.run()

	s.monitorWG.Add(1)
	go func() {
		defer s.monitorWG.Done()
		wait.UntilWithContext(s.mainCtx, func(context.Context) {
			s.post(s.healthCheck)
		}, s.cfg.HealthCheckInterval)
	}()

	s.log.Infow("scheduler started", "min_workers", s.minWorkers, "max_workers", s.maxWorkers, "smart_scheduling", s.cfg.SmartScheduling)
}

// Submit hands a task to the coordinator and returns without waiting for the
// task to run.
// After Terminate the returned future is already resolved with a
// PoolTerminatedError.
func (s *Scheduler) Submit(task Task) *Future[Result] {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	qt := s.newQueuedTask(task)
	f := NewFuture(qt.result, func() { s.cancelTask(qt) })

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		qt.result <- Result{TaskID: task.ID, Type: task.Type, Priority: task.Priority, Err: srvErrors.NewPoolTerminatedError("")}
		return f
	}

	s.work <- qt
	return f
}

// Cancel rejects a pending task with context.Canceled.
// It reports whether the task was pending.
func (s *Scheduler) Cancel(id string) bool {
	var found bool
	s.call(func() {
		if qt, ok := s.tasks[id]; ok {
			found = s.cancel(qt)
		}
	})
	return found
}

func (s *Scheduler) cancelTask(qt *queuedTask) {
	s.call(func() {
		if s.tasks[qt.task.ID] == qt {
			s.cancel(qt)
		}
	})
}

// Lookup returns the live state of a pending task.
func (s *Scheduler) Lookup(id string) (TaskInfo, bool) {
	var (
		info TaskInfo
		ok   bool
	)
	s.call(func() {
		if qt, found := s.tasks[id]; found {
			info, ok = qt.info(), true
		}
	})
	return info, ok
}

// Sync returns once the coordinator has handled every Submit, Cancel and
// Resize call that returned before it. It reports false after Terminate.
func (s *Scheduler) Sync() bool {
	return s.call(func() {})
}

// Status returns a snapshot of the pool. After Terminate it returns the
// final snapshot taken during shutdown.
func (s *Scheduler) Status() Status {
	var st Status
	if !s.call(func() { st = s.snapshot() }) {
		return s.final
	}
	return st
}

// ResetStats zeroes the pool counters. Worker histories used for scoring
// are kept.
func (s *Scheduler) ResetStats() {
	s.call(func() {
		s.metrics = PoolMetrics{
			PeakWorkerCount:   len(s.workers),
			CurrentQueueDepth: s.queue.Len(),
		}
	})
}

// Resize changes the pool bounds. A nil bound is left unchanged.
// Resizing maxWorkers to zero drains the pool: every pending task is
// rejected with a PoolTerminatedError and new submissions are refused
// until maxWorkers is raised again.
func (s *Scheduler) Resize(minWorkers, maxWorkers *int) error {
	var err error
	ok := s.call(func() {
		newMin, newMax := s.minWorkers, s.maxWorkers
		if minWorkers != nil {
			newMin = *minWorkers
		}
		if maxWorkers != nil {
			newMax = *maxWorkers
		}
		switch {
		case newMin < 0:
			err = srvErrors.NewInvalidArgumentError("minWorkers", "must not be negative")
		case newMax < 0:
			err = srvErrors.NewInvalidArgumentError("maxWorkers", "must not be negative")
		case newMin > newMax:
			err = srvErrors.NewInvalidArgumentError("minWorkers", "must not exceed maxWorkers")
		default:
			s.resize(newMin, newMax)
		}
	})
	if !ok {
		return srvErrors.NewPoolTerminatedError("")
	}
	return err
}

// Terminate rejects every pending task, stops all workers and waits for
// their goroutines up to ShutdownGrace. It is idempotent.
func (s *Scheduler) Terminate() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.close)
		<-s.done
		s.mainCancel()
		s.monitorWG.Wait()

		unitsDone := make(chan struct{})
		go func() {
			s.unitsWG.Wait()
			close(unitsDone)
		}()

		t := time.NewTimer(s.cfg.ShutdownGrace)
		defer t.Stop()
		select {
		case <-unitsDone:
		case <-t.C:
			s.log.Warnw("worker units still running after shutdown grace", "grace", s.cfg.ShutdownGrace)
		}

		s.log.Infow("scheduler terminated", "total_tasks", s.final.Metrics.TotalTasks, "completed", s.final.Metrics.CompletedTasks, "failed", s.final.Metrics.FailedTasks)
	})
}

func (s *Scheduler) run() {
	defer close(s.done)
	for {
		select {
		case qt := <-s.work:
			s.submit(qt)
		case rep := <-s.replies:
			s.onWorkerResult(rep)
		case fn := <-s.control:
			fn()
		case <-s.close:
			s.shutdown()
			return
		}
	}
}

// post queues fn on the coordinator. It is dropped once the coordinator exited.
func (s *Scheduler) post(fn func()) {
	select {
	case s.control <- fn:
	case <-s.done:
	}
}

// call runs fn on the coordinator and waits for it. It reports false when
// the coordinator already exited.
func (s *Scheduler) call(fn func()) bool {
	finished := make(chan struct{})
	select {
	case s.control <- func() {
		defer close(finished)
		fn()
	}:
	case <-s.done:
		return false
	}
	<-finished
	return true
}

func (s *Scheduler) submit(qt *queuedTask) {
	s.metrics.TotalTasks++
	s.taskSeq++
	qt.seq = s.taskSeq

	if s.drained {
		s.reject(qt, srvErrors.NewPoolTerminatedError("pool drained"), OutcomeRejected)
		return
	}
	if _, exists := s.tasks[qt.task.ID]; exists {
		s.reject(qt, srvErrors.NewInvalidArgumentError("id", "task "+qt.task.ID+" is already pending"), OutcomeRejected)
		return
	}

	s.tasks[qt.task.ID] = qt
	if s.queue.Len() == 0 && s.tryDispatch(qt) {
		s.publishState()
		return
	}

	if s.cfg.MaxQueueSize > 0 && s.queue.Len() >= s.cfg.MaxQueueSize {
		s.reject(qt, srvErrors.NewQueueFullError(s.queue.Len()), OutcomeRejected)
		return
	}

	s.enqueue(qt)
	s.drainQueue()
}

func (s *Scheduler) resize(newMin, newMax int) {
	s.log.Infow("resizing pool", "min_workers", newMin, "max_workers", newMax, "previous_min", s.minWorkers, "previous_max", s.maxWorkers)
	s.minWorkers, s.maxWorkers = newMin, newMax

	if newMax == 0 {
		s.drained = true
		cause := srvErrors.NewPoolTerminatedError("pool drained")
		s.rejectPending(cause)
		for _, w := range s.sortedWorkers() {
			s.terminateWorker(w, cause)
		}
		s.publishState()
		return
	}
	s.drained = false

	excess := len(s.workers) - newMax
	if excess > 0 {
		idle := s.idleWorkers()
		sort.SliceStable(idle, func(i, j int) bool { return idle[i].lastUsedAt.Before(idle[j].lastUsedAt) })
		for _, w := range idle {
			if excess == 0 {
				break
			}
			s.terminateWorker(w, srvErrors.NewWorkerTerminatedError(w.id, "pool resized"))
			excess--
		}
		// busy workers leave once their current attempt ends
		for _, w := range s.sortedWorkers() {
			if excess == 0 {
				break
			}
			if w.busy() && !w.retiring {
				w.retiring = true
				excess--
			}
		}
	}

	s.ensureMinWorkers()
	s.drainQueue()
}

func (s *Scheduler) shutdown() {
	cause := srvErrors.NewPoolTerminatedError("")
	s.rejectPending(cause)
	for _, w := range s.sortedWorkers() {
		s.terminateWorker(w, cause)
	}

	s.final = s.snapshot()
	s.final.Terminated = true
}
