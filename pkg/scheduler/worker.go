package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VividCortex/ewma"
	"go.uber.org/zap"
)

type delivery struct {
	token uint64
	ctx   context.Context
	msg   Message
}

type reply struct {
	token   uint64
	worker  *worker
	data    any
	err     error
	fault   any
	elapsed time.Duration
}

// worker is a handle on one execution unit. The identity, inbox and executor
// are immutable and shared with the unit goroutine; everything else is owned
// by the coordinator.
type worker struct {
	id       string
	seq      uint64
	executor Executor
	inbox    chan delivery
	ctx      context.Context
	cancel   context.CancelFunc

	// current is set while an attempt is in flight; busy is derived from it.
	current        *attempt
	createdAt      time.Time
	lastUsedAt     time.Time
	tasksCompleted int
	errorCount     int
	totalTime      time.Duration
	perType        map[string]*TypeStats
	load           ewma.MovingAverage
	retiring       bool
}

func newWorker(parent context.Context, seq uint64, newExecutor ExecutorFactory, loadAge float64) *worker {
	ctx, cancel := context.WithCancel(parent)
	id := fmt.Sprintf("worker-%d", seq)
	now := time.Now()
	return &worker{
		id:         id,
		seq:        seq,
		executor:   newExecutor(id),
		inbox:      make(chan delivery, 1),
		ctx:        ctx,
		cancel:     cancel,
		createdAt:  now,
		lastUsedAt: now,
		perType:    make(map[string]*TypeStats),
		load:       ewma.NewMovingAverage(loadAge),
	}
}

// run is the execution unit loop. It exits when the worker is terminated,
// when the coordinator is gone, or after a fault.
func (w *worker) run(replies chan<- reply, stop <-chan struct{}, wg *sync.WaitGroup, warmup []Task) {
	defer wg.Done()

	w.preheat(warmup)

	for {
		select {
		case <-w.ctx.Done():
			return
		case d := <-w.inbox:
			rep := w.execute(d)
			select {
			case replies <- rep:
			case <-stop:
				return
			}
			if rep.fault != nil {
				return
			}
		}
	}
}

func (w *worker) execute(d delivery) (rep reply) {
	rep = reply{token: d.token, worker: w}
	start := time.Now()
	defer func() {
		rep.elapsed = time.Since(start)
		if rec := recover(); rec != nil {
			rep.data, rep.err, rep.fault = nil, nil, rec
		}
	}()

	rep.data, rep.err = w.executor.Execute(d.ctx, d.msg)
	return rep
}

func (w *worker) preheat(tasks []Task) {
	for i, t := range tasks {
		timeout := t.Timeout
		if timeout == 0 {
			timeout = time.Second
		}
		ctx, cancel := context.WithTimeout(w.ctx, timeout)
		rep := w.execute(delivery{ctx: ctx, msg: Message{ID: fmt.Sprintf("%s-warmup-%d", w.id, i), Type: t.Type, Payload: t.Payload}})
		cancel()
		if rep.fault != nil || rep.err != nil {
			zap.S().Named("worker").Warnw("preheat task failed", "worker", w.id, "type", t.Type, "error", rep.err, "panic", rep.fault)
		}
	}
}

func (w *worker) busy() bool {
	return w.current != nil
}

func (w *worker) averageTaskTime() (time.Duration, bool) {
	if w.tasksCompleted == 0 {
		return 0, false
	}
	return w.totalTime / time.Duration(w.tasksCompleted), true
}

func (w *worker) typeAverage(taskType string) (time.Duration, bool) {
	st, ok := w.perType[taskType]
	if !ok || st.Count == 0 {
		return 0, false
	}
	return st.TotalTime / time.Duration(st.Count), true
}

func (w *worker) errorRate() float64 {
	total := w.tasksCompleted + w.errorCount
	if total == 0 {
		return 0
	}
	return float64(w.errorCount) / float64(total)
}

func (w *worker) loadValue() float64 {
	v := w.load.Value()
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// recordSuccess updates the performance history after a successful attempt.
// Load is the recency weighted share of the timeout the task consumed.
func (w *worker) recordSuccess(taskType string, elapsed, timeout time.Duration) {
	w.tasksCompleted++
	w.totalTime += elapsed
	st, ok := w.perType[taskType]
	if !ok {
		st = &TypeStats{}
		w.perType[taskType] = st
	}
	st.Count++
	st.TotalTime += elapsed
	if timeout > 0 {
		w.load.Add(float64(elapsed) / float64(timeout))
	}
}

func (w *worker) info() WorkerInfo {
	avg, _ := w.averageTaskTime()
	stats := make(map[string]TypeStats, len(w.perType))
	for k, v := range w.perType {
		stats[k] = *v
	}
	info := WorkerInfo{
		ID:              w.id,
		Busy:            w.busy(),
		TasksCompleted:  w.tasksCompleted,
		ErrorCount:      w.errorCount,
		CreatedAt:       w.createdAt,
		LastUsedAt:      w.lastUsedAt,
		AverageTaskTime: avg,
		Load:            w.loadValue(),
		TypeStats:       stats,
	}
	if w.current != nil {
		info.CurrentTask = w.current.task.task.ID
	}
	return info
}
