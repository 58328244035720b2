package scheduler

import (
	"context"
	"time"
)

// Task is a unit of work submitted to the pool.
type Task struct {
	// ID is generated when empty.
	ID       string
	Type     string
	Payload  any
	Priority int
	// Timeout of a single attempt. Zero selects Config.DefaultTimeout.
	Timeout time.Duration
	// MaxRetries nil selects Config.MaxRetries. Total attempts are MaxRetries+1.
	MaxRetries *int
	// Transfer lists values whose ownership moves to the executor.
	// The caller must not touch them after Submit.
	Transfer []any
}

// Result is the terminal outcome of a task.
type Result struct {
	TaskID   string
	Type     string
	Priority int
	Success  bool
	Data     any
	Err      error
	Duration time.Duration
	Attempts int
	WorkerID string
}

// Future is a handle to a result delivered exactly once.
type Future[T any] struct {
	input  chan T
	cancel func()
}

func NewFuture[T any](input chan T, cancel func()) *Future[T] {
	f := &Future[T]{
		input:  input,
		cancel: cancel,
	}

	return f
}

func (f *Future[T]) C() <-chan T {
	return f.input
}

// Stop cancels the underlying work. The future still resolves.
func (f *Future[T]) Stop() {
	f.cancel()
}

// Await blocks until the result arrives or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case v := <-f.input:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Message is what an executor receives for one attempt.
type Message struct {
	ID       string
	Type     string
	Payload  any
	Attempt  int
	Transfer []any
}

// Hooks are invoked on the coordinator goroutine and must not block
// or call back into the scheduler synchronously.
type Hooks struct {
	OnSuccess func(Result)
	OnError   func(err error, task Task)
}

type TaskState string

const (
	TaskStateQueued     TaskState = "queued"
	TaskStateDispatched TaskState = "dispatched"
	TaskStateRetrying   TaskState = "retrying"
)

// TaskInfo is a snapshot of a pending task.
type TaskInfo struct {
	ID         string
	Type       string
	Priority   int
	State      TaskState
	Attempts   int
	WorkerID   string
	EnqueuedAt time.Time
	LastError  string
}

type TypeStats struct {
	Count     int
	TotalTime time.Duration
}

// WorkerInfo is a snapshot of a worker.
type WorkerInfo struct {
	ID              string
	Busy            bool
	CurrentTask     string
	TasksCompleted  int
	ErrorCount      int
	CreatedAt       time.Time
	LastUsedAt      time.Time
	AverageTaskTime time.Duration
	Load            float64
	TypeStats       map[string]TypeStats
}

// PoolMetrics are aggregate counters for a pool instance.
type PoolMetrics struct {
	TotalTasks        int
	CompletedTasks    int
	FailedTasks       int
	TimedOutTasks     int
	RetriedTasks      int
	CanceledTasks     int
	RejectedTasks     int
	AverageTaskTime   time.Duration
	PeakWorkerCount   int
	CurrentQueueDepth int
	WorkersCreated    int
	WorkersTerminated int
}

// Status is a point in time view of the pool.
type Status struct {
	WorkerCount int
	BusyWorkers int
	IdleWorkers int
	QueueDepth  int
	InFlight    int
	Retrying    int
	MinWorkers  int
	MaxWorkers  int
	Terminated  bool
	Metrics     PoolMetrics
	Workers     []WorkerInfo
}
