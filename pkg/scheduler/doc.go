// Package scheduler implements an adaptive task scheduler over a dynamically
// sized pool of workers.
//
// Tasks are submitted via Submit, which returns a Future immediately. The
// scheduler routes each task to a worker, enforces a per attempt timeout,
// retries failed attempts and grows or shrinks the pool between MinWorkers
// and MaxWorkers.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           Scheduler                                 │
//	│                                                                     │
//	│   Submit ──► work ─┐                                                │
//	│   Status/Resize ──►├──► run() (coordinator, owns all state)         │
//	│   timers ──► control ┘        │                                     │
//	│                               │                                     │
//	│        ┌──────────────────────┼──────────────────────┐              │
//	│        ▼                      ▼                      ▼              │
//	│  ┌────────────┐        ┌─────────────┐        ┌─────────────┐       │
//	│  │ taskQueue  │        │  tracker    │        │  lifecycle  │       │
//	│  │ prio heap  │        │  in-flight  │        │  workers    │       │
//	│  └────────────┘        └─────────────┘        └──────┬──────┘       │
//	│                                                      │ inbox        │
//	│  ┌──────────────┐      ┌──────────────┐      ┌───────▼──────┐       │
//	│  │   worker-1   │      │   worker-2   │      │   worker-N   │       │
//	│  └──────┬───────┘      └──────┬───────┘      └──────┬───────┘       │
//	│         └─────────────────────┴──── replies ────────┘               │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Core Components
//
// Coordinator (run):
//   - Single goroutine owning the worker registry, queue, tracker and metrics
//   - Never blocks on a worker: deliveries are non-blocking sends
//   - Receives submissions, worker replies, timer events and control calls
//
// Worker:
//   - One goroutine per worker running an Executor
//   - Buffered inbox of one delivery
//   - Recovers panics and reports them as faults, then exits
//
// Task queue:
//   - Ordered by priority (higher first), then submission order
//   - Retried tasks keep their original position
//
// Tracker:
//   - One attempt record per delivery, keyed by a unique token
//   - The first of reply, timeout or teardown to remove the token owns the
//     outcome; later events for that token are ignored
//
// # Task Lifecycle
//
//	Submitted ──► Queued ⇄ Dispatched ──► Completed
//	                 ▲          │
//	                 │          ├── failure / timeout / fault
//	                 │          ▼
//	                 └──── Retrying ──► Failed (TaskFailedError)
//
// A task gets MaxRetries+1 attempts. The first retry is immediate, later ones
// wait for an exponential backoff. When attempts are exhausted the future
// resolves with a TaskFailedError wrapping the last cause:
//
//   - TaskFailureError: the executor returned an error
//   - TaskTimeoutError: no reply within the timeout; the worker error count grows
//   - WorkerFaultError: the worker panicked and was replaced
//   - WorkerTerminatedError: the worker was removed while busy
//
// # Worker Selection
//
// With SmartScheduling each idle worker is scored:
//
//	score = Weights.Type    * typeSpeed     (0.5 without history)
//	      + Weights.Overall * overallSpeed  (0.5 without history)
//	      + Weights.Load    * (1 - load)
//	      - Weights.ErrorPenalty * errorRate
//
// where the speeds are the fastest candidate average divided by the worker
// average. The highest score wins and ties go to the oldest worker.
//
// # Pool Sizing
//
//   - A worker is created when no idle worker exists and the pool is below
//     MaxWorkers (and the spawn limiter allows it)
//   - The health check reclaims workers idle longer than IdleTimeout while
//     the pool stays at MinWorkers or above
//   - Workers whose error count exceeds ErrorThreshold are replaced
//   - A worker whose attempt timed out is replaced, since its unit may still
//     be running the abandoned task
//   - Resize(min, max) adjusts the bounds; max 0 drains the pool and rejects
//     every pending task with PoolTerminatedError
//
// # Usage Example
//
//	cfg := scheduler.DefaultConfig()
//	cfg.MaxWorkers = 8
//
//	sched, err := scheduler.NewScheduler(cfg)
//	if err != nil {
//	    return err
//	}
//	defer sched.Terminate()
//
//	future := sched.Submit(scheduler.Task{Type: scheduler.TaskTypeFibonacci, Payload: 40, Priority: 5})
//
//	result, err := future.Await(ctx)
//	if err != nil {
//	    return err // ctx done
//	}
//	if result.Err != nil {
//	    log.Printf("task failed: %v", result.Err)
//	}
package scheduler
