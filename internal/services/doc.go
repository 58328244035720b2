// Package services implements the business logic layer for taskpool.
//
// This package sits between the HTTP handlers and the two things they need:
// the in-memory scheduler and the DuckDB store. Each service encapsulates one
// concern and holds no state the scheduler or the store already owns.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── PoolService ──────► Scheduler, Store (pool_settings)
//	    ├── HistoryService ───► Store (task_history)
//	    └── HistoryRecorder ──► Store (task_history)
//	            ▲
//	            └── scheduler.Hooks (OnSuccess / OnError)
//
// # PoolService
//
// Wraps the scheduler for the API:
//   - Submit: queues a task and returns its id. Rejections decided at
//     submission time (queue full, duplicate id, terminated pool) are
//     returned as errors; anything later is only visible in the history.
//   - SubmitAndWait: blocks until the task settles. If the caller's context
//     ends first, the task is canceled.
//   - Batch: ordered results of a batch, see Scheduler.ExecuteBatch.
//   - Resize: applies new bounds and saves the effective ones so that a
//     restart comes back with the same sizing (see RestoreBounds).
//   - Cancel, Lookup, Status, ResetStats, Terminate: direct pass-through.
//
// Start-up order:
//
//	cfg := appConfig.SchedulerConfig()
//	services.RestoreBounds(ctx, store, &cfg)   → saved bounds win over flags
//	recorder := services.NewHistoryRecorder(store, 0)
//	cfg.Hooks = recorder.Hooks()
//	sched, _ := scheduler.NewScheduler(cfg)
//	pool := services.NewPoolService(sched, store)
//
// # HistoryRecorder
//
// Hooks run on the scheduler coordinator goroutine and must never block it.
// The recorder converts each outcome into a models.TaskRecord and performs a
// non-blocking send on a buffered channel:
//
//	coordinator ──hook──► records (buffered) ──► writer goroutine ──► task_history
//	                          │
//	                          └── full or closed → Dropped()++
//
// Outcome mapping (ClassifyError):
//
//	┌──────────────────────────────────────────┬──────────────┐
//	│  Terminal error                          │  Outcome     │
//	├──────────────────────────────────────────┼──────────────┤
//	│  nil (OnSuccess)                         │  completed   │
//	│  context.Canceled                        │  canceled    │
//	│  PoolTerminated / QueueFull / duplicate  │  rejected    │
//	│  TaskFailed caused by TaskTimeout        │  timed_out   │
//	│  anything else                           │  failed      │
//	└──────────────────────────────────────────┴──────────────┘
//
// Close stops accepting records and waits for the writer to flush the buffer.
//
// # HistoryService
//
// Read access to task_history: List with type/outcome filters and pagination
// (the total ignores pagination), Get by task id, per-type Stats, and
// ExportXLSX which writes a "History" and a "Stats" sheet with excelize.
//
// # Thread Safety
//
// PoolService and HistoryService are stateless. HistoryRecorder guards its
// closed flag with a RWMutex so that hooks never send on a closed channel.
package services
