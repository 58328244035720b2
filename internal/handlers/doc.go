// Package handlers implements the HTTP API layer for taskpool.
//
// Handlers delegate to the services layer and only deal with request
// validation, response formatting and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request validation                                           │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│            PoolService │ HistoryService                         │
//	└─────────────────────────────────────────────────────────────────┘
//
// The Handler implements v1.ServerInterface and is registered with:
//
//	v1.RegisterHandlers(router, handler)
//
// # API Endpoints
//
// Task Endpoints (tasks.go):
//
//	┌────────┬────────────────┬──────────────────────────────────────────┐
//	│ Method │ Endpoint       │ Description                              │
//	├────────┼────────────────┼──────────────────────────────────────────┤
//	│ POST   │ /tasks         │ Submit (202), or run with ?wait=true     │
//	│ POST   │ /tasks/batch   │ Run a batch, results in request order    │
//	│ GET    │ /tasks         │ History with filters and pagination      │
//	│ GET    │ /tasks/export  │ History as an xlsx workbook              │
//	│ GET    │ /tasks/{id}    │ Pending state, else history record       │
//	│ DELETE │ /tasks/{id}    │ Cancel a pending task                    │
//	└────────┴────────────────┴──────────────────────────────────────────┘
//
// Pool Endpoints (pool.go):
//
//	┌────────┬────────────────────┬──────────────────────────────────────┐
//	│ Method │ Endpoint           │ Description                          │
//	├────────┼────────────────────┼──────────────────────────────────────┤
//	│ GET    │ /pool              │ Workers, queue and counters          │
//	│ PUT    │ /pool              │ Resize (bounds are persisted)        │
//	│ POST   │ /pool/stats/reset  │ Reset the counters                   │
//	│ GET    │ /stats             │ Per-type history aggregates          │
//	└────────┴────────────────────┴──────────────────────────────────────┘
//
// # Submitting
//
// Request:
//
//	{
//	    "id": "optional-id",
//	    "type": "fibonacci",
//	    "payload": 30,
//	    "priority": 5,
//	    "timeoutMs": 2000,
//	    "maxRetries": 1
//	}
//
// Without wait the response is 202 with the task id. With wait=true the
// handler blocks until the task settles and returns the result. A task
// that ran and failed is still a 200 with "success": false; only rejections
// and bad input map to error statuses. A type no executor handles counts as
// bad input and is a 400 even though it is detected on a worker.
//
// # Listing
//
// Query Parameters:
//
//	┌────────────┬──────────┬────────────────────────────────────────────┐
//	│ Parameter  │ Type     │ Description                                │
//	├────────────┼──────────┼────────────────────────────────────────────┤
//	│ type       │ []string │ Filter by task type (OR logic)             │
//	│ outcome    │ []string │ completed|failed|timed_out|canceled|...    │
//	│ page       │ int      │ Page number (default: 1)                   │
//	│ pageSize   │ int      │ Items per page (default: 20, max: 100)     │
//	└────────────┴──────────┴────────────────────────────────────────────┘
//
// # Error Handling
//
// Handlers use consistent error response format:
//
//	{ "error": "error message" }
//
// HTTP Status Code Mapping:
//
//	┌─────────────────────────────┬────────┬──────────────────────────────┐
//	│ Error Type                  │ Status │ When                         │
//	├─────────────────────────────┼────────┼──────────────────────────────┤
//	│ Validation error            │ 400    │ Invalid body or params       │
//	│ InvalidArgumentError        │ 400    │ Bad bounds, duplicate id     │
//	│ UnknownTaskTypeError        │ 400    │ No handler for the type      │
//	│ ResourceNotFoundError       │ 404    │ Task neither pending nor     │
//	│                             │        │ recorded                     │
//	│ Caller context done         │ 408    │ Client left while waiting    │
//	│ PoolTerminatedError         │ 409    │ Resize after shutdown        │
//	│ PoolTerminatedError         │ 503    │ Submit after shutdown        │
//	│ QueueFullError              │ 503    │ Queue at MaxQueueSize        │
//	│ Internal error              │ 500    │ Unexpected service errors    │
//	└─────────────────────────────┴────────┴──────────────────────────────┘
//
// # Model Conversion
//
// Conversions between scheduler/models types and API types live in
// api/v1/extension.go:
//
//   - v1.TaskRequest.ToTask() → scheduler.Task
//   - v1.NewTaskResult(scheduler.Result) → v1.TaskResult
//   - v1.NewPendingTask(scheduler.TaskInfo) → v1.PendingTask
//   - v1.NewTaskRecord(models.TaskRecord) → v1.TaskRecord
//   - v1.PoolStatus.FromModel(scheduler.Status)
package handlers
