package v1

import "time"

// Defines values for TaskOutcome.
const (
	TaskOutcomeCanceled  TaskOutcome = "canceled"
	TaskOutcomeCompleted TaskOutcome = "completed"
	TaskOutcomeFailed    TaskOutcome = "failed"
	TaskOutcomeRejected  TaskOutcome = "rejected"
	TaskOutcomeTimedOut  TaskOutcome = "timed_out"
)

// Defines values for TaskState.
const (
	TaskStateDispatched TaskState = "dispatched"
	TaskStateQueued     TaskState = "queued"
	TaskStateRetrying   TaskState = "retrying"
)

// TaskOutcome defines model for TaskOutcome.
type TaskOutcome string

// TaskState defines model for TaskState.
type TaskState string

// TaskRequest defines model for TaskRequest.
type TaskRequest struct {
	Id         *string `json:"id,omitempty"`
	Type       string  `json:"type"`
	Payload    any     `json:"payload,omitempty"`
	Priority   *int    `json:"priority,omitempty"`
	TimeoutMs  *int64  `json:"timeoutMs,omitempty"`
	MaxRetries *int    `json:"maxRetries,omitempty"`
}

// TaskAccepted defines model for TaskAccepted.
type TaskAccepted struct {
	Id string `json:"id"`
}

// TaskResult defines model for TaskResult.
type TaskResult struct {
	TaskId     string  `json:"taskId"`
	Type       string  `json:"type"`
	Success    bool    `json:"success"`
	Data       any     `json:"data,omitempty"`
	Error      *string `json:"error,omitempty"`
	DurationMs int64   `json:"durationMs"`
	Attempts   int     `json:"attempts"`
	WorkerId   *string `json:"workerId,omitempty"`
}

// BatchRequest defines model for BatchRequest.
type BatchRequest struct {
	Tasks []TaskRequest `json:"tasks"`
}

// BatchResponse defines model for BatchResponse.
type BatchResponse struct {
	Results []TaskResult `json:"results"`
}

// PendingTask defines model for PendingTask.
type PendingTask struct {
	Id         string    `json:"id"`
	Type       string    `json:"type"`
	Priority   int       `json:"priority"`
	State      TaskState `json:"state"`
	Attempts   int       `json:"attempts"`
	WorkerId   *string   `json:"workerId,omitempty"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
	LastError  *string   `json:"lastError,omitempty"`
}

// TaskRecord defines model for TaskRecord.
type TaskRecord struct {
	TaskId     string      `json:"taskId"`
	Type       string      `json:"type"`
	Priority   int         `json:"priority"`
	Outcome    TaskOutcome `json:"outcome"`
	Attempts   int         `json:"attempts"`
	WorkerId   *string     `json:"workerId,omitempty"`
	DurationMs int64       `json:"durationMs"`
	Error      *string     `json:"error,omitempty"`
	FinishedAt time.Time   `json:"finishedAt"`
}

// TaskStatus defines model for TaskStatus. Exactly one of Pending and Record is set.
type TaskStatus struct {
	Id      string       `json:"id"`
	Pending *PendingTask `json:"pending,omitempty"`
	Record  *TaskRecord  `json:"record,omitempty"`
}

// TaskListResponse defines model for TaskListResponse.
type TaskListResponse struct {
	Page      int          `json:"page"`
	PageCount int          `json:"pageCount"`
	Total     int          `json:"total"`
	Tasks     []TaskRecord `json:"tasks"`
}

// WorkerStatus defines model for WorkerStatus.
type WorkerStatus struct {
	Id                string    `json:"id"`
	Busy              bool      `json:"busy"`
	CurrentTask       *string   `json:"currentTask,omitempty"`
	TasksCompleted    int       `json:"tasksCompleted"`
	ErrorCount        int       `json:"errorCount"`
	CreatedAt         time.Time `json:"createdAt"`
	LastUsedAt        time.Time `json:"lastUsedAt"`
	AverageTaskTimeMs float64   `json:"averageTaskTimeMs"`
	Load              float64   `json:"load"`
}

// PoolMetrics defines model for PoolMetrics.
type PoolMetrics struct {
	TotalTasks        int     `json:"totalTasks"`
	CompletedTasks    int     `json:"completedTasks"`
	FailedTasks       int     `json:"failedTasks"`
	TimedOutTasks     int     `json:"timedOutTasks"`
	RetriedTasks      int     `json:"retriedTasks"`
	CanceledTasks     int     `json:"canceledTasks"`
	RejectedTasks     int     `json:"rejectedTasks"`
	AverageTaskTimeMs float64 `json:"averageTaskTimeMs"`
	PeakWorkerCount   int     `json:"peakWorkerCount"`
	CurrentQueueDepth int     `json:"currentQueueDepth"`
	WorkersCreated    int     `json:"workersCreated"`
	WorkersTerminated int     `json:"workersTerminated"`
}

// PoolStatus defines model for PoolStatus.
type PoolStatus struct {
	WorkerCount int            `json:"workerCount"`
	BusyWorkers int            `json:"busyWorkers"`
	IdleWorkers int            `json:"idleWorkers"`
	QueueDepth  int            `json:"queueDepth"`
	InFlight    int            `json:"inFlight"`
	Retrying    int            `json:"retrying"`
	MinWorkers  int            `json:"minWorkers"`
	MaxWorkers  int            `json:"maxWorkers"`
	Terminated  bool           `json:"terminated"`
	Metrics     PoolMetrics    `json:"metrics"`
	Workers     []WorkerStatus `json:"workers"`
}

// ResizeRequest defines model for ResizeRequest.
type ResizeRequest struct {
	MinWorkers *int `json:"minWorkers,omitempty"`
	MaxWorkers *int `json:"maxWorkers,omitempty"`
}

// TypeStats defines model for TypeStats.
type TypeStats struct {
	Type              string  `json:"type"`
	Total             int     `json:"total"`
	Completed         int     `json:"completed"`
	Failed            int     `json:"failed"`
	AverageDurationMs float64 `json:"averageDurationMs"`
}

// StatsResponse defines model for StatsResponse.
type StatsResponse struct {
	Types []TypeStats `json:"types"`
}

// SubmitTaskParams defines parameters for SubmitTask.
type SubmitTaskParams struct {
	// Wait blocks until the task settles and returns its result.
	Wait *bool `form:"wait,omitempty" json:"wait,omitempty"`
}

// ListTasksParams defines parameters for ListTasks.
type ListTasksParams struct {
	Type     *[]string      `form:"type,omitempty" json:"type,omitempty"`
	Outcome  *[]TaskOutcome `form:"outcome,omitempty" json:"outcome,omitempty"`
	Page     *int           `form:"page,omitempty" json:"page,omitempty"`
	PageSize *int           `form:"pageSize,omitempty" json:"pageSize,omitempty"`
}

// ExportTasksParams defines parameters for ExportTasks.
type ExportTasksParams struct {
	Type    *[]string      `form:"type,omitempty" json:"type,omitempty"`
	Outcome *[]TaskOutcome `form:"outcome,omitempty" json:"outcome,omitempty"`
}

// SubmitTaskJSONRequestBody defines body for SubmitTask for application/json ContentType.
type SubmitTaskJSONRequestBody = TaskRequest

// SubmitBatchJSONRequestBody defines body for SubmitBatch for application/json ContentType.
type SubmitBatchJSONRequestBody = BatchRequest

// ResizePoolJSONRequestBody defines body for ResizePool for application/json ContentType.
type ResizePoolJSONRequestBody = ResizeRequest
