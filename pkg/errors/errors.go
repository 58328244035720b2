package errors

import (
	"errors"
	"fmt"
	"time"
)

// ResourceNotFoundError is returned when a stored resource does not exist.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func NewResourceNotFoundError(kind, id string) error {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewPoolSettingsNotFoundError() error {
	return &ResourceNotFoundError{Kind: "pool settings"}
}

func NewTaskNotFoundError(id string) error {
	return &ResourceNotFoundError{Kind: "task", ID: id}
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// InvalidArgumentError is returned for bad configuration, resize or request input.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewInvalidArgumentError(field, reason string) error {
	return &InvalidArgumentError{Field: field, Reason: reason}
}

func IsInvalidArgumentError(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}

// TaskFailureError wraps an error returned by the executor for a single attempt.
type TaskFailureError struct {
	TaskID string
	Err    error
}

func (e *TaskFailureError) Error() string {
	return fmt.Sprintf("task %s failed: %v", e.TaskID, e.Err)
}

func (e *TaskFailureError) Unwrap() error { return e.Err }

func NewTaskFailureError(taskID string, err error) error {
	return &TaskFailureError{TaskID: taskID, Err: err}
}

func IsTaskFailureError(err error) bool {
	var e *TaskFailureError
	return errors.As(err, &e)
}

// TaskTimeoutError is recorded when a worker does not reply within the task timeout.
type TaskTimeoutError struct {
	TaskID   string
	WorkerID string
	Timeout  time.Duration
}

func (e *TaskTimeoutError) Error() string {
	return fmt.Sprintf("task %s timed out after %s on %s", e.TaskID, e.Timeout, e.WorkerID)
}

func NewTaskTimeoutError(taskID, workerID string, timeout time.Duration) error {
	return &TaskTimeoutError{TaskID: taskID, WorkerID: workerID, Timeout: timeout}
}

func IsTaskTimeoutError(err error) bool {
	var e *TaskTimeoutError
	return errors.As(err, &e)
}

// WorkerFaultError is recorded when an execution unit crashes while running a task.
type WorkerFaultError struct {
	WorkerID string
	Cause    any
}

func (e *WorkerFaultError) Error() string {
	return fmt.Sprintf("worker %s faulted: %v", e.WorkerID, e.Cause)
}

func NewWorkerFaultError(workerID string, cause any) error {
	return &WorkerFaultError{WorkerID: workerID, Cause: cause}
}

func IsWorkerFaultError(err error) bool {
	var e *WorkerFaultError
	return errors.As(err, &e)
}

// WorkerTerminatedError is recorded when a busy worker is removed from the pool.
type WorkerTerminatedError struct {
	WorkerID string
	Reason   string
}

func (e *WorkerTerminatedError) Error() string {
	return fmt.Sprintf("worker %s terminated: %s", e.WorkerID, e.Reason)
}

func NewWorkerTerminatedError(workerID, reason string) error {
	return &WorkerTerminatedError{WorkerID: workerID, Reason: reason}
}

func IsWorkerTerminatedError(err error) bool {
	var e *WorkerTerminatedError
	return errors.As(err, &e)
}

// PoolAtCapacityError is returned when a worker cannot be created because the pool is full.
type PoolAtCapacityError struct {
	MaxWorkers int
}

func (e *PoolAtCapacityError) Error() string {
	return fmt.Sprintf("pool at capacity (%d workers)", e.MaxWorkers)
}

func NewPoolAtCapacityError(maxWorkers int) error {
	return &PoolAtCapacityError{MaxWorkers: maxWorkers}
}

func IsPoolAtCapacityError(err error) bool {
	var e *PoolAtCapacityError
	return errors.As(err, &e)
}

// QueueFullError is returned when a bounded queue cannot take another task.
type QueueFullError struct {
	Size int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("task queue full (%d pending)", e.Size)
}

func NewQueueFullError(size int) error {
	return &QueueFullError{Size: size}
}

func IsQueueFullError(err error) bool {
	var e *QueueFullError
	return errors.As(err, &e)
}

// PoolTerminatedError is returned for tasks submitted to or pending in a pool
// that was terminated or drained to zero workers.
type PoolTerminatedError struct {
	Reason string
}

func (e *PoolTerminatedError) Error() string {
	if e.Reason == "" {
		return "pool terminated"
	}
	return fmt.Sprintf("pool terminated: %s", e.Reason)
}

func NewPoolTerminatedError(reason string) error {
	return &PoolTerminatedError{Reason: reason}
}

func IsPoolTerminatedError(err error) bool {
	var e *PoolTerminatedError
	return errors.As(err, &e)
}

// TaskFailedError is the terminal error of a task whose attempts are exhausted.
// It unwraps to the cause of the last attempt.
type TaskFailedError struct {
	TaskID   string
	Attempts int
	Err      error
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %s failed after %d attempt(s): %v", e.TaskID, e.Attempts, e.Err)
}

func (e *TaskFailedError) Unwrap() error { return e.Err }

func NewTaskFailedError(taskID string, attempts int, err error) error {
	return &TaskFailedError{TaskID: taskID, Attempts: attempts, Err: err}
}

func IsTaskFailedError(err error) bool {
	var e *TaskFailedError
	return errors.As(err, &e)
}

// UnknownTaskTypeError is returned by the registry for unregistered task types.
type UnknownTaskTypeError struct {
	Type string
}

func (e *UnknownTaskTypeError) Error() string {
	return fmt.Sprintf("unknown task type %q", e.Type)
}

func NewUnknownTaskTypeError(taskType string) error {
	return &UnknownTaskTypeError{Type: taskType}
}

func IsUnknownTaskTypeError(err error) bool {
	var e *UnknownTaskTypeError
	return errors.As(err, &e)
}

// UnauthorizedError is returned by the API client when the server rejects
// the credentials.
type UnauthorizedError struct{}

func (e *UnauthorizedError) Error() string {
	return "unauthorized"
}

func NewUnauthorizedError() error {
	return &UnauthorizedError{}
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}
