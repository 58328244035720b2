package v1

import (
	"github.com/kubev2v/taskpool/internal/models"
	"github.com/kubev2v/taskpool/internal/util"
	"github.com/kubev2v/taskpool/pkg/scheduler"
)

// ToTask converts a request into a scheduler task. The payload is passed
// through as decoded JSON.
func (r TaskRequest) ToTask() scheduler.Task {
	t := scheduler.Task{
		Type:       r.Type,
		Payload:    r.Payload,
		MaxRetries: r.MaxRetries,
	}
	if r.Id != nil {
		t.ID = *r.Id
	}
	if r.Priority != nil {
		t.Priority = *r.Priority
	}
	if r.TimeoutMs != nil {
		t.Timeout = util.MsToDuration(*r.TimeoutMs)
	}
	return t
}

func NewTaskResult(res scheduler.Result) TaskResult {
	r := TaskResult{
		TaskId:     res.TaskID,
		Type:       res.Type,
		Success:    res.Success,
		Data:       res.Data,
		DurationMs: res.Duration.Milliseconds(),
		Attempts:   res.Attempts,
		WorkerId:   util.StringPtr(res.WorkerID),
	}
	if res.Err != nil {
		r.Error = util.StringPtr(res.Err.Error())
	}
	return r
}

func NewPendingTask(info scheduler.TaskInfo) PendingTask {
	return PendingTask{
		Id:         info.ID,
		Type:       info.Type,
		Priority:   info.Priority,
		State:      TaskState(info.State),
		Attempts:   info.Attempts,
		WorkerId:   util.StringPtr(info.WorkerID),
		EnqueuedAt: info.EnqueuedAt,
		LastError:  util.StringPtr(info.LastError),
	}
}

func NewTaskRecord(r models.TaskRecord) TaskRecord {
	return TaskRecord{
		TaskId:     r.TaskID,
		Type:       r.Type,
		Priority:   r.Priority,
		Outcome:    TaskOutcome(r.Outcome),
		Attempts:   r.Attempts,
		WorkerId:   util.StringPtr(r.WorkerID),
		DurationMs: r.Duration.Milliseconds(),
		Error:      util.StringPtr(r.Error),
		FinishedAt: r.FinishedAt,
	}
}

func (s *PoolStatus) FromModel(m scheduler.Status) {
	s.WorkerCount = m.WorkerCount
	s.BusyWorkers = m.BusyWorkers
	s.IdleWorkers = m.IdleWorkers
	s.QueueDepth = m.QueueDepth
	s.InFlight = m.InFlight
	s.Retrying = m.Retrying
	s.MinWorkers = m.MinWorkers
	s.MaxWorkers = m.MaxWorkers
	s.Terminated = m.Terminated
	s.Metrics = PoolMetrics{
		TotalTasks:        m.Metrics.TotalTasks,
		CompletedTasks:    m.Metrics.CompletedTasks,
		FailedTasks:       m.Metrics.FailedTasks,
		TimedOutTasks:     m.Metrics.TimedOutTasks,
		RetriedTasks:      m.Metrics.RetriedTasks,
		CanceledTasks:     m.Metrics.CanceledTasks,
		RejectedTasks:     m.Metrics.RejectedTasks,
		AverageTaskTimeMs: util.DurationToMs(m.Metrics.AverageTaskTime),
		PeakWorkerCount:   m.Metrics.PeakWorkerCount,
		CurrentQueueDepth: m.Metrics.CurrentQueueDepth,
		WorkersCreated:    m.Metrics.WorkersCreated,
		WorkersTerminated: m.Metrics.WorkersTerminated,
	}
	s.Workers = make([]WorkerStatus, 0, len(m.Workers))
	for _, w := range m.Workers {
		s.Workers = append(s.Workers, WorkerStatus{
			Id:                w.ID,
			Busy:              w.Busy,
			CurrentTask:       util.StringPtr(w.CurrentTask),
			TasksCompleted:    w.TasksCompleted,
			ErrorCount:        w.ErrorCount,
			CreatedAt:         w.CreatedAt,
			LastUsedAt:        w.LastUsedAt,
			AverageTaskTimeMs: util.DurationToMs(w.AverageTaskTime),
			Load:              w.Load,
		})
	}
}

func NewStatsResponse(stats []models.TaskTypeStats) StatsResponse {
	resp := StatsResponse{Types: make([]TypeStats, 0, len(stats))}
	for _, st := range stats {
		resp.Types = append(resp.Types, TypeStats{
			Type:              st.Type,
			Total:             st.Total,
			Completed:         st.Completed,
			Failed:            st.Failed,
			AverageDurationMs: util.DurationToMs(st.AverageDuration),
		})
	}
	return resp
}

// ParseOutcomes converts API outcome filters to model outcomes.
func ParseOutcomes(outcomes []TaskOutcome) ([]models.TaskOutcome, error) {
	result := make([]models.TaskOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		m, err := models.ParseTaskOutcome(string(o))
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}

