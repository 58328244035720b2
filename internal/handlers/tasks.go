package handlers

import (
	"bytes"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/taskpool/api/v1"
	"github.com/kubev2v/taskpool/internal/services"
	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
	"github.com/kubev2v/taskpool/pkg/scheduler"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// keeps (page-1)*pageSize within an int32 offset
	maxPage = math.MaxInt32 / maxPageSize

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SubmitTask queues a task, or runs it to completion when wait is set
// (POST /tasks)
func (h *Handler) SubmitTask(c *gin.Context, params v1.SubmitTaskParams) {
	var req v1.SubmitTaskJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type is required"})
		return
	}
	task := req.ToTask()

	if params.Wait == nil || !*params.Wait {
		id, err := h.poolSrv.Submit(task)
		if err != nil {
			c.JSON(httpStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, v1.TaskAccepted{Id: id})
		return
	}

	res, err := h.poolSrv.SubmitAndWait(c.Request.Context(), task)
	if err != nil {
		zap.S().Named("task_handler").Warnw("caller left before the task settled", "task", task.ID, "error", err)
		c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
		return
	}
	// rejections and types no executor handles keep their error status; any
	// other failure is reported in the body
	if res.Err != nil && httpStatus(res.Err) != http.StatusInternalServerError {
		c.JSON(httpStatus(res.Err), gin.H{"error": res.Err.Error()})
		return
	}

	c.JSON(http.StatusOK, v1.NewTaskResult(res))
}

// SubmitBatch runs a batch and returns the results in submission order
// (POST /tasks/batch)
func (h *Handler) SubmitBatch(c *gin.Context) {
	var req v1.SubmitBatchJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Tasks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tasks must not be empty"})
		return
	}

	tasks := make([]scheduler.Task, 0, len(req.Tasks))
	for i, t := range req.Tasks {
		if t.Type == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type is required", "index": i})
			return
		}
		tasks = append(tasks, t.ToTask())
	}

	results, err := h.poolSrv.Batch(c.Request.Context(), tasks)
	if err != nil {
		zap.S().Named("task_handler").Warnw("batch abandoned", "size", len(tasks), "error", err)
		c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
		return
	}

	resp := v1.BatchResponse{Results: make([]v1.TaskResult, 0, len(results))}
	for _, r := range results {
		resp.Results = append(resp.Results, v1.NewTaskResult(r))
	}
	c.JSON(http.StatusOK, resp)
}

// ListTasks returns the task history with filtering and pagination
// (GET /tasks)
func (h *Handler) ListTasks(c *gin.Context, params v1.ListTasksParams) {
	// Parse pagination
	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = min(*params.Page, maxPage)
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = *params.PageSize
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	svcParams, err := historyParams(params.Type, params.Outcome)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	svcParams.Limit = uint64(pageSize)
	svcParams.Offset = uint64((page - 1) * pageSize)

	result, err := h.historySrv.List(c.Request.Context(), svcParams)
	if err != nil {
		zap.S().Named("task_handler").Errorw("failed to list tasks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	// Calculate page count
	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	tasks := make([]v1.TaskRecord, 0, len(result.Records))
	for _, r := range result.Records {
		tasks = append(tasks, v1.NewTaskRecord(r))
	}

	c.JSON(http.StatusOK, v1.TaskListResponse{
		Page:      page,
		PageCount: pageCount,
		Total:     result.Total,
		Tasks:     tasks,
	})
}

// ExportTasks returns the task history as a spreadsheet
// (GET /tasks/export)
func (h *Handler) ExportTasks(c *gin.Context, params v1.ExportTasksParams) {
	svcParams, err := historyParams(params.Type, params.Outcome)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := h.historySrv.ExportXLSX(c.Request.Context(), &buf, svcParams); err != nil {
		zap.S().Named("task_handler").Errorw("failed to export tasks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export tasks"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="task-history.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetTask returns the live state of a pending task or its history record
// (GET /tasks/{id})
func (h *Handler) GetTask(c *gin.Context, id string) {
	if info, ok := h.poolSrv.Lookup(id); ok {
		pending := v1.NewPendingTask(info)
		c.JSON(http.StatusOK, v1.TaskStatus{Id: id, Pending: &pending})
		return
	}

	record, err := h.historySrv.Get(c.Request.Context(), id)
	if err != nil {
		if !srvErrors.IsResourceNotFoundError(err) {
			zap.S().Named("task_handler").Errorw("failed to get task", "task", id, "error", err)
		}
		c.JSON(httpStatus(err), gin.H{"error": err.Error()})
		return
	}

	rec := v1.NewTaskRecord(*record)
	c.JSON(http.StatusOK, v1.TaskStatus{Id: id, Record: &rec})
}

// CancelTask rejects a pending task with a cancellation error
// (DELETE /tasks/{id})
func (h *Handler) CancelTask(c *gin.Context, id string) {
	if err := h.poolSrv.Cancel(id); err != nil {
		c.JSON(httpStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func historyParams(types *[]string, outcomes *[]v1.TaskOutcome) (services.HistoryListParams, error) {
	var params services.HistoryListParams
	if types != nil {
		params.Types = *types
	}
	if outcomes != nil {
		parsed, err := v1.ParseOutcomes(*outcomes)
		if err != nil {
			return params, err
		}
		params.Outcomes = parsed
	}
	return params, nil
}
