package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Get per-type history statistics
	// (GET /stats)
	GetStats(c *gin.Context)
	// Get pool status
	// (GET /pool)
	GetPool(c *gin.Context)
	// Resize the pool
	// (PUT /pool)
	ResizePool(c *gin.Context)
	// Reset pool counters
	// (POST /pool/stats/reset)
	ResetPoolStats(c *gin.Context)
	// List task history
	// (GET /tasks)
	ListTasks(c *gin.Context, params ListTasksParams)
	// Submit a task
	// (POST /tasks)
	SubmitTask(c *gin.Context, params SubmitTaskParams)
	// Submit a batch and wait for every result
	// (POST /tasks/batch)
	SubmitBatch(c *gin.Context)
	// Export task history as xlsx
	// (GET /tasks/export)
	ExportTasks(c *gin.Context, params ExportTasksParams)
	// Cancel a pending task
	// (DELETE /tasks/{id})
	CancelTask(c *gin.Context, id string)
	// Get a task
	// (GET /tasks/{id})
	GetTask(c *gin.Context, id string)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandler       func(*gin.Context, error, int)
}

type MiddlewareFunc func(c *gin.Context)

func (siw *ServerInterfaceWrapper) runMiddlewares(c *gin.Context) bool {
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return false
		}
	}
	return true
}

// GetStats operation middleware
func (siw *ServerInterfaceWrapper) GetStats(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetStats(c)
}

// GetPool operation middleware
func (siw *ServerInterfaceWrapper) GetPool(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetPool(c)
}

// ResizePool operation middleware
func (siw *ServerInterfaceWrapper) ResizePool(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.ResizePool(c)
}

// ResetPoolStats operation middleware
func (siw *ServerInterfaceWrapper) ResetPoolStats(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.ResetPoolStats(c)
}

// ListTasks operation middleware
func (siw *ServerInterfaceWrapper) ListTasks(c *gin.Context) {
	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ListTasksParams

	err = runtime.BindQueryParameter("form", true, false, "type", c.Request.URL.Query(), &params.Type)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter type: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "outcome", c.Request.URL.Query(), &params.Outcome)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter outcome: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "page", c.Request.URL.Query(), &params.Page)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter page: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "pageSize", c.Request.URL.Query(), &params.PageSize)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter pageSize: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.ListTasks(c, params)
}

// SubmitTask operation middleware
func (siw *ServerInterfaceWrapper) SubmitTask(c *gin.Context) {
	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params SubmitTaskParams

	err = runtime.BindQueryParameter("form", true, false, "wait", c.Request.URL.Query(), &params.Wait)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter wait: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.SubmitTask(c, params)
}

// SubmitBatch operation middleware
func (siw *ServerInterfaceWrapper) SubmitBatch(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.SubmitBatch(c)
}

// ExportTasks operation middleware
func (siw *ServerInterfaceWrapper) ExportTasks(c *gin.Context) {
	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ExportTasksParams

	err = runtime.BindQueryParameter("form", true, false, "type", c.Request.URL.Query(), &params.Type)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter type: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "outcome", c.Request.URL.Query(), &params.Outcome)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter outcome: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.ExportTasks(c, params)
}

// CancelTask operation middleware
func (siw *ServerInterfaceWrapper) CancelTask(c *gin.Context) {
	var err error

	// ------------- Path parameter "id" -------------
	var id string

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.CancelTask(c, id)
}

// GetTask operation middleware
func (siw *ServerInterfaceWrapper) GetTask(c *gin.Context) {
	var err error

	// ------------- Path parameter "id" -------------
	var id string

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetTask(c, id)
}

// GinServerOptions provides options for the Gin server.
type GinServerOptions struct {
	BaseURL      string
	Middlewares  []MiddlewareFunc
	ErrorHandler func(*gin.Context, error, int)
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, GinServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router gin.IRouter, si ServerInterface, options GinServerOptions) {
	errorHandler := options.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			c.JSON(statusCode, gin.H{"error": err.Error()})
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandler:       errorHandler,
	}

	router.GET(options.BaseURL+"/pool", wrapper.GetPool)
	router.PUT(options.BaseURL+"/pool", wrapper.ResizePool)
	router.POST(options.BaseURL+"/pool/stats/reset", wrapper.ResetPoolStats)
	router.GET(options.BaseURL+"/stats", wrapper.GetStats)
	router.GET(options.BaseURL+"/tasks", wrapper.ListTasks)
	router.POST(options.BaseURL+"/tasks", wrapper.SubmitTask)
	router.POST(options.BaseURL+"/tasks/batch", wrapper.SubmitBatch)
	router.GET(options.BaseURL+"/tasks/export", wrapper.ExportTasks)
	router.DELETE(options.BaseURL+"/tasks/:id", wrapper.CancelTask)
	router.GET(options.BaseURL+"/tasks/:id", wrapper.GetTask)
}
