package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/taskpool/api/v1"
	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

// GetPool returns the pool status
// (GET /pool)
func (h *Handler) GetPool(c *gin.Context) {
	var resp v1.PoolStatus
	resp.FromModel(h.poolSrv.Status())
	c.JSON(http.StatusOK, resp)
}

// ResizePool changes the worker bounds
// (PUT /pool)
func (h *Handler) ResizePool(c *gin.Context) {
	var req v1.ResizePoolJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MinWorkers == nil && req.MaxWorkers == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minWorkers or maxWorkers is required"})
		return
	}

	status, err := h.poolSrv.Resize(c.Request.Context(), req.MinWorkers, req.MaxWorkers)
	if err != nil {
		switch {
		case srvErrors.IsPoolTerminatedError(err):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case srvErrors.IsInvalidArgumentError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			zap.S().Named("pool_handler").Errorw("failed to resize pool", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resize pool"})
		}
		return
	}

	var resp v1.PoolStatus
	resp.FromModel(status)
	c.JSON(http.StatusOK, resp)
}

// ResetPoolStats clears the pool counters
// (POST /pool/stats/reset)
func (h *Handler) ResetPoolStats(c *gin.Context) {
	h.poolSrv.ResetStats()
	c.Status(http.StatusNoContent)
}

// GetStats returns per-type aggregates of the task history
// (GET /stats)
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.historySrv.Stats(c.Request.Context())
	if err != nil {
		zap.S().Named("pool_handler").Errorw("failed to compute stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, v1.NewStatsResponse(stats))
}
