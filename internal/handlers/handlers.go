package handlers

import (
	"net/http"

	v1 "github.com/kubev2v/taskpool/api/v1"
	"github.com/kubev2v/taskpool/internal/services"
	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

type Handler struct {
	poolSrv    *services.PoolService
	historySrv *services.HistoryService
}

var _ v1.ServerInterface = (*Handler)(nil)

func New(poolSrv *services.PoolService, historySrv *services.HistoryService) *Handler {
	return &Handler{
		poolSrv:    poolSrv,
		historySrv: historySrv,
	}
}

// httpStatus maps service errors to status codes.
func httpStatus(err error) int {
	switch {
	case srvErrors.IsInvalidArgumentError(err), srvErrors.IsUnknownTaskTypeError(err):
		return http.StatusBadRequest
	case srvErrors.IsResourceNotFoundError(err):
		return http.StatusNotFound
	case srvErrors.IsPoolTerminatedError(err), srvErrors.IsQueueFullError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
