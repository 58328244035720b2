package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/taskpool/internal/models"
	"github.com/kubev2v/taskpool/internal/store"
	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
	"github.com/kubev2v/taskpool/pkg/scheduler"
)

// PoolService exposes the scheduler to the API and persists resizes.
type PoolService struct {
	scheduler *scheduler.Scheduler
	store     *store.Store
	log       *zap.SugaredLogger
}

func NewPoolService(s *scheduler.Scheduler, st *store.Store) *PoolService {
	return &PoolService{
		scheduler: s,
		store:     st,
		log:       zap.S().Named("pool_service"),
	}
}

// RestoreBounds overrides the bounds of cfg with the ones saved by the last
// resize, if any.
func RestoreBounds(ctx context.Context, st *store.Store, cfg *scheduler.Config) error {
	settings, err := st.Settings().Get(ctx)
	if err != nil {
		if srvErrors.IsResourceNotFoundError(err) {
			return nil
		}
		return err
	}

	zap.S().Named("pool_service").Infow("restoring pool bounds",
		"min_workers", settings.MinWorkers,
		"max_workers", settings.MaxWorkers,
		"saved_at", settings.UpdatedAt,
	)
	cfg.MinWorkers = settings.MinWorkers
	cfg.MaxWorkers = settings.MaxWorkers
	return nil
}

// Submit queues the task and returns its id without waiting. Rejections made
// at submission time (full queue, duplicate id, terminated pool) are returned.
func (p *PoolService) Submit(task scheduler.Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	f := p.scheduler.Submit(task)

	// a synchronous rejection has been delivered once Sync returns
	p.scheduler.Sync()
	select {
	case res := <-f.C():
		if isRejection(res.Err) {
			return task.ID, res.Err
		}
	default:
	}
	return task.ID, nil
}

func isRejection(err error) bool {
	return srvErrors.IsQueueFullError(err) ||
		srvErrors.IsInvalidArgumentError(err) ||
		srvErrors.IsPoolTerminatedError(err)
}

// SubmitAndWait blocks until the task settles. When ctx ends first the task
// is canceled and ctx's error returned.
func (p *PoolService) SubmitAndWait(ctx context.Context, task scheduler.Task) (scheduler.Result, error) {
	f := p.scheduler.Submit(task)
	res, err := f.Await(ctx)
	if err != nil {
		f.Stop()
		return scheduler.Result{}, err
	}
	return res, nil
}

func (p *PoolService) Batch(ctx context.Context, tasks []scheduler.Task) ([]scheduler.Result, error) {
	return p.scheduler.ExecuteBatch(ctx, tasks)
}

func (p *PoolService) Status() scheduler.Status {
	return p.scheduler.Status()
}

// Resize applies the bounds and saves the effective ones.
func (p *PoolService) Resize(ctx context.Context, minWorkers, maxWorkers *int) (scheduler.Status, error) {
	if err := p.scheduler.Resize(minWorkers, maxWorkers); err != nil {
		return scheduler.Status{}, err
	}

	status := p.scheduler.Status()
	settings := &models.PoolSettings{
		MinWorkers: status.MinWorkers,
		MaxWorkers: status.MaxWorkers,
		UpdatedAt:  time.Now(),
	}
	if err := p.store.Settings().Save(ctx, settings); err != nil {
		p.log.Errorw("failed to save pool bounds", "error", err)
		return status, err
	}

	p.log.Infow("pool resized", "min_workers", status.MinWorkers, "max_workers", status.MaxWorkers)
	return status, nil
}

// Cancel rejects a pending task. It returns ResourceNotFoundError when the
// task is not pending.
func (p *PoolService) Cancel(id string) error {
	if !p.scheduler.Cancel(id) {
		return srvErrors.NewTaskNotFoundError(id)
	}
	return nil
}

func (p *PoolService) Lookup(id string) (scheduler.TaskInfo, bool) {
	return p.scheduler.Lookup(id)
}

func (p *PoolService) ResetStats() {
	p.scheduler.ResetStats()
}

func (p *PoolService) Terminate() {
	p.scheduler.Terminate()
}
