package scheduler

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// ExecuteBatch submits every task and waits for all results, returned in
// input order. A failed task does not fail the batch; only ctx does, in which
// case the remaining tasks are canceled.
func (s *Scheduler) ExecuteBatch(ctx context.Context, tasks []Task) ([]Result, error) {
	futures := make([]*Future[Result], len(tasks))
	for i, t := range tasks {
		futures[i] = s.Submit(t)
	}

	results := make([]Result, len(tasks))
	for i, f := range futures {
		r, err := f.Await(ctx)
		if err != nil {
			for _, rest := range futures[i:] {
				rest.Stop()
			}
			return nil, err
		}
		results[i] = r
	}
	return results, nil
}

// ParallelMap runs one task of taskType per item and returns the results in
// input order. The first failure cancels the tasks still pending.
func (s *Scheduler) ParallelMap(ctx context.Context, taskType string, items []any, opts ...TaskOption) ([]any, error) {
	g, gctx := errgroup.WithContext(ctx)
	out := make([]any, len(items))

	for i, item := range items {
		t := Task{Type: taskType, Payload: item}
		for _, opt := range opts {
			opt(&t)
		}
		f := s.Submit(t)
		g.Go(func() error {
			r, err := f.Await(gctx)
			if err != nil {
				f.Stop()
				return err
			}
			if r.Err != nil {
				return r.Err
			}
			out[i] = r.Data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParallelMapReduce maps items through taskType and folds the results in
// input order.
func ParallelMapReduce[A any](ctx context.Context, s *Scheduler, taskType string, items []any, init A, reduce func(acc A, v any) (A, error), opts ...TaskOption) (A, error) {
	mapped, err := s.ParallelMap(ctx, taskType, items, opts...)
	if err != nil {
		return init, err
	}
	acc := init
	for _, v := range mapped {
		if acc, err = reduce(acc, v); err != nil {
			return init, err
		}
	}
	return acc, nil
}

// TaskOption customizes the tasks created by the parallel helpers.
type TaskOption func(*Task)

func WithPriority(p int) TaskOption {
	return func(t *Task) { t.Priority = p }
}

func WithTimeout(d time.Duration) TaskOption {
	return func(t *Task) { t.Timeout = d }
}

func WithMaxRetries(n int) TaskOption {
	return func(t *Task) { t.MaxRetries = &n }
}
