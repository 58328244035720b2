package scheduler_test

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
	"github.com/kubev2v/taskpool/pkg/scheduler"
	"github.com/kubev2v/taskpool/test"
)

func testConfig(exec *test.MockExecutor) scheduler.Config {
	cfg := scheduler.DefaultConfig()
	cfg.HealthCheckInterval = 20 * time.Millisecond
	cfg.ShutdownGrace = time.Second
	cfg.Backoff.InitialInterval = 5 * time.Millisecond
	cfg.Backoff.MaxInterval = 20 * time.Millisecond
	if exec != nil {
		cfg.NewExecutor = exec.Factory()
	}
	return cfg
}

func intPtr(i int) *int { return &i }

var _ = Describe("Scheduler", func() {
	var s *scheduler.Scheduler

	AfterEach(func() {
		if s != nil {
			s.Terminate()
			s = nil
		}
	})

	Describe("Submit", func() {
		It("should run a task and resolve its future", func() {
			exec := test.NewMockExecutor()
			var err error
			s, err = scheduler.NewScheduler(testConfig(exec))
			Expect(err).NotTo(HaveOccurred())

			future := s.Submit(scheduler.Task{Type: "echo", Payload: "hello"})

			var result scheduler.Result
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Success).To(BeTrue())
			Expect(result.Data).To(Equal("hello"))
			Expect(result.Attempts).To(Equal(1))
			Expect(result.TaskID).NotTo(BeEmpty())
			Expect(result.WorkerID).To(Equal("worker-1"))
			Expect(s.Status().Metrics.TotalTasks).To(Equal(1))
			Expect(s.Status().Metrics.CompletedTasks).To(Equal(1))
		})

		It("should reject an invalid configuration", func() {
			cfg := testConfig(nil)
			cfg.MinWorkers = 5
			cfg.MaxWorkers = 2

			_, err := scheduler.NewScheduler(cfg)
			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
		})

		It("should reject a duplicate pending id", func() {
			release := make(chan struct{})
			defer close(release)
			var err error
			s, err = scheduler.NewScheduler(testConfig(test.NewBlockingExecutor(release)))
			Expect(err).NotTo(HaveOccurred())

			s.Submit(scheduler.Task{ID: "same", Type: "block"})
			dup := s.Submit(scheduler.Task{ID: "same", Type: "block"})

			var result scheduler.Result
			Eventually(dup.C(), 2*time.Second).Should(Receive(&result))
			Expect(srvErrors.IsInvalidArgumentError(result.Err)).To(BeTrue())
		})
	})

	Describe("Priority ordering", func() {
		// Given a single busy worker
		// When tasks with priorities 1, 5 and 3 are queued in that order
		// Then they are dispatched as 5, 3, 1
		It("should dispatch higher priorities first", func() {
			release := make(chan struct{})
			exec := test.NewBlockingExecutor(release)
			cfg := testConfig(exec)
			cfg.MinWorkers, cfg.MaxWorkers = 1, 1
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			s.Submit(scheduler.Task{Type: "block", Payload: 0})
			Eventually(exec.Calls, 2*time.Second).Should(Equal(1))

			futures := []*scheduler.Future[scheduler.Result]{}
			for _, p := range []int{1, 5, 3} {
				futures = append(futures, s.Submit(scheduler.Task{Type: "block", Payload: p, Priority: p}))
			}
			Eventually(func() int { return s.Status().QueueDepth }, 2*time.Second).Should(Equal(3))

			close(release)
			for _, f := range futures {
				Eventually(f.C(), 2*time.Second).Should(Receive())
			}

			var order []any
			for _, m := range exec.Messages() {
				order = append(order, m.Payload)
			}
			Expect(order).To(Equal([]any{0, 5, 3, 1}))
		})

		It("should keep submission order within a priority", func() {
			release := make(chan struct{})
			exec := test.NewBlockingExecutor(release)
			cfg := testConfig(exec)
			cfg.MinWorkers, cfg.MaxWorkers = 1, 1
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			for i := range 4 {
				s.Submit(scheduler.Task{Type: "block", Payload: i, Priority: 2})
			}
			Eventually(func() int { return s.Status().QueueDepth }, 2*time.Second).Should(Equal(3))
			close(release)

			Eventually(exec.Calls, 2*time.Second).Should(Equal(4))
			for i, m := range exec.Messages() {
				Expect(m.Payload).To(Equal(i))
			}
		})
	})

	Describe("Capacity", func() {
		// Given a pool with maxWorkers=2
		// When 5 long running tasks are submitted
		// Then 2 workers are busy and 3 tasks are queued
		It("should bound busy workers and queue the rest", func() {
			release := make(chan struct{})
			defer close(release)
			cfg := testConfig(test.NewBlockingExecutor(release))
			cfg.MinWorkers, cfg.MaxWorkers = 1, 2
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			for range 5 {
				s.Submit(scheduler.Task{Type: "block"})
			}

			Eventually(func() int { return s.Status().BusyWorkers }, 2*time.Second).Should(Equal(2))
			status := s.Status()
			Expect(status.WorkerCount).To(Equal(2))
			Expect(status.QueueDepth).To(Equal(3))
			Expect(status.Metrics.CurrentQueueDepth).To(Equal(3))
			Expect(status.Metrics.PeakWorkerCount).To(Equal(2))
			Consistently(func() int { return s.Status().BusyWorkers }, 100*time.Millisecond).Should(Equal(2))
		})

		It("should fail fast when the bounded queue is full", func() {
			release := make(chan struct{})
			defer close(release)
			cfg := testConfig(test.NewBlockingExecutor(release))
			cfg.MinWorkers, cfg.MaxWorkers = 1, 1
			cfg.MaxQueueSize = 1
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			s.Submit(scheduler.Task{Type: "block"})
			s.Submit(scheduler.Task{Type: "block"})
			third := s.Submit(scheduler.Task{Type: "block"})

			var result scheduler.Result
			Eventually(third.C(), 2*time.Second).Should(Receive(&result))
			Expect(srvErrors.IsQueueFullError(result.Err)).To(BeTrue())
			Expect(s.Status().Metrics.TotalTasks).To(Equal(3))
		})

		It("should deliver a submission-time rejection before Sync returns", func() {
			release := make(chan struct{})
			defer close(release)
			cfg := testConfig(test.NewBlockingExecutor(release))
			cfg.MinWorkers, cfg.MaxWorkers = 1, 1
			cfg.MaxQueueSize = 1
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			s.Submit(scheduler.Task{Type: "block"})
			s.Submit(scheduler.Task{Type: "block"})
			third := s.Submit(scheduler.Task{Type: "block"})
			Expect(s.Sync()).To(BeTrue())

			var result scheduler.Result
			Expect(third.C()).To(Receive(&result))
			Expect(srvErrors.IsQueueFullError(result.Err)).To(BeTrue())

			s.Terminate()
			Expect(s.Sync()).To(BeFalse())
		})
	})

	Describe("Retries", func() {
		// Given a task with maxRetries=2 that always fails
		// When it is submitted
		// Then it is attempted exactly 3 times and fails terminally
		It("should stop after maxRetries+1 attempts", func() {
			exec := test.NewFailingExecutor()
			var err error
			s, err = scheduler.NewScheduler(testConfig(exec))
			Expect(err).NotTo(HaveOccurred())

			future := s.Submit(scheduler.Task{Type: "fail", MaxRetries: intPtr(2)})

			var result scheduler.Result
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Success).To(BeFalse())
			Expect(result.Attempts).To(Equal(3))
			Expect(srvErrors.IsTaskFailedError(result.Err)).To(BeTrue())
			Expect(srvErrors.IsTaskFailureError(result.Err)).To(BeTrue())
			Expect(errors.Is(result.Err, test.ErrMockFailure)).To(BeTrue())

			Consistently(exec.Calls, 100*time.Millisecond).Should(Equal(3))
			status := s.Status()
			Expect(status.Metrics.FailedTasks).To(Equal(1))
			Expect(status.Metrics.RetriedTasks).To(Equal(2))
		})

		It("should succeed on a later attempt", func() {
			exec := &test.MockExecutor{
				Handler: func(_ context.Context, msg scheduler.Message) (any, error) {
					if msg.Attempt < 2 {
						return nil, test.ErrMockFailure
					}
					return "ok", nil
				},
			}
			var err error
			s, err = scheduler.NewScheduler(testConfig(exec))
			Expect(err).NotTo(HaveOccurred())

			future := s.Submit(scheduler.Task{Type: "flaky"})

			var result scheduler.Result
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Success).To(BeTrue())
			Expect(result.Attempts).To(Equal(2))
		})
	})

	Describe("Timeouts", func() {
		// Given an execution unit that never answers in time
		// When a task with timeout 50ms and maxRetries=1 is submitted
		// Then both attempts time out and the future rejects with a timeout error
		It("should retry once and then fail with a timeout error", func() {
			exec := test.NewSilentExecutor()
			var err error
			s, err = scheduler.NewScheduler(testConfig(exec))
			Expect(err).NotTo(HaveOccurred())
			failedBefore := s.Status().Metrics.FailedTasks

			future := s.Submit(scheduler.Task{
				Type:       "compute",
				Priority:   0,
				Timeout:    50 * time.Millisecond,
				MaxRetries: intPtr(1),
			})

			var result scheduler.Result
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Attempts).To(Equal(2))
			Expect(srvErrors.IsTaskFailedError(result.Err)).To(BeTrue())
			Expect(srvErrors.IsTaskTimeoutError(result.Err)).To(BeTrue())

			status := s.Status()
			Expect(status.Metrics.FailedTasks).To(Equal(failedBefore + 1))
			Expect(status.Metrics.TimedOutTasks).To(Equal(2))
		})

		It("should replace a worker whose error count exceeds the threshold", func() {
			exec := test.NewSilentExecutor()
			cfg := testConfig(exec)
			cfg.MinWorkers, cfg.MaxWorkers = 1, 1
			cfg.ErrorThreshold = 1
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			future := s.Submit(scheduler.Task{Type: "compute", Timeout: 30 * time.Millisecond, MaxRetries: intPtr(1)})
			Eventually(future.C(), 2*time.Second).Should(Receive())

			Eventually(func() int { return s.Status().Metrics.WorkersTerminated }, 2*time.Second).Should(BeNumerically(">=", 1))
			Eventually(func() int { return s.Status().WorkerCount }, 2*time.Second).Should(Equal(1))
			Expect(s.Status().Workers[0].ID).NotTo(Equal("worker-1"))
		})

		// Given a unit that ignores cancellation and stays inside Execute
		// When its attempt times out
		// Then the retry runs on a fresh worker instead of the wedged one
		It("should retry on a new worker when the timed out unit is still running", func() {
			release := make(chan struct{})
			defer close(release)

			var calls atomic.Int32
			exec := &test.MockExecutor{
				Handler: func(context.Context, scheduler.Message) (any, error) {
					if calls.Add(1) == 1 {
						<-release
					}
					return "ok", nil
				},
			}
			cfg := testConfig(exec)
			cfg.MinWorkers, cfg.MaxWorkers = 1, 2
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			future := s.Submit(scheduler.Task{Type: "compute", Timeout: 50 * time.Millisecond, MaxRetries: intPtr(1)})

			var result scheduler.Result
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Success).To(BeTrue())
			Expect(result.Data).To(Equal("ok"))
			Expect(result.Attempts).To(Equal(2))
			Expect(result.WorkerID).NotTo(Equal("worker-1"))
			Expect(exec.Calls()).To(Equal(2))

			status := s.Status()
			Expect(status.Metrics.TimedOutTasks).To(Equal(1))
			for _, w := range status.Workers {
				Expect(w.ID).NotTo(Equal("worker-1"))
			}
		})
	})

	Describe("Worker faults", func() {
		It("should replace a panicking worker and retry the task", func() {
			exec := &test.MockExecutor{
				Handler: func(_ context.Context, msg scheduler.Message) (any, error) {
					if msg.Attempt == 1 {
						panic("boom")
					}
					return "recovered", nil
				},
			}
			cfg := testConfig(exec)
			cfg.MinWorkers, cfg.MaxWorkers = 1, 1
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			future := s.Submit(scheduler.Task{Type: "crash"})

			var result scheduler.Result
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Success).To(BeTrue())
			Expect(result.Data).To(Equal("recovered"))
			Expect(result.WorkerID).To(Equal("worker-2"))

			status := s.Status()
			Expect(status.Metrics.WorkersCreated).To(Equal(2))
			Expect(status.WorkerCount).To(Equal(1))
		})

		It("should fail with a worker fault once retries are exhausted", func() {
			var err error
			s, err = scheduler.NewScheduler(testConfig(test.NewPanickingExecutor()))
			Expect(err).NotTo(HaveOccurred())

			future := s.Submit(scheduler.Task{Type: "crash", MaxRetries: intPtr(0)})

			var result scheduler.Result
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(srvErrors.IsWorkerFaultError(result.Err)).To(BeTrue())
		})
	})

	Describe("Idle reclamation", func() {
		// Given a pool with min 1, max 4 and idleTimeout 100ms
		// When it bursts to 4 workers and goes idle
		// Then it shrinks back to exactly 1 worker
		It("should return to minWorkers after the idle timeout", func() {
			release := make(chan struct{})
			cfg := testConfig(test.NewBlockingExecutor(release))
			cfg.MinWorkers, cfg.MaxWorkers = 1, 4
			cfg.IdleTimeout = 100 * time.Millisecond
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			futures := []*scheduler.Future[scheduler.Result]{}
			for range 4 {
				futures = append(futures, s.Submit(scheduler.Task{Type: "block"}))
			}
			Eventually(func() int { return s.Status().WorkerCount }, 2*time.Second).Should(Equal(4))

			close(release)
			for _, f := range futures {
				Eventually(f.C(), 2*time.Second).Should(Receive())
			}

			Eventually(func() int { return s.Status().WorkerCount }, 2*time.Second).Should(Equal(1))
			Consistently(func() int { return s.Status().WorkerCount }, 200*time.Millisecond).Should(Equal(1))
		})
	})

	Describe("Resize", func() {
		// Given in-flight and queued tasks
		// When the pool is resized to 0/0
		// Then every pending task is rejected and nothing is dispatched anymore
		It("should drain the pool when resized to zero", func() {
			release := make(chan struct{})
			defer close(release)
			exec := test.NewBlockingExecutor(release)
			cfg := testConfig(exec)
			cfg.MinWorkers, cfg.MaxWorkers = 1, 2
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			futures := []*scheduler.Future[scheduler.Result]{}
			for range 4 {
				futures = append(futures, s.Submit(scheduler.Task{Type: "block"}))
			}
			Eventually(func() int { return s.Status().QueueDepth }, 2*time.Second).Should(Equal(2))

			Expect(s.Resize(intPtr(0), intPtr(0))).To(Succeed())

			for _, f := range futures {
				var result scheduler.Result
				Eventually(f.C(), 2*time.Second).Should(Receive(&result))
				Expect(srvErrors.IsPoolTerminatedError(result.Err)).To(BeTrue())
			}

			status := s.Status()
			Expect(status.WorkerCount).To(Equal(0))
			Expect(status.QueueDepth).To(Equal(0))
			Expect(status.InFlight).To(Equal(0))

			late := s.Submit(scheduler.Task{Type: "block"})
			var result scheduler.Result
			Eventually(late.C(), 2*time.Second).Should(Receive(&result))
			Expect(srvErrors.IsPoolTerminatedError(result.Err)).To(BeTrue())
			Consistently(exec.Calls, 100*time.Millisecond).Should(Equal(2))
		})

		It("should accept work again after growing from zero", func() {
			cfg := testConfig(test.NewMockExecutor())
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Resize(intPtr(0), intPtr(0))).To(Succeed())
			Expect(s.Resize(intPtr(2), intPtr(3))).To(Succeed())
			Expect(s.Status().WorkerCount).To(Equal(2))

			var result scheduler.Result
			Eventually(s.Submit(scheduler.Task{Type: "echo", Payload: 1}).C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Success).To(BeTrue())
		})

		It("should retire busy workers when shrinking", func() {
			release := make(chan struct{})
			cfg := testConfig(test.NewBlockingExecutor(release))
			cfg.MinWorkers, cfg.MaxWorkers = 0, 3
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			for range 3 {
				s.Submit(scheduler.Task{Type: "block"})
			}
			Eventually(func() int { return s.Status().BusyWorkers }, 2*time.Second).Should(Equal(3))

			Expect(s.Resize(nil, intPtr(1))).To(Succeed())
			Expect(s.Status().WorkerCount).To(Equal(3))

			close(release)
			Eventually(func() int { return s.Status().WorkerCount }, 2*time.Second).Should(Equal(1))
			Expect(s.Status().MaxWorkers).To(Equal(1))
		})

		It("should reject inconsistent bounds", func() {
			var err error
			s, err = scheduler.NewScheduler(testConfig(nil))
			Expect(err).NotTo(HaveOccurred())

			err = s.Resize(intPtr(5), intPtr(2))
			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
			err = s.Resize(nil, intPtr(-1))
			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
		})
	})

	Describe("Cancel", func() {
		It("should cancel an in-flight task", func() {
			release := make(chan struct{})
			defer close(release)
			var err error
			s, err = scheduler.NewScheduler(testConfig(test.NewBlockingExecutor(release)))
			Expect(err).NotTo(HaveOccurred())

			future := s.Submit(scheduler.Task{ID: "t-1", Type: "block"})
			Eventually(func() scheduler.TaskState {
				info, _ := s.Lookup("t-1")
				return info.State
			}, 2*time.Second).Should(Equal(scheduler.TaskStateDispatched))

			Expect(s.Cancel("t-1")).To(BeTrue())

			var result scheduler.Result
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(context.Canceled))
			_, found := s.Lookup("t-1")
			Expect(found).To(BeFalse())
			Expect(s.Cancel("t-1")).To(BeFalse())

			// the worker is released once the unit observes the cancellation
			Eventually(func() int { return s.Status().BusyWorkers }, 2*time.Second).Should(Equal(0))
			Expect(s.Status().Metrics.CanceledTasks).To(Equal(1))
		})

		It("should cancel a queued task through its future", func() {
			release := make(chan struct{})
			defer close(release)
			cfg := testConfig(test.NewBlockingExecutor(release))
			cfg.MinWorkers, cfg.MaxWorkers = 1, 1
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			s.Submit(scheduler.Task{Type: "block"})
			queued := s.Submit(scheduler.Task{ID: "queued", Type: "block"})
			Eventually(func() int { return s.Status().QueueDepth }, 2*time.Second).Should(Equal(1))

			queued.Stop()

			var result scheduler.Result
			Eventually(queued.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(context.Canceled))
			Expect(s.Status().QueueDepth).To(Equal(0))
		})
	})

	Describe("Hooks", func() {
		It("should invoke onSuccess and onError", func() {
			successes := make(chan scheduler.Result, 1)
			failures := make(chan scheduler.Task, 1)
			exec := &test.MockExecutor{
				Handler: func(_ context.Context, msg scheduler.Message) (any, error) {
					if msg.Type == "fail" {
						return nil, test.ErrMockFailure
					}
					return "ok", nil
				},
			}
			cfg := testConfig(exec)
			cfg.MaxRetries = 0
			cfg.Hooks = scheduler.Hooks{
				OnSuccess: func(r scheduler.Result) { successes <- r },
				OnError:   func(_ error, t scheduler.Task) { failures <- t },
			}
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			s.Submit(scheduler.Task{ID: "good", Type: "ok"})
			s.Submit(scheduler.Task{ID: "bad", Type: "fail"})

			Eventually(successes, 2*time.Second).Should(Receive(HaveField("TaskID", "good")))
			Eventually(failures, 2*time.Second).Should(Receive(HaveField("ID", "bad")))
		})
	})

	Describe("Batch helpers", func() {
		It("should execute a batch and keep input order", func() {
			var err error
			s, err = scheduler.NewScheduler(testConfig(nil))
			Expect(err).NotTo(HaveOccurred())

			results, err := s.ExecuteBatch(context.Background(), []scheduler.Task{
				{Type: scheduler.TaskTypeSum, Payload: []any{1.0, 2.0, 3.0}},
				{Type: scheduler.TaskTypeHash, Payload: "abc"},
				{Type: "unknown", MaxRetries: intPtr(0)},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].Data).To(Equal(6.0))
			Expect(results[1].Data).To(Equal("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"))
			Expect(srvErrors.IsUnknownTaskTypeError(results[2].Err)).To(BeTrue())
		})

		It("should map items in parallel", func() {
			var err error
			s, err = scheduler.NewScheduler(testConfig(nil))
			Expect(err).NotTo(HaveOccurred())

			out, err := s.ParallelMap(context.Background(), scheduler.TaskTypeFibonacci, []any{10, 20, 30})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]any{int64(55), int64(6765), int64(832040)}))
		})

		It("should reduce mapped results", func() {
			var err error
			s, err = scheduler.NewScheduler(testConfig(nil))
			Expect(err).NotTo(HaveOccurred())

			total, err := scheduler.ParallelMapReduce(context.Background(), s, scheduler.TaskTypeFibonacci, []any{1, 2, 3, 4}, int64(0),
				func(acc int64, v any) (int64, error) { return acc + v.(int64), nil })
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1 + 1 + 2 + 3)))
		})

		It("should fail the map on the first failing item", func() {
			var err error
			s, err = scheduler.NewScheduler(testConfig(nil))
			Expect(err).NotTo(HaveOccurred())

			_, err = s.ParallelMap(context.Background(), scheduler.TaskTypeFibonacci, []any{5, -1}, scheduler.WithMaxRetries(0))
			Expect(srvErrors.IsTaskFailedError(err)).To(BeTrue())
		})
	})

	Describe("Terminate", func() {
		It("should reject pending tasks and be idempotent", func() {
			release := make(chan struct{})
			defer close(release)
			cfg := testConfig(test.NewBlockingExecutor(release))
			cfg.MinWorkers, cfg.MaxWorkers = 1, 1
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			inflight := s.Submit(scheduler.Task{Type: "block"})
			queued := s.Submit(scheduler.Task{Type: "block"})
			Eventually(func() int { return s.Status().QueueDepth }, 2*time.Second).Should(Equal(1))

			s.Terminate()
			s.Terminate()

			for _, f := range []*scheduler.Future[scheduler.Result]{inflight, queued} {
				var result scheduler.Result
				Eventually(f.C(), time.Second).Should(Receive(&result))
				Expect(srvErrors.IsPoolTerminatedError(result.Err)).To(BeTrue())
			}

			after := s.Submit(scheduler.Task{Type: "block"})
			var result scheduler.Result
			Eventually(after.C(), time.Second).Should(Receive(&result))
			Expect(srvErrors.IsPoolTerminatedError(result.Err)).To(BeTrue())

			status := s.Status()
			Expect(status.Terminated).To(BeTrue())
			Expect(status.WorkerCount).To(Equal(0))
			Expect(s.Resize(intPtr(1), intPtr(2))).To(HaveOccurred())
		})

		It("should not leak goroutines after Terminate under load", func() {
			base := runtime.NumGoroutine()
			cfg := testConfig(test.NewSilentExecutor())
			cfg.MaxWorkers = 4
			var err error
			s, err = scheduler.NewScheduler(cfg)
			Expect(err).NotTo(HaveOccurred())

			for range 200 {
				s.Submit(scheduler.Task{Type: "block"})
			}

			time.Sleep(100 * time.Millisecond)
			s.Terminate()
			s = nil

			Eventually(func() int {
				return runtime.NumGoroutine()
			}, 5*time.Second, 100*time.Millisecond).Should(BeNumerically("<=", base+10))
		})
	})
})
