package services_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/taskpool/internal/models"
	"github.com/kubev2v/taskpool/internal/services"
	"github.com/kubev2v/taskpool/internal/store"
	"github.com/kubev2v/taskpool/internal/store/migrations"
	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
	"github.com/kubev2v/taskpool/pkg/scheduler"
	"github.com/kubev2v/taskpool/test"
)

func newTestStore(ctx context.Context) (*store.Store, *sql.DB) {
	db, err := store.NewDB(":memory:")
	Expect(err).NotTo(HaveOccurred())
	Expect(migrations.Run(ctx, db)).To(Succeed())
	return store.NewStore(db), db
}

func testSchedulerConfig(exec *test.MockExecutor) scheduler.Config {
	cfg := scheduler.DefaultConfig()
	cfg.HealthCheckInterval = 20 * time.Millisecond
	cfg.ShutdownGrace = time.Second
	cfg.Backoff.InitialInterval = 5 * time.Millisecond
	cfg.Backoff.MaxInterval = 20 * time.Millisecond
	cfg.NewExecutor = exec.Factory()
	return cfg
}

func intPtr(i int) *int { return &i }

var _ = Describe("PoolService", func() {
	var (
		ctx   context.Context
		st    *store.Store
		db    *sql.DB
		sched *scheduler.Scheduler
		srv   *services.PoolService
	)

	start := func(cfg scheduler.Config) {
		var err error
		sched, err = scheduler.NewScheduler(cfg)
		Expect(err).NotTo(HaveOccurred())
		srv = services.NewPoolService(sched, st)
	}

	BeforeEach(func() {
		ctx = context.Background()
		st, db = newTestStore(ctx)
	})

	AfterEach(func() {
		if sched != nil {
			sched.Terminate()
			sched = nil
		}
		db.Close()
	})

	Context("Submit", func() {
		It("should generate an id and run the task", func() {
			exec := test.NewMockExecutor()
			start(testSchedulerConfig(exec))

			id, err := srv.Submit(scheduler.Task{Type: "echo", Payload: 1})

			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())
			Eventually(exec.Calls).Should(Equal(1))
			Expect(exec.Messages()[0].ID).To(Equal(id))
		})

		// Given a pool whose single worker is busy and whose queue holds one task
		// When another task is submitted
		// Then the submission is rejected with QueueFullError
		It("should return a rejection made at submission time", func() {
			release := make(chan struct{})
			defer close(release)
			cfg := testSchedulerConfig(test.NewBlockingExecutor(release))
			cfg.MaxWorkers = 1
			cfg.MaxQueueSize = 1
			start(cfg)

			_, err := srv.Submit(scheduler.Task{Type: "block"})
			Expect(err).NotTo(HaveOccurred())
			_, err = srv.Submit(scheduler.Task{Type: "block"})
			Expect(err).NotTo(HaveOccurred())

			_, err = srv.Submit(scheduler.Task{Type: "block"})
			Expect(srvErrors.IsQueueFullError(err)).To(BeTrue())
		})

		It("should reject tasks after termination", func() {
			start(testSchedulerConfig(test.NewMockExecutor()))
			srv.Terminate()

			_, err := srv.Submit(scheduler.Task{Type: "echo"})
			Expect(srvErrors.IsPoolTerminatedError(err)).To(BeTrue())
		})
	})

	Context("SubmitAndWait", func() {
		It("should return the result", func() {
			start(testSchedulerConfig(test.NewMockExecutor()))

			res, err := srv.SubmitAndWait(ctx, scheduler.Task{Type: "echo", Payload: "x"})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Success).To(BeTrue())
			Expect(res.Data).To(Equal("x"))
			Expect(res.Type).To(Equal("echo"))
		})

		// Given a task that never finishes
		// When the caller's context ends
		// Then the task is canceled and no longer pending
		It("should cancel the task when the caller gives up", func() {
			start(testSchedulerConfig(test.NewSilentExecutor()))
			wctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			_, err := srv.SubmitAndWait(wctx, scheduler.Task{ID: "slow", Type: "never", Timeout: time.Minute})

			Expect(err).To(MatchError(context.DeadlineExceeded))
			Eventually(func() bool {
				_, ok := srv.Lookup("slow")
				return ok
			}).Should(BeFalse())
			Expect(srv.Status().Metrics.CanceledTasks).To(Equal(1))
		})
	})

	Context("Resize", func() {
		It("should apply and persist the new bounds", func() {
			start(testSchedulerConfig(test.NewMockExecutor()))

			status, err := srv.Resize(ctx, intPtr(2), intPtr(6))

			Expect(err).NotTo(HaveOccurred())
			Expect(status.MinWorkers).To(Equal(2))
			Expect(status.MaxWorkers).To(Equal(6))

			saved, err := st.Settings().Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.MinWorkers).To(Equal(2))
			Expect(saved.MaxWorkers).To(Equal(6))
		})

		It("should not persist invalid bounds", func() {
			start(testSchedulerConfig(test.NewMockExecutor()))

			_, err := srv.Resize(ctx, intPtr(5), intPtr(2))

			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
			_, err = st.Settings().Get(ctx)
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Context("RestoreBounds", func() {
		It("should keep the configured bounds when nothing was saved", func() {
			cfg := scheduler.DefaultConfig()

			Expect(services.RestoreBounds(ctx, st, &cfg)).To(Succeed())

			Expect(cfg.MinWorkers).To(Equal(1))
			Expect(cfg.MaxWorkers).To(Equal(4))
		})

		It("should override the configured bounds with the saved ones", func() {
			Expect(st.Settings().Save(ctx, &models.PoolSettings{MinWorkers: 3, MaxWorkers: 9})).To(Succeed())
			cfg := scheduler.DefaultConfig()

			Expect(services.RestoreBounds(ctx, st, &cfg)).To(Succeed())

			Expect(cfg.MinWorkers).To(Equal(3))
			Expect(cfg.MaxWorkers).To(Equal(9))
		})
	})

	Context("Cancel", func() {
		It("should return ResourceNotFoundError for a task that is not pending", func() {
			start(testSchedulerConfig(test.NewMockExecutor()))

			err := srv.Cancel("missing")
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should cancel a pending task", func() {
			start(testSchedulerConfig(test.NewSilentExecutor()))
			id, err := srv.Submit(scheduler.Task{Type: "never", Timeout: time.Minute})
			Expect(err).NotTo(HaveOccurred())

			Expect(srv.Cancel(id)).To(Succeed())
			_, ok := srv.Lookup(id)
			Expect(ok).To(BeFalse())
		})
	})

	It("should run a batch in order", func() {
		start(testSchedulerConfig(test.NewMockExecutor()))

		results, err := srv.Batch(ctx, []scheduler.Task{
			{Type: "echo", Payload: 1},
			{Type: "echo", Payload: 2},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(results[0].Data).To(Equal(1))
		Expect(results[1].Data).To(Equal(2))
	})
})
