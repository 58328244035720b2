package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/taskpool/api/v1"
	"github.com/kubev2v/taskpool/internal/handlers"
	"github.com/kubev2v/taskpool/internal/services"
	"github.com/kubev2v/taskpool/internal/store"
	"github.com/kubev2v/taskpool/internal/store/migrations"
	"github.com/kubev2v/taskpool/pkg/scheduler"
)

var _ = Describe("Handler", func() {
	var (
		ctx      context.Context
		db       *sql.DB
		st       *store.Store
		sched    *scheduler.Scheduler
		recorder *services.HistoryRecorder
		router   *gin.Engine
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		st = store.NewStore(db)

		recorder = services.NewHistoryRecorder(st, 64)

		cfg := scheduler.DefaultConfig()
		cfg.MaxWorkers = 2
		cfg.MaxRetries = 0
		cfg.HealthCheckInterval = 20 * time.Millisecond
		cfg.ShutdownGrace = time.Second
		cfg.Hooks = recorder.Hooks()
		sched, err = scheduler.NewScheduler(cfg)
		Expect(err).NotTo(HaveOccurred())

		h := handlers.New(services.NewPoolService(sched, st), services.NewHistoryService(st))
		router = gin.New()
		v1.RegisterHandlers(router.Group("/api/v1"), h)
	})

	AfterEach(func() {
		sched.Terminate()
		_ = recorder.Close(ctx)
		db.Close()
	})

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body != nil {
			data, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(data)
		} else {
			reader = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder, out any) {
		Expect(json.Unmarshal(w.Body.Bytes(), out)).To(Succeed())
	}

	Context("POST /tasks", func() {
		// Given a running pool
		// When a task is submitted with wait=true
		// Then the response carries its result
		It("should return the result when waiting", func() {
			w := do(http.MethodPost, "/api/v1/tasks?wait=true", v1.TaskRequest{Type: "fibonacci", Payload: 10})

			Expect(w.Code).To(Equal(http.StatusOK))
			var res v1.TaskResult
			decode(w, &res)
			Expect(res.Success).To(BeTrue())
			Expect(res.Data).To(BeNumerically("==", 55))
			Expect(res.Attempts).To(Equal(1))
		})

		It("should accept the task and record it in the history", func() {
			id := "accepted-1"
			w := do(http.MethodPost, "/api/v1/tasks", v1.TaskRequest{Id: &id, Type: "echo", Payload: "x"})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			var accepted v1.TaskAccepted
			decode(w, &accepted)
			Expect(accepted.Id).To(Equal(id))

			Eventually(func() int {
				return do(http.MethodGet, "/api/v1/tasks/"+id, nil).Code
			}, 2*time.Second).Should(Equal(http.StatusOK))

			var status v1.TaskStatus
			Eventually(func() *v1.TaskRecord {
				decode(do(http.MethodGet, "/api/v1/tasks/"+id, nil), &status)
				return status.Record
			}, 2*time.Second).ShouldNot(BeNil())
			Expect(status.Record.Outcome).To(Equal(v1.TaskOutcomeCompleted))
		})

		It("should report a failed task without an error status", func() {
			w := do(http.MethodPost, "/api/v1/tasks?wait=true", v1.TaskRequest{Type: "fibonacci", Payload: "ten"})

			Expect(w.Code).To(Equal(http.StatusOK))
			var res v1.TaskResult
			decode(w, &res)
			Expect(res.Success).To(BeFalse())
			Expect(res.Error).NotTo(BeNil())
		})

		It("should reject an unknown task type", func() {
			w := do(http.MethodPost, "/api/v1/tasks?wait=true", v1.TaskRequest{Type: "eval"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			var body map[string]string
			decode(w, &body)
			Expect(body["error"]).To(ContainSubstring("eval"))
		})

		It("should reject a request without a type", func() {
			w := do(http.MethodPost, "/api/v1/tasks", v1.TaskRequest{})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a malformed wait parameter", func() {
			w := do(http.MethodPost, "/api/v1/tasks?wait=maybe", v1.TaskRequest{Type: "noop"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 503 once the pool is terminated", func() {
			sched.Terminate()

			w := do(http.MethodPost, "/api/v1/tasks", v1.TaskRequest{Type: "noop"})
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Context("POST /tasks/batch", func() {
		It("should return the results in order", func() {
			w := do(http.MethodPost, "/api/v1/tasks/batch", v1.BatchRequest{Tasks: []v1.TaskRequest{
				{Type: "echo", Payload: "a"},
				{Type: "sum", Payload: []int{1, 2, 3}},
			}})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.BatchResponse
			decode(w, &resp)
			Expect(resp.Results).To(HaveLen(2))
			Expect(resp.Results[0].Data).To(Equal("a"))
			Expect(resp.Results[1].Data).To(BeNumerically("==", 6))
		})

		It("should reject an empty batch", func() {
			w := do(http.MethodPost, "/api/v1/tasks/batch", v1.BatchRequest{})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("task history", func() {
		BeforeEach(func() {
			for _, t := range []v1.TaskRequest{
				{Type: "echo", Payload: 1},
				{Type: "echo", Payload: 2},
				{Type: "hash", Payload: 3},
			} {
				Expect(do(http.MethodPost, "/api/v1/tasks?wait=true", t).Code).To(Equal(http.StatusOK))
			}
			Eventually(func() (int, error) {
				return st.History().Count(ctx)
			}, 2*time.Second).Should(Equal(3))
		})

		It("should list with pagination", func() {
			w := do(http.MethodGet, "/api/v1/tasks?pageSize=2&page=2", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.TaskListResponse
			decode(w, &resp)
			Expect(resp.Total).To(Equal(3))
			Expect(resp.PageCount).To(Equal(2))
			Expect(resp.Page).To(Equal(2))
			Expect(resp.Tasks).To(HaveLen(1))
		})

		It("should return an empty page for a page number past the end", func() {
			w := do(http.MethodGet, "/api/v1/tasks?pageSize=100&page=9223372036854775807", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.TaskListResponse
			decode(w, &resp)
			Expect(resp.Total).To(Equal(3))
			Expect(resp.Tasks).To(BeEmpty())
		})

		It("should filter by outcome", func() {
			w := do(http.MethodGet, "/api/v1/tasks?outcome=failed", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.TaskListResponse
			decode(w, &resp)
			Expect(resp.Total).To(Equal(1))
			Expect(resp.Tasks[0].Type).To(Equal("hash"))
		})

		It("should reject an unknown outcome", func() {
			w := do(http.MethodGet, "/api/v1/tasks?outcome=bogus", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should export a workbook", func() {
			w := do(http.MethodGet, "/api/v1/tasks/export?type=echo", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(HavePrefix("application/vnd.openxmlformats"))
			Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("task-history.xlsx"))
			Expect(w.Body.Len()).To(BeNumerically(">", 0))
		})

		It("should aggregate stats", func() {
			w := do(http.MethodGet, "/api/v1/stats", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.StatsResponse
			decode(w, &resp)
			Expect(resp.Types).To(HaveLen(2))
			Expect(resp.Types[0].Type).To(Equal("echo"))
			Expect(resp.Types[0].Completed).To(Equal(2))
		})
	})

	Context("/tasks/{id}", func() {
		It("should return 404 for an unknown task", func() {
			Expect(do(http.MethodGet, "/api/v1/tasks/missing", nil).Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodDelete, "/api/v1/tasks/missing", nil).Code).To(Equal(http.StatusNotFound))
		})

		// Given a task that sleeps for a long time
		// When it is fetched and then canceled
		// Then it is first reported pending and then recorded as canceled
		It("should show and cancel a pending task", func() {
			id := "sleeper"
			w := do(http.MethodPost, "/api/v1/tasks", v1.TaskRequest{Id: &id, Type: "sleep", Payload: 60_000})
			Expect(w.Code).To(Equal(http.StatusAccepted))

			var status v1.TaskStatus
			decode(do(http.MethodGet, "/api/v1/tasks/"+id, nil), &status)
			Expect(status.Pending).NotTo(BeNil())
			Expect(status.Pending.Type).To(Equal("sleep"))

			Expect(do(http.MethodDelete, "/api/v1/tasks/"+id, nil).Code).To(Equal(http.StatusNoContent))

			Eventually(func() *v1.TaskRecord {
				status = v1.TaskStatus{}
				decode(do(http.MethodGet, "/api/v1/tasks/"+id, nil), &status)
				return status.Record
			}, 2*time.Second).ShouldNot(BeNil())
			Expect(status.Record.Outcome).To(Equal(v1.TaskOutcomeCanceled))
		})
	})

	Context("/pool", func() {
		It("should return the pool status", func() {
			w := do(http.MethodGet, "/api/v1/pool", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.PoolStatus
			decode(w, &resp)
			Expect(resp.MinWorkers).To(Equal(1))
			Expect(resp.MaxWorkers).To(Equal(2))
			Expect(resp.WorkerCount).To(Equal(1))
			Expect(resp.Workers).To(HaveLen(1))
		})

		It("should resize and persist the bounds", func() {
			lo, hi := 2, 3
			w := do(http.MethodPut, "/api/v1/pool", v1.ResizeRequest{MinWorkers: &lo, MaxWorkers: &hi})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.PoolStatus
			decode(w, &resp)
			Expect(resp.MinWorkers).To(Equal(2))
			Expect(resp.MaxWorkers).To(Equal(3))

			saved, err := st.Settings().Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.MaxWorkers).To(Equal(3))
		})

		It("should reject invalid bounds", func() {
			lo, hi := 3, 1
			Expect(do(http.MethodPut, "/api/v1/pool", v1.ResizeRequest{MinWorkers: &lo, MaxWorkers: &hi}).Code).
				To(Equal(http.StatusBadRequest))
			Expect(do(http.MethodPut, "/api/v1/pool", v1.ResizeRequest{}).Code).To(Equal(http.StatusBadRequest))
		})

		It("should conflict once the pool is terminated", func() {
			sched.Terminate()
			hi := 3
			Expect(do(http.MethodPut, "/api/v1/pool", v1.ResizeRequest{MaxWorkers: &hi}).Code).To(Equal(http.StatusConflict))
		})

		It("should reset the counters", func() {
			Expect(do(http.MethodPost, "/api/v1/tasks?wait=true", v1.TaskRequest{Type: "noop"}).Code).To(Equal(http.StatusOK))

			Expect(do(http.MethodPost, "/api/v1/pool/stats/reset", nil).Code).To(Equal(http.StatusNoContent))

			var resp v1.PoolStatus
			decode(do(http.MethodGet, "/api/v1/pool", nil), &resp)
			Expect(resp.Metrics.TotalTasks).To(BeZero())
		})
	})
})
