package main

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/taskpool/api/v1"
	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

var _ = Describe("taskpool", Ordered, func() {
	var ctx context.Context

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), cfg.Timeout)
		DeferCleanup(cancel)
	})

	It("should report a running pool", func() {
		status, err := apiClient.GetPool(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Terminated).To(BeFalse())
		Expect(status.WorkerCount).To(BeNumerically(">=", status.MinWorkers))
	})

	It("should run a built-in task and return its result", func() {
		res, err := apiClient.RunTask(ctx, v1.TaskRequest{Type: "sum", Payload: []int{1, 2, 3}})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Success).To(BeTrue())
		Expect(res.Data).To(BeNumerically("==", 6))
	})

	It("should reject an unknown task type", func() {
		res, err := apiClient.RunTask(ctx, v1.TaskRequest{Type: "eval"})
		if err == nil {
			Expect(res.Success).To(BeFalse())
			return
		}
		Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
	})

	It("should record a settled task in the history", func() {
		id := fmt.Sprintf("e2e-%d", GinkgoRandomSeed())
		_, err := apiClient.RunTask(ctx, v1.TaskRequest{Id: &id, Type: "echo", Payload: "hello"})
		Expect(err).NotTo(HaveOccurred())

		Eventually(func(g Gomega) {
			status, err := apiClient.GetTask(ctx, id)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(status.Record).NotTo(BeNil())
			g.Expect(status.Record.Outcome).To(Equal(v1.TaskOutcomeCompleted))
		}).Should(Succeed())
	})

	It("should queue a task and cancel it only while pending", func() {
		accepted, err := apiClient.SubmitTask(ctx, v1.TaskRequest{Type: "sleep", Payload: 50})
		Expect(err).NotTo(HaveOccurred())
		Expect(accepted.Id).NotTo(BeEmpty())

		err = apiClient.CancelTask(ctx, accepted.Id)
		if err != nil {
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		}
	})

	It("should resize the pool and report the new bounds", func() {
		before, err := apiClient.GetPool(ctx)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_, _ = apiClient.ResizePool(context.Background(), v1.ResizeRequest{
				MinWorkers: &before.MinWorkers,
				MaxWorkers: &before.MaxWorkers,
			})
		})

		hi := before.MaxWorkers + 1
		status, err := apiClient.ResizePool(ctx, v1.ResizeRequest{MaxWorkers: &hi})
		Expect(err).NotTo(HaveOccurred())
		Expect(status.MaxWorkers).To(Equal(hi))
	})
})
