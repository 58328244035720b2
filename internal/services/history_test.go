package services_test

import (
	"bytes"
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/taskpool/internal/models"
	"github.com/kubev2v/taskpool/internal/services"
	"github.com/kubev2v/taskpool/internal/store"
)

var _ = Describe("HistoryService", func() {
	var (
		ctx context.Context
		st  *store.Store
		db  *sql.DB
		srv *services.HistoryService
	)

	BeforeEach(func() {
		ctx = context.Background()
		st, db = newTestStore(ctx)
		srv = services.NewHistoryService(st)

		base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		for i, r := range []models.TaskRecord{
			{TaskID: "a", Type: "sum", Outcome: models.TaskOutcomeCompleted, Duration: 10 * time.Millisecond},
			{TaskID: "b", Type: "sum", Outcome: models.TaskOutcomeFailed, Error: "boom"},
			{TaskID: "c", Type: "sort", Outcome: models.TaskOutcomeCompleted, Duration: 30 * time.Millisecond},
		} {
			r.FinishedAt = base.Add(time.Duration(i) * time.Minute)
			Expect(st.History().Insert(ctx, &r)).To(Succeed())
		}
	})

	AfterEach(func() {
		db.Close()
	})

	Context("List", func() {
		// Given three history records
		// When we list with a page size of one
		// Then the page holds the newest record and the total counts all matches
		It("should paginate and report the total", func() {
			result, err := srv.List(ctx, services.HistoryListParams{Limit: 1})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Total).To(Equal(3))
			Expect(result.Records).To(HaveLen(1))
			Expect(result.Records[0].TaskID).To(Equal("c"))
		})

		It("should filter by type and outcome", func() {
			result, err := srv.List(ctx, services.HistoryListParams{
				Types:    []string{"sum"},
				Outcomes: []models.TaskOutcome{models.TaskOutcomeFailed},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Total).To(Equal(1))
			Expect(result.Records[0].TaskID).To(Equal("b"))
		})
	})

	It("should aggregate stats per type", func() {
		stats, err := srv.Stats(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(HaveLen(2))
		Expect(stats[1].Type).To(Equal("sum"))
		Expect(stats[1].Completed).To(Equal(1))
		Expect(stats[1].Failed).To(Equal(1))
	})

	// Given history records
	// When we export them
	// Then the workbook holds a header and one row per record plus a stats sheet
	It("should export the history as a workbook", func() {
		var buf bytes.Buffer

		Expect(srv.ExportXLSX(ctx, &buf, services.HistoryListParams{Types: []string{"sum"}})).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"History", "Stats"}))

		rows, err := f.GetRows("History")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0][0]).To(Equal("Task ID"))
		Expect(rows[1][0]).To(Equal("b"))
		Expect(rows[2][0]).To(Equal("a"))

		stats, err := f.GetRows("Stats")
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(HaveLen(2))
		Expect(stats[1][0]).To(Equal("sum"))
		Expect(stats[1][1]).To(Equal("2"))
	})
})
