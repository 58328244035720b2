package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/taskpool/internal/models"
	"github.com/kubev2v/taskpool/internal/store"
)

const (
	historySheet = "History"
	statsSheet   = "Stats"
)

type HistoryService struct {
	store *store.Store
}

func NewHistoryService(st *store.Store) *HistoryService {
	return &HistoryService{store: st}
}

type HistoryListParams struct {
	Types    []string
	Outcomes []models.TaskOutcome
	Limit    uint64
	Offset   uint64
}

type HistoryListResult struct {
	Records []models.TaskRecord
	Total   int
}

func (s *HistoryService) List(ctx context.Context, params HistoryListParams) (*HistoryListResult, error) {
	opts := s.buildListOptions(params)
	opts = append(opts, store.WithOrderByFinished())
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	records, err := s.store.History().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Get total count without pagination
	total, err := s.store.History().Count(ctx, s.buildListOptions(params)...)
	if err != nil {
		return nil, err
	}

	return &HistoryListResult{
		Records: records,
		Total:   total,
	}, nil
}

func (s *HistoryService) Get(ctx context.Context, taskID string) (*models.TaskRecord, error) {
	return s.store.History().Get(ctx, taskID)
}

func (s *HistoryService) Stats(ctx context.Context) ([]models.TaskTypeStats, error) {
	return s.store.History().Stats(ctx)
}

// ExportXLSX writes the filtered history and the per-type stats as a
// workbook with two sheets. Pagination in params is ignored.
func (s *HistoryService) ExportXLSX(ctx context.Context, w io.Writer, params HistoryListParams) error {
	opts := append(s.buildListOptions(params), store.WithOrderByFinished())
	records, err := s.store.History().List(ctx, opts...)
	if err != nil {
		return err
	}
	stats, err := s.store.History().Stats(ctx, s.buildListOptions(params)...)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(statsSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	historyRows := make([][]any, 0, len(records)+1)
	historyRows = append(historyRows, []any{"Task ID", "Type", "Priority", "Outcome", "Attempts", "Worker", "Duration (ms)", "Error", "Finished At"})
	for _, r := range records {
		historyRows = append(historyRows, []any{
			r.TaskID,
			r.Type,
			r.Priority,
			string(r.Outcome),
			r.Attempts,
			r.WorkerID,
			r.Duration.Milliseconds(),
			r.Error,
			r.FinishedAt,
		})
	}
	if err := writeSheet(f, historySheet, historyRows, bold); err != nil {
		return err
	}

	statsRows := make([][]any, 0, len(stats)+1)
	statsRows = append(statsRows, []any{"Type", "Total", "Completed", "Failed", "Average Duration (ms)"})
	for _, st := range stats {
		statsRows = append(statsRows, []any{st.Type, st.Total, st.Completed, st.Failed, st.AverageDuration.Milliseconds()})
	}
	if err := writeSheet(f, statsSheet, statsRows, bold); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetRowStyle(sheet, 1, 1, headerStyle)
}

func (s *HistoryService) buildListOptions(params HistoryListParams) []store.ListOption {
	var opts []store.ListOption

	if len(params.Types) > 0 {
		opts = append(opts, store.ByTypes(params.Types...))
	}
	if len(params.Outcomes) > 0 {
		opts = append(opts, store.ByOutcomes(params.Outcomes...))
	}

	return opts
}
