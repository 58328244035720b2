package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/taskpool/internal/models"
	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

var historyColumns = []string{
	"id",
	"task_id",
	"type",
	"priority",
	"outcome",
	"attempts",
	"worker_id",
	"duration_ms",
	"error",
	"finished_at",
}

type HistoryStore struct {
	db *QueryInterceptor
}

func NewHistoryStore(db *QueryInterceptor) *HistoryStore {
	return &HistoryStore{db: db}
}

// Insert stores r and sets its ID.
func (s *HistoryStore) Insert(ctx context.Context, r *models.TaskRecord) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}

	row := s.db.QueryRowContext(ctx, queryInsertTaskRecord,
		r.TaskID,
		r.Type,
		r.Priority,
		string(r.Outcome),
		r.Attempts,
		nullString(r.WorkerID),
		r.Duration.Milliseconds(),
		nullString(r.Error),
		r.FinishedAt.UTC(),
	)
	return row.Scan(&r.ID)
}

// Get returns the most recent record of the task.
func (s *HistoryStore) Get(ctx context.Context, taskID string) (*models.TaskRecord, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, queryGetTaskRecord, taskID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewTaskNotFoundError(taskID)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *HistoryStore) List(ctx context.Context, opts ...ListOption) ([]models.TaskRecord, error) {
	builder := sq.Select(historyColumns...).From("task_history")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TaskRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}

	return records, rows.Err()
}

func (s *HistoryStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("task_history")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// Stats aggregates the history per task type. Filters apply before grouping.
func (s *HistoryStore) Stats(ctx context.Context, opts ...ListOption) ([]models.TaskTypeStats, error) {
	builder := sq.Select(
		"type",
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE outcome = 'completed')",
		"COALESCE(AVG(duration_ms) FILTER (WHERE outcome = 'completed'), 0)",
	).From("task_history")

	for _, opt := range opts {
		builder = opt(builder)
	}
	builder = builder.GroupBy("type").OrderBy("type")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.TaskTypeStats
	for rows.Next() {
		var st models.TaskTypeStats
		var avgMs float64
		if err := rows.Scan(&st.Type, &st.Total, &st.Completed, &avgMs); err != nil {
			return nil, err
		}
		st.Failed = st.Total - st.Completed
		st.AverageDuration = time.Duration(avgMs * float64(time.Millisecond))
		stats = append(stats, st)
	}

	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.TaskRecord, error) {
	var (
		r          models.TaskRecord
		outcome    string
		workerID   sql.NullString
		durationMs int64
		errMsg     sql.NullString
	)
	err := row.Scan(
		&r.ID,
		&r.TaskID,
		&r.Type,
		&r.Priority,
		&outcome,
		&r.Attempts,
		&workerID,
		&durationMs,
		&errMsg,
		&r.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Outcome = models.TaskOutcome(outcome)
	r.WorkerID = workerID.String
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.Error = errMsg.String
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByTypes(types ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(types) == 0 {
			return b
		}
		return b.Where(sq.Eq{"type": types})
	}
}

func ByOutcomes(outcomes ...models.TaskOutcome) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(outcomes) == 0 {
			return b
		}
		values := make([]string, 0, len(outcomes))
		for _, o := range outcomes {
			values = append(values, string(o))
		}
		return b.Where(sq.Eq{"outcome": values})
	}
}

func ByFinishedRange(from, to time.Time) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if !from.IsZero() {
			b = b.Where(sq.GtOrEq{"finished_at": from.UTC()})
		}
		if !to.IsZero() {
			b = b.Where(sq.Lt{"finished_at": to.UTC()})
		}
		return b
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

// WithOrderByFinished sorts newest first. Ties keep insertion order reversed.
func WithOrderByFinished() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("finished_at DESC", "id DESC")
	}
}
