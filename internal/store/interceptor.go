package store

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// QueryInterceptor wraps the database handle and logs every statement at debug level.
type QueryInterceptor struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewQueryInterceptor(db *sql.DB) *QueryInterceptor {
	return &QueryInterceptor{db: db, log: zap.S().Named("store")}
}

func (q *QueryInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := q.db.QueryContext(ctx, query, args...)
	q.log.Debugw("query", "sql", query, "args", args, "duration", time.Since(start), "error", err)
	return rows, err
}

func (q *QueryInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := q.db.QueryRowContext(ctx, query, args...)
	q.log.Debugw("query row", "sql", query, "args", args, "duration", time.Since(start))
	return row
}

func (q *QueryInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := q.db.ExecContext(ctx, query, args...)
	q.log.Debugw("exec", "sql", query, "args", args, "duration", time.Since(start), "error", err)
	return res, err
}
