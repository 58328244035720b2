// Package store implements the data access layer for taskpool.
//
// This package provides persistent storage using DuckDB for two things the
// in-memory scheduler does not keep: the worker bounds applied through the
// API, and the trace of every task that reached a terminal state.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├────────────────────────────────┬────────────────────────────────┤
//	│         SettingsStore          │         HistoryStore           │
//	│              ▼                 │              ▼                 │
//	│         pool_settings          │         task_history           │
//	├────────────────────────────────┴────────────────────────────────┤
//	│                       QueryInterceptor                          │
//	│                    (debug logging of SQL)                       │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// Tables created by migrations (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  pool_settings     │  Last applied min/max worker bounds         │
//	│  task_history      │  One row per terminal task outcome          │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	db, _ := store.NewDB(path)     → ":memory:" or "" opens an in-memory database
//	migrations.Run(ctx, db)        → applies pending sql/NNN_*.sql files
//	s := store.NewStore(db)        → wraps db in a QueryInterceptor
//
// # SettingsStore
//
// Persists the pool bounds in a single-row table.
//
// Schema:
//
//	pool_settings (
//	    id INTEGER PRIMARY KEY DEFAULT 1 CHECK (id = 1),
//	    min_workers INTEGER NOT NULL,
//	    max_workers INTEGER NOT NULL,
//	    updated_at TIMESTAMP
//	)
//
// Methods:
//   - Get(ctx) → *models.PoolSettings (ResourceNotFoundError when empty)
//   - Save(ctx, settings) → error (uses UPSERT)
//
// # HistoryStore
//
// Append-only log of terminal outcomes. Ids come from task_history_id_seq.
// A task id may appear more than once when a caller reuses it after the
// first task settled; Get returns the newest row.
//
// Methods:
//   - Insert(ctx, record) → error (sets record.ID)
//   - Get(ctx, taskID) → *models.TaskRecord
//   - List(ctx, opts...) → []models.TaskRecord
//   - Count(ctx, opts...) → int
//   - Stats(ctx, opts...) → []models.TaskTypeStats grouped by type
//
// List Options:
//
// HistoryStore uses the functional options pattern. Each ListOption is a
// function that modifies the squirrel query builder:
//
//	records, err := store.History().List(ctx,
//	    store.ByTypes("sum", "sort"),
//	    store.ByOutcomes(models.TaskOutcomeFailed),
//	    store.WithOrderByFinished(),
//	    store.WithLimit(20),
//	    store.WithOffset(40),
//	)
//
//   - ByTypes(types ...string)                 SQL: WHERE type IN (...)
//   - ByOutcomes(outcomes ...TaskOutcome)      SQL: WHERE outcome IN (...)
//   - ByFinishedRange(from, to time.Time)      SQL: finished_at in [from, to), zero bounds are open
//   - WithLimit(limit uint64)                  SQL: LIMIT limit
//   - WithOffset(offset uint64)                SQL: OFFSET offset
//   - WithOrderByFinished()                    SQL: ORDER BY finished_at DESC, id DESC
//
// Stats only accepts filter options; grouping and ordering are fixed.
//
// # Design Patterns
//
// Single-Row Tables:
//   - pool_settings uses a CHECK (id = 1) constraint
//   - Uses UPSERT pattern: INSERT ... ON CONFLICT (id) DO UPDATE
//
// Connections:
//   - NewDB limits the pool to one open connection. DuckDB rejects
//     concurrent updates of the same row from separate connections.
package store
