package store

// Pool settings queries
const (
	queryGetPoolSettings = `
		SELECT min_workers, max_workers, updated_at
		FROM pool_settings WHERE id = 1`

	queryUpsertPoolSettings = `
		INSERT INTO pool_settings (id, min_workers, max_workers, updated_at)
		VALUES (1, ?, ?, now())
		ON CONFLICT (id) DO UPDATE SET
			min_workers = EXCLUDED.min_workers,
			max_workers = EXCLUDED.max_workers,
			updated_at = now()`
)

// Task history queries
const (
	queryInsertTaskRecord = `
		INSERT INTO task_history (task_id, type, priority, outcome, attempts, worker_id, duration_ms, error, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	queryGetTaskRecord = `
		SELECT id, task_id, type, priority, outcome, attempts, worker_id, duration_ms, error, finished_at
		FROM task_history WHERE task_id = ?
		ORDER BY finished_at DESC, id DESC
		LIMIT 1`
)
