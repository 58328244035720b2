package models

import "time"

// PoolSettings holds the worker bounds last applied through a resize.
type PoolSettings struct {
	MinWorkers int
	MaxWorkers int
	UpdatedAt  time.Time
}
