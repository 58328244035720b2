package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kubev2v/taskpool/internal/models"
	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

// SettingsStore persists the pool bounds in a single-row table.
type SettingsStore struct {
	db *QueryInterceptor
}

func NewSettingsStore(db *QueryInterceptor) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the stored bounds or a ResourceNotFoundError when none were saved.
func (s *SettingsStore) Get(ctx context.Context) (*models.PoolSettings, error) {
	row := s.db.QueryRowContext(ctx, queryGetPoolSettings)

	var settings models.PoolSettings
	err := row.Scan(&settings.MinWorkers, &settings.MaxWorkers, &settings.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewPoolSettingsNotFoundError()
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save stores or updates the bounds.
func (s *SettingsStore) Save(ctx context.Context, settings *models.PoolSettings) error {
	_, err := s.db.ExecContext(ctx, queryUpsertPoolSettings, settings.MinWorkers, settings.MaxWorkers)
	return err
}
