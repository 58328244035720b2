package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db       *sql.DB
	settings *SettingsStore
	history  *HistoryStore
}

func NewStore(db *sql.DB) *Store {
	qi := NewQueryInterceptor(db)
	return &Store{
		db:       db,
		settings: NewSettingsStore(qi),
		history:  NewHistoryStore(qi),
	}
}

func (s *Store) Settings() *SettingsStore {
	return s.settings
}

func (s *Store) History() *HistoryStore {
	return s.history
}

func (s *Store) Close() error {
	return s.db.Close()
}
