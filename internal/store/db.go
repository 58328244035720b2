package store

import (
	"database/sql"

	_ "github.com/duckdb/duckdb-go/v2"
)

const memoryPath = ":memory:"

// NewDB opens the DuckDB database at path. An empty path or ":memory:"
// opens an in-memory database shared by every connection of the pool.
func NewDB(path string) (*sql.DB, error) {
	if path == memoryPath {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	// concurrent upserts of the same row conflict across DuckDB connections
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
