package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rl1809/inventory-store/internal/core/domain"
	"github.com/rl1809/inventory-store/internal/port"
)

var _ port.ItemRepository = (*SQLiteAdapter)(nil)

type SQLiteAdapter struct {
	sqlStore
}

// OpenSQLite opens the database file and applies migrations. The pool is
// pinned to one connection: SQLite allows a single writer and the store
// serializes every operation through it.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := RunMigrations(ctx, db, "sqlite"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewSQLiteAdapter(db *sql.DB) *SQLiteAdapter {
	return &SQLiteAdapter{sqlStore{db: db, now: domain.Now}}
}
