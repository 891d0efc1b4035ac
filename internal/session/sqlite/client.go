// Package sqlite implements the session store on a local sqlite database,
// one JSON document per row.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"storyloom/internal/session"
)

var _ session.Store = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	st := &Store{db: db}
	if err := st.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func (st *Store) Close(ctx context.Context) error {
	return st.db.Close()
}

func (st *Store) ensureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		document     TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		last_updated TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_last_updated ON sessions(last_updated);
	`
	if _, err := st.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}
	return nil
}
