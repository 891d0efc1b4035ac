package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"storyloom/internal/session"
)

func (st *Store) Save(ctx context.Context, s *session.StorySession) error {
	s.Touch()
	data, err := s.Encode()
	if err != nil {
		return err
	}

	query := `
	INSERT INTO sessions (id, document, created_at, last_updated)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET
		document = EXCLUDED.document,
		last_updated = EXCLUDED.last_updated
	`
	_, err = st.pool.Exec(ctx, query, s.ID, string(data), s.CreatedAt, s.LastUpdated)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", s.ID, err)
	}
	return nil
}

func (st *Store) Load(ctx context.Context, id string) (*session.StorySession, error) {
	var document []byte
	err := st.pool.QueryRow(ctx, `SELECT document FROM sessions WHERE id = $1`, id).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}

	s, err := session.Decode(document)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return s, nil
}

func (st *Store) List(ctx context.Context) ([]*session.StorySession, error) {
	rows, err := st.pool.Query(ctx, `SELECT id, document FROM sessions ORDER BY last_updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*session.StorySession
	for rows.Next() {
		var id string
		var document []byte
		if err := rows.Scan(&id, &document); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		s, err := session.Decode(document)
		if err != nil {
			log.WithField("session", id).WithError(err).Debug("skipping corrupt session row")
			continue
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session rows: %w", err)
	}
	return sessions, nil
}

func (st *Store) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := st.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting session %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (st *Store) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := st.pool.QueryRow(ctx, `SELECT 1 FROM sessions WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking session %s: %w", id, err)
	}
	return true, nil
}

func (st *Store) Cleanup(ctx context.Context, maxAgeDays int) (int, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
	tag, err := st.pool.Exec(ctx, `DELETE FROM sessions WHERE last_updated < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
