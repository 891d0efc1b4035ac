// Package file implements the session store as one JSON document per session
// in a single directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"storyloom/internal/session"
)

var _ session.Store = (*Store)(nil)

// Store keeps sessions under dir as "<id>.json". The directory is created on
// first use. No file locking is performed; a concurrent external writer on
// the same file would race.
type Store struct {
	dir string
}

// New creates the storage directory if needed and returns the store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (st *Store) Close(ctx context.Context) error { return nil }

func (st *Store) path(id string) string {
	return filepath.Join(st.dir, id+".json")
}

// Save writes the document via a temp file and rename so a failed write
// leaves any prior document untouched.
func (st *Store) Save(ctx context.Context, s *session.StorySession) error {
	s.Touch()
	data, err := s.Encode()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(st.dir, s.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("saving session %s: %w", s.ID, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("saving session %s: %w", s.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("saving session %s: %w", s.ID, err)
	}
	if err := os.Rename(tmpName, st.path(s.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("saving session %s: %w", s.ID, err)
	}
	return nil
}

func (st *Store) Load(ctx context.Context, id string) (*session.StorySession, error) {
	data, err := os.ReadFile(st.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}

	s, err := session.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return s, nil
}

func (st *Store) List(ctx context.Context) ([]*session.StorySession, error) {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	var sessions []*session.StorySession
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		s, err := st.Load(ctx, id)
		if err != nil {
			log.WithField("session", id).WithError(err).Debug("skipping unloadable session file")
			continue
		}
		if s != nil {
			sessions = append(sessions, s)
		}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastUpdated.After(sessions[j].LastUpdated)
	})
	return sessions, nil
}

func (st *Store) Delete(ctx context.Context, id string) (bool, error) {
	err := os.Remove(st.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("deleting session %s: %w", id, err)
	}
	return true, nil
}

func (st *Store) Exists(ctx context.Context, id string) (bool, error) {
	_, err := os.Stat(st.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking session %s: %w", id, err)
	}
	return true, nil
}

// Cleanup removes session files by modification time alone, so files that no
// longer parse are still eligible.
func (st *Store) Cleanup(ctx context.Context, maxAgeDays int) (int, error) {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		return 0, fmt.Errorf("cleaning up sessions: %w", err)
	}

	cutoff := time.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(st.dir, entry.Name())); err != nil {
				log.WithField("file", entry.Name()).WithError(err).Warn("failed to remove old session file")
				continue
			}
			deleted++
		}
	}
	return deleted, nil
}
