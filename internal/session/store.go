package session

import (
	"context"
	"errors"
)

// ErrCorrupted marks a session document that exists but does not parse into
// the expected shape. Storage failures are reported as plain wrapped errors
// and never match this sentinel.
var ErrCorrupted = errors.New("corrupted session data")

// Store persists story sessions. One document per session; the backing medium
// varies by implementation.
type Store interface {
	Close(ctx context.Context) error

	// Save writes the session, refreshing its last-updated timestamp first.
	// A failed save leaves any previously stored document untouched.
	Save(ctx context.Context, s *StorySession) error

	// Load returns the session, or (nil, nil) when no such session exists.
	// An existing but malformed document fails with an error wrapping
	// ErrCorrupted.
	Load(ctx context.Context, id string) (*StorySession, error)

	// List returns every loadable session sorted by last-updated descending.
	// Corrupt or unreadable documents are skipped.
	List(ctx context.Context) ([]*StorySession, error)

	// Delete removes the session and reports whether anything was deleted.
	// Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) (bool, error)

	// Exists reports whether a document for the id is present, without
	// parsing it.
	Exists(ctx context.Context, id string) (bool, error)

	// Cleanup deletes sessions last modified more than maxAgeDays ago and
	// returns the count deleted. Documents are not parsed first, so corrupt
	// ones age out too.
	Cleanup(ctx context.Context, maxAgeDays int) (int, error)
}
