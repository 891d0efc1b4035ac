// Package session wraps a story world with an identifier and timestamps and
// defines the persistence contract for saved stories.
package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storyloom/internal/story"
)

// Message is one serialized conversational message. Messages are an audit log
// only; they are never replayed into the oracle.
type Message map[string]any

// StorySession is one saved story. Sessions are independent and never
// reference each other.
type StorySession struct {
	ID             string         `json:"id"`
	World          *story.World   `json:"world"`
	MessageHistory []Message      `json:"message_history"`
	CreatedAt      time.Time      `json:"created_at"`
	LastUpdated    time.Time      `json:"last_updated"`
	Metadata       map[string]any `json:"metadata"`
}

// New creates a session around a world. An empty id gets a generated UUID.
func New(world *story.World, id string) *StorySession {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	return &StorySession{
		ID:             id,
		World:          world,
		MessageHistory: []Message{},
		CreatedAt:      now,
		LastUpdated:    now,
		Metadata:       map[string]any{},
	}
}

// Touch refreshes the last-updated timestamp.
func (s *StorySession) Touch() {
	s.LastUpdated = time.Now().UTC()
}

// AddMessage appends to the audit log and refreshes the timestamp.
func (s *StorySession) AddMessage(m Message) {
	s.MessageHistory = append(s.MessageHistory, m)
	s.Touch()
}

// SetWorld replaces the world and refreshes the timestamp.
func (s *StorySession) SetWorld(w *story.World) {
	s.World = w
	s.Touch()
}

// DisplayName is a short human-readable label for listings.
func (s *StorySession) DisplayName() string {
	premise := strings.TrimSpace(s.World.Premise)
	if premise == "" {
		return fmt.Sprintf("Session %.8s...", s.ID)
	}
	if runes := []rune(premise); len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return premise
}

// Encode serializes the session as an indented JSON document.
func (s *StorySession) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding session %s: %w", s.ID, err)
	}
	return data, nil
}

// Decode parses a session document. Shape failures wrap ErrCorrupted so
// callers can distinguish bad data from storage failures. The id, world
// premise, and world setting are required; everything else defaults.
func Decode(data []byte) (*StorySession, error) {
	var s StorySession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrCorrupted)
	}
	if s.World == nil {
		return nil, fmt.Errorf("%w: missing world", ErrCorrupted)
	}
	if s.World.Premise == "" {
		return nil, fmt.Errorf("%w: missing world premise", ErrCorrupted)
	}
	if s.World.Setting == "" {
		return nil, fmt.Errorf("%w: missing world setting", ErrCorrupted)
	}
	s.World.Normalize()
	if s.MessageHistory == nil {
		s.MessageHistory = []Message{}
	}
	if s.Metadata == nil {
		s.Metadata = map[string]any{}
	}
	return &s, nil
}
