package session

import (
	"errors"
	"strings"
	"testing"

	"storyloom/internal/story"
)

func TestNew_GeneratesID(t *testing.T) {
	s := New(story.NewWorld("p", "s"), "")
	if s.ID == "" {
		t.Fatalf("expected generated id")
	}
	if s.CreatedAt.IsZero() || s.LastUpdated.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
}

func TestNew_KeepsExplicitID(t *testing.T) {
	s := New(story.NewWorld("p", "s"), "keep-me")
	if s.ID != "keep-me" {
		t.Fatalf("expected explicit id, got %q", s.ID)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	w := story.NewWorld("a drowned city", "canals and fog")
	w.AddCharacter(story.NewCharacter("Vel", "ferryman", "taciturn", "short answers"))
	w.AddHistoryEntry("Story begins: a drowned city")
	s := New(w, "")
	s.AddMessage(Message{"role": "user", "content": "hello"})

	data, err := s.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != s.ID {
		t.Fatalf("id mismatch: %q vs %q", got.ID, s.ID)
	}
	if got.World.Premise != w.Premise || len(got.World.Characters) != 1 {
		t.Fatalf("world mismatch: %+v", got.World)
	}
	if len(got.MessageHistory) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got.MessageHistory))
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("expected ErrCorrupted, got %v", err)
	}
}

func TestDecode_MissingRequiredKeys(t *testing.T) {
	cases := map[string]string{
		"no id":      `{"world": {"premise": "p", "setting": "s"}}`,
		"no world":   `{"id": "x"}`,
		"no premise": `{"id": "x", "world": {"setting": "s"}}`,
		"no setting": `{"id": "x", "world": {"premise": "p"}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode([]byte(doc)); !errors.Is(err, ErrCorrupted) {
				t.Fatalf("expected ErrCorrupted, got %v", err)
			}
		})
	}
}

func TestDecode_DefaultsOptionalFields(t *testing.T) {
	s, err := Decode([]byte(`{"id": "x", "world": {"premise": "p", "setting": "s"}, "created_at": "2026-01-02T03:04:05Z", "last_updated": "2026-01-02T03:04:05Z"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.MessageHistory == nil || s.Metadata == nil {
		t.Fatalf("expected defaulted collections, got %+v", s)
	}
	if s.World.History == nil {
		t.Fatalf("expected normalized world")
	}
}

func TestDisplayName(t *testing.T) {
	long := New(story.NewWorld("a premise considerably longer than thirty characters", "s"), "")
	if got := long.DisplayName(); got != "a premise considerably longer ..." {
		t.Fatalf("unexpected display name: %q", got)
	}

	blank := New(story.NewWorld("", "s"), "0123456789abcdef")
	if got := blank.DisplayName(); got != "Session 01234567..." {
		t.Fatalf("unexpected display name: %q", got)
	}

	accented := New(story.NewWorld(strings.Repeat("é", 35), "s"), "")
	if got := accented.DisplayName(); got != strings.Repeat("é", 30)+"..." {
		t.Fatalf("expected truncation on rune boundary, got %q", got)
	}
}
