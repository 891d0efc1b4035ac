package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestEmbodyCharacter_Responds(t *testing.T) {
	f := &fakeOracle{responses: []string{"\"State your business.\""}}
	e := New(f)
	w := testWorld()

	resp, err := e.EmbodyCharacter(context.Background(), w, "Mira", "a stranger at the gate")
	if err != nil {
		t.Fatalf("embody: %v", err)
	}
	if resp != "\"State your business.\"" {
		t.Fatalf("unexpected response: %q", resp)
	}

	prompt := f.requests[0].Prompt
	for _, want := range []string{"Mira", "a scout", "wary", "clipped sentences", "Bren: old rival", "the gatehouse", "a stranger at the gate"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q:\n%s", want, prompt)
		}
	}

	mira := w.GetCharacter("Mira")
	if len(mira.Memories) != 1 || mira.Memories[0] != "Responded to: a stranger at the gate" {
		t.Fatalf("unexpected memories: %v", mira.Memories)
	}
}

func TestEmbodyCharacter_NotFound(t *testing.T) {
	f := &fakeOracle{responses: []string{"should never be used"}}
	e := New(f)
	w := testWorld()

	_, err := e.EmbodyCharacter(context.Background(), w, "Nessa", "anything")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Name != "Nessa" {
		t.Fatalf("expected error to name the character, got %q", notFound.Name)
	}
	if len(f.requests) != 0 {
		t.Fatalf("expected no oracle call for unknown character")
	}
	if len(w.Characters) != 1 {
		t.Fatalf("expected characters unchanged, got %d", len(w.Characters))
	}
}

func TestEmbodyCharacter_OracleFailureLeavesMemoriesUntouched(t *testing.T) {
	f := &fakeOracle{err: errors.New("provider down")}
	e := New(f)
	w := testWorld()

	if _, err := e.EmbodyCharacter(context.Background(), w, "Mira", "anything"); err == nil {
		t.Fatalf("expected error")
	}
	if len(w.GetCharacter("Mira").Memories) != 0 {
		t.Fatalf("expected no memory on failure")
	}
}

func TestMemoryEntry_TruncatesLongSituations(t *testing.T) {
	long := strings.Repeat("x", 150)
	got := memoryEntry(long)
	want := "Responded to: " + strings.Repeat("x", 100) + "..."
	if got != want {
		t.Fatalf("unexpected memory entry: %q", got)
	}

	if got := memoryEntry("short"); got != "Responded to: short" {
		t.Fatalf("unexpected memory entry: %q", got)
	}
}

func TestMemoryEntry_TruncatesOnRuneBoundary(t *testing.T) {
	got := memoryEntry(strings.Repeat("x", 99) + "é is here")
	want := "Responded to: " + strings.Repeat("x", 99) + "é..."
	if got != want {
		t.Fatalf("unexpected memory entry: %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("memory entry is not valid UTF-8: %q", got)
	}
}

func TestEmbodyCharacter_MemoryWindowInPrompt(t *testing.T) {
	f := &fakeOracle{responses: []string{"ok"}}
	e := New(f)
	w := testWorld()
	mira := w.GetCharacter("Mira")
	for _, m := range []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"} {
		mira.AddMemory(m)
	}

	if _, err := e.EmbodyCharacter(context.Background(), w, "Mira", "s"); err != nil {
		t.Fatalf("embody: %v", err)
	}
	prompt := f.requests[0].Prompt
	if strings.Contains(prompt, "m1,") || strings.Contains(prompt, "m2,") {
		t.Fatalf("expected only the last %d memories in prompt:\n%s", memoryWindow, prompt)
	}
	for _, want := range []string{"m3", "m4", "m5", "m6", "m7"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected memory %q in prompt:\n%s", want, prompt)
		}
	}
}
