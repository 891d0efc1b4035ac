package story

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
)

func TestAddMemory_CapsAtMaxMemories(t *testing.T) {
	c := NewCharacter("Mira", "a scout", "wary", "clipped sentences")

	for i := 0; i < MaxMemories+7; i++ {
		c.AddMemory(fmt.Sprintf("memory %d", i))
	}

	if len(c.Memories) != MaxMemories {
		t.Fatalf("expected %d memories, got %d", MaxMemories, len(c.Memories))
	}
	if c.Memories[0] != "memory 7" {
		t.Fatalf("expected oldest retained memory to be %q, got %q", "memory 7", c.Memories[0])
	}
	if c.Memories[len(c.Memories)-1] != fmt.Sprintf("memory %d", MaxMemories+6) {
		t.Fatalf("unexpected newest memory: %q", c.Memories[len(c.Memories)-1])
	}
}

func TestAddMemory_PreservesRelativeOrder(t *testing.T) {
	c := NewCharacter("Mira", "", "", "")
	for i := 0; i < MaxMemories*2; i++ {
		c.AddMemory(fmt.Sprintf("m%d", i))
	}
	for i, m := range c.Memories {
		want := fmt.Sprintf("m%d", MaxMemories+i)
		if m != want {
			t.Fatalf("memory %d: expected %q, got %q", i, want, m)
		}
	}
}

func TestRecentMemories(t *testing.T) {
	c := NewCharacter("Mira", "", "", "")
	if got := c.RecentMemories(5); len(got) != 0 {
		t.Fatalf("expected no recent memories, got %v", got)
	}
	for i := 0; i < 8; i++ {
		c.AddMemory(fmt.Sprintf("m%d", i))
	}
	got := c.RecentMemories(5)
	if len(got) != 5 {
		t.Fatalf("expected 5 memories, got %d", len(got))
	}
	if got[0] != "m3" || got[4] != "m7" {
		t.Fatalf("unexpected window: %v", got)
	}
}

func TestAddCharacter_ReplacesSameName(t *testing.T) {
	w := NewWorld("premise", "setting")
	w.AddCharacter(NewCharacter("Bren", "first", "", ""))
	w.AddCharacter(NewCharacter("Bren", "second", "", ""))

	if len(w.Characters) != 1 {
		t.Fatalf("expected 1 character, got %d", len(w.Characters))
	}
	if got := w.GetCharacter("Bren"); got == nil || got.Description != "second" {
		t.Fatalf("expected replacement entry, got %+v", got)
	}
}

func TestGetCharacter_Missing(t *testing.T) {
	w := NewWorld("p", "s")
	if got := w.GetCharacter("nobody"); got != nil {
		t.Fatalf("expected nil for missing character, got %+v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	worlds := map[string]*World{
		"empty": NewWorld("a premise", "a setting"),
		"one":   singleCharacterWorld(),
		"many":  manyCharacterWorld(),
	}

	for name, w := range worlds {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(w)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(w, got) {
				t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", w, got)
			}
		})
	}
}

func TestDecode_DefaultsMissingFields(t *testing.T) {
	data := []byte(`{"premise": "p", "setting": "s", "characters": {"Ash": {"name": "Ash", "description": "d", "personality": "q", "speech_patterns": "sp"}}}`)

	w, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Conflicts == nil || w.History == nil {
		t.Fatalf("expected defaulted slices, got %+v", w)
	}
	if w.CurrentScene.ActiveCharacters == nil || w.CurrentScene.Props == nil {
		t.Fatalf("expected defaulted scene slices, got %+v", w.CurrentScene)
	}
	ash := w.GetCharacter("Ash")
	if ash == nil || ash.Memories == nil || ash.Relationships == nil {
		t.Fatalf("expected defaulted character collections, got %+v", ash)
	}
}

func TestDanglingActiveCharacters(t *testing.T) {
	w := singleCharacterWorld()
	w.CurrentScene.ActiveCharacters = []string{"Mira", "a mysterious figure"}

	got := w.DanglingActiveCharacters()
	if len(got) != 1 || got[0] != "a mysterious figure" {
		t.Fatalf("expected one dangling name, got %v", got)
	}
}

func singleCharacterWorld() *World {
	w := NewWorld("a lone keep", "storm-wracked coast")
	w.Conflicts = []string{"the siege"}
	c := NewCharacter("Mira", "a scout", "wary", "clipped sentences")
	c.AddMemory("saw riders at dusk")
	c.Relationships["Bren"] = "old rival"
	w.AddCharacter(c)
	w.CurrentScene = Scene{
		Location:         "the gatehouse",
		Description:      "rain on stone",
		Atmosphere:       "tense",
		ActiveCharacters: []string{"Mira"},
		Props:            []string{"signal horn"},
	}
	w.AddHistoryEntry("Story begins: a lone keep")
	return w
}

func manyCharacterWorld() *World {
	w := singleCharacterWorld()
	for i := 0; i < 6; i++ {
		c := NewCharacter(fmt.Sprintf("npc-%d", i), "background", "calm", "plain")
		for j := 0; j < i; j++ {
			c.AddMemory(fmt.Sprintf("event %d", j))
		}
		w.AddCharacter(c)
	}
	for i := 0; i < 12; i++ {
		w.AddHistoryEntry(fmt.Sprintf("entry %d", i))
	}
	return w
}
