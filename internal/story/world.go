// Package story holds the mutable state of one story: premise, setting,
// conflicts, characters, the current scene, and the narration history.
package story

import (
	"encoding/json"
	"fmt"
	"sort"
)

// MaxMemories bounds a character's memory list. When an append pushes the
// list past this limit, the oldest entries are discarded.
const MaxMemories = 20

// Character is a single story character keyed by name within a world.
type Character struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Personality    string            `json:"personality"`
	SpeechPatterns string            `json:"speech_patterns"`
	Memories       []string          `json:"memories"`
	Relationships  map[string]string `json:"relationships"`
}

// NewCharacter returns a character with empty memories and relationships.
func NewCharacter(name, description, personality, speechPatterns string) *Character {
	return &Character{
		Name:           name,
		Description:    description,
		Personality:    personality,
		SpeechPatterns: speechPatterns,
		Memories:       []string{},
		Relationships:  map[string]string{},
	}
}

// AddMemory appends a memory entry, keeping only the most recent MaxMemories.
func (c *Character) AddMemory(entry string) {
	c.Memories = append(c.Memories, entry)
	if len(c.Memories) > MaxMemories {
		c.Memories = c.Memories[len(c.Memories)-MaxMemories:]
	}
}

// RecentMemories returns up to the last n memories in original order.
func (c *Character) RecentMemories(n int) []string {
	if len(c.Memories) <= n {
		return c.Memories
	}
	return c.Memories[len(c.Memories)-n:]
}

func (c *Character) normalize() {
	if c.Memories == nil {
		c.Memories = []string{}
	}
	if c.Relationships == nil {
		c.Relationships = map[string]string{}
	}
}

// Scene is the single current scene of a world. It is replaced wholesale on
// scenario refinement rather than patched field by field.
type Scene struct {
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	Atmosphere       string   `json:"atmosphere"`
	ActiveCharacters []string `json:"active_characters"`
	Props            []string `json:"props"`
}

func (s *Scene) normalize() {
	if s.ActiveCharacters == nil {
		s.ActiveCharacters = []string{}
	}
	if s.Props == nil {
		s.Props = []string{}
	}
}

// World is the complete state of one story. History is append-only; the
// characters map is append/replace-only. Nothing removes a character or a
// history entry short of deleting the whole session.
type World struct {
	Premise      string                `json:"premise"`
	Setting      string                `json:"setting"`
	Conflicts    []string              `json:"conflicts"`
	Characters   map[string]*Character `json:"characters"`
	CurrentScene Scene                 `json:"current_scene"`
	History      []string              `json:"history"`
}

// NewWorld returns an empty world with the given premise and setting.
func NewWorld(premise, setting string) *World {
	return &World{
		Premise:    premise,
		Setting:    setting,
		Conflicts:  []string{},
		Characters: map[string]*Character{},
		CurrentScene: Scene{
			ActiveCharacters: []string{},
			Props:            []string{},
		},
		History: []string{},
	}
}

// AddCharacter stores the character under its name, replacing any existing
// entry with the same name.
func (w *World) AddCharacter(c *Character) {
	w.Characters[c.Name] = c
}

// GetCharacter returns the named character, or nil if absent.
func (w *World) GetCharacter(name string) *Character {
	return w.Characters[name]
}

// CharacterNames returns the character names sorted alphabetically.
func (w *World) CharacterNames() []string {
	names := make([]string, 0, len(w.Characters))
	for name := range w.Characters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddHistoryEntry appends one entry to the story history.
func (w *World) AddHistoryEntry(entry string) {
	w.History = append(w.History, entry)
}

// RecentHistory returns up to the last n history entries in original order.
func (w *World) RecentHistory(n int) []string {
	if len(w.History) <= n {
		return w.History
	}
	return w.History[len(w.History)-n:]
}

// DanglingActiveCharacters returns scene members that have no character
// profile. Such names are allowed (a passing stranger need not be fleshed
// out), but callers may want to surface a warning.
func (w *World) DanglingActiveCharacters() []string {
	var dangling []string
	for _, name := range w.CurrentScene.ActiveCharacters {
		if _, ok := w.Characters[name]; !ok {
			dangling = append(dangling, name)
		}
	}
	return dangling
}

// Normalize replaces nil collections with empty ones so that decoded worlds
// behave identically to constructed ones. Missing optional fields never fail
// decoding.
func (w *World) Normalize() {
	if w.Conflicts == nil {
		w.Conflicts = []string{}
	}
	if w.Characters == nil {
		w.Characters = map[string]*Character{}
	}
	if w.History == nil {
		w.History = []string{}
	}
	w.CurrentScene.normalize()
	for _, c := range w.Characters {
		c.normalize()
	}
}

// Decode parses a world document and applies defaults for absent optional
// fields.
func Decode(data []byte) (*World, error) {
	var w World
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding world: %w", err)
	}
	w.Normalize()
	return &w, nil
}
