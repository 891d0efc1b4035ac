package engine

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"storyloom/internal/oracle"
	"storyloom/internal/story"
)

// openingSceneCap is how many of the created characters are marked present
// in the opening scene.
const openingSceneCap = 2

// scenarioRecord is the structured result of a scenario-generation call.
type scenarioRecord struct {
	Premise                 string   `json:"premise"`
	Setting                 string   `json:"setting"`
	Conflicts               []string `json:"conflicts"`
	OpeningSceneLocation    string   `json:"opening_scene_location"`
	OpeningSceneDescription string   `json:"opening_scene_description"`
	OpeningSceneAtmosphere  string   `json:"opening_scene_atmosphere"`
	CharacterConcepts       []string `json:"character_concepts"`
}

func (r *scenarioRecord) Validate() error {
	if strings.TrimSpace(r.Premise) == "" {
		return fmt.Errorf("scenario premise is empty")
	}
	if strings.TrimSpace(r.Setting) == "" {
		return fmt.Errorf("scenario setting is empty")
	}
	if strings.TrimSpace(r.OpeningSceneLocation) == "" {
		return fmt.Errorf("opening scene location is empty")
	}
	return nil
}

var scenarioSchema = oracle.Schema{
	Name: "scenario",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"premise":                   map[string]any{"type": "string", "description": "The core story premise (2-3 sentences)"},
			"setting":                   map[string]any{"type": "string", "description": "Detailed world setting description"},
			"conflicts":                 map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Main conflicts or plot threads"},
			"opening_scene_location":    map[string]any{"type": "string", "description": "Location where the story begins"},
			"opening_scene_description": map[string]any{"type": "string", "description": "Detailed description of the opening scene"},
			"opening_scene_atmosphere":  map[string]any{"type": "string", "description": "Atmosphere and mood of the opening scene"},
			"character_concepts":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Character concepts to be created for this story"},
		},
		"required": []string{
			"premise", "setting", "conflicts",
			"opening_scene_location", "opening_scene_description", "opening_scene_atmosphere",
			"character_concepts",
		},
		"additionalProperties": false,
	},
}

// characterRecord is the structured result of a character-creation call.
type characterRecord struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Personality    string `json:"personality"`
	SpeechPatterns string `json:"speech_patterns"`
}

func (r *characterRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("character name is empty")
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("character description is empty")
	}
	return nil
}

var characterSchema = oracle.Schema{
	Name: "character",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":            map[string]any{"type": "string", "description": "The character's name"},
			"description":     map[string]any{"type": "string", "description": "Physical appearance and background"},
			"personality":     map[string]any{"type": "string", "description": "Personality traits and characteristics"},
			"speech_patterns": map[string]any{"type": "string", "description": "How the character speaks and communicates"},
		},
		"required":             []string{"name", "description", "personality", "speech_patterns"},
		"additionalProperties": false,
	},
}

// CreateScenario builds a complete initial world from a free-text concept:
// one structured scenario call, then one character-creation call per concept.
// The first two created characters are marked present in the opening scene.
func (e *Engine) CreateScenario(ctx context.Context, concept, requirements string) (*story.World, error) {
	if strings.TrimSpace(concept) == "" {
		return nil, &ValidationError{Msg: "story concept must not be empty"}
	}

	var record scenarioRecord
	err := e.oracle.CompleteStructured(ctx, oracle.Request{
		System: scenarioSystemPrompt,
		Prompt: buildScenarioPrompt(concept, requirements),
	}, scenarioSchema, &record)
	if err != nil {
		return nil, fmt.Errorf("generating scenario: %w", err)
	}

	w := story.NewWorld(record.Premise, record.Setting)
	w.Conflicts = append(w.Conflicts, record.Conflicts...)
	w.CurrentScene = story.Scene{
		Location:         record.OpeningSceneLocation,
		Description:      record.OpeningSceneDescription,
		Atmosphere:       record.OpeningSceneAtmosphere,
		ActiveCharacters: []string{},
		Props:            []string{},
	}
	w.AddHistoryEntry("Story begins: " + record.Premise)

	storyContext := fmt.Sprintf("Setting: %s\nPremise: %s", w.Setting, w.Premise)
	var created []string
	for _, concept := range record.CharacterConcepts {
		character, err := e.CreateCharacter(ctx, w, concept, storyContext)
		if err != nil {
			return nil, err
		}
		created = append(created, character.Name)
	}

	if len(created) > openingSceneCap {
		created = created[:openingSceneCap]
	}
	w.CurrentScene.ActiveCharacters = append(w.CurrentScene.ActiveCharacters, created...)

	log.WithFields(log.Fields{
		"characters": len(w.Characters),
		"conflicts":  len(w.Conflicts),
	}).Info("scenario created")
	return w, nil
}

// CreateCharacter fleshes out one character concept and adds the result to
// the world, replacing any same-named character.
func (e *Engine) CreateCharacter(ctx context.Context, w *story.World, concept, storyContext string) (*story.Character, error) {
	var record characterRecord
	err := e.oracle.CompleteStructured(ctx, oracle.Request{
		System: characterCreationSystemPrompt,
		Prompt: buildCharacterCreationPrompt(w, concept, storyContext),
	}, characterSchema, &record)
	if err != nil {
		return nil, fmt.Errorf("creating character from concept %q: %w", concept, err)
	}

	character := story.NewCharacter(record.Name, record.Description, record.Personality, record.SpeechPatterns)
	w.AddCharacter(character)
	return character, nil
}

// RefineScenario reshapes the premise, setting, conflicts, and current scene
// from user feedback. Characters are untouched; refinement never regenerates
// them.
func (e *Engine) RefineScenario(ctx context.Context, w *story.World, feedback string) error {
	var record scenarioRecord
	err := e.oracle.CompleteStructured(ctx, oracle.Request{
		System: scenarioSystemPrompt,
		Prompt: buildRefinementPrompt(w, feedback),
	}, scenarioSchema, &record)
	if err != nil {
		return fmt.Errorf("refining scenario: %w", err)
	}

	w.Premise = record.Premise
	w.Setting = record.Setting
	w.Conflicts = append([]string{}, record.Conflicts...)
	w.CurrentScene.Location = record.OpeningSceneLocation
	w.CurrentScene.Description = record.OpeningSceneDescription
	w.CurrentScene.Atmosphere = record.OpeningSceneAtmosphere
	w.AddHistoryEntry("Scenario refined based on user feedback")

	log.WithField("conflicts", len(w.Conflicts)).Info("scenario refined")
	return nil
}
