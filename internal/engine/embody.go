package engine

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"storyloom/internal/oracle"
	"storyloom/internal/story"
)

// memoryWindow is how many recent memories feed the embodiment prompt.
const memoryWindow = 5

// EmbodyCharacter has the named character respond to a situation in their own
// voice. On success a bounded memory entry is recorded on the character; on
// failure the world is left untouched.
func (e *Engine) EmbodyCharacter(ctx context.Context, w *story.World, name, situation string) (string, error) {
	character := w.GetCharacter(name)
	if character == nil {
		return "", &NotFoundError{Name: name}
	}

	response, err := e.oracle.Complete(ctx, oracle.Request{
		System: characterSystemPrompt,
		Prompt: buildCharacterContext(character, w, situation),
	})
	if err != nil {
		return "", fmt.Errorf("embodying %s: %w", name, err)
	}

	character.AddMemory(memoryEntry(situation))
	log.WithFields(log.Fields{
		"character": name,
		"memories":  len(character.Memories),
	}).Debug("character responded")
	return response, nil
}

// memoryEntry derives the recorded memory from the situation, truncated so a
// single verbose situation cannot dominate the memory list. The cut counts
// characters, not bytes, so a multibyte rune is never split.
func memoryEntry(situation string) string {
	if runes := []rune(situation); len(runes) > 100 {
		situation = string(runes[:100]) + "..."
	}
	return "Responded to: " + situation
}

// embodyTool exposes character embodiment to the narrator model as a
// callable capability.
func (e *Engine) embodyTool(w *story.World) oracle.Tool {
	return oracle.Tool{
		Name:        "embody_character",
		Description: "Have a story character respond to a situation in their own voice",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"character_name": map[string]any{
					"type":        "string",
					"description": "Name of the character to embody",
				},
				"situation": map[string]any{
					"type":        "string",
					"description": "The situation the character should respond to",
				},
			},
			"required": []string{"character_name", "situation"},
		},
		Invoke: func(ctx context.Context, args json.RawMessage) (string, error) {
			var input struct {
				CharacterName string `json:"character_name"`
				Situation     string `json:"situation"`
			}
			if err := json.Unmarshal(args, &input); err != nil {
				return "", fmt.Errorf("decoding embody_character arguments: %w", err)
			}
			return e.EmbodyCharacter(ctx, w, input.CharacterName, input.Situation)
		},
	}
}
