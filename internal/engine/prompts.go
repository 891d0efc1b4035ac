package engine

import (
	"fmt"
	"strings"

	"storyloom/internal/story"
)

const narratorSystemPrompt = `You are a master storyteller and narrative director for an interactive storytelling experience.

Act as the Narrator: describe scenes, control the environment, manage time and pacing. Write natural, novel-style prose without rigid formatting or game-like mechanics. Focus on atmosphere, emotion, and character relationships.

When characters need to speak or act, use the embody_character tool so each keeps their distinct voice. The player character is controlled by the user - never assume their actions, and always leave room for user choice.

When handling out-of-character story changes, weave them into the narrative seamlessly and never acknowledge them as commands. The user has ultimate authority over story direction.`

const characterSystemPrompt = `You are a character embodiment specialist. Embody the specified character completely: respond as that character would, using their established personality, background, relationships, and speech patterns.

Respond naturally as the character would speak or act, including dialogue and expressions where appropriate. Stay in character completely - no breaking the fourth wall. Keep responses concise but true to the character.`

const scenarioSystemPrompt = `You are an expert scenario generator for interactive storytelling. Create compelling, immersive story scenarios: a clear premise that hooks players, rich authentic world-building, multiple conflicts that can drive the narrative, an opening scene that draws players in, and suggested character concepts that fit the world. Provide structure while leaving room for emergent storytelling.`

const characterCreationSystemPrompt = `You are an expert character creator for interactive storytelling. Create authentic, three-dimensional characters: physical appearance and background, personality traits and flaws, motivations, and distinct speech patterns and mannerisms that make them memorable.`

func buildStoryContext(input string, w *story.World) string {
	active := "None"
	if len(w.CurrentScene.ActiveCharacters) > 0 {
		active = strings.Join(w.CurrentScene.ActiveCharacters, ", ")
	}

	recent := "This is the beginning of the story."
	if entries := w.RecentHistory(5); len(entries) > 0 {
		recent = strings.Join(entries, "\n")
	}

	return fmt.Sprintf(`Current Scene: %s
Scene Description: %s
Atmosphere: %s
Active Characters: %s

Recent Story Events:
%s

User Action/Input: %s

Continue the narrative naturally, using character tools when NPCs need to speak or act.`,
		w.CurrentScene.Location,
		w.CurrentScene.Description,
		w.CurrentScene.Atmosphere,
		active,
		recent,
		input,
	)
}

func buildMetaPrompt(instruction string, w *story.World) string {
	recent := "None"
	if entries := w.RecentHistory(3); len(entries) > 0 {
		recent = strings.Join(entries, "; ")
	}

	return fmt.Sprintf(`The following change needs to be incorporated naturally into the ongoing narrative: %s

Current scene: %s
Recent history: %s

Incorporate this change seamlessly without acknowledging it as a command. Just naturally weave it into the story.`,
		instruction,
		w.CurrentScene.Location,
		recent,
	)
}

func buildCharacterContext(c *story.Character, w *story.World, situation string) string {
	memories := "None"
	if recent := c.RecentMemories(5); len(recent) > 0 {
		memories = strings.Join(recent, ", ")
	}

	relationships := "None"
	if len(c.Relationships) > 0 {
		var pairs []string
		for name, rel := range c.Relationships {
			pairs = append(pairs, fmt.Sprintf("%s: %s", name, rel))
		}
		relationships = strings.Join(pairs, ", ")
	}

	return fmt.Sprintf(`Character: %s
Description: %s
Personality: %s
Speech Patterns: %s
Recent Memories: %s
Relationships: %s

Current Scene: %s
Scene Description: %s
Scene Atmosphere: %s

Situation to respond to: %s`,
		c.Name,
		c.Description,
		c.Personality,
		c.SpeechPatterns,
		memories,
		relationships,
		w.CurrentScene.Location,
		w.CurrentScene.Description,
		w.CurrentScene.Atmosphere,
		situation,
	)
}

func buildScenarioPrompt(concept, requirements string) string {
	return fmt.Sprintf(`Initial Concept: %s

Additional Requirements: %s

Create a complete scenario that includes:
1. A compelling premise that builds on the initial concept
2. Rich world-building and setting details
3. 2-3 main conflicts or plot threads that can drive the story
4. An engaging opening scene that immediately draws players in
5. 3-5 character concepts that should be created for this world

Make sure the scenario provides structure while leaving room for player creativity and emergent storytelling.`,
		concept,
		requirements,
	)
}

func buildRefinementPrompt(w *story.World, feedback string) string {
	return fmt.Sprintf(`Current Scenario:
Premise: %s
Setting: %s
Conflicts: %s
Opening Scene: %s - %s

User Feedback: %s

Refine the scenario based on this feedback while maintaining the core elements that work well. Keep the improvements focused and coherent with the existing narrative structure.`,
		w.Premise,
		w.Setting,
		strings.Join(w.Conflicts, "; "),
		w.CurrentScene.Location,
		w.CurrentScene.Description,
		feedback,
	)
}

func buildCharacterCreationPrompt(w *story.World, concept, context string) string {
	var existing []string
	for name := range w.Characters {
		existing = append(existing, name)
	}

	return fmt.Sprintf(`Story Setting: %s
Story Premise: %s
Existing Characters: %s
Current Scene: %s

Character Concept: %s
Additional Context: %s

Create a detailed character that fits well into this story world and complements the existing characters.`,
		w.Setting,
		w.Premise,
		strings.Join(existing, ", "),
		w.CurrentScene.Location,
		concept,
		context,
	)
}
