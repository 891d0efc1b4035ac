package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"storyloom/internal/session"
	"storyloom/internal/story"
)

type ListSessionsInput struct{}

type SessionSummaryOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Premise     string `json:"premise"`
	Characters  int    `json:"characters"`
	HistoryLen  int    `json:"history_entries"`
	LastUpdated string `json:"last_updated"`
}

type ListSessionsOutput struct {
	Sessions []SessionSummaryOutput `json:"sessions"`
}

type GetWorldInput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
}

type CharacterOutput struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Personality    string            `json:"personality"`
	SpeechPatterns string            `json:"speech_patterns"`
	Memories       []string          `json:"memories"`
	Relationships  map[string]string `json:"relationships"`
}

type SceneOutput struct {
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	Atmosphere       string   `json:"atmosphere"`
	ActiveCharacters []string `json:"active_characters"`
	Props            []string `json:"props"`
}

type WorldOutput struct {
	Premise       string            `json:"premise"`
	Setting       string            `json:"setting"`
	Conflicts     []string          `json:"conflicts"`
	Characters    []CharacterOutput `json:"characters"`
	CurrentScene  SceneOutput       `json:"current_scene"`
	RecentHistory []string          `json:"recent_history"`
}

type ContinueStoryInput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
	Input     string `json:"input" jsonschema:"player action or *meta-command*"`
}

type ContinueStoryOutput struct {
	Response string `json:"response"`
}

type EmbodyCharacterInput struct {
	SessionID     string `json:"session_id" jsonschema:"session identifier"`
	CharacterName string `json:"character_name" jsonschema:"character to embody"`
	Situation     string `json:"situation" jsonschema:"situation the character responds to"`
}

type EmbodyCharacterOutput struct {
	Response string `json:"response"`
}

type CreateScenarioInput struct {
	Concept      string `json:"concept" jsonschema:"initial story concept"`
	Requirements string `json:"requirements,omitempty" jsonschema:"additional requirements or constraints"`
}

type CreateScenarioOutput struct {
	SessionID string `json:"session_id"`
	Premise   string `json:"premise"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_sessions",
		Description: "List saved story sessions, newest first",
	}, s.handleListSessions)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_world",
		Description: "Return the full story world state of a session",
	}, s.handleGetWorld)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "continue_story",
		Description: "Advance a story with player input or a *meta-command* and save the session",
	}, s.handleContinueStory)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "embody_character",
		Description: "Have a named character respond to a situation in their own voice",
	}, s.handleEmbodyCharacter)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "create_scenario",
		Description: "Create a new story scenario from a concept and save it as a session",
	}, s.handleCreateScenario)
}

func (s *Server) loadSession(ctx context.Context, id string) (*session.StorySession, error) {
	if id == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return sess, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *sdk.CallToolRequest, input ListSessionsInput) (*sdk.CallToolResult, ListSessionsOutput, error) {
	sessions, err := s.store.List(ctx)
	if err != nil {
		return nil, ListSessionsOutput{}, err
	}

	output := make([]SessionSummaryOutput, 0, len(sessions))
	for _, sess := range sessions {
		output = append(output, SessionSummaryOutput{
			ID:          sess.ID,
			Name:        sess.DisplayName(),
			Premise:     sess.World.Premise,
			Characters:  len(sess.World.Characters),
			HistoryLen:  len(sess.World.History),
			LastUpdated: sess.LastUpdated.Format(time.RFC3339),
		})
	}
	return nil, ListSessionsOutput{Sessions: output}, nil
}

func (s *Server) handleGetWorld(ctx context.Context, req *sdk.CallToolRequest, input GetWorldInput) (*sdk.CallToolResult, WorldOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, WorldOutput{}, err
	}
	return nil, worldOutputFromStory(sess.World), nil
}

func (s *Server) handleContinueStory(ctx context.Context, req *sdk.CallToolRequest, input ContinueStoryInput) (*sdk.CallToolResult, ContinueStoryOutput, error) {
	if input.Input == "" {
		return nil, ContinueStoryOutput{}, fmt.Errorf("input is required")
	}
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, ContinueStoryOutput{}, err
	}

	response, err := s.engine.ContinueStory(ctx, input.Input, sess.World)
	if err != nil {
		return nil, ContinueStoryOutput{}, err
	}
	sess.AddMessage(session.Message{"role": "user", "content": input.Input})
	sess.AddMessage(session.Message{"role": "narrator", "content": response})
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, ContinueStoryOutput{}, err
	}
	return nil, ContinueStoryOutput{Response: response}, nil
}

func (s *Server) handleEmbodyCharacter(ctx context.Context, req *sdk.CallToolRequest, input EmbodyCharacterInput) (*sdk.CallToolResult, EmbodyCharacterOutput, error) {
	if input.CharacterName == "" {
		return nil, EmbodyCharacterOutput{}, fmt.Errorf("character_name is required")
	}
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, EmbodyCharacterOutput{}, err
	}

	response, err := s.engine.EmbodyCharacter(ctx, sess.World, input.CharacterName, input.Situation)
	if err != nil {
		return nil, EmbodyCharacterOutput{}, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, EmbodyCharacterOutput{}, err
	}
	return nil, EmbodyCharacterOutput{Response: response}, nil
}

func (s *Server) handleCreateScenario(ctx context.Context, req *sdk.CallToolRequest, input CreateScenarioInput) (*sdk.CallToolResult, CreateScenarioOutput, error) {
	if input.Concept == "" {
		return nil, CreateScenarioOutput{}, fmt.Errorf("concept is required")
	}

	world, err := s.engine.CreateScenario(ctx, input.Concept, input.Requirements)
	if err != nil {
		return nil, CreateScenarioOutput{}, err
	}
	sess := session.New(world, "")
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, CreateScenarioOutput{}, err
	}
	return nil, CreateScenarioOutput{SessionID: sess.ID, Premise: world.Premise}, nil
}

func worldOutputFromStory(w *story.World) WorldOutput {
	names := w.CharacterNames()
	characters := make([]CharacterOutput, 0, len(names))
	for _, name := range names {
		c := w.Characters[name]
		characters = append(characters, CharacterOutput{
			Name:           c.Name,
			Description:    c.Description,
			Personality:    c.Personality,
			SpeechPatterns: c.SpeechPatterns,
			Memories:       append([]string{}, c.Memories...),
			Relationships:  c.Relationships,
		})
	}
	return WorldOutput{
		Premise:    w.Premise,
		Setting:    w.Setting,
		Conflicts:  append([]string{}, w.Conflicts...),
		Characters: characters,
		CurrentScene: SceneOutput{
			Location:         w.CurrentScene.Location,
			Description:      w.CurrentScene.Description,
			Atmosphere:       w.CurrentScene.Atmosphere,
			ActiveCharacters: append([]string{}, w.CurrentScene.ActiveCharacters...),
			Props:            append([]string{}, w.CurrentScene.Props...),
		},
		RecentHistory: append([]string{}, w.RecentHistory(10)...),
	}
}
