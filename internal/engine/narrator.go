package engine

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"storyloom/internal/oracle"
	"storyloom/internal/story"
)

// IsMetaCommand reports whether input is an out-of-character directive.
// After trimming surrounding whitespace it must both start and end with '*'
// and be longer than two characters, so "*" and "**" are regular input and
// the stripped instruction is never empty.
func IsMetaCommand(input string) bool {
	trimmed := strings.TrimSpace(input)
	return len(trimmed) > 2 && strings.HasPrefix(trimmed, "*") && strings.HasSuffix(trimmed, "*")
}

// ContinueStory runs one narrative turn. Regular input appends two history
// entries ("User: ..." then "Narrator: ..."); a meta-command appends exactly
// one "Story development: ..." entry, keeping player-authored actions and
// out-of-character directives distinguishable in the permanent record. If the
// oracle fails, no history is written.
func (e *Engine) ContinueStory(ctx context.Context, input string, w *story.World) (string, error) {
	if IsMetaCommand(input) {
		return e.handleMetaCommand(ctx, input, w)
	}

	response, err := e.oracle.Complete(ctx, oracle.Request{
		System: narratorSystemPrompt,
		Prompt: buildStoryContext(input, w),
		Tools:  []oracle.Tool{e.embodyTool(w)},
	})
	if err != nil {
		return "", err
	}

	w.AddHistoryEntry("User: " + input)
	w.AddHistoryEntry("Narrator: " + response)
	log.WithField("history", len(w.History)).Debug("story continued")
	return response, nil
}

func (e *Engine) handleMetaCommand(ctx context.Context, command string, w *story.World) (string, error) {
	trimmed := strings.TrimSpace(command)
	instruction := trimmed[1 : len(trimmed)-1]

	response, err := e.oracle.Complete(ctx, oracle.Request{
		System: narratorSystemPrompt,
		Prompt: buildMetaPrompt(instruction, w),
		Tools:  []oracle.Tool{e.embodyTool(w)},
	})
	if err != nil {
		return "", err
	}

	w.AddHistoryEntry("Story development: " + response)
	log.WithField("instruction", instruction).Debug("meta-command woven into narrative")
	return response, nil
}
