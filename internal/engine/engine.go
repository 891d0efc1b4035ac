// Package engine implements the storytelling protocols on top of the oracle:
// narrative turns, character embodiment, and scenario construction.
package engine

import (
	"fmt"

	"storyloom/internal/oracle"
)

// Engine drives one story at a time. It holds no story state of its own;
// worlds are passed in and mutated only after a successful oracle call.
type Engine struct {
	oracle oracle.Client
}

func New(client oracle.Client) *Engine {
	return &Engine{oracle: client}
}

// NotFoundError reports an embodiment request for a character that has no
// profile in the world.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("character %q not found in the story world", e.Name)
}

// ValidationError reports unusable caller input, such as an empty story
// concept.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
