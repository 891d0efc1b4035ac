// Package oracle wraps the external text-generation service. Callers hand it
// a prompt (plus optional callable tools) and get back free text or a
// validated structured record; everything else about the provider is opaque.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
)

// Request is one oracle call.
type Request struct {
	System string
	Prompt string
	Tools  []Tool
}

// Tool is a capability the model may invoke while generating. Parameters is
// a JSON schema describing the arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Invoke      func(ctx context.Context, args json.RawMessage) (string, error)
}

// Schema declares the expected shape of a structured completion.
type Schema struct {
	Name       string
	Definition map[string]any
}

// Validator lets structured output targets reject schema-valid but
// semantically bad records before anyone trusts them.
type Validator interface {
	Validate() error
}

// Client is the text-generation oracle. Implementations retry transient
// failures a fixed number of times; protocols on top add no retries of their
// own.
type Client interface {
	// Complete returns free text. When req.Tools is non-empty the model may
	// call them; a failing tool invocation fails the whole completion.
	Complete(ctx context.Context, req Request) (string, error)

	// CompleteStructured decodes the model output into out, which is
	// validated when it implements Validator. Malformed output counts as a
	// failed attempt.
	CompleteStructured(ctx context.Context, req Request, schema Schema, out any) error
}

// Error reports a call that failed after retry exhaustion.
type Error struct {
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("oracle call failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
