package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	log "github.com/sirupsen/logrus"
)

// maxToolRounds bounds the tool-calling conversation so a confused model
// cannot loop forever.
const maxToolRounds = 8

var _ Client = (*OpenAI)(nil)

// OpenAI talks to an OpenAI-compatible chat completion endpoint, which
// covers both OpenAI itself and OpenRouter.
type OpenAI struct {
	client  openai.Client
	model   string
	retries int
}

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// Retries is the number of additional attempts after the first failure.
	Retries int
}

func NewOpenAI(opts Options) *OpenAI {
	// The SDK retries internally by default; disable that so the attempt
	// budget lives in one place.
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &OpenAI{
		client:  openai.NewClient(reqOpts...),
		model:   opts.Model,
		retries: opts.Retries,
	}
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	messages := baseMessages(req)

	var tools []openai.ChatCompletionToolParam
	for _, t := range req.Tools {
		tools = append(tools, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  shared.FunctionParameters(t.Parameters),
			},
		})
	}

	for round := 0; round < maxToolRounds; round++ {
		params := openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(o.model),
			Messages: messages,
		}
		if len(tools) > 0 {
			params.Tools = tools
		}

		resp, err := o.completeWithRetry(ctx, params)
		if err != nil {
			return "", err
		}

		message := resp.Choices[0].Message
		if len(message.ToolCalls) == 0 {
			return message.Content, nil
		}

		messages = append(messages, message.ToParam())
		for _, call := range message.ToolCalls {
			tool := findTool(req.Tools, call.Function.Name)
			if tool == nil {
				return "", fmt.Errorf("model requested unknown tool %q", call.Function.Name)
			}
			log.WithField("tool", call.Function.Name).Debug("invoking oracle tool")
			result, err := tool.Invoke(ctx, json.RawMessage(call.Function.Arguments))
			if err != nil {
				return "", fmt.Errorf("tool %s: %w", call.Function.Name, err)
			}
			messages = append(messages, openai.ToolMessage(result, call.ID))
		}
	}
	return "", fmt.Errorf("tool call loop exceeded %d rounds", maxToolRounds)
}

func (o *OpenAI) CompleteStructured(ctx context.Context, req Request, schema Schema, out any) error {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: baseMessages(req),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schema.Name,
					Schema: schema.Definition,
					Strict: openai.Bool(true),
				},
			},
		},
	}

	attempts := o.retries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := o.client.Chat.Completions.New(ctx, params)
		if err == nil && len(resp.Choices) == 0 {
			err = errors.New("empty completion response")
		}
		if err == nil {
			err = decodeStructured(resp.Choices[0].Message.Content, out)
			if err == nil {
				return nil
			}
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			log.WithError(err).WithField("attempt", attempt).Warn("structured oracle call failed, retrying")
		}
	}
	return &Error{Attempts: attempts, Err: lastErr}
}

func (o *OpenAI) completeWithRetry(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	attempts := o.retries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := o.client.Chat.Completions.New(ctx, params)
		if err == nil {
			if len(resp.Choices) > 0 {
				return resp, nil
			}
			err = errors.New("empty completion response")
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			log.WithError(err).WithField("attempt", attempt).Warn("oracle call failed, retrying")
		}
	}
	return nil, &Error{Attempts: attempts, Err: lastErr}
}

func baseMessages(req Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))
	return messages
}

func findTool(tools []Tool, name string) *Tool {
	for i := range tools {
		if tools[i].Name == name {
			return &tools[i]
		}
	}
	return nil
}
