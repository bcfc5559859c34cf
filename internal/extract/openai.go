// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend calls an OpenAI-compatible chat completions API with a
// json_schema response format.
type OpenAIBackend struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIBackend returns a backend for model. An empty baseURL uses the
// public OpenAI endpoint; a nil client uses the library default.
func NewOpenAIBackend(apiKey, model, baseURL string, maxTokens int, client *http.Client) *OpenAIBackend {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if client != nil {
		config.HTTPClient = client
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &OpenAIBackend{
		client:    openai.NewClientWithConfig(config),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Generate sends one extraction request and returns the message content.
func (o *OpenAIBackend) Generate(ctx context.Context, r Request) (json.RawMessage, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: r.System},
			{Role: openai.ChatMessageRoleUser, Content: r.Prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   recordToolName,
				Schema: r.Schema,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling chat completions: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completions returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("chat completions returned empty content (finish_reason %q)", resp.Choices[0].FinishReason)
	}
	return json.RawMessage(content), nil
}
