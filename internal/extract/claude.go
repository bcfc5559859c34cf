// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = "claude-sonnet-4-6"

const (
	defaultMaxTokens = 4096
	recordToolName   = "record_action_items"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude Messages API. The output schema is offered
// as a single tool the model is forced to call; the tool input is the reply.
type ClaudeBackend struct {
	APIKey    string
	Model     string
	MaxTokens int
	Client    *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model      string           `json:"model"`
	MaxTokens  int              `json:"max_tokens"`
	System     string           `json:"system,omitempty"`
	Messages   []claudeMessage  `json:"messages"`
	Tools      []claudeTool     `json:"tools"`
	ToolChoice claudeToolChoice `json:"tool_choice"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type claudeToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content    []claudeContent `json:"content"`
	StopReason string          `json:"stop_reason"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// Generate sends one extraction request and returns the forced tool call's input.
func (c *ClaudeBackend) Generate(ctx context.Context, r Request) (json.RawMessage, error) {
	model := c.Model
	if model == "" {
		model = DefaultClaudeModel
	}
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqBody := claudeRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    r.System,
		Messages: []claudeMessage{
			{Role: "user", Content: r.Prompt},
		},
		Tools: []claudeTool{{
			Name:        recordToolName,
			Description: "Record the action items extracted from the meeting note.",
			InputSchema: r.Schema,
		}},
		ToolChoice: claudeToolChoice{Type: "tool", Name: recordToolName},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return nil, fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "tool_use" && block.Name == recordToolName {
			return block.Input, nil
		}
	}
	return nil, fmt.Errorf("no %s tool call in Claude API response (stop_reason %q)", recordToolName, cResp.StopReason)
}
