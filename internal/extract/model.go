// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/meeting-actions/pkg/types"
)

// Supported providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// ParseModel splits a "provider:model" string. A bare model name selects
// Anthropic; an empty string selects the default Claude model.
func ParseModel(s string) (provider, model string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ProviderAnthropic, DefaultClaudeModel, nil
	}
	provider, model, found := strings.Cut(s, ":")
	if !found {
		return ProviderAnthropic, s, nil
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	model = strings.TrimSpace(model)
	switch provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return "", "", fmt.Errorf("unknown model provider %q (want %s or %s)", provider, ProviderAnthropic, ProviderOpenAI)
	}
	if model == "" {
		return "", "", fmt.Errorf("model name missing in %q", s)
	}
	return provider, model, nil
}

// NewBackend builds the backend selected by cfg.Provider.
func NewBackend(cfg types.AIConfig, client *http.Client) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}
	switch cfg.Provider {
	case ProviderAnthropic, "":
		return &ClaudeBackend{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Client:    client,
		}, nil
	case ProviderOpenAI:
		return NewOpenAIBackend(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.MaxTokens, client), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
