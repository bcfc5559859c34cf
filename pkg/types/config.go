package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "meeting-actions/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ConnectorConfig holds settings for the notes connector.
type ConnectorConfig struct {
	HTTPConfig `yaml:",inline"`

	// HostedURL is the base URL of the hosted connector execution API.
	HostedURL string `json:"hosted_url" yaml:"hosted_url"`

	// TokenURL is the OAuth2 client-credentials endpoint for hosted mode.
	TokenURL string `json:"token_url" yaml:"token_url"`

	// LocalURL is the base URL of the notes service API used in local mode.
	LocalURL string `json:"local_url" yaml:"local_url"`

	// RequestsPerSecond caps the request rate against the connector (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Provider selects the model API: "anthropic" or "openai".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the AI model identifier (e.g. "claude-sonnet-4-6").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible servers).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxTokens bounds the model response length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`

	// Timeout is the HTTP timeout for one model call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// OutputFormat selects how the report is rendered.
type OutputFormat string

const (
	OutputText     OutputFormat = "text"
	OutputJSON     OutputFormat = "json"
	OutputYAML     OutputFormat = "yaml"
	OutputMarkdown OutputFormat = "markdown"
)

// ReportConfig holds settings for a run of the pipeline.
type ReportConfig struct {
	// Days is the look-back window for note creation (default 7).
	Days int `json:"days" yaml:"days"`

	// Format selects the report rendering.
	Format OutputFormat `json:"format" yaml:"format"`
}

// TasksConfig holds settings for exporting action items to Google Tasks.
type TasksConfig struct {
	// ListID is the task list to write to; empty disables the export.
	ListID string `json:"list_id" yaml:"list_id"`

	// ConfigDir contains oauth_client.json and token.json.
	ConfigDir string `json:"config_dir" yaml:"config_dir"`
}

// PipelineConfig groups all stage configurations for a run.
type PipelineConfig struct {
	Connector  ConnectorConfig  `json:"connector" yaml:"connector"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Report     ReportConfig     `json:"report" yaml:"report"`
	Tasks      TasksConfig      `json:"tasks" yaml:"tasks"`
}
