// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/meeting-actions/internal/connector"
	"github.com/pdiddy/meeting-actions/internal/exitcode"
	"github.com/pdiddy/meeting-actions/internal/extract"
	"github.com/pdiddy/meeting-actions/internal/logging"
	"github.com/pdiddy/meeting-actions/internal/notes"
	"github.com/pdiddy/meeting-actions/internal/report"
	"github.com/pdiddy/meeting-actions/internal/secrets"
	"github.com/pdiddy/meeting-actions/internal/tasks"
	"github.com/pdiddy/meeting-actions/pkg/types"
)

// Config keys.
const (
	keyDays       = "report.days"
	keyFormat     = "report.format"
	keyModel      = "extraction.model"
	keyMaxTokens  = "extraction.max_tokens"
	keyAITimeout  = "extraction.timeout"
	keyTasksList  = "tasks.list_id"
	keyTasksDir   = "tasks.config_dir"
	keyHostedURL  = "connector.hosted_url"
	keyTokenURL   = "connector.token_url"
	keyLocalURL   = "connector.local_url"
	keyTimeout    = "connector.timeout"
	keyRPS        = "connector.requests_per_second"
	keyMaxRetries = "connector.max_retries"

	keyAirbyteClientID     = "airbyte.client_id"
	keyAirbyteClientSecret = "airbyte.client_secret"
	keyAirbyteCustomer     = "airbyte.customer_name"
	keyGranolaAPIKey       = "granola.api_key"
	keyAnthropicAPIKey     = "anthropic.api_key"
	keyOpenAIAPIKey        = "openai.api_key"
	keyOpenAIBaseURL       = "openai.base_url"
)

const defaultModel = extract.ProviderAnthropic + ":" + extract.DefaultClaudeModel

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract action items from recent meeting notes (default command)",
	Long: `Run fetches the notes created in the last --days days, extracts the action
items of each note, and prints the meetings that have at least one.

Progress goes to stderr; the report goes to stdout. With --tasks-list the
action items are also created as Google Tasks in that list.`,
	RunE: runPipeline,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Int("days", 7, "number of days to look back for meeting notes")
	pf.String("format", string(types.OutputText), "output format: text, json, yaml, or markdown")
	pf.String("model", defaultModel, "model as provider:name (anthropic or openai)")
	pf.String("tasks-list", "", "Google Tasks list to create the action items in (@default for the default list)")
	pf.String("tasks-dir", "", "directory with oauth_client.json and token.json (default: ~/.config/gtask)")

	_ = viper.BindPFlag(keyDays, pf.Lookup("days"))
	_ = viper.BindPFlag(keyFormat, pf.Lookup("format"))
	_ = viper.BindPFlag(keyModel, pf.Lookup("model"))
	_ = viper.BindPFlag(keyTasksList, pf.Lookup("tasks-list"))
	_ = viper.BindPFlag(keyTasksDir, pf.Lookup("tasks-dir"))

	rootCmd.AddCommand(runCmd)
}

// runConfig is everything a run needs, resolved from flags, config file,
// environment, and the secrets directory.
type runConfig struct {
	Pipeline    types.PipelineConfig
	Credentials connector.Credentials
}

// firstSet returns the first non-empty value.
func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// buildRunConfig resolves the run configuration. Missing connector
// credentials yield connector.ErrNoCredentials; other invalid settings
// wrap exitcode.ErrConfig.
func buildRunConfig(v *viper.Viper, sec secrets.Secrets) (runConfig, error) {
	var cfg runConfig

	days := v.GetInt(keyDays)
	if days < 1 {
		return cfg, fmt.Errorf("%w: --days must be at least 1, got %d", exitcode.ErrConfig, days)
	}
	format, err := report.ParseFormat(firstSet(v.GetString(keyFormat), string(types.OutputText)))
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", exitcode.ErrConfig, err)
	}
	cfg.Pipeline.Report = types.ReportConfig{Days: days, Format: format}

	creds, err := connector.ResolveCredentials(connector.Credentials{
		ClientID:     firstSet(v.GetString(keyAirbyteClientID), sec.Get("airbyte-client-id")),
		ClientSecret: firstSet(v.GetString(keyAirbyteClientSecret), sec.Get("airbyte-client-secret")),
		CustomerName: firstSet(v.GetString(keyAirbyteCustomer), sec.Get("airbyte-customer-name")),
		APIKey:       firstSet(v.GetString(keyGranolaAPIKey), sec.Get("granola-api-key")),
	})
	if err != nil {
		return cfg, err
	}
	cfg.Credentials = creds

	cfg.Pipeline.Connector = types.ConnectorConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   v.GetDuration(keyTimeout),
			UserAgent: "meeting-actions/" + version,
		},
		HostedURL:         v.GetString(keyHostedURL),
		TokenURL:          v.GetString(keyTokenURL),
		LocalURL:          v.GetString(keyLocalURL),
		RequestsPerSecond: v.GetFloat64(keyRPS),
		MaxRetries:        v.GetInt(keyMaxRetries),
	}

	provider, model, err := extract.ParseModel(firstSet(v.GetString(keyModel), defaultModel))
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", exitcode.ErrConfig, err)
	}
	ai := types.AIConfig{Provider: provider, Model: model, MaxTokens: v.GetInt(keyMaxTokens)}
	switch provider {
	case extract.ProviderOpenAI:
		ai.APIKey = firstSet(v.GetString(keyOpenAIAPIKey), sec.Get("openai-api-key"))
		ai.BaseURL = v.GetString(keyOpenAIBaseURL)
		if ai.APIKey == "" {
			return cfg, fmt.Errorf("%w: no OpenAI API key: set OPENAI_API_KEY", exitcode.ErrConfig)
		}
	default:
		ai.APIKey = firstSet(v.GetString(keyAnthropicAPIKey), sec.Get("anthropic-api-key"))
		if ai.APIKey == "" {
			return cfg, fmt.Errorf("%w: no Anthropic API key: set ANTHROPIC_API_KEY", exitcode.ErrConfig)
		}
	}
	cfg.Pipeline.Extraction = types.ExtractionConfig{AIConfig: ai, Timeout: v.GetDuration(keyAITimeout)}

	cfg.Pipeline.Tasks = types.TasksConfig{
		ListID:    v.GetString(keyTasksList),
		ConfigDir: v.GetString(keyTasksDir),
	}
	return cfg, nil
}

// writeReport renders rep to stdout. A window without notes prints only
// report.NoMeetingNotes on stderr, whatever the format and even with -q.
func writeReport(stdout, stderr io.Writer, format types.OutputFormat, rep report.Report) error {
	if rep.NotesFound == 0 {
		_, err := fmt.Fprintln(stderr, report.NoMeetingNotes)
		return err
	}
	return report.Render(stdout, format, rep.Meetings)
}

// runPipeline wires the stages together for one invocation.
func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := buildRunConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	verbosity, _ := rootCmd.PersistentFlags().GetCount("verbose")
	logger := logging.New(os.Stderr, verbosity, quiet())
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting run",
		zap.String("version", version),
		zap.String("connector_mode", string(cfg.Credentials.Mode)),
		zap.String("provider", cfg.Pipeline.Extraction.Provider),
		zap.String("model", cfg.Pipeline.Extraction.Model),
		zap.Int("days", cfg.Pipeline.Report.Days),
	)

	gw, err := connector.New(cfg.Credentials, cfg.Pipeline.Connector, &http.Client{}, logger.Named("connector"))
	if err != nil {
		return err
	}

	aiTimeout := cfg.Pipeline.Extraction.Timeout
	if aiTimeout <= 0 {
		aiTimeout = 2 * time.Minute
	}
	backend, err := extract.NewBackend(cfg.Pipeline.Extraction.AIConfig, &http.Client{Timeout: aiTimeout})
	if err != nil {
		return fmt.Errorf("%w: %v", exitcode.ErrConfig, err)
	}

	var progress io.Writer = os.Stderr
	if quiet() {
		progress = io.Discard
	}

	rep, err := report.Assemble(ctx,
		notes.NewFetcher(gw, logger.Named("notes")),
		extract.NewExtractor(backend, logger.Named("extract")),
		cfg.Pipeline.Report.Days, time.Now(), progress, logger,
	)
	if err != nil {
		return err
	}
	if err := writeReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Pipeline.Report.Format, rep); err != nil {
		return err
	}

	if cfg.Pipeline.Tasks.ListID == "" || len(rep.Meetings) == 0 {
		return nil
	}
	exporter, err := tasks.New(ctx, cfg.Pipeline.Tasks.ConfigDir, logger.Named("tasks"))
	if err != nil {
		return fmt.Errorf("%w: %v", exitcode.ErrConfig, err)
	}
	n, err := exporter.Export(ctx, cfg.Pipeline.Tasks.ListID, rep.Meetings)
	if err != nil {
		return fmt.Errorf("exporting to Google Tasks (%d created): %w", n, err)
	}
	fmt.Fprintf(progress, "Created %d task(s) in list %s.\n", n, cfg.Pipeline.Tasks.ListID)
	return nil
}
