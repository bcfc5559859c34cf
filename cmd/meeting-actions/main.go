// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the meeting-actions CLI. It pulls
// recent meeting notes from the notes connector, extracts action items with
// a language model, and prints a report.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/meeting-actions/internal/exitcode"
	"github.com/pdiddy/meeting-actions/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command. Without a subcommand it runs the pipeline.
var rootCmd = &cobra.Command{
	Use:   "meeting-actions",
	Short: "Extract action items from recent meeting notes",
	Long: `meeting-actions fetches the meeting notes created in the last few days,
reads each note's summary and transcript, and asks a language model for the
action items, assignees, and due dates it contains.

Notes are read through the hosted connector (AIRBYTE_CLIENT_ID and
AIRBYTE_CLIENT_SECRET) or directly with an API key (GRANOLA_API_KEY).
Credentials may also come from a .env file or the .secrets/ directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle: both functions refer back to rootCmd.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString("secrets_dir")
		s, err := secrets.Load(dir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 && !quiet() {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	}
	rootCmd.RunE = runPipeline

	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./meeting-actions.yaml or ~/.config/meeting-actions/meeting-actions.yaml)")
	pf.String("secrets-dir", ".secrets/", "directory of credential files")
	pf.CountP("verbose", "v", "increase diagnostic logging (-v info, -vv debug)")
	pf.BoolP("quiet", "q", false, "only print the report and errors")

	_ = viper.BindPFlag("secrets_dir", pf.Lookup("secrets-dir"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("meeting-actions")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "meeting-actions"))
		}
	}

	viper.SetEnvPrefix("MEETING_ACTIONS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && !quiet() {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindEnv maps the conventional credential variables onto config keys.
func bindEnv(v *viper.Viper) {
	for key, env := range map[string]string{
		keyAirbyteClientID:     "AIRBYTE_CLIENT_ID",
		keyAirbyteClientSecret: "AIRBYTE_CLIENT_SECRET",
		keyAirbyteCustomer:     "AIRBYTE_CUSTOMER_NAME",
		keyGranolaAPIKey:       "GRANOLA_API_KEY",
		keyAnthropicAPIKey:     "ANTHROPIC_API_KEY",
		keyOpenAIAPIKey:        "OPENAI_API_KEY",
		keyOpenAIBaseURL:       "OPENAI_BASE_URL",
	} {
		_ = v.BindEnv(key, env)
	}
}

func quiet() bool {
	q, _ := rootCmd.PersistentFlags().GetBool("quiet")
	return q
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitcode.For(err))
}
