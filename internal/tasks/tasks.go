// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tasks exports extracted action items to Google Tasks. It reuses
// the OAuth client and token files written by the gtask login flow.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gtasks "google.golang.org/api/tasks/v1"

	"github.com/pdiddy/meeting-actions/pkg/types"
)

const (
	// DefaultListID is the special ID for the user's default list.
	DefaultListID = "@default"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// APITimeout bounds each insert call.
	APITimeout = 10 * time.Second

	tasksScope = "https://www.googleapis.com/auth/tasks"
)

// ErrAuth is returned when Google rejects the stored token.
var ErrAuth = errors.New("tasks token expired or revoked (run: gtask login)")

// DefaultConfigDir returns the gtask configuration directory:
// $XDG_CONFIG_HOME/gtask, else ~/.config/gtask.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gtask")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "gtask"
	}
	return filepath.Join(home, ".config", "gtask")
}

// Exporter inserts action items into a task list.
type Exporter struct {
	svc    *gtasks.Service
	logger *zap.Logger
}

// New creates an Exporter authorised by oauth_client.json and token.json
// in configDir. The token refreshes automatically.
func New(ctx context.Context, configDir string, logger *zap.Logger) (*Exporter, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	clientJSON, err := os.ReadFile(filepath.Join(configDir, OAuthClientFile))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", OAuthClientFile, err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", OAuthClientFile, err)
	}

	tokenData, err := os.ReadFile(filepath.Join(configDir, TokenFile))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", TokenFile, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", TokenFile, err)
	}

	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))
	return NewWithHTTPClient(ctx, httpClient, logger)
}

// NewWithHTTPClient creates an Exporter over a pre-authorised client. Extra
// options (such as option.WithEndpoint in tests) are passed to the service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, logger *zap.Logger, opts ...option.ClientOption) (*Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gtasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating tasks service: %w", err)
	}
	return &Exporter{svc: svc, logger: logger}, nil
}

// Export inserts one task per action item into listID, meeting by meeting,
// and returns how many were created. The first failure stops the export.
func (e *Exporter) Export(ctx context.Context, listID string, meetings []types.MeetingActionItems) (int, error) {
	if listID == "" {
		listID = DefaultListID
	}

	created := 0
	for _, m := range meetings {
		for _, item := range m.ActionItems {
			task := TaskFor(item)

			callCtx, cancel := context.WithTimeout(ctx, APITimeout)
			got, err := e.svc.Tasks.Insert(listID, task).Context(callCtx).Do()
			cancel()
			if err != nil {
				return created, fmt.Errorf("creating task %q: %w", task.Title, wrapError(err))
			}

			e.logger.Debug("task created",
				zap.String("list_id", listID),
				zap.String("task_id", got.Id),
				zap.String("meeting", m.MeetingTitle),
			)
			created++
		}
	}
	return created, nil
}

// TaskFor builds the task for one action item. The due date is set only
// when the item's due date is a calendar date (YYYY-MM-DD).
func TaskFor(item types.ActionItem) *gtasks.Task {
	var notes []string
	if item.Assignee != "" {
		notes = append(notes, "Assignee: "+item.Assignee)
	}
	if item.SourceMeeting != "" {
		notes = append(notes, "Meeting: "+item.SourceMeeting)
	}
	if item.DueDate != "" {
		notes = append(notes, "Due: "+item.DueDate)
	}

	task := &gtasks.Task{
		Title: item.Description,
		Notes: strings.Join(notes, "\n"),
	}
	if d, err := time.Parse(time.DateOnly, strings.TrimSpace(item.DueDate)); err == nil {
		task.Due = d.UTC().Format(time.RFC3339)
	}
	return task
}

func wrapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
	}
	return err
}
