// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns a meeting note into structured action items by
// calling a language model with a fixed instruction and a fixed output
// schema. The model's reply is decoded and validated before it reaches the
// report; a reply that does not fit the schema fails the extraction.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/meeting-actions/internal/notes"
	"github.com/pdiddy/meeting-actions/pkg/types"
)

// SystemPrompt is the instruction sent with every extraction request.
const SystemPrompt = "You are an expert at analyzing meeting notes and extracting action items. " +
	"Given a meeting note, identify all action items, tasks, follow-ups, and commitments. " +
	"For each action item, extract:\n" +
	"- A clear, concise description of what needs to be done\n" +
	"- The assignee (person responsible), if mentioned by name\n" +
	"- A due date or deadline, if mentioned\n\n" +
	"Only extract concrete, actionable items. Do not invent action items that aren't " +
	"clearly stated or strongly implied in the notes. If there are no action items, " +
	"return an empty list."

// ErrValidation is returned when the model output does not satisfy the
// action item schema.
var ErrValidation = errors.New("model output failed validation")

// Request is one structured-output call to a model backend.
type Request struct {
	System string
	Prompt string

	// Schema is the JSON Schema the reply must follow.
	Schema json.RawMessage
}

// Backend abstracts the model API so tests can supply a stub. Generate
// returns the JSON object the model produced for the request.
type Backend interface {
	Generate(ctx context.Context, req Request) (json.RawMessage, error)
}

// Extractor extracts action items from notes, one model call per note.
type Extractor struct {
	backend Backend
	logger  *zap.Logger
}

// NewExtractor returns an Extractor that calls backend.
func NewExtractor(backend Backend, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{backend: backend, logger: logger}
}

// Extract formats the note, asks the model for its action items, and
// validates the reply. The returned ActionItems slice is never nil.
func (e *Extractor) Extract(ctx context.Context, note types.Note) (types.MeetingActionItems, error) {
	prompt := notes.Format(note)
	e.logger.Debug("extracting action items",
		zap.String("note_id", note.ID),
		zap.Int("prompt_bytes", len(prompt)),
	)

	raw, err := e.backend.Generate(ctx, Request{
		System: SystemPrompt,
		Prompt: prompt,
		Schema: outputSchema,
	})
	if err != nil {
		return types.MeetingActionItems{}, fmt.Errorf("calling model for note %s: %w", note.ID, err)
	}

	result, err := decodeResult(raw)
	if err != nil {
		return types.MeetingActionItems{}, fmt.Errorf("note %s: %w", note.ID, err)
	}

	e.logger.Info("extracted action items",
		zap.String("note_id", note.ID),
		zap.Int("items", len(result.ActionItems)),
	)
	return result, nil
}

// decodeResult parses the model reply and checks required fields. Missing
// or null action_items is an empty list.
func decodeResult(raw json.RawMessage) (types.MeetingActionItems, error) {
	var out wireResult
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&out); err != nil {
		return types.MeetingActionItems{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var problems []string
	if out.MeetingTitle == nil {
		problems = append(problems, "missing meeting_title")
	}
	if out.MeetingDate == nil {
		problems = append(problems, "missing meeting_date")
	}

	result := types.MeetingActionItems{
		MeetingTitle: deref(out.MeetingTitle),
		MeetingDate:  deref(out.MeetingDate),
		ActionItems:  make([]types.ActionItem, 0, len(out.ActionItems)),
	}

	for i, item := range out.ActionItems {
		if item.Description == nil || strings.TrimSpace(*item.Description) == "" {
			problems = append(problems, fmt.Sprintf("action_items[%d]: missing description", i))
			continue
		}
		if item.SourceMeeting == nil {
			problems = append(problems, fmt.Sprintf("action_items[%d]: missing source_meeting", i))
			continue
		}
		result.ActionItems = append(result.ActionItems, types.ActionItem{
			Description:   *item.Description,
			Assignee:      deref(item.Assignee),
			DueDate:       deref(item.DueDate),
			SourceMeeting: *item.SourceMeeting,
		})
	}

	if len(problems) > 0 {
		return types.MeetingActionItems{}, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
