// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report runs the pipeline for one invocation and renders its result.
// Assemble fetches recent notes, extracts action items note by note, and
// keeps the meetings that produced at least one item. The render functions
// turn that list into text, JSON, YAML, or terminal markdown.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/meeting-actions/internal/notes"
	"github.com/pdiddy/meeting-actions/pkg/types"
)

// NoteSource returns the notes created at or after a cutoff.
type NoteSource interface {
	FetchRecent(ctx context.Context, cutoff time.Time) ([]types.Note, error)
}

// ItemExtractor extracts the action items of one note.
type ItemExtractor interface {
	Extract(ctx context.Context, note types.Note) (types.MeetingActionItems, error)
}

// NoMeetingNotes is the result line for a window without notes.
const NoMeetingNotes = "No meeting notes found."

// Report is the outcome of one run.
type Report struct {
	// NotesFound is the number of notes retrieved for the window.
	NotesFound int

	// Meetings holds the meetings with at least one action item, in note order.
	Meetings []types.MeetingActionItems
}

// Assemble fetches the notes of the last days days (counted back from now)
// and extracts their action items in order. Progress lines go to progress;
// an empty window is reported through NotesFound, not on progress.
// The first extraction failure aborts the run.
func Assemble(ctx context.Context, src NoteSource, ex ItemExtractor, days int, now time.Time, progress io.Writer, logger *zap.Logger) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cutoff := notes.Cutoff(now, days)
	logger.Info("collecting notes", zap.Int("days", days), zap.Time("cutoff", cutoff))

	fmt.Fprintf(progress, "Fetching meeting notes from the last %d day(s)...\n", days)
	found, err := src.FetchRecent(ctx, cutoff)
	if err != nil {
		return Report{}, fmt.Errorf("fetching notes: %w", err)
	}

	rep := Report{NotesFound: len(found), Meetings: []types.MeetingActionItems{}}
	if len(found) == 0 {
		return rep, nil
	}

	fmt.Fprintf(progress, "Found %d note(s). Analyzing for action items...\n\n", len(found))

	results := make([]types.MeetingActionItems, 0, len(found))
	for _, note := range found {
		fmt.Fprintf(progress, "  Analyzing: %s...\n", note.TitleOrDefault())
		result, err := ex.Extract(ctx, note)
		if err != nil {
			return Report{}, fmt.Errorf("extracting action items from %q: %w", note.TitleOrDefault(), err)
		}
		results = append(results, result)
	}

	rep.Meetings = Filter(results)
	logger.Info("run complete",
		zap.Int("notes", rep.NotesFound),
		zap.Int("meetings_with_items", len(rep.Meetings)),
	)
	return rep, nil
}

// Filter keeps the results that carry at least one action item, preserving
// order. The returned slice is never nil.
func Filter(results []types.MeetingActionItems) []types.MeetingActionItems {
	out := make([]types.MeetingActionItems, 0, len(results))
	for _, r := range results {
		if r.HasActionItems() {
			out = append(out, r)
		}
	}
	return out
}
