// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/meeting-actions/pkg/types"
)

// --- fakes ---

type fakeSource struct {
	notes  []types.Note
	err    error
	cutoff time.Time
}

func (f *fakeSource) FetchRecent(_ context.Context, cutoff time.Time) ([]types.Note, error) {
	f.cutoff = cutoff
	return f.notes, f.err
}

type fakeExtractor struct {
	results map[string]types.MeetingActionItems
	fail    map[string]error
	seen    []string
}

func (f *fakeExtractor) Extract(_ context.Context, note types.Note) (types.MeetingActionItems, error) {
	f.seen = append(f.seen, note.ID)
	if err := f.fail[note.ID]; err != nil {
		return types.MeetingActionItems{}, err
	}
	if r, ok := f.results[note.ID]; ok {
		return r, nil
	}
	return types.MeetingActionItems{MeetingTitle: note.Title, ActionItems: []types.ActionItem{}}, nil
}

var (
	planning = types.MeetingActionItems{
		MeetingTitle: "Sprint Planning",
		MeetingDate:  "2024-01-15",
		ActionItems: []types.ActionItem{
			{Description: "Finish the API doc", Assignee: "Alice", DueDate: "Friday", SourceMeeting: "Sprint Planning"},
			{Description: "Book the demo room", SourceMeeting: "Sprint Planning"},
		},
	}
	retro = types.MeetingActionItems{
		MeetingTitle: "Retro",
		MeetingDate:  "2024-01-16",
		ActionItems: []types.ActionItem{
			{Description: "Update runbook", DueDate: "2024-01-20", SourceMeeting: "Retro"},
		},
	}
)

var now = time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)

// --- Assemble ---

func TestAssemble(t *testing.T) {
	src := &fakeSource{notes: []types.Note{
		{ID: "a", Title: "Sprint Planning"},
		{ID: "b", Title: "Coffee chat"},
		{ID: "c"},
	}}
	ex := &fakeExtractor{results: map[string]types.MeetingActionItems{"a": planning, "c": retro}}
	var progress bytes.Buffer

	rep, err := Assemble(context.Background(), src, ex, 3, now, &progress, nil)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC), src.cutoff)
	assert.Equal(t, []string{"a", "b", "c"}, ex.seen)
	assert.Equal(t, 3, rep.NotesFound)
	assert.Equal(t, []types.MeetingActionItems{planning, retro}, rep.Meetings)

	want := "Fetching meeting notes from the last 3 day(s)...\n" +
		"Found 3 note(s). Analyzing for action items...\n\n" +
		"  Analyzing: Sprint Planning...\n" +
		"  Analyzing: Coffee chat...\n" +
		"  Analyzing: Untitled...\n"
	assert.Equal(t, want, progress.String())
}

func TestAssemble_NoNotes(t *testing.T) {
	ex := &fakeExtractor{}
	var progress bytes.Buffer

	rep, err := Assemble(context.Background(), &fakeSource{}, ex, 7, now, &progress, nil)
	require.NoError(t, err)
	assert.Zero(t, rep.NotesFound)
	assert.NotNil(t, rep.Meetings)
	assert.Empty(t, rep.Meetings)
	assert.Empty(t, ex.seen)
	assert.Equal(t, "Fetching meeting notes from the last 7 day(s)...\n", progress.String())
}

func TestAssemble_Errors(t *testing.T) {
	boom := errors.New("boom")

	_, err := Assemble(context.Background(), &fakeSource{err: boom}, &fakeExtractor{}, 7, now, &bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, boom)

	ex := &fakeExtractor{fail: map[string]error{"a": boom}}
	src := &fakeSource{notes: []types.Note{{ID: "a", Title: "First"}, {ID: "b"}}}
	_, err = Assemble(context.Background(), src, ex, 7, now, &bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"First"`)
	assert.Equal(t, []string{"a"}, ex.seen)
}

func TestFilter(t *testing.T) {
	empty := types.MeetingActionItems{MeetingTitle: "Empty", ActionItems: []types.ActionItem{}}
	got := Filter([]types.MeetingActionItems{empty, planning, {MeetingTitle: "Nil"}, retro})
	assert.Equal(t, []types.MeetingActionItems{planning, retro}, got)

	got = Filter(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// --- renderers ---

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"text", "JSON", " yaml ", "markdown"} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, []types.MeetingActionItems{planning, retro}))

	want := "## Sprint Planning (2024-01-15)\n" +
		"  1. Finish the API doc [@Alice] (due: Friday)\n" +
		"  2. Book the demo room\n" +
		"\n" +
		"## Retro (2024-01-16)\n" +
		"  1. Update runbook (due: 2024-01-20)\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, nil))
	assert.Equal(t, "No action items found.\n", buf.String())
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, []types.MeetingActionItems{planning}))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Sprint Planning", got[0]["meeting_title"])
	items := got[0]["action_items"].([]any)
	require.Len(t, items, 2)
	second := items[1].(map[string]any)
	assert.NotContains(t, second, "assignee")
	assert.NotContains(t, second, "due_date")
	assert.Equal(t, "Sprint Planning", second["source_meeting"])
	assert.Contains(t, buf.String(), "\n  {")
}

func TestRenderJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderYAML(&buf, []types.MeetingActionItems{planning, retro}))

	var got []types.MeetingActionItems
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []types.MeetingActionItems{planning, retro}, got)
	assert.Contains(t, buf.String(), "meeting_title: Sprint Planning")
}

func TestMarkdown(t *testing.T) {
	md := Markdown([]types.MeetingActionItems{planning})
	assert.Contains(t, md, "## Sprint Planning")
	assert.Contains(t, md, "1. Finish the API doc **@Alice** (due: Friday)")
	assert.Contains(t, md, "2. Book the demo room\n")

	assert.Equal(t, NoActionItems+"\n", Markdown(nil))
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	err := RenderMarkdown(&buf, []types.MeetingActionItems{retro}, glamour.WithStandardStyle("notty"), glamour.WithWordWrap(80))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Retro")
	assert.Contains(t, buf.String(), "Update runbook")
}

func TestRender_Dispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, types.OutputJSON, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, types.OutputText, nil))
	assert.Equal(t, NoActionItems+"\n", buf.String())

	assert.Error(t, Render(&buf, types.OutputFormat("csv"), nil))
}
