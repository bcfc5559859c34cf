// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/meeting-actions/pkg/types"
)

// NoActionItems is printed by the text and markdown formats when no
// meeting produced an action item.
const NoActionItems = "No action items found."

// defaultWrapWidth is the markdown word-wrap width.
const defaultWrapWidth = 100

// ParseFormat validates an output format name.
func ParseFormat(s string) (types.OutputFormat, error) {
	switch f := types.OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case types.OutputText, types.OutputJSON, types.OutputYAML, types.OutputMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, yaml, or markdown)", s)
	}
}

// Render writes meetings to w in the given format.
func Render(w io.Writer, format types.OutputFormat, meetings []types.MeetingActionItems) error {
	switch format {
	case types.OutputText, "":
		return RenderText(w, meetings)
	case types.OutputJSON:
		return RenderJSON(w, meetings)
	case types.OutputYAML:
		return RenderYAML(w, meetings)
	case types.OutputMarkdown:
		return RenderMarkdown(w, meetings, glamour.WithAutoStyle(), glamour.WithWordWrap(defaultWrapWidth))
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// RenderText writes the plain-text report: a heading per meeting followed
// by its numbered items and a blank line.
func RenderText(w io.Writer, meetings []types.MeetingActionItems) error {
	if len(meetings) == 0 {
		_, err := fmt.Fprintln(w, NoActionItems)
		return err
	}

	var b strings.Builder
	for _, m := range meetings {
		fmt.Fprintf(&b, "## %s (%s)\n", m.MeetingTitle, m.MeetingDate)
		for i, item := range m.ActionItems {
			fmt.Fprintf(&b, "  %d. %s", i+1, item.Description)
			if item.Assignee != "" {
				fmt.Fprintf(&b, " [@%s]", item.Assignee)
			}
			if item.DueDate != "" {
				fmt.Fprintf(&b, " (due: %s)", item.DueDate)
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderJSON writes meetings as an indented JSON array; an empty report is [].
func RenderJSON(w io.Writer, meetings []types.MeetingActionItems) error {
	if meetings == nil {
		meetings = []types.MeetingActionItems{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meetings); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}

// RenderYAML writes meetings as a YAML sequence; an empty report is [].
func RenderYAML(w io.Writer, meetings []types.MeetingActionItems) error {
	if meetings == nil {
		meetings = []types.MeetingActionItems{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(meetings); err != nil {
		return fmt.Errorf("encoding YAML report: %w", err)
	}
	return enc.Close()
}

// Markdown returns the report as a markdown document.
func Markdown(meetings []types.MeetingActionItems) string {
	if len(meetings) == 0 {
		return NoActionItems + "\n"
	}

	var b strings.Builder
	b.WriteString("# Action items\n")
	for _, m := range meetings {
		fmt.Fprintf(&b, "\n## %s\n\n", m.MeetingTitle)
		if m.MeetingDate != "" {
			fmt.Fprintf(&b, "_%s_\n\n", m.MeetingDate)
		}
		for i, item := range m.ActionItems {
			fmt.Fprintf(&b, "%d. %s", i+1, item.Description)
			if item.Assignee != "" {
				fmt.Fprintf(&b, " **@%s**", item.Assignee)
			}
			if item.DueDate != "" {
				fmt.Fprintf(&b, " (due: %s)", item.DueDate)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderMarkdown renders the markdown report for a terminal with glamour.
func RenderMarkdown(w io.Writer, meetings []types.MeetingActionItems, opts ...glamour.TermRendererOption) error {
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(Markdown(meetings))
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
