// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"strings"

	"github.com/pdiddy/meeting-actions/pkg/types"
)

// Format renders a note as the plain-text document sent to the model:
// header lines for title, date, and attendees, then a Summary section and
// a Transcript section. Sections without data are left out entirely.
// The output depends only on the note, so formatting is repeatable.
func Format(note types.Note) string {
	parts := []string{
		"Meeting: " + note.TitleOrDefault(),
		"Date: " + orUnknown(note.CreatedAt),
	}

	if len(note.Attendees) > 0 {
		names := make([]string, len(note.Attendees))
		for i, a := range note.Attendees {
			names[i] = a.DisplayName()
		}
		parts = append(parts, "Attendees: "+strings.Join(names, ", "))
	}

	if summary := note.Summary(); summary != "" {
		parts = append(parts, "\n## Summary\n"+summary)
	}

	if len(note.Transcript) > 0 {
		lines := make([]string, len(note.Transcript))
		for i, entry := range note.Transcript {
			lines[i] = entry.SpeakerName() + ": " + entry.Text
		}
		parts = append(parts, "\n## Transcript\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(parts, "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return types.UnknownName
	}
	return s
}
