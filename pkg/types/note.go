// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the meeting-actions pipeline:
// the canonical meeting note retrieved from the notes connector, the action
// items extracted from it, and the configuration for each stage.
package types

// UnknownName is the display name used when a person carries neither a name
// nor an email address.
const UnknownName = "Unknown"

// Person is a meeting attendee or transcript speaker.
type Person struct {
	// Name is the person's display name, if the notes service knows it.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Email is the person's contact address.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// DisplayName resolves the name shown for a person: the explicit name, else
// the email address, else UnknownName.
func (p Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return UnknownName
}

// TranscriptEntry is one utterance in a meeting transcript.
type TranscriptEntry struct {
	// Speaker is nil when the transcript does not attribute the line.
	Speaker *Person `json:"speaker,omitempty" yaml:"speaker,omitempty"`

	Text string `json:"text" yaml:"text"`
}

// SpeakerName returns the speaker's display name, or UnknownName when the
// entry has no speaker.
func (e TranscriptEntry) SpeakerName() string {
	if e.Speaker == nil {
		return UnknownName
	}
	return e.Speaker.DisplayName()
}

// Note is a meeting note with its full content. Optional fields are empty
// strings or nil slices when the service omits them.
type Note struct {
	ID string `json:"id" yaml:"id"`

	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// CreatedAt is kept as the service reported it; it is only ever displayed.
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	Attendees []Person `json:"attendees,omitempty" yaml:"attendees,omitempty"`

	// SummaryMarkdown is preferred over SummaryText when both are present.
	SummaryMarkdown string `json:"summary_markdown,omitempty" yaml:"summary_markdown,omitempty"`
	SummaryText     string `json:"summary_text,omitempty" yaml:"summary_text,omitempty"`

	Transcript []TranscriptEntry `json:"transcript,omitempty" yaml:"transcript,omitempty"`
}

// Summary returns the markdown summary if present, else the plain-text one.
func (n Note) Summary() string {
	if n.SummaryMarkdown != "" {
		return n.SummaryMarkdown
	}
	return n.SummaryText
}

// TitleOrDefault returns the note title, or "Untitled" when it has none.
func (n Note) TitleOrDefault() string {
	if n.Title == "" {
		return "Untitled"
	}
	return n.Title
}
