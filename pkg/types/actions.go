// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ActionItem is a single commitment extracted from a meeting note.
type ActionItem struct {
	// Description says what needs to be done. Always non-empty.
	Description string `json:"description" yaml:"description"`

	// Assignee is the person responsible, when the meeting named one.
	Assignee string `json:"assignee,omitempty" yaml:"assignee,omitempty"`

	// DueDate is the deadline as stated in the meeting (free text, e.g. "Friday").
	DueDate string `json:"due_date,omitempty" yaml:"due_date,omitempty"`

	// SourceMeeting is the title of the meeting the item came from.
	SourceMeeting string `json:"source_meeting" yaml:"source_meeting"`
}

// MeetingActionItems holds the action items extracted from one meeting note.
type MeetingActionItems struct {
	MeetingTitle string `json:"meeting_title" yaml:"meeting_title"`
	MeetingDate  string `json:"meeting_date" yaml:"meeting_date"`

	// ActionItems is empty, never nil, when the meeting had none.
	ActionItems []ActionItem `json:"action_items" yaml:"action_items"`
}

// HasActionItems reports whether at least one action item was extracted.
func (m MeetingActionItems) HasActionItems() bool {
	return len(m.ActionItems) > 0
}
