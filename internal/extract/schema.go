// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// schemaResult describes the reply the model is asked to produce. Fields
// tagged omitempty are optional in the generated schema.
type schemaResult struct {
	MeetingTitle string       `json:"meeting_title" description:"Title of the meeting"`
	MeetingDate  string       `json:"meeting_date" description:"Date of the meeting as given in the note"`
	ActionItems  []schemaItem `json:"action_items" description:"Action items found in the meeting; empty when there are none"`
}

type schemaItem struct {
	Description   string `json:"description" description:"A clear, concise description of what needs to be done"`
	Assignee      string `json:"assignee,omitempty" description:"The person responsible, if mentioned by name"`
	DueDate       string `json:"due_date,omitempty" description:"The due date or deadline, if mentioned"`
	SourceMeeting string `json:"source_meeting" description:"Title of the meeting this item came from"`
}

// wireResult mirrors schemaResult for decoding. Pointer fields let
// validation tell a missing value from an empty one.
type wireResult struct {
	MeetingTitle *string    `json:"meeting_title"`
	MeetingDate  *string    `json:"meeting_date"`
	ActionItems  []wireItem `json:"action_items"`
}

type wireItem struct {
	Description   *string `json:"description"`
	Assignee      *string `json:"assignee"`
	DueDate       *string `json:"due_date"`
	SourceMeeting *string `json:"source_meeting"`
}

// outputSchema is the JSON Schema for schemaResult, shared by every backend.
var outputSchema = mustSchema()

// Schema returns a copy of the JSON Schema every extraction reply must follow.
func Schema() json.RawMessage {
	return append(json.RawMessage(nil), outputSchema...)
}

func mustSchema() json.RawMessage {
	def, err := jsonschema.GenerateSchemaForType(schemaResult{})
	if err != nil {
		panic(fmt.Sprintf("generating action item schema: %v", err))
	}
	data, err := json.Marshal(def)
	if err != nil {
		panic(fmt.Sprintf("marshaling action item schema: %v", err))
	}
	return data
}
