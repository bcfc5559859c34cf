// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"errors"
	"fmt"

	"github.com/pdiddy/meeting-actions/pkg/types"
)

// ErrRecordShape is returned when a record is neither a typed value nor an
// untyped map, or when a map field holds a value of the wrong kind.
var ErrRecordShape = errors.New("unsupported record shape")

// DecodeNote converts a record returned by the gateway into a types.Note.
// Typed notes pass through unchanged; untyped maps (and any untyped values
// nested inside them) are converted field by field. Downstream code only
// ever sees the typed form.
func DecodeNote(raw any) (types.Note, error) {
	switch v := raw.(type) {
	case types.Note:
		return v, nil
	case *types.Note:
		if v == nil {
			return types.Note{}, fmt.Errorf("%w: nil note", ErrRecordShape)
		}
		return *v, nil
	case map[string]any:
		if v == nil {
			return types.Note{}, fmt.Errorf("%w: null note", ErrRecordShape)
		}
		return noteFromMap(v)
	default:
		return types.Note{}, fmt.Errorf("%w: note is %T", ErrRecordShape, raw)
	}
}

// DecodePerson converts an attendee or speaker record into a types.Person.
// A bare string is taken as the person's name.
func DecodePerson(raw any) (types.Person, error) {
	switch v := raw.(type) {
	case types.Person:
		return v, nil
	case *types.Person:
		if v == nil {
			return types.Person{}, nil
		}
		return *v, nil
	case string:
		return types.Person{Name: v}, nil
	case map[string]any:
		name, err := stringField(v, "name")
		if err != nil {
			return types.Person{}, err
		}
		email, err := stringField(v, "email")
		if err != nil {
			return types.Person{}, err
		}
		return types.Person{Name: name, Email: email}, nil
	default:
		return types.Person{}, fmt.Errorf("%w: person is %T", ErrRecordShape, raw)
	}
}

// DecodeTranscriptEntry converts one transcript record into a
// types.TranscriptEntry. A missing or null speaker stays nil.
func DecodeTranscriptEntry(raw any) (types.TranscriptEntry, error) {
	switch v := raw.(type) {
	case types.TranscriptEntry:
		return v, nil
	case *types.TranscriptEntry:
		if v == nil {
			return types.TranscriptEntry{}, fmt.Errorf("%w: nil transcript entry", ErrRecordShape)
		}
		return *v, nil
	case map[string]any:
		text, err := stringField(v, "text")
		if err != nil {
			return types.TranscriptEntry{}, err
		}
		entry := types.TranscriptEntry{Text: text}
		if speaker, ok := v["speaker"]; ok && speaker != nil {
			p, err := DecodePerson(speaker)
			if err != nil {
				return types.TranscriptEntry{}, fmt.Errorf("speaker: %w", err)
			}
			entry.Speaker = &p
		}
		return entry, nil
	default:
		return types.TranscriptEntry{}, fmt.Errorf("%w: transcript entry is %T", ErrRecordShape, raw)
	}
}

func noteFromMap(m map[string]any) (types.Note, error) {
	var n types.Note
	var err error

	fields := []struct {
		dst  *string
		keys []string
	}{
		{&n.ID, []string{"id"}},
		{&n.Title, []string{"title"}},
		{&n.CreatedAt, []string{"created_at", "createdAt"}},
		{&n.SummaryMarkdown, []string{"summary_markdown", "summaryMarkdown"}},
		{&n.SummaryText, []string{"summary_text", "summaryText"}},
	}
	for _, f := range fields {
		if *f.dst, err = stringField(m, f.keys...); err != nil {
			return types.Note{}, err
		}
	}

	if n.Attendees, err = decodeList(m["attendees"], "attendees", DecodePerson); err != nil {
		return types.Note{}, err
	}
	if n.Transcript, err = decodeList(m["transcript"], "transcript", DecodeTranscriptEntry); err != nil {
		return types.Note{}, err
	}
	return n, nil
}

// decodeList converts a list field that may be an untyped []any, an
// already-typed slice, or absent.
func decodeList[T any](raw any, field string, decode func(any) (T, error)) ([]T, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []T:
		return v, nil
	case []any:
		out := make([]T, 0, len(v))
		for i, item := range v {
			decoded, err := decode(item)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
			}
			out = append(out, decoded)
		}
		return out, nil
	case []map[string]any:
		out := make([]T, 0, len(v))
		for i, item := range v {
			decoded, err := decode(item)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
			}
			out = append(out, decoded)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is %T", ErrRecordShape, field, raw)
	}
}

// stringField returns the first present, non-null value among keys. A
// present value that is not a string is a shape error.
func stringField(m map[string]any, keys ...string) (string, error) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%w: %s is %T", ErrRecordShape, k, v)
		}
		return s, nil
	}
	return "", nil
}
