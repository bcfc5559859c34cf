// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package connector talks to the meeting-notes service. It exposes the three
// operations the pipeline needs (search, list, get) behind the Gateway
// interface and ships two HTTP implementations: hosted mode, which executes
// actions through the hosted connector API with OAuth2 client credentials,
// and local mode, which calls the notes service directly with an API key.
package connector

import (
	"context"
	"errors"
	"fmt"
)

// IncludeTranscript asks Get to return the note's transcript alongside its summary.
const IncludeTranscript = "transcript"

var (
	// ErrSearchUnsupported is returned by Search when the active connector mode
	// has no search index. Callers fall back to List.
	ErrSearchUnsupported = errors.New("notes search is not supported in this connector mode")

	// ErrPaginationProtocol is returned when a page reports more results but
	// carries no cursor to fetch them with.
	ErrPaginationProtocol = errors.New("page reports more results but has no cursor")

	// ErrNoCredentials is returned when neither hosted nor local credentials are configured.
	ErrNoCredentials = errors.New("no Granola credentials found: set AIRBYTE_CLIENT_ID and AIRBYTE_CLIENT_SECRET for hosted mode, or GRANOLA_API_KEY for local mode")
)

// Gateway is the authenticated client for the notes service. Each
// implementation owns its wire format and authentication.
type Gateway interface {
	// Search queries the indexed notes. It returns ErrSearchUnsupported
	// (possibly wrapped) when the mode has no index.
	Search(ctx context.Context, req SearchRequest) (Page, error)

	// List pages through notes created after a calendar date.
	List(ctx context.Context, req ListRequest) (Page, error)

	// Get returns the full note. The record is either a types.Note (or
	// pointer to one) or an untyped map[string]any straight off the wire.
	Get(ctx context.Context, noteID, include string) (any, error)
}

// SearchRequest holds the parameters for one search page.
type SearchRequest struct {
	// CreatedAtGTE is the lower bound on created_at as an RFC 3339 timestamp.
	CreatedAtGTE string

	// SortDesc sorts by created_at, newest first.
	SortDesc bool

	Limit  int
	Cursor string

	// Fields restricts the returned record fields (e.g. [["id"]]).
	Fields [][]string
}

// ListRequest holds the parameters for one list page.
type ListRequest struct {
	// CreatedAfter is a calendar date, YYYY-MM-DD.
	CreatedAfter string

	PageSize int
	Cursor   string
}

// NoteRef is a note as it appears in search and list pages.
type NoteRef struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Page is one page of search or list results.
type Page struct {
	Data    []NoteRef
	Cursor  string
	HasMore bool
}

// Next returns the cursor for the following page. ok is false when
// pagination is finished. A page with HasMore set and no cursor yields
// ErrPaginationProtocol.
func (p Page) Next() (cursor string, ok bool, err error) {
	if !p.HasMore {
		return "", false, nil
	}
	if p.Cursor == "" {
		return "", false, ErrPaginationProtocol
	}
	return p.Cursor, true, nil
}

// StatusError reports a non-success HTTP response from the notes service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("notes service returned HTTP %d: %s", e.StatusCode, e.Body)
}
