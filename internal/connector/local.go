// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/meeting-actions/pkg/types"
)

// DefaultLocalURL is the notes service public API.
const DefaultLocalURL = "https://public-api.granola.ai"

// LocalGateway calls the notes service directly with a personal API key.
// The service has no search index, so Search always reports
// ErrSearchUnsupported.
type LocalGateway struct {
	baseURL string
	apiKey  string
	t       *transport
}

// NewLocalGateway creates a local-mode gateway. A nil client gets a fresh
// one with the configured timeout.
func NewLocalGateway(apiKey string, cfg types.ConnectorConfig, client *http.Client, logger *zap.Logger) *LocalGateway {
	if client == nil {
		client = &http.Client{}
	}
	base := cfg.LocalURL
	if base == "" {
		base = DefaultLocalURL
	}
	return &LocalGateway{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  apiKey,
		t:       newTransport(client, cfg, logger),
	}
}

// localListResponse is the notes list payload.
type localListResponse struct {
	Notes   []NoteRef `json:"notes"`
	HasMore bool      `json:"hasMore"`
	Cursor  string    `json:"cursor"`
}

// Search is not available without the hosted index.
func (g *LocalGateway) Search(context.Context, SearchRequest) (Page, error) {
	return Page{}, ErrSearchUnsupported
}

// List fetches one page of notes created after req.CreatedAfter.
func (g *LocalGateway) List(ctx context.Context, req ListRequest) (Page, error) {
	params := url.Values{}
	if req.CreatedAfter != "" {
		params.Set("created_after", req.CreatedAfter)
	}
	if req.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(req.PageSize))
	}
	if req.Cursor != "" {
		params.Set("cursor", req.Cursor)
	}

	httpReq, err := g.newRequest(ctx, "/v1/notes", params)
	if err != nil {
		return Page{}, err
	}

	var lr localListResponse
	if err := g.t.do(ctx, httpReq, &lr); err != nil {
		return Page{}, fmt.Errorf("listing notes: %w", err)
	}
	return Page{Data: lr.Notes, Cursor: lr.Cursor, HasMore: lr.HasMore}, nil
}

// Get fetches one note as an untyped record.
func (g *LocalGateway) Get(ctx context.Context, noteID, include string) (any, error) {
	params := url.Values{}
	if include != "" {
		params.Set("include", include)
	}

	httpReq, err := g.newRequest(ctx, "/v1/notes/"+url.PathEscape(noteID), params)
	if err != nil {
		return nil, err
	}

	var record map[string]any
	if err := g.t.do(ctx, httpReq, &record); err != nil {
		return nil, fmt.Errorf("getting note %s: %w", noteID, err)
	}
	if record == nil {
		return nil, fmt.Errorf("getting note %s: empty response", noteID)
	}
	return record, nil
}

func (g *LocalGateway) newRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	reqURL := g.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	return req, nil
}
