// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/pdiddy/meeting-actions/pkg/types"
)

// DefaultHostedURL is the hosted connector execution API.
const DefaultHostedURL = "https://api.airbyte.ai"

const (
	connectorName = "granola"
	notesEntity   = "notes"
	tokenPath     = "/v1/oauth/token"
)

// HostedGateway executes notes actions through the hosted connector API.
// Requests are authorised with an OAuth2 client-credentials token that is
// fetched on first use and refreshed when it expires.
type HostedGateway struct {
	baseURL      string
	customerName string
	t            *transport
}

// NewHostedGateway creates a hosted-mode gateway. base supplies the
// underlying HTTP transport and timeout; nil uses the defaults.
func NewHostedGateway(creds Credentials, cfg types.ConnectorConfig, base *http.Client, logger *zap.Logger) *HostedGateway {
	if base == nil {
		base = &http.Client{}
	}
	baseURL := strings.TrimRight(cfg.HostedURL, "/")
	if baseURL == "" {
		baseURL = DefaultHostedURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = baseURL + tokenPath
	}

	cc := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	// The token source keeps this context for refreshes; it only carries
	// the base client.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := cc.Client(tokenCtx)
	client.Timeout = base.Timeout

	return &HostedGateway{
		baseURL:      baseURL,
		customerName: creds.CustomerName,
		t:            newTransport(client, cfg, logger),
	}
}

// executeRequest is the body of one hosted action call.
type executeRequest struct {
	Entity       string `json:"entity"`
	Action       string `json:"action"`
	CustomerName string `json:"customer_name,omitempty"`
	Params       any    `json:"params"`
}

type searchQuery struct {
	Filter map[string]map[string]string `json:"filter"`
	Sort   []map[string]string          `json:"sort,omitempty"`
}

type searchParams struct {
	Query  searchQuery `json:"query"`
	Limit  int         `json:"limit,omitempty"`
	Cursor string      `json:"cursor,omitempty"`
	Fields [][]string  `json:"fields,omitempty"`
}

type listParams struct {
	CreatedAfter string `json:"created_after,omitempty"`
	PageSize     int    `json:"page_size,omitempty"`
	Cursor       string `json:"cursor,omitempty"`
}

type getParams struct {
	NoteID  string `json:"note_id"`
	Include string `json:"include,omitempty"`
}

type pageMeta struct {
	HasMore bool   `json:"has_more"`
	Cursor  string `json:"cursor"`
}

type pageResponse struct {
	Data []NoteRef `json:"data"`
	Meta pageMeta  `json:"meta"`
}

type recordResponse struct {
	Data map[string]any `json:"data"`
}

// Search fetches one page from the hosted search index. An HTTP 501 from
// the execution API means the customer's connector has no index and is
// reported as ErrSearchUnsupported.
func (g *HostedGateway) Search(ctx context.Context, req SearchRequest) (Page, error) {
	q := searchQuery{
		Filter: map[string]map[string]string{
			"gte": {"created_at": req.CreatedAtGTE},
		},
	}
	if req.SortDesc {
		q.Sort = []map[string]string{{"created_at": "desc"}}
	}

	var pr pageResponse
	err := g.execute(ctx, "search", searchParams{
		Query:  q,
		Limit:  req.Limit,
		Cursor: req.Cursor,
		Fields: req.Fields,
	}, &pr)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotImplemented {
			return Page{}, fmt.Errorf("%w: %s", ErrSearchUnsupported, se.Body)
		}
		return Page{}, fmt.Errorf("searching notes: %w", err)
	}
	return Page{Data: pr.Data, Cursor: pr.Meta.Cursor, HasMore: pr.Meta.HasMore}, nil
}

// List fetches one page of notes created after req.CreatedAfter.
func (g *HostedGateway) List(ctx context.Context, req ListRequest) (Page, error) {
	var pr pageResponse
	err := g.execute(ctx, "list", listParams{
		CreatedAfter: req.CreatedAfter,
		PageSize:     req.PageSize,
		Cursor:       req.Cursor,
	}, &pr)
	if err != nil {
		return Page{}, fmt.Errorf("listing notes: %w", err)
	}
	return Page{Data: pr.Data, Cursor: pr.Meta.Cursor, HasMore: pr.Meta.HasMore}, nil
}

// Get fetches one note as an untyped record.
func (g *HostedGateway) Get(ctx context.Context, noteID, include string) (any, error) {
	var rr recordResponse
	if err := g.execute(ctx, "get", getParams{NoteID: noteID, Include: include}, &rr); err != nil {
		return nil, fmt.Errorf("getting note %s: %w", noteID, err)
	}
	if rr.Data == nil {
		return nil, fmt.Errorf("getting note %s: empty response", noteID)
	}
	return rr.Data, nil
}

func (g *HostedGateway) execute(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(executeRequest{
		Entity:       notesEntity,
		Action:       action,
		CustomerName: g.customerName,
		Params:       params,
	})
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", action, err)
	}

	endpoint := g.baseURL + "/v1/connectors/" + connectorName + "/execute"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return g.t.do(ctx, req, out)
}
