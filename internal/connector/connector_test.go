// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/meeting-actions/pkg/types"
)

// --- ResolveCredentials ---

func TestResolveCredentials(t *testing.T) {
	tests := []struct {
		name     string
		raw      Credentials
		wantMode Mode
		wantErr  error
	}{
		{
			name:     "hosted when client id and secret present",
			raw:      Credentials{ClientID: "cid", ClientSecret: "cs", CustomerName: "acme"},
			wantMode: ModeHosted,
		},
		{
			name:     "hosted preferred over local",
			raw:      Credentials{ClientID: "cid", ClientSecret: "cs", APIKey: "key"},
			wantMode: ModeHosted,
		},
		{
			name:     "local with api key only",
			raw:      Credentials{APIKey: "key"},
			wantMode: ModeLocal,
		},
		{
			name:     "client id without secret falls to local",
			raw:      Credentials{ClientID: "cid", APIKey: "key"},
			wantMode: ModeLocal,
		},
		{
			name:    "nothing configured",
			raw:     Credentials{ClientID: "cid"},
			wantErr: ErrNoCredentials,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCredentials(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, got.Mode)
		})
	}
}

func TestErrNoCredentialsNamesBothModes(t *testing.T) {
	msg := ErrNoCredentials.Error()
	assert.Contains(t, msg, "AIRBYTE_CLIENT_ID")
	assert.Contains(t, msg, "GRANOLA_API_KEY")
	assert.NotContains(t, msg, "\n")
}

// --- Page.Next ---

func TestPageNext(t *testing.T) {
	cursor, ok, err := Page{HasMore: true, Cursor: "c1"}.Next()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c1", cursor)

	_, ok, err = Page{HasMore: false, Cursor: "ignored"}.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Page{HasMore: true}.Next()
	assert.ErrorIs(t, err, ErrPaginationProtocol)
	assert.False(t, ok)
}

// --- New ---

func TestNewSelectsGatewayByMode(t *testing.T) {
	gw, err := New(Credentials{Mode: ModeLocal, APIKey: "k"}, types.ConnectorConfig{}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalGateway{}, gw)

	gw, err = New(Credentials{Mode: ModeHosted, ClientID: "c", ClientSecret: "s"}, types.ConnectorConfig{}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &HostedGateway{}, gw)

	_, err = New(Credentials{}, types.ConnectorConfig{}, nil, nil)
	assert.Error(t, err)
}

// --- LocalGateway ---

func TestLocalGatewayList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/notes", r.URL.Path)
		assert.Equal(t, "Bearer grn_key", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("created_after"))
		assert.Equal(t, "25", r.URL.Query().Get("page_size"))
		assert.Equal(t, "c1", r.URL.Query().Get("cursor"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"notes":[{"id":"not_1","title":"Standup"},{"id":"not_2"}],"hasMore":true,"cursor":"c2"}`))
	}))
	defer ts.Close()

	gw := NewLocalGateway("grn_key", types.ConnectorConfig{LocalURL: ts.URL, RequestsPerSecond: 1000}, ts.Client(), nil)
	page, err := gw.List(context.Background(), ListRequest{CreatedAfter: "2024-01-01", PageSize: 25, Cursor: "c1"})
	require.NoError(t, err)

	require.Len(t, page.Data, 2)
	assert.Equal(t, "not_1", page.Data[0].ID)
	assert.Equal(t, "Standup", page.Data[0].Title)
	assert.True(t, page.HasMore)
	assert.Equal(t, "c2", page.Cursor)
}

func TestLocalGatewayListNullCursor(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("cursor"))
		w.Write([]byte(`{"notes":[],"hasMore":false,"cursor":null}`))
	}))
	defer ts.Close()

	gw := NewLocalGateway("k", types.ConnectorConfig{LocalURL: ts.URL, RequestsPerSecond: 1000}, ts.Client(), nil)
	page, err := gw.List(context.Background(), ListRequest{CreatedAfter: "2024-01-01", PageSize: 25})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.Cursor)
}

func TestLocalGatewaySearchUnsupported(t *testing.T) {
	gw := NewLocalGateway("k", types.ConnectorConfig{}, nil, nil)
	_, err := gw.Search(context.Background(), SearchRequest{})
	assert.ErrorIs(t, err, ErrSearchUnsupported)
}

func TestLocalGatewayGet(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/notes/not_1", r.URL.Path)
		assert.Equal(t, "transcript", r.URL.Query().Get("include"))
		w.Write([]byte(`{"id":"not_1","title":"Sprint Planning","attendees":[{"name":"Alice"}]}`))
	}))
	defer ts.Close()

	gw := NewLocalGateway("k", types.ConnectorConfig{LocalURL: ts.URL, RequestsPerSecond: 1000}, ts.Client(), nil)
	raw, err := gw.Get(context.Background(), "not_1", IncludeTranscript)
	require.NoError(t, err)

	record, ok := raw.(map[string]any)
	require.True(t, ok, "local gateway returns untyped records")
	assert.Equal(t, "Sprint Planning", record["title"])
}

func TestLocalGatewayGetNullBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer ts.Close()

	gw := NewLocalGateway("k", types.ConnectorConfig{LocalURL: ts.URL, RequestsPerSecond: 1000}, ts.Client(), nil)
	raw, err := gw.Get(context.Background(), "known-id", IncludeTranscript)
	require.Error(t, err)
	assert.Nil(t, raw)
	assert.Contains(t, err.Error(), "known-id")
	assert.Contains(t, err.Error(), "empty response")
}

func TestLocalGatewayGetNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"note not found"}`))
	}))
	defer ts.Close()

	gw := NewLocalGateway("k", types.ConnectorConfig{LocalURL: ts.URL, RequestsPerSecond: 1000}, ts.Client(), nil)
	_, err := gw.Get(context.Background(), "missing", IncludeTranscript)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, err.Error(), "missing")
}

// --- HostedGateway ---

// hostedServer serves the token endpoint and dispatches execute calls to handle.
func hostedServer(t *testing.T, handle func(req executeRequest, params map[string]any) (int, any)) (*httptest.Server, *int32) {
	t.Helper()
	var tokenCalls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			atomic.AddInt32(&tokenCalls, 1)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			assert.Equal(t, "cid", r.PostForm.Get("client_id"))
			assert.Equal(t, "csecret", r.PostForm.Get("client_secret"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"tok_123","token_type":"bearer","expires_in":3600}`))
		case "/v1/connectors/granola/execute":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer tok_123", r.Header.Get("Authorization"))

			var raw struct {
				executeRequest
				Params map[string]any `json:"params"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			status, body := handle(raw.executeRequest, raw.Params)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(body)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return ts, &tokenCalls
}

func hostedGateway(ts *httptest.Server) *HostedGateway {
	creds := Credentials{Mode: ModeHosted, ClientID: "cid", ClientSecret: "csecret", CustomerName: "acme"}
	return NewHostedGateway(creds, types.ConnectorConfig{HostedURL: ts.URL, RequestsPerSecond: 1000}, ts.Client(), nil)
}

func TestHostedGatewaySearch(t *testing.T) {
	ts, tokenCalls := hostedServer(t, func(req executeRequest, params map[string]any) (int, any) {
		assert.Equal(t, "notes", req.Entity)
		assert.Equal(t, "search", req.Action)
		assert.Equal(t, "acme", req.CustomerName)

		query := params["query"].(map[string]any)
		assert.Equal(t, map[string]any{"gte": map[string]any{"created_at": "2024-01-01T00:00:00Z"}}, query["filter"])
		assert.Equal(t, []any{map[string]any{"created_at": "desc"}}, query["sort"])
		assert.Equal(t, float64(25), params["limit"])
		assert.Equal(t, []any{[]any{"id"}}, params["fields"])

		return http.StatusOK, map[string]any{
			"data": []map[string]any{{"id": "not_1"}, {"id": "not_2"}},
			"meta": map[string]any{"has_more": true, "cursor": "c1"},
		}
	})

	gw := hostedGateway(ts)
	page, err := gw.Search(context.Background(), SearchRequest{
		CreatedAtGTE: "2024-01-01T00:00:00Z",
		SortDesc:     true,
		Limit:        25,
		Fields:       [][]string{{"id"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []NoteRef{{ID: "not_1"}, {ID: "not_2"}}, page.Data)
	assert.True(t, page.HasMore)
	assert.Equal(t, "c1", page.Cursor)

	// A second call reuses the cached token.
	_, err = gw.Search(context.Background(), SearchRequest{CreatedAtGTE: "2024-01-01T00:00:00Z", Cursor: "c1"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(tokenCalls))
}

func TestHostedGatewaySearchNotImplemented(t *testing.T) {
	ts, _ := hostedServer(t, func(executeRequest, map[string]any) (int, any) {
		return http.StatusNotImplemented, map[string]any{"error": "search index unavailable"}
	})

	_, err := hostedGateway(ts).Search(context.Background(), SearchRequest{})
	assert.ErrorIs(t, err, ErrSearchUnsupported)
}

func TestHostedGatewaySearchServerError(t *testing.T) {
	ts, _ := hostedServer(t, func(executeRequest, map[string]any) (int, any) {
		return http.StatusInternalServerError, map[string]any{"error": "boom"}
	})

	_, err := hostedGateway(ts).Search(context.Background(), SearchRequest{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSearchUnsupported))
}

func TestHostedGatewayList(t *testing.T) {
	ts, _ := hostedServer(t, func(req executeRequest, params map[string]any) (int, any) {
		assert.Equal(t, "list", req.Action)
		assert.Equal(t, "2024-01-01", params["created_after"])
		assert.Equal(t, float64(25), params["page_size"])
		return http.StatusOK, map[string]any{
			"data": []map[string]any{{"id": "not_9", "title": "Retro"}},
			"meta": map[string]any{"has_more": false, "cursor": nil},
		}
	})

	page, err := hostedGateway(ts).List(context.Background(), ListRequest{CreatedAfter: "2024-01-01", PageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, []NoteRef{{ID: "not_9", Title: "Retro"}}, page.Data)
	assert.False(t, page.HasMore)
}

func TestHostedGatewayGet(t *testing.T) {
	ts, _ := hostedServer(t, func(req executeRequest, params map[string]any) (int, any) {
		assert.Equal(t, "get", req.Action)
		assert.Equal(t, "not_1", params["note_id"])
		assert.Equal(t, "transcript", params["include"])
		return http.StatusOK, map[string]any{
			"data": map[string]any{"id": "not_1", "title": "Sprint Planning"},
		}
	})

	raw, err := hostedGateway(ts).Get(context.Background(), "not_1", IncludeTranscript)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "not_1", "title": "Sprint Planning"}, raw)
}
