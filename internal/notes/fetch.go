// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notes retrieves recent meeting notes from the connector and turns
// them into the canonical text the extraction stage reads.
//
// Note identifiers are collected with one of two strategies. The search
// strategy uses the connector's index and is tried first; when the mode has
// no index, or the index returns nothing (it can lag behind very recent
// notes), the list strategy pages through notes by creation date instead.
// Results from the two strategies are never merged.
package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/meeting-actions/internal/connector"
	"github.com/pdiddy/meeting-actions/pkg/types"
)

// PageSize is the number of records requested per search or list page.
const PageSize = 25

// Strategy names the algorithm that produced a set of note identifiers.
type Strategy string

const (
	StrategySearch Strategy = "search"
	StrategyList   Strategy = "list"
)

var (
	// ErrMaterialize is returned when a known note cannot be fetched or decoded.
	ErrMaterialize = errors.New("fetching note")

	// ErrNoteMismatch is returned when the service answers a get with a
	// different note than the one requested.
	ErrNoteMismatch = errors.New("record id does not match requested id")
)

// Cutoff returns the earliest creation instant included in a run that
// looks back days from now.
func Cutoff(now time.Time, days int) time.Time {
	return now.UTC().AddDate(0, 0, -days)
}

// Fetcher drives the connector gateway. Calls are made one at a time in
// program order.
type Fetcher struct {
	gw     connector.Gateway
	logger *zap.Logger
}

// NewFetcher returns a Fetcher for gw. A nil logger discards diagnostics.
func NewFetcher(gw connector.Gateway, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{gw: gw, logger: logger}
}

// FetchRecent returns the full notes created at or after cutoff, in the
// order the connector listed them. An empty result is not an error.
func (f *Fetcher) FetchRecent(ctx context.Context, cutoff time.Time) ([]types.Note, error) {
	ids, strategy, err := f.CollectIDs(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	f.logger.Info("fetching full details", zap.Int("notes", len(ids)), zap.String("strategy", string(strategy)))
	if len(ids) == 0 {
		return nil, nil
	}
	return f.Materialize(ctx, ids)
}

// CollectIDs returns the identifiers of notes created at or after cutoff
// and the strategy that found them. Search runs first; list runs only
// when search is unsupported or finds nothing.
func (f *Fetcher) CollectIDs(ctx context.Context, cutoff time.Time) ([]string, Strategy, error) {
	ids, err := f.searchIDs(ctx, cutoff.UTC().Format(time.RFC3339))
	switch {
	case errors.Is(err, connector.ErrSearchUnsupported):
		f.logger.Info("search not available in this connector mode, using list", zap.Error(err))
	case err != nil:
		return nil, StrategySearch, fmt.Errorf("search strategy: %w", err)
	case len(ids) > 0:
		return ids, StrategySearch, nil
	}

	f.logger.Info("falling back to list action")
	ids, err = f.listIDs(ctx, cutoff.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, StrategyList, fmt.Errorf("list strategy: %w", err)
	}
	return ids, StrategyList, nil
}

func (f *Fetcher) searchIDs(ctx context.Context, cutoffISO string) ([]string, error) {
	var ids []string
	req := connector.SearchRequest{
		CreatedAtGTE: cutoffISO,
		SortDesc:     true,
		Limit:        PageSize,
		Fields:       [][]string{{"id"}},
	}

	for page := 1; ; page++ {
		f.logger.Debug("notes.search",
			zap.Int("page", page),
			zap.String("created_at_gte", req.CreatedAtGTE),
			zap.Int("limit", req.Limit),
			zap.String("cursor", req.Cursor),
		)
		result, err := f.gw.Search(ctx, req)
		if err != nil {
			return nil, err
		}
		f.logger.Info("notes.search page",
			zap.Int("page", page),
			zap.Int("results", len(result.Data)),
			zap.Bool("has_more", result.HasMore),
		)

		for _, rec := range result.Data {
			if rec.ID != "" {
				ids = append(ids, rec.ID)
			}
		}

		cursor, more, err := result.Next()
		if err != nil {
			return nil, fmt.Errorf("search page %d: %w", page, err)
		}
		if !more {
			return ids, nil
		}
		req.Cursor = cursor
	}
}

func (f *Fetcher) listIDs(ctx context.Context, cutoffDate string) ([]string, error) {
	var ids []string
	req := connector.ListRequest{CreatedAfter: cutoffDate, PageSize: PageSize}

	for page := 1; ; page++ {
		f.logger.Debug("notes.list",
			zap.Int("page", page),
			zap.String("created_after", req.CreatedAfter),
			zap.Int("page_size", req.PageSize),
			zap.String("cursor", req.Cursor),
		)
		result, err := f.gw.List(ctx, req)
		if err != nil {
			return nil, err
		}
		f.logger.Info("notes.list page",
			zap.Int("page", page),
			zap.Int("results", len(result.Data)),
			zap.Bool("has_more", result.HasMore),
		)

		for _, rec := range result.Data {
			ids = append(ids, rec.ID)
		}

		cursor, more, err := result.Next()
		if err != nil {
			return nil, fmt.Errorf("list page %d: %w", page, err)
		}
		if !more {
			return ids, nil
		}
		req.Cursor = cursor
	}
}

// Materialize fetches each note with its transcript, in the order of ids.
// The first failure aborts the whole batch.
func (f *Fetcher) Materialize(ctx context.Context, ids []string) ([]types.Note, error) {
	notes := make([]types.Note, 0, len(ids))
	for _, id := range ids {
		f.logger.Debug("notes.get", zap.String("note_id", id), zap.String("include", connector.IncludeTranscript))

		raw, err := f.gw.Get(ctx, id, connector.IncludeTranscript)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrMaterialize, id, err)
		}
		note, err := DecodeNote(raw)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrMaterialize, id, err)
		}
		switch note.ID {
		case "":
			note.ID = id
		case id:
		default:
			return nil, fmt.Errorf("%w %s: %w (got %s)", ErrMaterialize, id, ErrNoteMismatch, note.ID)
		}
		notes = append(notes, note)
	}
	return notes, nil
}
