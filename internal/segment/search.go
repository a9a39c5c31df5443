// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package segment

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aloud-app/aloud/internal/platform/apperr"
	"github.com/aloud-app/aloud/internal/platform/constants"
	"github.com/aloud-app/aloud/internal/platform/validate"
)

// SearchEngine answers "find the top-K passages of book B matching query Q"
// with two strategies layered behind one call.
type SearchEngine struct {
	repo   Repository
	logger *slog.Logger
}

func NewSearchEngine(repo Repository, logger *slog.Logger) *SearchEngine {
	return &SearchEngine{
		repo:   repo,
		logger: logger,
	}
}

/*
Search retrieves the segments of one book matching a free-text query.

Description: The primary strategy is ranked full-text retrieval, most
relevant first. It is treated as unavailable for this call when the store
errors, a signal distinct from zero matches. Whenever the primary strategy
is unavailable or finds nothing, the fallback runs: a literal OR-pattern
built from the query's longer tokens, matched case-insensitively and
returned in document order (ascending segment index), which is the only
defensible deterministic order without a ranking signal. Only when both
strategies fail does the caller see an error; a degraded-but-working search
is always preferred over blocking.

Parameters:
  - context: context.Context
  - bookID: the owning book's id
  - query: free-text query
  - limit: maximum results, capped at a system constant

Returns:
  - []*Segment: matches, possibly empty, never nil
  - error: validation errors, or SEARCH_UNAVAILABLE when both strategies fail
*/
func (engine *SearchEngine) Search(context context.Context, bookID, query string, limit int) ([]*Segment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBookID, bookID)
	validator.Positive(FieldLimit, int64(limit))
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if limit > constants.MaxSearchLimit {
		limit = constants.MaxSearchLimit
	}

	ranked, primaryErr := engine.repo.SearchRanked(context, bookID, query, limit)
	if primaryErr != nil {
		engine.logger.Warn("segment_search_primary_unavailable",
			slog.String("book_id", bookID),
			slog.String("error", primaryErr.Error()),
		)
	} else if len(ranked) > 0 {
		return ranked, nil
	}

	pattern := FallbackPattern(query)
	if pattern == "" {
		// All tokens were filtered out. An empty pattern must yield an
		// empty result, never match everything.
		return []*Segment{}, nil
	}

	matches, fallbackErr := engine.repo.SearchPattern(context, bookID, pattern, limit)
	if fallbackErr != nil {
		engine.logger.Error("segment_search_fallback_failed",
			slog.String("book_id", bookID),
			slog.String("error", fallbackErr.Error()),
		)
		if primaryErr != nil {
			return nil, apperr.SearchUnavailable(errors.Join(primaryErr, fallbackErr))
		}
		return nil, apperr.SearchUnavailable(fallbackErr)
	}

	return matches, nil
}

// FallbackPattern builds the fallback strategy's regex from a raw query:
// split on whitespace, drop noise tokens shorter than
// [constants.MinSearchTokenLen] runes, escape the rest for literal matching
// and OR-join them. Returns "" when nothing survives filtering.
func FallbackPattern(query string) string {
	tokens := strings.Fields(query)

	escaped := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if utf8.RuneCountInString(token) < constants.MinSearchTokenLen {
			continue
		}
		escaped = append(escaped, regexp.QuoteMeta(token))
	}

	return strings.Join(escaped, "|")
}
