// Package services – SearchService
//
// This file implements SearchService, the read side of the word index. It
// normalizes the query term the same way ingestion normalizes tokens,
// ranks the user's paragraphs by how often they contain the term, and
// builds a short context excerpt around the first occurrence in each hit.
//
// Observability: all public methods are OpenTelemetry-instrumented.

package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-search-backend/internal/repo"
	"github.com/tbourn/go-search-backend/internal/text"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultSearchLimit applies when the caller does not specify one.
	DefaultSearchLimit = 10

	// MaxSearchLimit caps the number of results a single call may request.
	MaxSearchLimit = 50

	// excerptWindow is the number of tokens kept on each side of the match.
	excerptWindow = 5

	// excerptFallbackRunes bounds the excerpt when the matched token cannot
	// be located in the raw text.
	excerptFallbackRunes = 120
)

// SearchService answers ranked word queries over a user's paragraphs.
type SearchService struct {
	DB *gorm.DB
}

// SearchResult is one ranked paragraph hit.
type SearchResult struct {
	ParagraphID uint   `json:"paragraph_id"`
	Index       uint   `json:"index"`
	Count       uint   `json:"count"`
	Excerpt     string `json:"excerpt"`
}

// Search returns up to limit paragraphs of userID containing word, ordered
// by descending occurrence count with paragraph index as the tiebreaker.
// limit <= 0 selects DefaultSearchLimit; values above MaxSearchLimit are
// rejected. The query term is normalized before it reaches storage and an
// empty normalization fails with ErrInvalidQuery.
func (s *SearchService) Search(ctx context.Context, userID, word string, limit int) ([]SearchResult, error) {
	tr := otel.Tracer("services/SearchService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	normalized := text.NormalizeWord(word)
	if normalized == "" {
		return nil, ErrInvalidQuery
	}
	span.SetAttributes(attribute.String("query.word", normalized))

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		return nil, ErrInvalidLimit
	}

	matches, err := repo.SearchWordCounts(ctx, s.DB, userID, normalized, limit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			ParagraphID: m.ParagraphID,
			Index:       m.Index,
			Count:       m.Count,
			Excerpt:     text.Excerpt(m.Text, normalized, excerptWindow, excerptFallbackRunes),
		}
	}
	return results, nil
}
