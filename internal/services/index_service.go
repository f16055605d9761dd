// Package services – IndexService
//
// This file implements IndexService, the application-level component that
// owns text ingestion. It validates the submitted content, splits it into
// paragraphs, tokenizes each paragraph, and persists the paragraph rows,
// their per-paragraph word counts, and the user's running word totals in a
// single transaction: a request either contributes all of its paragraphs
// and counts or none of them.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include user identifiers and paragraph counts where applicable.

package services

import (
	"context"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-search-backend/internal/domain"
	"github.com/tbourn/go-search-backend/internal/repo"
	"github.com/tbourn/go-search-backend/internal/text"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IndexService coordinates paragraph ingestion and word-count bookkeeping.
type IndexService struct {
	DB *gorm.DB

	// Optional guards
	MaxContentRunes int
}

// IngestResult summarizes one successful ingestion call.
type IngestResult struct {
	// ParagraphIDs holds the database IDs of the created paragraphs in
	// submission order.
	ParagraphIDs []uint

	// Count is len(ParagraphIDs).
	Count int
}

// Ingest splits content into paragraphs and persists them together with
// their word counts and the user's updated running totals. Content that
// yields zero paragraphs (e.g. blank lines only) succeeds trivially with an
// empty result and no writes.
func (s *IndexService) Ingest(ctx context.Context, userID, content string) (*IngestResult, error) {
	tr := otel.Tracer("services/IndexService")
	ctx, span := tr.Start(ctx, "Ingest",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("content.bytes", len(content)),
		),
	)
	defer span.End()

	if content == "" {
		return nil, ErrEmptyContent
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		return nil, ErrContentTooLarge
	}

	blocks := text.SplitParagraphs(content)
	span.SetAttributes(attribute.Int("paragraphs.count", len(blocks)))
	if len(blocks) == 0 {
		// Whitespace-only submissions are a no-op, not an error.
		return &IngestResult{ParagraphIDs: []uint{}}, nil
	}

	// Tokenize outside the transaction; only persistence needs the lock.
	counts := make([]map[string]int, len(blocks))
	for i, b := range blocks {
		counts[i] = text.CountTokens(b)
	}

	var result *IngestResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		last, err := repo.ReserveIndexes(ctx, tx, userID, len(blocks))
		if err != nil {
			return err
		}
		first := last - uint(len(blocks)) + 1

		paragraphs := make([]domain.Paragraph, len(blocks))
		for i, b := range blocks {
			paragraphs[i] = domain.Paragraph{
				UserID: userID,
				Index:  first + uint(i),
				Text:   b,
			}
		}
		if err := repo.CreateParagraphs(ctx, tx, paragraphs); err != nil {
			return err
		}

		var pwcRows []domain.ParagraphWordCount
		totals := make(map[string]uint)
		for i, m := range counts {
			for word, n := range m {
				pwcRows = append(pwcRows, domain.ParagraphWordCount{
					ParagraphID: paragraphs[i].ID,
					Word:        word,
					Count:       uint(n),
				})
				totals[word] += uint(n)
			}
		}
		if err := repo.CreateParagraphWordCounts(ctx, tx, pwcRows); err != nil {
			return err
		}

		totalRows := make([]domain.UserWordTotal, 0, len(totals))
		for word, n := range totals {
			totalRows = append(totalRows, domain.UserWordTotal{
				UserID:     userID,
				Word:       word,
				TotalCount: n,
			})
		}
		if err := repo.UpsertUserWordTotals(ctx, tx, totalRows); err != nil {
			return err
		}

		ids := make([]uint, len(paragraphs))
		for i := range paragraphs {
			ids[i] = paragraphs[i].ID
		}
		result = &IngestResult{ParagraphIDs: ids, Count: len(ids)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// WordTotal returns the user's running total for one normalized word.
// A word that was never ingested yields zero.
func (s *IndexService) WordTotal(ctx context.Context, userID, word string) (uint, error) {
	tr := otel.Tracer("services/IndexService")
	ctx, span := tr.Start(ctx, "WordTotal",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	normalized := text.NormalizeWord(word)
	if normalized == "" {
		return 0, ErrInvalidQuery
	}
	return repo.UserWordTotal(ctx, s.DB, userID, normalized)
}
