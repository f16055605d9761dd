// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for per-paragraph
// word counts and per-user word totals.
//
// The totals upsert is the concurrency-critical path of the whole system:
// two ingestion calls for the same user may race on the same (user, word)
// row, and a read-then-write sequence would lose one of the increments.
// UpsertUserWordTotals therefore expresses "increment, creating with the
// initial value if absent" as a single conflict-update statement, which the
// database applies atomically per row.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-search-backend/internal/domain"
)

// WordMatch is one row of the ranked search query: a paragraph owned by
// the searching user together with its stored count for the query word.
type WordMatch struct {
	ParagraphID uint
	Index       uint
	Count       uint
	Text        string
}

// CreateParagraphWordCounts inserts the given word-count rows in a single
// batch. A conflicting (paragraph_id, word) pair is ignored rather than
// erroring, matching the conflict-tolerant insert the ingest pipeline
// expects.
func CreateParagraphWordCounts(ctx context.Context, tx *gorm.DB, rows []domain.ParagraphWordCount) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "paragraph_id"}, {Name: "word"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

// UpsertUserWordTotals folds the given batch totals into the user's running
// totals: an existing (user_id, word) row is incremented by the batch value,
// a missing one is created with it. The whole operation is one statement,
// so concurrent ingests for the same user cannot lose an increment.
func UpsertUserWordTotals(ctx context.Context, tx *gorm.DB, rows []domain.UserWordTotal) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "word"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"total_count": gorm.Expr("total_count + excluded.total_count")}),
		}).
		Create(&rows).Error
}

// SearchWordCounts returns up to limit paragraphs owned by userID that
// contain word, ordered by occurrence count descending with the paragraph
// index ascending as the deterministic tie-break.
func SearchWordCounts(ctx context.Context, db *gorm.DB, userID, word string, limit int) ([]WordMatch, error) {
	var out []WordMatch
	err := db.WithContext(ctx).
		Table("paragraph_word_counts AS pwc").
		Select("pwc.paragraph_id AS paragraph_id, p.idx AS `index`, pwc.count AS count, p.text AS text").
		Joins("JOIN paragraphs p ON p.id = pwc.paragraph_id").
		Where("p.user_id = ? AND pwc.word = ?", userID, word).
		Order("pwc.count DESC, p.idx ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// UserWordTotal returns the running total for (userID, word), or 0 when the
// user never ingested the word.
func UserWordTotal(ctx context.Context, db *gorm.DB, userID, word string) (uint, error) {
	var row struct{ TotalCount uint }
	err := db.WithContext(ctx).
		Model(&domain.UserWordTotal{}).
		Select("total_count").
		Where("user_id = ? AND word = ?", userID, word).
		Scan(&row).Error
	return row.TotalCount, err
}

// ListParagraphWordCounts returns the stored counts for one paragraph.
func ListParagraphWordCounts(ctx context.Context, db *gorm.DB, paragraphID uint) ([]domain.ParagraphWordCount, error) {
	var out []domain.ParagraphWordCount
	err := db.WithContext(ctx).
		Where("paragraph_id = ?", paragraphID).
		Order("word ASC").
		Find(&out).Error
	return out, err
}
