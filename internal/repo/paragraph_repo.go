// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Paragraph
// model and the per-user index sequence.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Index assignment:
//
// Paragraph positions must be race-safe: two concurrent ingestion calls for
// the same user may never allocate the same index. ReserveIndexes bumps the
// user's row in paragraph_sequences with a single
//
//	INSERT ... ON CONFLICT (user_id) DO UPDATE SET last_index = last_index + n
//
// statement. Because that statement is the transaction's first write, it
// serializes concurrent ingests on the row and the [last-n+1, last] block it
// returns is exclusively owned by the calling transaction. A rollback
// releases the block untouched.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-search-backend/internal/domain"
)

// ReserveIndexes atomically reserves n consecutive paragraph indexes for
// userID and returns the last index of the reserved block. Must be called
// inside the ingestion transaction.
func ReserveIndexes(ctx context.Context, tx *gorm.DB, userID string, n int) (uint, error) {
	seq := domain.ParagraphSequence{UserID: userID, LastIndex: uint(n)}
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"last_index": gorm.Expr("last_index + ?", n)}),
		}).
		Create(&seq).Error
	if err != nil {
		return 0, err
	}

	// Re-read the row: on the conflict path GORM does not refresh the
	// struct. The write lock acquired above makes this read stable.
	var last uint
	err = tx.WithContext(ctx).
		Model(&domain.ParagraphSequence{}).
		Select("last_index").
		Where("user_id = ?", userID).
		Scan(&last).Error
	return last, err
}

// CreateParagraphs inserts the given paragraph rows in a single batch,
// preserving slice order. IDs are filled in by the insert.
func CreateParagraphs(ctx context.Context, tx *gorm.DB, paragraphs []domain.Paragraph) error {
	if len(paragraphs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range paragraphs {
		paragraphs[i].CreatedAt = now
	}
	return tx.WithContext(ctx).Create(&paragraphs).Error
}

// CountParagraphs returns the total number of paragraphs owned by userID.
func CountParagraphs(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Paragraph{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListParagraphs returns a user's paragraphs in index order.
func ListParagraphs(ctx context.Context, db *gorm.DB, userID string) ([]domain.Paragraph, error) {
	var out []domain.Paragraph
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("idx ASC").
		Find(&out).Error
	return out, err
}

// GetParagraph fetches a paragraph by ID ensuring it belongs to userID,
// or ErrNotFound.
func GetParagraph(ctx context.Context, db *gorm.DB, id uint, userID string) (*domain.Paragraph, error) {
	var p domain.Paragraph
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
