// Package domain defines the persistence models for users, paragraphs,
// and word-occurrence counts. These types are mapped with GORM and form
// the core data layer of the search backend.
package domain

import "time"

// User represents a registered account. Every paragraph and word total
// is owned by exactly one user; the ID is handed to the core as an
// opaque identity by the auth layer.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username: unique login name.
//   - Email: optional contact address.
//   - PasswordHash: bcrypt hash; never serialized.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID           string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username"   gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	Email        string    `json:"email"      gorm:"type:varchar(255);not null;default:''"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Paragraph is one contiguous block of submitted text. A paragraph is
// immutable once written: it is never edited or deleted, and its Index
// fixes its position in the owner's submission order across all
// ingestion calls.
//
// Fields:
//   - ID: auto-increment primary key, returned to clients as paragraph_id.
//   - UserID: identifier of the owner. (user_id, idx) is unique, so two
//     paragraphs of one user can never share a position.
//   - Index: 1-based position within the user's paragraph sequence.
//   - Text: immutable paragraph content.
//   - CreatedAt: insertion timestamp.
type Paragraph struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index:idx_user_paragraphs;uniqueIndex:ux_user_paragraph_idx,priority:1"`
	Index     uint      `json:"index"      gorm:"column:idx;not null;uniqueIndex:ux_user_paragraph_idx,priority:2"`
	Text      string    `json:"text"       gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Paragraph.
func (Paragraph) TableName() string { return "paragraphs" }

// ParagraphWordCount records how many times a normalized word occurs in
// one paragraph. Rows exist only for words with count >= 1 and are
// written together with their paragraph in the same transaction.
//
// Fields:
//   - ParagraphID: foreign key to the owning paragraph; (paragraph_id, word)
//     is unique.
//   - Word: normalized token (lower-cased, punctuation-trimmed).
//   - Count: occurrences within the paragraph, always >= 1.
//   - Paragraph: FK association, ensures cascade delete/update.
type ParagraphWordCount struct {
	ID          uint   `json:"id"           gorm:"primaryKey;autoIncrement"`
	ParagraphID uint   `json:"paragraph_id" gorm:"not null;uniqueIndex:ux_paragraph_word,priority:1"`
	Word        string `json:"word"         gorm:"type:varchar(128);not null;index:idx_word_counts_word;uniqueIndex:ux_paragraph_word,priority:2"`
	Count       uint   `json:"count"        gorm:"not null"`

	// Paragraph is the parent block. Word-count rows are lifetime-bound
	// to it and removed with it.
	Paragraph Paragraph `json:"-" gorm:"foreignKey:ParagraphID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ParagraphWordCount.
func (ParagraphWordCount) TableName() string { return "paragraph_word_counts" }

// UserWordTotal is the running per-user occurrence total for one word
// across every paragraph the user ever ingested. Rows are created on
// first occurrence and incremented atomically on later ingests; they
// are never deleted. The invariant: TotalCount equals the sum of the
// matching ParagraphWordCount rows at all times.
type UserWordTotal struct {
	ID         uint   `json:"id"          gorm:"primaryKey;autoIncrement"`
	UserID     string `json:"user_id"     gorm:"type:char(36);not null;uniqueIndex:ux_user_word,priority:1"`
	Word       string `json:"word"        gorm:"type:varchar(128);not null;uniqueIndex:ux_user_word,priority:2"`
	TotalCount uint   `json:"total_count" gorm:"not null"`
}

// TableName returns the database table name for UserWordTotal.
func (UserWordTotal) TableName() string { return "user_word_totals" }

// ParagraphSequence tracks the last paragraph index assigned to a user.
// It is bumped with a single conflict-update statement as the first
// write of every ingest transaction, which serializes concurrent
// ingests for the same user at the storage level: no two calls can
// allocate overlapping positions. The bump rolls back with an aborted
// ingest, so indexes are only consumed by committed paragraphs.
type ParagraphSequence struct {
	UserID    string `gorm:"type:char(36);primaryKey"`
	LastIndex uint   `gorm:"not null"`
}

// TableName returns the database table name for ParagraphSequence.
func (ParagraphSequence) TableName() string { return "paragraph_sequences" }
