package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-search-backend/internal/domain"
)

func TestCreateAndGetIdempotency_RoundTrip(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "k1", `{"count":2}`, 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.ExpiresAt.Before(rec.CreatedAt) {
		t.Fatalf("bad record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "k1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.Response != `{"count":2}` || got.Status != 201 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetIdempotency_MissingAndExpired(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := GetIdempotency(ctx, db, "u1", "nope", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: expected ErrNotFound, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank key: expected ErrNotFound, got %v", err)
	}

	if _, err := CreateIdempotency(ctx, db, "u1", "k1", "{}", 201, time.Hour); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// A lookup after the TTL window must treat the record as absent.
	future := time.Now().UTC().Add(2 * time.Hour)
	if _, err := GetIdempotency(ctx, db, "u1", "k1", future); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired: expected ErrNotFound, got %v", err)
	}
}

func TestCreateIdempotency_DuplicateKey(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "k1", "{}", 201, time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "k1", "{}", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same key under another user is a distinct record.
	if _, err := CreateIdempotency(ctx, db, "u2", "k1", "{}", 201, time.Hour); err != nil {
		t.Fatalf("other user same key: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{errors.New("UNIQUE constraint failed: users.username"), true},
		{errors.New("constraint failed: UNIQUE constraint failed: idempotency.key (1555)"), true},
		{errors.New("duplicate key value violates unique constraint"), true},
		{errors.New("no such table: users"), false},
	}
	for _, tc := range cases {
		if got := isUniqueViolation(tc.err); got != tc.want {
			t.Errorf("isUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
