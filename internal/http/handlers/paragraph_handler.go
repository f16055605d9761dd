// Paragraph HTTP handlers.
//
// This file exposes the REST endpoint for text ingestion:
//   - POST /paragraphs   (submit a block of text; split, tokenize, index)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (line endings, Unicode form, length caps)
//   - delegate to application services (IndexService)
//   - implement idempotency semantics
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (user, key), the handler returns the recorded response
// body and sets `Idempotency-Replayed: true`.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-search-backend/internal/domain"
	"github.com/tbourn/go-search-backend/internal/repo"
	"github.com/tbourn/go-search-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// IndexService defines the ingestion operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type IndexService interface {
	// Ingest splits content into paragraphs and persists them together with
	// their word counts atomically.
	Ingest(ctx context.Context, userID, content string) (*services.IngestResult, error)
}

// SearchService defines the query operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SearchService interface {
	// Search returns the user's paragraphs ranked by occurrences of word.
	Search(ctx context.Context, userID, word string, limit int) ([]services.SearchResult, error)
}

// AuthService defines the account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Register creates a new user account.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// Login verifies credentials and issues a token pair.
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	// Refresh exchanges a refresh token for a new pair.
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for ingestion, search, and accounts.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	idxSvc    IndexService
	searchSvc SearchService
	authSvc   AuthService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(idxSvc IndexService, searchSvc SearchService, authSvc AuthService) *Handlers {
	return &Handlers{idxSvc: idxSvc, searchSvc: searchSvc, authSvc: authSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// IngestRequest is the JSON payload for submitting text.
//
// Content is normalized by the handler (line endings, Unicode NFC, and
// excessive blank lines) before being passed to the service layer. The
// service also enforces a maximum rune count, which can be configured in
// IndexService.
type IngestRequest struct {
	// Content is the raw text block. It must be non-empty; paragraphs are
	// separated by blank lines.
	Content string `json:"content" binding:"required,min=1" example:"First paragraph.\n\nSecond paragraph about podcasts."`
}

// IngestResponse is the JSON envelope for a completed ingestion.
type IngestResponse struct {
	// ParagraphIDs lists the created paragraph IDs in submission order.
	ParagraphIDs []uint `json:"paragraph_ids"`
	// Count is the number of paragraphs created.
	Count int `json:"count"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - applies Unicode NFC so equal-looking words count as equal,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = norm.NFC.String(s)
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// discoverMaxContentRunes inspects the concrete IndexService for a configured
// content-length limit. If unavailable, it returns a conservative fallback.
func discoverMaxContentRunes(idxSvc IndexService) int {
	const fallback = 200_000
	if is, ok := idxSvc.(*services.IndexService); ok {
		if is.MaxContentRunes > 0 {
			return is.MaxContentRunes
		}
	}
	return fallback
}

//
// Handlers
//

// IngestParagraphs godoc
// @ID          ingestParagraphs
// @Summary     Submit text for indexing
// @Description Splits the submitted content into paragraphs on blank lines, stores each
// @Description paragraph with its word counts, and updates the user's running totals, all
// @Description atomically. Content that is blank after normalization succeeds with count 0.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Paragraphs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.IngestRequest  true  "Text payload"
//
// @Success     201  {object}  handlers.IngestResponse  "Created paragraphs"
// @Failure     400  {object}  handlers.ErrorResponse   "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse   "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse   "Internal error"
// @Router      /paragraphs [post]
func (h *Handlers) IngestParagraphs(c *gin.Context) {
	ctx := c.Request.Context()

	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	// Sanitize + early size cap to fail fast at the edge.
	content := sanitizeContent(req.Content)
	maxRunes := discoverMaxContentRunes(h.idxSvc)
	if maxRunes > 0 && utf8.RuneCountInString(content) > maxRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middlewareGetIdempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.idxSvc.(*services.IndexService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, currentUser, idemKey, time.Now().UTC()); err == nil && rec != nil {
				c.Header("Idempotency-Replayed", "true")
				c.Data(rec.Status, "application/json; charset=utf-8", []byte(rec.Response))
				return
			}
		}
	}

	// Blank-after-normalization content indexes nothing but is not an error.
	if content == "" {
		ok(c, http.StatusCreated, IngestResponse{ParagraphIDs: []uint{}, Count: 0})
		return
	}

	res, err := h.idxSvc.Ingest(ctx, currentUser, content)
	if err != nil {
		switch err {
		case services.ErrContentTooLarge:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		case services.ErrEmptyContent:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeIngestFailed, err.Error())
		}
		return
	}

	resp := IngestResponse{ParagraphIDs: res.ParagraphIDs, Count: res.Count}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.idxSvc.(*services.IndexService); okSvc && svc.DB != nil {
			if body, merr := json.Marshal(resp); merr == nil {
				ttl := 24 * time.Hour
				_, _ = repo.CreateIdempotency(ctx, svc.DB, currentUser, idemKey, string(body), http.StatusCreated, ttl)
			}
		}
	}

	ok(c, http.StatusCreated, resp)
}

// middlewareGetIdempotencyKey extracts an idempotency key if an upstream
// middleware has already validated/stashed it. The fallback behavior reads
// the "Idempotency-Key" header directly when no dedicated middleware exists.
func middlewareGetIdempotencyKey(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.GetHeader("Idempotency-Key")); v != "" {
		return v, true
	}
	return "", false
}
