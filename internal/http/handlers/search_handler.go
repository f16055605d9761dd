// Search HTTP handlers.
//
// This file exposes the REST endpoint for ranked word queries:
//   - GET /search?word=...&limit=...   (rank the user's paragraphs, ETag support)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-search-backend/internal/repo"
	"github.com/tbourn/go-search-backend/internal/services"
	"github.com/tbourn/go-search-backend/internal/text"
	"github.com/tbourn/go-search-backend/internal/utils"
)

//
// DTOs
//

// SearchResponse wraps the normalized query term and its ranked results.
type SearchResponse struct {
	// Word is the query term after normalization (lowercased, punctuation
	// stripped), i.e. the form that was actually matched.
	Word string `json:"word"`
	// Results are ranked by descending occurrence count; ties resolve to
	// the earlier paragraph.
	Results []services.SearchResult `json:"results"`
}

//
// Handlers
//

// SearchParagraphs godoc
// @ID          searchParagraphs
// @Summary     Search paragraphs by word
// @Description Returns the user's paragraphs ranked by how often they contain the given
// @Description word, with a short excerpt around the first occurrence in each hit.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        Search
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       word           query   string  true  "Word to search for"          example(podcasts)
// @Param       limit          query   int     false "Maximum results"             minimum(1) maximum(50) default(10)
//
// @Success     200  {object} handlers.SearchResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /search [get]
func (h *Handlers) SearchParagraphs(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	word := c.Query("word")
	limit := utils.AtoiDefault(c.Query("limit"), services.DefaultSearchLimit)
	if limit < 1 || limit > services.MaxSearchLimit {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest,
			fmt.Sprintf("limit must be between 1 and %d", services.MaxSearchLimit))
		return
	}

	// ETag pre-check (best effort). Paragraphs are immutable, so the
	// (count, newest creation time) pair fingerprints the corpus.
	var db *gorm.DB
	if svc, ok := h.searchSvc.(*services.SearchService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ParagraphStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"search:%s:%s:%d:%d:%d"`, uid, url.QueryEscape(word), limit, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	results, err := h.searchSvc.Search(ctx, uid, word, limit)
	if err != nil {
		switch err {
		case services.ErrInvalidQuery:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "word must contain at least one letter or digit")
		case services.ErrInvalidLimit:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest,
				fmt.Sprintf("limit must be between 1 and %d", services.MaxSearchLimit))
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, err.Error())
		}
		return
	}

	// Echo the normalized term so clients see what was actually matched.
	ok(c, http.StatusOK, SearchResponse{Word: text.NormalizeWord(word), Results: results})
}
