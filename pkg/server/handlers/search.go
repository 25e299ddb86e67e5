package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	lawsearch "github.com/jkim999/lawyer-search-engine"
	"github.com/jkim999/lawyer-search-engine/pkg/search"
	"github.com/jkim999/lawyer-search-engine/pkg/server/dto"
)

// SearchHandler handles query resolution requests
type SearchHandler struct {
	engine lawsearch.Engine
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(engine lawsearch.Engine) *SearchHandler {
	return &SearchHandler{
		engine: engine,
	}
}

// Search handles POST /search
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	result, err := h.engine.Search(c.Request.Context(), req.Query, &lawsearch.SearchOptions{
		Limit:   req.Limit,
		Explain: req.Explain,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "search_failed"
		// A corpus that was never embedded is an operator problem, not a
		// transient failure.
		if errors.Is(err, search.ErrCorpusNotEmbedded) || errors.Is(err, lawsearch.ErrSemanticUnavailable) {
			status = http.StatusServiceUnavailable
			code = "corpus_not_ready"
		}
		c.JSON(status, dto.ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	matches := make([]dto.MatchResult, len(result.Matches))
	for i, m := range result.Matches {
		matches[i] = dto.MatchResult{
			ID:        m.Ref.ID,
			Name:      m.Ref.DisplayName,
			URL:       m.Ref.SourceURL,
			Rationale: m.Rationale,
		}
	}

	c.JSON(http.StatusOK, dto.SearchResponse{
		Query:    result.Query,
		Strategy: string(result.Strategy),
		Matches:  matches,
		Total:    len(matches),
		CacheHit: result.CacheHit,
		Elapsed:  result.Elapsed,
		Explain:  result.Explain,
	})
}

// Classify handles POST /classify
func (h *SearchHandler) Classify(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	strategy := h.engine.Classify(c.Request.Context(), req.Query)
	c.JSON(http.StatusOK, dto.ClassifyResponse{
		Query:    req.Query,
		Strategy: string(strategy),
	})
}
