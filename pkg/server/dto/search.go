package dto

import (
	"errors"
	"strings"
	"time"
)

// MaxQueryLength bounds the accepted query size.
const MaxQueryLength = 2000

// ErrQueryTooLong is returned when a query exceeds MaxQueryLength.
var ErrQueryTooLong = errors.New("query exceeds maximum length")

// SearchRequest is the body of POST /search
type SearchRequest struct {
	Query   string `json:"query" binding:"required"`
	Limit   int    `json:"limit,omitempty"`
	Explain bool   `json:"explain,omitempty"`
}

// Validate performs validation on SearchRequest
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query cannot be empty")
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// MatchResult is one result row
type MatchResult struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Rationale string `json:"rationale,omitempty"`
}

// SearchResponse is the body returned by POST /search
type SearchResponse struct {
	Query    string        `json:"query"`
	Strategy string        `json:"strategy"`
	Matches  []MatchResult `json:"matches"`
	Total    int           `json:"total"`
	CacheHit bool          `json:"cache_hit"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Explain  string        `json:"explain,omitempty"`
}

// ClassifyResponse is the body returned by POST /classify
type ClassifyResponse struct {
	Query    string `json:"query"`
	Strategy string `json:"strategy"`
}

// ErrorResponse is the shared error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
