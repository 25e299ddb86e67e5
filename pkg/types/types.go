package types

import "time"

// LawyerRef identifies a lawyer in a result set. DisplayName is the stable
// secondary sort key for every result ordering in the engine.
type LawyerRef struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"name"`
	SourceURL   string `json:"url"`
}

// Lawyer is a full profile record as stored. Scraping and field extraction
// happen upstream; the engine only reads these.
type Lawyer struct {
	ID             int64       `json:"id"`
	SourceURL      string      `json:"url"`
	Name           string      `json:"name"`
	Email          string      `json:"email,omitempty"`
	Phone          string      `json:"phone,omitempty"`
	Title          string      `json:"title,omitempty"`
	OfficeLocation string      `json:"office_location,omitempty"`
	Clerkship      string      `json:"clerkship,omitempty"`
	Educations     []Education `json:"educations,omitempty"`
	Practices      []string    `json:"practices,omitempty"`
	Industries     []string    `json:"industries,omitempty"`
	Regions        []string    `json:"regions,omitempty"`
	Languages      []string    `json:"languages,omitempty"`
}

// Education is a single degree entry. IsLawDegree marks the qualifying
// credential used for graduation-year comparisons.
type Education struct {
	DegreeType       string `json:"degree_type,omitempty"`
	Year             int    `json:"year,omitempty"`
	SchoolName       string `json:"school_name,omitempty"`
	SchoolNormalized string `json:"school_normalized,omitempty"`
	IsLawDegree      bool   `json:"is_law_degree"`
	Honors           string `json:"honors,omitempty"`
}

// Candidate pairs a lawyer ID with a similarity score from one semantic
// retrieval call. Scores are only comparable within that call.
type Candidate struct {
	LawyerID int64   `json:"lawyer_id"`
	Score    float64 `json:"score"`
}

// Verdict is the outcome of one judge evaluation for one candidate.
type Verdict struct {
	LawyerID  int64  `json:"lawyer_id"`
	Passed    bool   `json:"passed"`
	Rationale string `json:"rationale"`
}

// Role identifies the author of a chat message.
type Role string

// Message is a single chat message sent to a language model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Response is a language model completion.
type Response struct {
	Content      string      `json:"content"`
	Model        string      `json:"model,omitempty"`
	FinishReason string      `json:"finish_reason,omitempty"`
	TokensUsed   *TokenUsage `json:"tokens_used,omitempty"`
}

// TokenUsage reports token consumption for a single completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ContextKey is the type for request-scoped context values.
type ContextKey string

const (
	// ContextKeyRequestID carries the per-request ID through the pipeline.
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeyRequestSource records where a request entered the system.
	ContextKeyRequestSource ContextKey = "request_source"
)

// QueryTelemetry summarizes one resolution for diagnostics.
type QueryTelemetry struct {
	Query        string        `json:"query"`
	Strategy     string        `json:"strategy"`
	Candidates   int           `json:"candidates"`
	Survivors    int           `json:"survivors"`
	Matches      int           `json:"matches"`
	CacheHit     bool          `json:"cache_hit"`
	Elapsed      time.Duration `json:"elapsed"`
	ErrorMessage string        `json:"error,omitempty"`
}
