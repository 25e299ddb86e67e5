package lawsearch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jkim999/lawyer-search-engine/pkg/cache"
	"github.com/jkim999/lawyer-search-engine/pkg/embedder"
	"github.com/jkim999/lawyer-search-engine/pkg/nlp"
	"github.com/jkim999/lawyer-search-engine/pkg/query"
	"github.com/jkim999/lawyer-search-engine/pkg/search"
	"github.com/jkim999/lawyer-search-engine/pkg/store"
	"github.com/jkim999/lawyer-search-engine/pkg/telemetry"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

// Engine is the main interface for resolving natural-language queries over
// a lawyer corpus.
type Engine interface {
	// Search resolves a query end to end: classification, then either the
	// structured SQL path or the semantic retrieve/filter/judge path.
	Search(ctx context.Context, queryText string, opts *SearchOptions) (*Result, error)

	// Classify reports which strategy a query would take without running
	// it.
	Classify(ctx context.Context, queryText string) query.Strategy

	// Close releases the store and model clients.
	Close() error
}

// SearchOptions tunes one Search call.
type SearchOptions struct {
	// Limit caps the number of results; <= 0 means no cap.
	Limit int
	// Explain attaches the SQL query plan (structured strategy only).
	Explain bool
	// BypassCache forces a fresh resolution.
	BypassCache bool
}

// Result is one resolved query.
type Result struct {
	Query    string          `json:"query"`
	Strategy query.Strategy  `json:"strategy"`
	Matches  []search.Match  `json:"matches"`
	Explain  string          `json:"explain,omitempty"`
	CacheHit bool            `json:"cache_hit"`
	Elapsed  time.Duration   `json:"elapsed"`
	Verdicts []types.Verdict `json:"-"`

	// Candidates and Survivors count the semantic pipeline stages for
	// telemetry; both are zero on the structured path.
	Candidates int `json:"-"`
	Survivors  int `json:"-"`
}

// Config holds the engine's tuning knobs.
type Config struct {
	// TopK is the semantic retrieval candidate count.
	TopK int
	// FilterPolicy tunes the keyword pre-filter thresholds.
	FilterPolicy search.FilterPolicy
	// JudgeConcurrency bounds the verifier worker pool.
	JudgeConcurrency int
	// JudgeTimeout bounds one judge evaluation.
	JudgeTimeout time.Duration
	// EmbedTimeout bounds the query-embedding call.
	EmbedTimeout time.Duration
	// CacheSize and CacheTTL tune the result cache.
	CacheSize int
	CacheTTL  time.Duration
	// Clock overrides the cache clock, for tests.
	Clock cache.Clock
}

// Client is the main implementation of the Engine interface.
type Client struct {
	store      *store.Store
	llm        nlp.Client
	embedder   embedder.Client
	classifier *query.Classifier
	parser     *query.Parser
	retriever  *search.Retriever
	filter     *search.KeywordFilter
	verifier   *search.Verifier
	results    *cache.ResultCache
	recorder   *telemetry.QueryRecorder
	config     *Config
	logger     *slog.Logger
}

// NewClient creates a new engine over an opened store. llmClient and
// embedderClient may be nil for corpora that only ever run structured
// queries; the semantic path then reports itself unavailable.
func NewClient(s *store.Store, llmClient nlp.Client, embedderClient embedder.Client, config *Config, logger *slog.Logger) (*Client, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		store:      s,
		llm:        llmClient,
		embedder:   embedderClient,
		classifier: query.NewClassifier(llmClient, logger),
		parser:     query.NewParser(nil),
		filter:     search.NewKeywordFilter(s, config.FilterPolicy, logger),
		results:    cache.New(config.CacheSize, config.CacheTTL, config.Clock),
		config:     config,
		logger:     logger,
	}

	if embedderClient != nil {
		c.retriever = search.NewRetriever(embedderClient, s, config.TopK, config.EmbedTimeout, logger)
	}
	if llmClient != nil {
		c.verifier = search.NewVerifier(llmClient, s, config.JudgeConcurrency, config.JudgeTimeout, logger)
	}

	return c, nil
}

// SetPracticeAliases installs the practice alias map used by the parser.
func (c *Client) SetPracticeAliases(aliases map[string]string) {
	c.parser = query.NewParser(aliases)
}

// SetRecorder attaches a query telemetry recorder. A nil recorder disables
// recording.
func (c *Client) SetRecorder(r *telemetry.QueryRecorder) {
	c.recorder = r
}

// Store returns the underlying corpus store.
func (c *Client) Store() *store.Store {
	return c.store
}

// Close releases the store and model clients.
func (c *Client) Close() error {
	var errs []error
	if c.llm != nil {
		errs = append(errs, c.llm.Close())
	}
	if c.embedder != nil {
		errs = append(errs, c.embedder.Close())
	}
	errs = append(errs, c.store.Close())
	if c.recorder != nil {
		errs = append(errs, c.recorder.Flush())
	}
	return errors.Join(errs...)
}

var (
	// ErrSemanticUnavailable is returned when a semantic query arrives
	// and the engine was built without model clients.
	ErrSemanticUnavailable = errors.New("semantic search unavailable: engine has no model clients")
)
