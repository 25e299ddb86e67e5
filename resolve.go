package lawsearch

import (
	"context"
	"time"

	"github.com/jkim999/lawyer-search-engine/pkg/cache"
	"github.com/jkim999/lawyer-search-engine/pkg/query"
	"github.com/jkim999/lawyer-search-engine/pkg/search"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

// Search resolves a natural-language query end to end.
//
// Cached entries hold the full resolution; per-call options (Limit,
// Explain) are applied to a copy on the way out, so one call's options
// never leak into another call's results.
func (c *Client) Search(ctx context.Context, queryText string, opts *SearchOptions) (*Result, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}
	start := time.Now()

	corpusID, err := c.store.CorpusVersion(ctx)
	if err != nil {
		return nil, err
	}
	key := cache.Key(queryText, corpusID)

	if !opts.BypassCache {
		if cached, ok := c.results.Get(key); ok {
			hit := *cached.(*Result)
			hit.CacheHit = true
			applyOptions(&hit, opts)
			hit.Elapsed = time.Since(start)
			c.record(&hit)
			return &hit, nil
		}
	}

	strategy := c.classifier.Classify(ctx, queryText)
	c.logger.Info("query classified", "strategy", strategy, "query", queryText)

	var result *Result
	switch strategy {
	case query.StrategyStructured:
		result, err = c.resolveStructured(ctx, queryText)
	default:
		result, err = c.resolveSemantic(ctx, queryText)
	}
	if err != nil {
		c.recordError(queryText, string(strategy), start, err)
		return nil, err
	}

	result.Query = queryText
	result.Strategy = strategy
	c.results.Set(key, result)

	out := *result
	applyOptions(&out, opts)
	out.Elapsed = time.Since(start)
	c.record(&out)
	return &out, nil
}

// applyOptions shapes a resolution for one caller. Truncation reslices, so
// the cached entry keeps its full match list.
func applyOptions(r *Result, opts *SearchOptions) {
	if opts.Limit > 0 && len(r.Matches) > opts.Limit {
		r.Matches = r.Matches[:opts.Limit]
	}
	if !opts.Explain {
		r.Explain = ""
	}
}

// Classify reports which strategy a query would take.
func (c *Client) Classify(ctx context.Context, queryText string) query.Strategy {
	return c.classifier.Classify(ctx, queryText)
}

// resolveStructured runs the parse/compile/execute path. The query plan is
// always attached so cached resolutions can serve later --why requests.
func (c *Client) resolveStructured(ctx context.Context, queryText string) (*Result, error) {
	seq := c.parser.Parse(queryText)
	compiled := query.Compile(seq, c.store)

	refs, err := c.store.ExecuteCompiled(ctx, compiled, 0)
	if err != nil {
		return nil, err
	}

	matches := make([]search.Match, len(refs))
	for i, ref := range refs {
		matches[i] = search.Match{Ref: ref}
	}

	result := &Result{Matches: matches}
	plan, err := c.store.Explain(ctx, compiled)
	if err != nil {
		c.logger.Warn("failed to explain query", "error", err)
	} else {
		result.Explain = plan
	}
	return result, nil
}

// resolveSemantic runs the retrieve/filter/judge path.
func (c *Client) resolveSemantic(ctx context.Context, queryText string) (*Result, error) {
	if c.retriever == nil || c.verifier == nil {
		return nil, ErrSemanticUnavailable
	}

	candidates, err := c.retriever.Retrieve(ctx, queryText)
	if err != nil {
		return nil, err
	}

	survivors, err := c.filter.Filter(ctx, candidates, queryText)
	if err != nil {
		return nil, err
	}

	matches, verdicts, err := c.verifier.Verify(ctx, queryText, survivors)
	if err != nil {
		return nil, err
	}

	return &Result{
		Matches:    matches,
		Verdicts:   verdicts,
		Candidates: len(candidates),
		Survivors:  len(survivors),
	}, nil
}

func (c *Client) record(result *Result) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(types.QueryTelemetry{
		Query:      result.Query,
		Strategy:   string(result.Strategy),
		Candidates: result.Candidates,
		Survivors:  result.Survivors,
		Matches:    len(result.Matches),
		CacheHit:   result.CacheHit,
		Elapsed:    result.Elapsed,
	})
}

func (c *Client) recordError(queryText, strategy string, start time.Time, err error) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(types.QueryTelemetry{
		Query:        queryText,
		Strategy:     strategy,
		Elapsed:      time.Since(start),
		ErrorMessage: err.Error(),
	})
}
