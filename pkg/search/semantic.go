// Package search implements the semantic half of the resolution pipeline:
// embedding retrieval over stored vectors, keyword pre-filtering, and the
// parallel LLM judge that verifies candidates against the query.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jkim999/lawyer-search-engine/pkg/embedder"
	"github.com/jkim999/lawyer-search-engine/pkg/store"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
	"github.com/jkim999/lawyer-search-engine/pkg/utils"
)

// DefaultTopK is the number of candidates semantic retrieval hands to the
// filtering stages.
const DefaultTopK = 50

// DefaultEmbedTimeout bounds a single query-embedding call.
const DefaultEmbedTimeout = 30 * time.Second

// EmbeddingSource provides the stored corpus vectors.
type EmbeddingSource interface {
	AllEmbeddings(ctx context.Context) ([]store.EmbeddingRow, error)
}

// Retriever ranks lawyers by cosine similarity between the query embedding
// and their stored profile embeddings.
type Retriever struct {
	embedder     embedder.Client
	source       EmbeddingSource
	topK         int
	embedTimeout time.Duration
	logger       *slog.Logger
}

// NewRetriever builds a retriever. topK <= 0 selects DefaultTopK and
// embedTimeout <= 0 selects DefaultEmbedTimeout.
func NewRetriever(client embedder.Client, source EmbeddingSource, topK int, embedTimeout time.Duration, logger *slog.Logger) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if embedTimeout <= 0 {
		embedTimeout = DefaultEmbedTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{embedder: client, source: source, topK: topK, embedTimeout: embedTimeout, logger: logger}
}

// Retrieve returns the topK most similar lawyers to query, highest score
// first. Returns ErrCorpusNotEmbedded when the corpus has no vectors.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]types.Candidate, error) {
	rows, err := r.source.AllEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading corpus embeddings: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrCorpusNotEmbedded
	}

	queryVec, err := r.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	scored := make([]utils.ScoredItem[int64], 0, len(rows))
	for _, row := range rows {
		scored = append(scored, utils.ScoredItem[int64]{
			Item:  row.LawyerID,
			Score: utils.CosineSimilarity(queryVec, row.Vector),
		})
	}

	top := utils.TopKByScore(scored, r.topK)
	candidates := make([]types.Candidate, len(top))
	for i, item := range top {
		candidates[i] = types.Candidate{LawyerID: item.Item, Score: item.Score}
	}

	r.logger.Debug("semantic retrieval complete",
		"corpus_size", len(rows), "candidates", len(candidates))
	return candidates, nil
}

// embedQuery embeds the query under the per-call timeout. Local providers
// do not watch ctx, so the deadline is enforced here rather than trusted
// to the client.
func (r *Retriever) embedQuery(ctx context.Context, query string) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, r.embedTimeout)
	defer cancel()

	type embedResult struct {
		vec []float32
		err error
	}
	done := make(chan embedResult, 1)
	go func() {
		// Embedding models treat newlines as token noise.
		vec, err := r.embedder.EmbedSingle(embedCtx, strings.ReplaceAll(query, "\n", " "))
		done <- embedResult{vec, err}
	}()

	select {
	case res := <-done:
		return res.vec, res.err
	case <-embedCtx.Done():
		return nil, embedCtx.Err()
	}
}
