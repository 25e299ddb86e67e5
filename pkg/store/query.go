package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jkim999/lawyer-search-engine/pkg/query"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

// ExecuteCompiled runs a compiled predicate query and returns the matching
// lawyer references in the order the query produced them. limit <= 0 means
// no limit.
func (s *Store) ExecuteCompiled(ctx context.Context, q query.CompiledQuery, limit int) ([]types.LawyerRef, error) {
	text := q.Text
	params := q.Params
	if limit > 0 {
		text += " LIMIT ?"
		params = append(append([]any{}, params...), limit)
	}

	rows, err := s.db.QueryContext(ctx, text, params...)
	if err != nil {
		return nil, fmt.Errorf("executing compiled query: %w", err)
	}
	defer rows.Close()

	var refs []types.LawyerRef
	for rows.Next() {
		var ref types.LawyerRef
		if err := rows.Scan(&ref.ID, &ref.DisplayName, &ref.SourceURL); err != nil {
			return nil, fmt.Errorf("scanning lawyer row: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// CorpusVersion identifies the current corpus snapshot for cache keying.
// Any ingest or embedding pass changes it, so cached results never outlive
// the data they were computed from.
func (s *Store) CorpusVersion(ctx context.Context) (string, error) {
	var lawyers, embeddings int64
	var lastUpdate sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM lawyers),
			(SELECT COUNT(*) FROM experience_embeddings WHERE embedding IS NOT NULL),
			(SELECT MAX(updated_at) FROM lawyers)`).
		Scan(&lawyers, &embeddings, &lastUpdate)
	if err != nil {
		return "", fmt.Errorf("reading corpus version: %w", err)
	}
	return fmt.Sprintf("%d:%d:%s", lawyers, embeddings, lastUpdate.String), nil
}

// Explain returns the SQLite query plan for a compiled query, one step per
// line. Used by the CLI's --why flag.
func (s *Store) Explain(ctx context.Context, q query.CompiledQuery) (string, error) {
	rows, err := s.db.QueryContext(ctx, "EXPLAIN QUERY PLAN "+q.Text, q.Params...)
	if err != nil {
		return "", fmt.Errorf("explaining query: %w", err)
	}
	defer rows.Close()

	var sb strings.Builder
	for rows.Next() {
		var id, parent, unused int
		var detail string
		if err := rows.Scan(&id, &parent, &unused, &detail); err != nil {
			return "", fmt.Errorf("scanning plan row: %w", err)
		}
		sb.WriteString(detail)
		sb.WriteString("\n")
	}
	return sb.String(), rows.Err()
}
