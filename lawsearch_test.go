package lawsearch

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkim999/lawyer-search-engine/pkg/query"
	"github.com/jkim999/lawyer-search-engine/pkg/store"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

type scriptedLLM struct {
	respond func(messages []types.Message) (string, error)
}

func (s *scriptedLLM) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	content, err := s.respond(messages)
	if err != nil {
		return nil, err
	}
	return &types.Response{Content: content}, nil
}

func (s *scriptedLLM) Close() error { return nil }

type staticEmbedder struct {
	vector []float32
}

func (e *staticEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = e.vector
	}
	return out, nil
}

func (e *staticEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return e.vector, nil
}

func (e *staticEmbedder) Dimensions() int { return len(e.vector) }
func (e *staticEmbedder) Close() error    { return nil }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "corpus.db"), nil)
	require.NoError(t, err)
	return s
}

func seedStructuredCorpus(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()
	lawyers := []*types.Lawyer{
		{
			SourceURL: "https://firm.example/jane",
			Name:      "Jane Doe",
			Title:     "Partner",
			Educations: []types.Education{
				{DegreeType: "J.D", Year: 2010, SchoolName: "Yale Law School", IsLawDegree: true},
			},
		},
		{
			SourceURL: "https://firm.example/bob",
			Name:      "Bob Lee",
			Title:     "Associate",
			Educations: []types.Education{
				{DegreeType: "J.D", Year: 2019, SchoolName: "Yale Law School", IsLawDegree: true},
			},
		},
		{
			SourceURL: "https://firm.example/carol",
			Name:      "Carol Wu",
			Title:     "Partner",
			Educations: []types.Education{
				{DegreeType: "J.D", Year: 2012, SchoolName: "Harvard Law School", IsLawDegree: true},
			},
		},
	}
	for _, l := range lawyers {
		_, err := s.UpsertLawyer(ctx, l)
		require.NoError(t, err)
	}
	require.NoError(t, s.CreateIndexes(ctx))
}

func TestSearchStructuredEndToEnd(t *testing.T) {
	s := newTestStore(t)
	seedStructuredCorpus(t, s)

	eng, err := NewClient(s, nil, nil, nil, nil)
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Search(context.Background(), "partners who went to Yale", nil)
	require.NoError(t, err)

	assert.Equal(t, query.StrategyStructured, result.Strategy)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Jane Doe", result.Matches[0].Ref.DisplayName)
	assert.False(t, result.CacheHit)
}

func TestSearchGraduationYearEndToEnd(t *testing.T) {
	s := newTestStore(t)
	seedStructuredCorpus(t, s)

	eng, err := NewClient(s, nil, nil, nil, nil)
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Search(context.Background(), "graduated after 2015", nil)
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Bob Lee", result.Matches[0].Ref.DisplayName)
}

func TestSearchCacheHit(t *testing.T) {
	s := newTestStore(t)
	seedStructuredCorpus(t, s)

	eng, err := NewClient(s, nil, nil, nil, nil)
	require.NoError(t, err)
	defer eng.Close()

	ctx := context.Background()
	first, err := eng.Search(ctx, "partners who went to Yale", nil)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := eng.Search(ctx, "Partners who went to Yale  ", nil)
	require.NoError(t, err)
	assert.True(t, second.CacheHit, "normalized repeat of the query must hit the cache")
	assert.Equal(t, first.Matches, second.Matches)

	bypassed, err := eng.Search(ctx, "partners who went to Yale", &SearchOptions{BypassCache: true})
	require.NoError(t, err)
	assert.False(t, bypassed.CacheHit)
}

func TestSearchCacheInvalidatedByIngest(t *testing.T) {
	s := newTestStore(t)
	seedStructuredCorpus(t, s)

	eng, err := NewClient(s, nil, nil, nil, nil)
	require.NoError(t, err)
	defer eng.Close()

	ctx := context.Background()
	_, err = eng.Search(ctx, "partners who went to Yale", nil)
	require.NoError(t, err)

	// A new partner lands in the corpus; the cached result must not be
	// served for the same query text.
	_, err = s.UpsertLawyer(ctx, &types.Lawyer{
		SourceURL: "https://firm.example/dana",
		Name:      "Dana Fox",
		Title:     "Partner",
		Educations: []types.Education{
			{DegreeType: "J.D", Year: 2015, SchoolName: "Yale Law School", IsLawDegree: true},
		},
	})
	require.NoError(t, err)

	result, err := eng.Search(ctx, "partners who went to Yale", nil)
	require.NoError(t, err)
	assert.False(t, result.CacheHit)
	assert.Len(t, result.Matches, 2)
}

func TestSearchSemanticUnavailableWithoutModels(t *testing.T) {
	s := newTestStore(t)
	seedStructuredCorpus(t, s)

	eng, err := NewClient(s, nil, nil, nil, nil)
	require.NoError(t, err)
	defer eng.Close()

	_, err = eng.Search(context.Background(), "worked with Netflix", nil)
	assert.ErrorIs(t, err, ErrSemanticUnavailable)
}

func TestSearchSemanticEndToEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.UpsertLawyer(ctx, &types.Lawyer{SourceURL: "https://firm.example/media", Name: "Mia Chen"})
	require.NoError(t, err)
	id2, err := s.UpsertLawyer(ctx, &types.Lawyer{SourceURL: "https://firm.example/tax", Name: "Tom Diaz"})
	require.NoError(t, err)
	require.NoError(t, s.CreateIndexes(ctx))

	require.NoError(t, s.StoreEmbedding(ctx, id1,
		"Represented Netflix in streaming content disputes.", "", []float32{1, 0}))
	require.NoError(t, s.StoreEmbedding(ctx, id2,
		"Advises family offices on estate planning.", "", []float32{0, 1}))

	llm := &scriptedLLM{respond: func(messages []types.Message) (string, error) {
		profile := messages[len(messages)-1].Content
		if strings.Contains(profile, "Netflix") {
			return "<thinking>explicit streaming work</thinking><answer>Pass</answer>", nil
		}
		return "<thinking>unrelated practice</thinking><answer>Fail</answer>", nil
	}}

	eng, err := NewClient(s, llm, &staticEmbedder{vector: []float32{1, 0}}, nil, nil)
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Search(ctx, "lawyers who worked with Netflix", nil)
	require.NoError(t, err)

	assert.Equal(t, query.StrategySemantic, result.Strategy)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Mia Chen", result.Matches[0].Ref.DisplayName)
	assert.Equal(t, "explicit streaming work", result.Matches[0].Rationale)
	assert.Equal(t, 2, result.Candidates)
	assert.Equal(t, 1, result.Survivors)
}

func TestClassify(t *testing.T) {
	s := newTestStore(t)
	eng, err := NewClient(s, nil, nil, nil, nil)
	require.NoError(t, err)
	defer eng.Close()

	ctx := context.Background()
	assert.Equal(t, query.StrategyStructured, eng.Classify(ctx, "partners who went to Yale"))
	assert.Equal(t, query.StrategySemantic, eng.Classify(ctx, "worked with Google"))
}

func TestSearchLimit(t *testing.T) {
	s := newTestStore(t)
	seedStructuredCorpus(t, s)

	eng, err := NewClient(s, nil, nil, nil, nil)
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Search(context.Background(), "lawyers named Jane Bob Carol", &SearchOptions{Limit: 1})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Matches), 1)
}

func TestSearchLimitIsPerCall(t *testing.T) {
	s := newTestStore(t)
	seedStructuredCorpus(t, s)

	eng, err := NewClient(s, nil, nil, nil, nil)
	require.NoError(t, err)
	defer eng.Close()

	ctx := context.Background()
	limited, err := eng.Search(ctx, "went to Yale", &SearchOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited.Matches, 1)

	// The same query without a limit must see the full match list even
	// though the limited call populated the cache.
	full, err := eng.Search(ctx, "went to Yale", nil)
	require.NoError(t, err)
	assert.True(t, full.CacheHit)
	require.Len(t, full.Matches, 2)

	names := []string{full.Matches[0].Ref.DisplayName, full.Matches[1].Ref.DisplayName}
	assert.Equal(t, []string{"Bob Lee", "Jane Doe"}, names)

	relimited, err := eng.Search(ctx, "went to Yale", &SearchOptions{Limit: 1})
	require.NoError(t, err)
	assert.True(t, relimited.CacheHit)
	assert.Len(t, relimited.Matches, 1)
}

func TestSearchExplainIsPerCall(t *testing.T) {
	s := newTestStore(t)
	seedStructuredCorpus(t, s)

	eng, err := NewClient(s, nil, nil, nil, nil)
	require.NoError(t, err)
	defer eng.Close()

	ctx := context.Background()
	plain, err := eng.Search(ctx, "partners who went to Yale", nil)
	require.NoError(t, err)
	assert.Empty(t, plain.Explain)

	// A cached resolution still yields a plan when this call asks for one.
	explained, err := eng.Search(ctx, "partners who went to Yale", &SearchOptions{Explain: true})
	require.NoError(t, err)
	assert.True(t, explained.CacheHit)
	assert.NotEmpty(t, explained.Explain)

	again, err := eng.Search(ctx, "partners who went to Yale", nil)
	require.NoError(t, err)
	assert.True(t, again.CacheHit)
	assert.Empty(t, again.Explain)
}
