package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkim999/lawyer-search-engine/pkg/store"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

type fakeTextSource map[int64]string

func (f fakeTextSource) CachedText(ctx context.Context, lawyerID int64) (string, error) {
	text, ok := f[lawyerID]
	if !ok {
		return "", store.ErrNoCachedText
	}
	return text, nil
}

func candidateIDs(candidates []types.Candidate) []int64 {
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.LawyerID
	}
	return ids
}

func TestExtractKeywords(t *testing.T) {
	t.Run("company names", func(t *testing.T) {
		kw := ExtractKeywords("lawyers who worked with Netflix and Goldman Sachs")
		assert.True(t, kw["netflix"])
		assert.True(t, kw["goldman sachs"])
	})

	t.Run("industry vocabulary", func(t *testing.T) {
		kw := ExtractKeywords("handled cryptocurrency litigation")
		assert.True(t, kw["cryptocurrency"])
		assert.True(t, kw["crypto"])
		assert.True(t, kw["litigation"])
	})

	t.Run("quoted phrases", func(t *testing.T) {
		kw := ExtractKeywords(`experience with "securities fraud" cases`)
		assert.True(t, kw["securities fraud"])
	})

	t.Run("capitalized entities", func(t *testing.T) {
		kw := ExtractKeywords("worked at Skadden Arps before")
		assert.True(t, kw["skadden arps"])
	})

	t.Run("no keywords", func(t *testing.T) {
		assert.Empty(t, ExtractKeywords("good lawyers"))
	})
}

func TestFilterNoKeywordsIsNoOp(t *testing.T) {
	candidates := []types.Candidate{{LawyerID: 1}, {LawyerID: 2}}
	f := NewKeywordFilter(fakeTextSource{}, DefaultFilterPolicy(), nil)

	out, err := f.Filter(context.Background(), candidates, "good lawyers")
	require.NoError(t, err)
	assert.Equal(t, candidates, out)
}

func TestFilterSingleKeywordRequiresOneMatch(t *testing.T) {
	source := fakeTextSource{
		1: "Represented Netflix in licensing disputes.",
		2: "Corporate tax planning for family offices.",
	}
	f := NewKeywordFilter(source, DefaultFilterPolicy(), nil)

	out, err := f.Filter(context.Background(), []types.Candidate{{LawyerID: 1}, {LawyerID: 2}}, "worked with Netflix")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, candidateIDs(out))
}

func TestFilterStrictThresholdForKeywordRichQueries(t *testing.T) {
	// "streaming services litigation Netflix" style query yields >= 3
	// keywords, so two matches are required.
	query := "Netflix streaming litigation experience"
	require.GreaterOrEqual(t, len(ExtractKeywords(query)), 3)

	source := fakeTextSource{}
	var candidates []types.Candidate
	// Six profiles match two keywords so the strict pass keeps enough to
	// avoid the relaxation.
	for i := int64(1); i <= 6; i++ {
		source[i] = "Handled litigation for Netflix."
		candidates = append(candidates, types.Candidate{LawyerID: i})
	}
	source[7] = "Mentioned streaming once in passing."
	candidates = append(candidates, types.Candidate{LawyerID: 7})

	f := NewKeywordFilter(source, DefaultFilterPolicy(), nil)
	out, err := f.Filter(context.Background(), candidates, query)
	require.NoError(t, err)
	assert.NotContains(t, candidateIDs(out), int64(7), "single-match profile should fail the strict threshold")
	assert.Len(t, out, 6)
}

func TestFilterRelaxesWhenTooFewSurvive(t *testing.T) {
	query := "Netflix streaming litigation experience"
	require.GreaterOrEqual(t, len(ExtractKeywords(query)), 3)

	// Only one profile passes the strict two-match bar, which is below the
	// relaxation floor, so single-match profiles come back in.
	source := fakeTextSource{
		1: "Handled litigation for Netflix.",
		2: "Mentioned streaming once.",
		3: "General corporate advice.",
	}
	f := NewKeywordFilter(source, DefaultFilterPolicy(), nil)

	out, err := f.Filter(context.Background(), []types.Candidate{{LawyerID: 1}, {LawyerID: 2}, {LawyerID: 3}}, query)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, candidateIDs(out))
}

func TestFilterFallbackWhenEverythingEliminated(t *testing.T) {
	source := fakeTextSource{}
	var candidates []types.Candidate
	for i := int64(1); i <= 30; i++ {
		source[i] = "Nothing relevant here."
		candidates = append(candidates, types.Candidate{LawyerID: i, Score: float64(30 - i)})
	}

	f := NewKeywordFilter(source, DefaultFilterPolicy(), nil)
	out, err := f.Filter(context.Background(), candidates, "worked with Netflix")
	require.NoError(t, err)

	require.Len(t, out, DefaultFilterPolicy().FallbackSize)
	// Candidates arrive ranked, so the fallback keeps the head of the list.
	assert.Equal(t, int64(1), out[0].LawyerID)
}

func TestFilterKeepsCandidatesWithoutCachedText(t *testing.T) {
	source := fakeTextSource{
		1: "Represented Netflix.",
		// 2 has no cached text at all.
	}
	f := NewKeywordFilter(source, DefaultFilterPolicy(), nil)

	out, err := f.Filter(context.Background(), []types.Candidate{{LawyerID: 1}, {LawyerID: 2}}, "worked with Netflix")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, candidateIDs(out))
}

func TestFilterPolicyZeroValueGetsDefaults(t *testing.T) {
	f := NewKeywordFilter(fakeTextSource{}, FilterPolicy{}, nil)
	assert.Equal(t, DefaultFilterPolicy(), f.policy)
}

func TestFilterPolicyPartialKeepsSetFields(t *testing.T) {
	f := NewKeywordFilter(fakeTextSource{}, FilterPolicy{
		StrictKeywordCount: 2,
		StrictMatches:      1,
	}, nil)

	assert.Equal(t, FilterPolicy{
		StrictKeywordCount: 2,
		StrictMatches:      1,
		RelaxBelow:         5,
		FallbackSize:       20,
	}, f.policy)
}

func ExampleExtractKeywords() {
	kw := ExtractKeywords("lawyers who represented CNN in litigation")
	fmt.Println(len(kw) > 0)
	// Output: true
}
