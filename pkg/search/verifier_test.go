package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkim999/lawyer-search-engine/pkg/store"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

// judgeFunc lets each test script the judge's behavior per profile text.
type judgeFunc func(messages []types.Message) (string, error)

type fakeJudge struct {
	fn judgeFunc
}

func (f *fakeJudge) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	content, err := f.fn(messages)
	if err != nil {
		return nil, err
	}
	return &types.Response{Content: content}, nil
}

func (f *fakeJudge) Close() error { return nil }

type fakeProfileSource struct {
	texts map[int64]string
	refs  map[int64]types.LawyerRef
}

func (f *fakeProfileSource) CachedText(ctx context.Context, lawyerID int64) (string, error) {
	text, ok := f.texts[lawyerID]
	if !ok {
		return "", store.ErrNoCachedText
	}
	return text, nil
}

func (f *fakeProfileSource) GetRefs(ctx context.Context, ids []int64) (map[int64]types.LawyerRef, error) {
	return f.refs, nil
}

func passFor(substr string) judgeFunc {
	return func(messages []types.Message) (string, error) {
		profile := messages[len(messages)-1].Content
		if strings.Contains(profile, substr) {
			return "<thinking>relevant work found</thinking><answer>Pass</answer>", nil
		}
		return "<thinking>no relevant work</thinking><answer>Fail</answer>", nil
	}
}

func newSource(n int) *fakeProfileSource {
	source := &fakeProfileSource{
		texts: make(map[int64]string),
		refs:  make(map[int64]types.LawyerRef),
	}
	names := []string{"Ava", "Ben", "Cara", "Dan", "Elle", "Finn", "Gia", "Hal", "Ivy", "Jon"}
	for i := 0; i < n; i++ {
		id := int64(i + 1)
		source.texts[id] = "General corporate practice."
		source.refs[id] = types.LawyerRef{ID: id, DisplayName: names[i%len(names)]}
	}
	return source
}

func toCandidates(ids ...int64) []types.Candidate {
	out := make([]types.Candidate, len(ids))
	for i, id := range ids {
		out[i] = types.Candidate{LawyerID: id}
	}
	return out
}

func TestVerifyPassingMatchesOnly(t *testing.T) {
	source := newSource(3)
	source.texts[2] = "Represented Netflix in streaming litigation."

	v := NewVerifier(&fakeJudge{fn: passFor("Netflix")}, source, 2, 0, nil)
	matches, verdicts, err := v.Verify(context.Background(), "worked with Netflix", toCandidates(1, 2, 3))

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].Ref.ID)
	assert.Equal(t, "relevant work found", matches[0].Rationale)
	assert.Len(t, verdicts, 3)
}

func TestVerifySortsMatchesByName(t *testing.T) {
	source := &fakeProfileSource{
		texts: map[int64]string{
			1: "Netflix work.",
			2: "Netflix work.",
			3: "Netflix work.",
		},
		refs: map[int64]types.LawyerRef{
			1: {ID: 1, DisplayName: "Zoe Adams"},
			2: {ID: 2, DisplayName: "Amy Brooks"},
			3: {ID: 3, DisplayName: "Mia Chen"},
		},
	}

	v := NewVerifier(&fakeJudge{fn: passFor("Netflix")}, source, 3, 0, nil)
	matches, _, err := v.Verify(context.Background(), "worked with Netflix", toCandidates(1, 2, 3))

	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "Amy Brooks", matches[0].Ref.DisplayName)
	assert.Equal(t, "Mia Chen", matches[1].Ref.DisplayName)
	assert.Equal(t, "Zoe Adams", matches[2].Ref.DisplayName)
}

func TestVerifyJudgeFailureDoesNotFailSearch(t *testing.T) {
	source := newSource(10)
	for id := range source.texts {
		source.texts[id] = "Netflix work."
	}

	var calls int
	fn := func(messages []types.Message) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("model overloaded")
		}
		return "<thinking>ok</thinking><answer>Pass</answer>", nil
	}

	// Serial execution so exactly the first evaluation fails.
	v := NewVerifier(&fakeJudge{fn: fn}, source, 1, 0, nil)
	matches, verdicts, err := v.Verify(context.Background(), "worked with Netflix", toCandidates(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))

	require.NoError(t, err)
	assert.Len(t, matches, 9)
	require.Len(t, verdicts, 10)

	failed := 0
	for _, verdict := range verdicts {
		if !verdict.Passed {
			failed++
			assert.Contains(t, verdict.Rationale, "evaluation failed")
		}
	}
	assert.Equal(t, 1, failed)
}

func TestVerifyMissingProfileTextFailsCandidate(t *testing.T) {
	source := newSource(2)
	delete(source.texts, 2)
	source.texts[1] = "Netflix work."

	v := NewVerifier(&fakeJudge{fn: passFor("Netflix")}, source, 2, 0, nil)
	matches, verdicts, err := v.Verify(context.Background(), "worked with Netflix", toCandidates(1, 2))

	require.NoError(t, err)
	assert.Len(t, matches, 1)

	for _, verdict := range verdicts {
		if verdict.LawyerID == 2 {
			assert.False(t, verdict.Passed)
			assert.Contains(t, verdict.Rationale, "no profile text available")
		}
	}
}

func TestVerifyJSONFallbackParsing(t *testing.T) {
	source := newSource(1)

	fn := func(messages []types.Message) (string, error) {
		return `{"passed": true, "rationale": "explicit Netflix engagement"}`, nil
	}
	v := NewVerifier(&fakeJudge{fn: fn}, source, 1, 0, nil)

	matches, _, err := v.Verify(context.Background(), "worked with Netflix", toCandidates(1))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "explicit Netflix engagement", matches[0].Rationale)
}

func TestVerifyUnparseableResponseFails(t *testing.T) {
	source := newSource(1)

	fn := func(messages []types.Message) (string, error) {
		return "I am not sure what you want from me", nil
	}
	v := NewVerifier(&fakeJudge{fn: fn}, source, 1, 0, nil)

	matches, verdicts, err := v.Verify(context.Background(), "anything", toCandidates(1))
	require.NoError(t, err)
	assert.Empty(t, matches)
	require.Len(t, verdicts, 1)
	assert.False(t, verdicts[0].Passed)
	assert.Equal(t, "judge returned unparseable response", verdicts[0].Rationale)
}

func TestVerifyNoCandidates(t *testing.T) {
	v := NewVerifier(&fakeJudge{fn: passFor("x")}, newSource(0), 1, 0, nil)
	matches, verdicts, err := v.Verify(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Nil(t, matches)
	assert.Nil(t, verdicts)
}

func TestParseVerdict(t *testing.T) {
	t.Run("pass answer", func(t *testing.T) {
		passed, rationale := parseVerdict("<thinking>found it</thinking><answer>Pass</answer>")
		assert.True(t, passed)
		assert.Equal(t, "found it", rationale)
	})

	t.Run("fail answer", func(t *testing.T) {
		passed, _ := parseVerdict("<thinking>nope</thinking><answer>Fail</answer>")
		assert.False(t, passed)
	})

	t.Run("case insensitive answer", func(t *testing.T) {
		passed, _ := parseVerdict("<answer>PASS</answer>")
		assert.True(t, passed)
	})

	t.Run("json fallback", func(t *testing.T) {
		passed, rationale := parseVerdict(`{"passed": false, "rationale": "generalist"}`)
		assert.False(t, passed)
		assert.Equal(t, "generalist", rationale)
	})
}
