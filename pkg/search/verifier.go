package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jkim999/lawyer-search-engine/pkg/nlp"
	"github.com/jkim999/lawyer-search-engine/pkg/prompts"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
	"github.com/jkim999/lawyer-search-engine/pkg/utils"
)

const (
	// DefaultJudgeConcurrency matches the sizing the judge stage was
	// tuned with.
	DefaultJudgeConcurrency = 15
	// DefaultJudgeTimeout bounds a single profile evaluation.
	DefaultJudgeTimeout = 30 * time.Second
	// profileTruncateAt keeps the judge prompt inside model context
	// limits.
	profileTruncateAt = 3000
)

// Match is a verified search result: a lawyer the judge confirmed against
// the query, with its rationale.
type Match struct {
	Ref       types.LawyerRef `json:"ref"`
	Rationale string          `json:"rationale,omitempty"`
}

// ProfileSource provides the profile text and identity the judge evaluates.
type ProfileSource interface {
	TextSource
	GetRefs(ctx context.Context, ids []int64) (map[int64]types.LawyerRef, error)
}

// Verifier fans candidate evaluations out over a bounded worker pool and
// collects the verdicts. A failed or timed-out evaluation never fails the
// whole search: the candidate is recorded as not passing with the error as
// its rationale.
type Verifier struct {
	client      nlp.Client
	source      ProfileSource
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

// NewVerifier builds a verifier. concurrency <= 0 and timeout <= 0 select
// the defaults.
func NewVerifier(client nlp.Client, source ProfileSource, concurrency int, timeout time.Duration, logger *slog.Logger) *Verifier {
	if concurrency <= 0 {
		concurrency = DefaultJudgeConcurrency
	}
	if timeout <= 0 {
		timeout = DefaultJudgeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		client:      client,
		source:      source,
		concurrency: concurrency,
		timeout:     timeout,
		logger:      logger,
	}
}

// Verify evaluates every candidate against the query in parallel and
// returns the confirmed matches sorted by display name. Verdicts for all
// candidates, including failures, come back alongside for diagnostics.
func (v *Verifier) Verify(ctx context.Context, query string, candidates []types.Candidate) ([]Match, []types.Verdict, error) {
	if len(candidates) == 0 {
		return nil, nil, nil
	}

	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.LawyerID
	}
	refs, err := v.source.GetRefs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving candidate identities: %w", err)
	}

	pool := utils.NewWorkerPool(v.concurrency, func(ctx context.Context, c types.Candidate) (types.Verdict, error) {
		return v.evaluate(ctx, query, c.LawyerID), nil
	})

	verdicts, _ := pool.ProcessItems(ctx, candidates)

	var matches []Match
	for _, verdict := range verdicts {
		if !verdict.Passed {
			continue
		}
		ref, ok := refs[verdict.LawyerID]
		if !ok {
			continue
		}
		matches = append(matches, Match{Ref: ref, Rationale: verdict.Rationale})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Ref.DisplayName < matches[j].Ref.DisplayName
	})

	v.logger.Info("judge verification complete",
		"candidates", len(candidates), "matches", len(matches))
	return matches, verdicts, nil
}

// evaluate runs one candidate through the judge. All failure modes map to a
// non-passing verdict carrying the reason.
func (v *Verifier) evaluate(ctx context.Context, query string, lawyerID int64) types.Verdict {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	text, err := v.source.CachedText(ctx, lawyerID)
	if err != nil {
		return types.Verdict{
			LawyerID:  lawyerID,
			Passed:    false,
			Rationale: fmt.Sprintf("no profile text available: %v", err),
		}
	}
	if len(text) > profileTruncateAt {
		text = text[:profileTruncateAt]
	}

	resp, err := v.client.Chat(ctx, prompts.JudgeProfile(query, text))
	if err != nil {
		return types.Verdict{
			LawyerID:  lawyerID,
			Passed:    false,
			Rationale: fmt.Sprintf("evaluation failed: %v", err),
		}
	}

	passed, rationale := parseVerdict(resp.Content)
	return types.Verdict{LawyerID: lawyerID, Passed: passed, Rationale: rationale}
}

// parseVerdict reads the tagged answer format, falling back to a repaired
// JSON object for models that ignore the template.
func parseVerdict(response string) (bool, string) {
	answer := nlp.ExtractTag(response, "answer")
	rationale := nlp.ExtractTag(response, "thinking")
	if answer != "" {
		return strings.EqualFold(answer, "pass"), rationale
	}

	if raw := nlp.ExtractJSONFromResponse(response); raw != "" {
		var parsed struct {
			Passed    bool   `json:"passed"`
			Rationale string `json:"rationale"`
		}
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return parsed.Passed, parsed.Rationale
		}
	}

	return false, "judge returned unparseable response"
}
