package query

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jkim999/lawyer-search-engine/pkg/nlp"
	"github.com/jkim999/lawyer-search-engine/pkg/prompts"
)

// Strategy labels how a query should be resolved.
type Strategy string

const (
	// StrategyStructured resolves through parse and SQL compilation.
	StrategyStructured Strategy = "structured"
	// StrategySemantic resolves through embedding retrieval and judging.
	StrategySemantic Strategy = "semantic"
)

// Lexical signals strongly indicative of structured intent: explicit
// attribute phrasing the parser knows how to extract.
var structuredSignals = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bnamed?\s+[a-z]`),
	regexp.MustCompile(`(?i)\b(managing\s+)?partners?\b`),
	regexp.MustCompile(`(?i)\bassociates?\b`),
	regexp.MustCompile(`(?i)\b(of\s+|senior\s+)?counsel\b`),
	regexp.MustCompile(`(?i)\bwent\s+to\b`),
	regexp.MustCompile(`(?i)\bgraduated\b`),
	regexp.MustCompile(`(?i)\blaw\s+school\b`),
	regexp.MustCompile(`(?i)\bspeaks?\b`),
	regexp.MustCompile(`(?i)\blanguage\b`),
	regexp.MustCompile(`(?i)\bregion\b`),
	regexp.MustCompile(`(?i)\btitle\s+is\b`),
	regexp.MustCompile(`(?i)\bpractice\b`),
	regexp.MustCompile(`(?i)\bin\s+(asia|china|japan|europe|latin\s+america|israel)\b`),
}

// Signals indicative of semantic intent: references to experience, deals,
// litigation, or concrete organizations that only live in free text.
var semanticSignals = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bworked\s+(with|on|for)\b`),
	regexp.MustCompile(`(?i)\brepresent(ed|ing|s)?\b`),
	regexp.MustCompile(`(?i)\bexperienced?\s+(with|in)\b`),
	regexp.MustCompile(`(?i)\badvis(ed|ing|es)\b`),
	regexp.MustCompile(`(?i)\bhandled\b`),
	regexp.MustCompile(`(?i)\bdefended\b`),
	regexp.MustCompile(`(?i)\bprosecut(ed|ing)\b`),
	regexp.MustCompile(`(?i)\bhelped\b`),
	regexp.MustCompile(`(?i)\b(deal|deals|merger|mergers|acquisition|acquisitions|ipos?)\b`),
	regexp.MustCompile(`(?i)\b(litigation|lawsuit|case\s+for|cases\s+for)\b`),
	regexp.MustCompile(`(?i)\b(company|companies|startup|startups|client|clients)\b`),
	regexp.MustCompile(`(?i)\b(streaming|pharmaceutical|cryptocurrency|fintech)\b`),
	regexp.MustCompile(`(?i)\b(tv\s+network|fortune\s+500)\b`),
}

// Classifier decides which resolution strategy a query takes. Deterministic
// lexical signals are consulted first; only genuinely ambiguous queries
// reach the LLM.
type Classifier struct {
	client nlp.Client
	logger *slog.Logger
}

// NewClassifier builds a classifier. client may be nil, in which case
// ambiguous queries default to the semantic strategy.
func NewClassifier(client nlp.Client, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{client: client, logger: logger}
}

// Classify returns the resolution strategy for query. Semantic signals take
// precedence over structured ones: missing a free-text match is worse than
// running the more expensive pipeline on a lookup query.
func (c *Classifier) Classify(ctx context.Context, query string) Strategy {
	if matchesAny(semanticSignals, query) {
		return StrategySemantic
	}
	if matchesAny(structuredSignals, query) {
		return StrategyStructured
	}
	return c.classifyWithLLM(ctx, query)
}

func matchesAny(signals []*regexp.Regexp, query string) bool {
	for _, re := range signals {
		if re.MatchString(query) {
			return true
		}
	}
	return false
}

func (c *Classifier) classifyWithLLM(ctx context.Context, query string) Strategy {
	if c.client == nil {
		return StrategySemantic
	}

	resp, err := c.client.Chat(ctx, prompts.ClassifyQuery(query))
	if err != nil {
		c.logger.Warn("query classification failed, defaulting to semantic",
			"error", err)
		return StrategySemantic
	}

	label := strings.ToLower(strings.TrimSpace(nlp.RemoveThinkTags(resp.Content)))
	switch label {
	case string(StrategyStructured):
		return StrategyStructured
	case string(StrategySemantic):
		return StrategySemantic
	default:
		c.logger.Warn("query classifier returned unexpected label, defaulting to semantic",
			"label", label)
		return StrategySemantic
	}
}
