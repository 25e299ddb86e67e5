package search

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/jkim999/lawyer-search-engine/pkg/store"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

// Named-entity patterns worth matching case-insensitively: TV networks,
// streaming services, big tech, banks, pharma.
var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:CNN|NBC|Fox|ABC|CBS|HBO|ESPN|MTV)\b`),
	regexp.MustCompile(`(?i)\b(?:Netflix|Hulu|Disney\+?|Amazon\s*Prime|Apple\s*TV)\b`),
	regexp.MustCompile(`(?i)\b(?:Google|Apple|Microsoft|Amazon|Facebook|Meta|Tesla)\b`),
	regexp.MustCompile(`(?i)\b(?:Goldman\s*Sachs|JPMorgan|Morgan\s*Stanley|Bank\s*of\s*America)\b`),
	regexp.MustCompile(`(?i)\b(?:Pfizer|Moderna|Johnson\s*&\s*Johnson|Merck)\b`),
}

var industryKeywords = []string{
	"television", "broadcast", "tv", "network", "media", "streaming",
	"cryptocurrency", "crypto", "bitcoin", "blockchain", "digital asset",
	"pharmaceutical", "pharma", "drug", "clinical", "fda",
	"technology", "tech", "software", "startup",
	"ipo", "public offering", "merger", "acquisition",
	"litigation", "lawsuit", "dispute", "court", "trial",
	"fortune 500", "fortune500",
}

var (
	quotedPhraseRe = regexp.MustCompile(`"([^"]+)"`)
	capitalizedRe  = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\b`)
)

// ExtractKeywords pulls filter-worthy terms out of a free-text query:
// known company names, industry vocabulary, quoted phrases, and
// capitalized multi-word entities. All keywords are lowercased.
func ExtractKeywords(query string) map[string]bool {
	keywords := make(map[string]bool)

	for _, re := range companyPatterns {
		for _, m := range re.FindAllString(query, -1) {
			keywords[strings.ToLower(m)] = true
		}
	}

	queryLower := strings.ToLower(query)
	for _, kw := range industryKeywords {
		if strings.Contains(queryLower, kw) {
			keywords[kw] = true
		}
	}

	for _, m := range quotedPhraseRe.FindAllStringSubmatch(query, -1) {
		keywords[strings.ToLower(strings.TrimSpace(m[1]))] = true
	}

	for _, m := range capitalizedRe.FindAllStringSubmatch(query, -1) {
		keywords[strings.ToLower(m[1])] = true
	}

	return keywords
}

// FilterPolicy tunes the adaptive thresholds of the keyword pre-filter.
type FilterPolicy struct {
	// StrictKeywordCount is the keyword count at which filtering requires
	// StrictMatches instead of a single match.
	StrictKeywordCount int
	// StrictMatches is the match threshold applied to keyword-rich queries.
	StrictMatches int
	// RelaxBelow relaxes the strict threshold back to one match when
	// fewer than this many candidates survive.
	RelaxBelow int
	// FallbackSize caps the fallback slice returned when filtering
	// eliminates every candidate.
	FallbackSize int
}

// DefaultFilterPolicy matches the tuning the judge stage was sized for.
func DefaultFilterPolicy() FilterPolicy {
	return FilterPolicy{
		StrictKeywordCount: 3,
		StrictMatches:      2,
		RelaxBelow:         5,
		FallbackSize:       20,
	}
}

// withDefaults fills unset fields one by one, so a partially specified
// policy keeps the thresholds the caller did set.
func (p FilterPolicy) withDefaults() FilterPolicy {
	def := DefaultFilterPolicy()
	if p.StrictKeywordCount <= 0 {
		p.StrictKeywordCount = def.StrictKeywordCount
	}
	if p.StrictMatches <= 0 {
		p.StrictMatches = def.StrictMatches
	}
	if p.RelaxBelow <= 0 {
		p.RelaxBelow = def.RelaxBelow
	}
	if p.FallbackSize <= 0 {
		p.FallbackSize = def.FallbackSize
	}
	return p
}

// TextSource provides the cached profile text candidates are matched
// against.
type TextSource interface {
	CachedText(ctx context.Context, lawyerID int64) (string, error)
}

// KeywordFilter cheaply narrows semantic candidates before the expensive
// LLM judge runs.
type KeywordFilter struct {
	source TextSource
	policy FilterPolicy
	logger *slog.Logger
}

// NewKeywordFilter builds a keyword pre-filter with the given policy.
func NewKeywordFilter(source TextSource, policy FilterPolicy, logger *slog.Logger) *KeywordFilter {
	policy = policy.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &KeywordFilter{source: source, policy: policy, logger: logger}
}

// Filter narrows candidates by keyword matches against their cached text.
// Thresholds adapt to how specific the query is: keyword-rich queries
// require multiple matches but relax when too few survive, and a filter
// that eliminates everything falls back to the top candidates so the judge
// always has something to work with. Candidates with no cached text are
// kept.
func (f *KeywordFilter) Filter(ctx context.Context, candidates []types.Candidate, query string) ([]types.Candidate, error) {
	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return candidates, nil
	}

	var filtered []types.Candidate
	var err error
	if len(keywords) >= f.policy.StrictKeywordCount {
		filtered, err = f.filterByMatches(ctx, candidates, keywords, f.policy.StrictMatches)
		if err != nil {
			return nil, err
		}
		if len(filtered) < f.policy.RelaxBelow {
			filtered, err = f.filterByMatches(ctx, candidates, keywords, 1)
			if err != nil {
				return nil, err
			}
		}
	} else {
		filtered, err = f.filterByMatches(ctx, candidates, keywords, 1)
		if err != nil {
			return nil, err
		}
	}

	if len(filtered) == 0 && len(candidates) > 0 {
		n := f.policy.FallbackSize
		if n > len(candidates) {
			n = len(candidates)
		}
		f.logger.Debug("keyword filter eliminated all candidates, falling back",
			"fallback_size", n)
		return candidates[:n], nil
	}

	f.logger.Debug("keyword filter complete",
		"keywords", sortedKeys(keywords), "in", len(candidates), "out", len(filtered))
	return filtered, nil
}

func (f *KeywordFilter) filterByMatches(ctx context.Context, candidates []types.Candidate, keywords map[string]bool, minMatches int) ([]types.Candidate, error) {
	var kept []types.Candidate
	for _, c := range candidates {
		text, err := f.source.CachedText(ctx, c.LawyerID)
		if errors.Is(err, store.ErrNoCachedText) {
			kept = append(kept, c)
			continue
		}
		if err != nil {
			return nil, err
		}

		textLower := strings.ToLower(text)
		matches := 0
		for kw := range keywords {
			if strings.Contains(textLower, kw) {
				matches++
			}
		}
		if matches >= minMatches {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
