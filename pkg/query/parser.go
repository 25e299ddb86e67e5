package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Parser turns a natural-language query into a predicate sequence using a
// small ordered set of independent extraction rules. Each rule consumes the
// slice of the query it matched, so later rules never re-match text an
// earlier rule already claimed.
type Parser struct {
	practiceAliases map[string]string
}

// NewParser builds a parser. practiceAliases maps lowercased practice-area
// aliases to their canonical names and may be nil.
func NewParser(practiceAliases map[string]string) *Parser {
	return &Parser{practiceAliases: practiceAliases}
}

var andSplitRe = regexp.MustCompile(`(?i)\s+and\s+`)

// Parse extracts structured predicates from query. Conjunctions are split
// first so that each "and"-separated clause is parsed on its own, then the
// clause sequences are joined with explicit AND connectives.
func (p *Parser) Parse(query string) Sequence {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	parts := andSplitRe.Split(query, -1)
	if len(parts) > 1 {
		var seq Sequence
		for _, part := range parts {
			clause := p.parseClause(strings.TrimSpace(part))
			if len(clause) == 0 {
				continue
			}
			if len(seq) > 0 {
				seq = append(seq, And())
			}
			seq = append(seq, clause...)
		}
		return seq
	}

	return p.parseClause(query)
}

type extraction struct {
	re      *regexp.Regexp
	apply   func(p *Parser, groups []string) (Node, bool)
	capture int
}

var temporalRules = []struct {
	re *regexp.Regexp
	op Operator
}{
	{regexp.MustCompile(`(?i)graduated\s+after\s+(\d{4})`), OpGreaterThan},
	{regexp.MustCompile(`(?i)graduated\s+before\s+(\d{4})`), OpLessThan},
	{regexp.MustCompile(`(?i)graduated\s+in\s+(\d{4})`), OpEquals},
	{regexp.MustCompile(`(?i)graduated\s+(\d{4})`), OpEquals},
	{regexp.MustCompile(`(?i)law\s+school\s+after\s+(\d{4})`), OpGreaterThan},
	{regexp.MustCompile(`(?i)law\s+school\s+before\s+(\d{4})`), OpLessThan},
	{regexp.MustCompile(`(?i)law\s+school\s+in\s+(\d{4})`), OpEquals},
}

var nameRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)lawyers?\s+named\s+([a-z\s]+)`),
	regexp.MustCompile(`(?i)name\s+is\s+([a-z\s]+)`),
	regexp.MustCompile(`(?i)name\s+([a-z\s]+)`),
}

var schoolRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)went\s+to\s+([a-z\s]+)`),
	regexp.MustCompile(`(?i)graduated\s+from\s+([a-z\s]+)`),
	regexp.MustCompile(`(?i)school\s+is\s+([a-z\s]+)`),
	regexp.MustCompile(`(?i)from\s+([a-z\s]+)`),
}

var schoolStopRe = regexp.MustCompile(`(?i)\b(and|the|a|an)\b`)

// Title rules run longest-match first so "managing partners" never degrades
// to a bare Partner predicate.
var titleRules = []struct {
	re    *regexp.Regexp
	title string
}{
	{regexp.MustCompile(`(?i)\bmanaging\s+partners?\b`), "Managing Partner"},
	{regexp.MustCompile(`(?i)\bsenior\s+partners?\b`), "Senior Partner"},
	{regexp.MustCompile(`(?i)\bsenior\s+counsel\b`), "Senior Counsel"},
	{regexp.MustCompile(`(?i)\bof\s+counsel\b`), "Of Counsel"},
	{regexp.MustCompile(`(?i)\bco-?heads?\b`), "Co-Head"},
	{regexp.MustCompile(`(?i)\bpartners?\b`), "Partner"},
	{regexp.MustCompile(`(?i)\bcounsel\b`), "Counsel"},
	{regexp.MustCompile(`(?i)\bassociates?\b`), "Associate"},
	{regexp.MustCompile(`(?i)\bheads?\b`), "Head"},
}

var titleIsRe = regexp.MustCompile(`(?i)title\s+is\s+([a-z\s\-]+)`)

// Region rules run before practice rules: the practice "in <x>" pattern is
// greedy enough to swallow geographic phrases like "in Asia" otherwise.
var regionRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bin\s+(asia|china|japan|europe|latin\s+america|israel)\b`),
	regexp.MustCompile(`(?i)region\s+is\s+([a-z\s]+)`),
}

var languageRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)lawyers?\s+who\s+speak\s+([a-z\s\-]+)`),
	regexp.MustCompile(`(?i)\bspeaks?\s+([a-z\s\-]+)`),
	regexp.MustCompile(`(?i)language\s+is\s+([a-z\s\-]+)`),
	regexp.MustCompile(`(?i)languages?\s+([a-z\s\-]+)`),
}

var practiceRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)practice\s+type\s+is\s+([a-z\s&]+)`),
	regexp.MustCompile(`(?i)practices?\s+([a-z\s&]+)`),
	regexp.MustCompile(`(?i)lawyers?\s+in\s+([a-z\s&]+)`),
	regexp.MustCompile(`(?i)\bin\s+([a-z\s&]+)`),
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"who": true, "that": true, "is": true, "are": true,
	"lawyers": true, "lawyer": true,
}

// parseClause applies the extraction rules in a fixed order to a single
// conjunction-free clause.
func (p *Parser) parseClause(clause string) Sequence {
	var seq Sequence
	rest := clause

	for _, rule := range temporalRules {
		if m := rule.re.FindStringSubmatch(rest); m != nil {
			year, err := strconv.Atoi(m[1])
			if err == nil {
				seq = append(seq, Predicate(FieldLawYear, rule.op, year))
				rest = consume(rest, rule.re)
			}
			break
		}
	}

	for _, re := range nameRules {
		if m := re.FindStringSubmatch(rest); m != nil {
			name := strings.TrimSpace(m[1])
			if name != "" {
				seq = append(seq, Predicate(FieldName, OpContains, name))
				rest = consume(rest, re)
			}
			break
		}
	}

	for _, re := range schoolRules {
		if m := re.FindStringSubmatch(rest); m != nil {
			school := strings.TrimSpace(schoolStopRe.ReplaceAllString(m[1], ""))
			school = strings.Join(strings.Fields(school), " ")
			if school != "" {
				seq = append(seq, Predicate(FieldSchool, OpContains, school))
				rest = consume(rest, re)
			}
			break
		}
	}

	for _, rule := range titleRules {
		if rule.re.MatchString(rest) {
			seq = append(seq, Predicate(FieldTitle, OpEquals, rule.title))
			rest = consume(rest, rule.re)
			break
		}
	}
	if !seq.HasField(FieldTitle) {
		if m := titleIsRe.FindStringSubmatch(rest); m != nil {
			seq = append(seq, Predicate(FieldTitle, OpEquals, titleCase(m[1])))
			rest = consume(rest, titleIsRe)
		}
	}

	for _, re := range regionRules {
		if m := re.FindStringSubmatch(rest); m != nil {
			region := strings.TrimSpace(m[1])
			if strings.Contains(strings.ToLower(region), "latin america") {
				region = "Latin America"
			} else {
				region = titleCase(region)
			}
			seq = append(seq, Predicate(FieldRegion, OpEquals, region))
			rest = consume(rest, re)
			break
		}
	}

	for _, re := range languageRules {
		if m := re.FindStringSubmatch(rest); m != nil {
			lang := strings.TrimSpace(m[1])
			if lang != "" {
				seq = append(seq, Predicate(FieldLanguage, OpContains, lang))
				rest = consume(rest, re)
			}
			break
		}
	}

	for _, re := range practiceRules {
		if m := re.FindStringSubmatch(rest); m != nil {
			practice := strings.TrimSpace(m[1])
			if practice == "" {
				break
			}
			if canonical, ok := p.practiceAliases[strings.ToLower(practice)]; ok {
				practice = canonical
			} else {
				practice = titleCase(practice)
			}
			seq = append(seq, Predicate(FieldPractice, OpEquals, practice))
			rest = consume(rest, re)
			break
		}
	}

	// Nothing matched: fall back to a name search over whatever content
	// words remain, so a bare "David" still resolves.
	if len(seq) == 0 {
		var keywords []string
		for _, w := range strings.Fields(clause) {
			if !stopWords[strings.ToLower(w)] && len(w) > 2 {
				keywords = append(keywords, w)
			}
		}
		if len(keywords) > 0 {
			seq = append(seq, Predicate(FieldName, OpContains, strings.Join(keywords, " ")))
		}
	}

	return seq
}

func consume(s string, re *regexp.Regexp) string {
	return strings.TrimSpace(re.ReplaceAllString(s, " "))
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
