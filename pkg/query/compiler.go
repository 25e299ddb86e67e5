package query

import (
	"strings"
)

const baseSelect = "SELECT DISTINCT l.id, l.name, l.url FROM lawyers l"

// joins in a fixed order so identical sequences always compile to identical
// SQL.
var joinClauses = []struct {
	table  string
	clause string
}{
	{"lawyers_fts", "INNER JOIN lawyers_fts fts ON l.id = fts.rowid"},
	{"educations", "LEFT JOIN educations e ON l.id = e.lawyer_id"},
	{"practices", "LEFT JOIN practices p ON l.id = p.lawyer_id"},
	{"industries", "LEFT JOIN industries ind ON l.id = ind.lawyer_id"},
	{"regions", "LEFT JOIN regions r ON l.id = r.lawyer_id"},
	{"languages", "LEFT JOIN languages lang ON l.id = lang.lawyer_id"},
}

// Compile translates a predicate sequence into a parameterized SQL query.
//
// The compiler does not validate: predicates with unrecognized
// field/operator combinations are dropped silently, and two consecutive
// predicates with no explicit connective get an implicit AND. An empty
// sequence compiles to the all-lawyers query. Results are deduplicated on
// lawyer identity and ordered by display name.
func Compile(seq Sequence, resolver AliasResolver) CompiledQuery {
	if len(seq) == 0 {
		return CompiledQuery{Text: baseSelect + " ORDER BY l.name"}
	}

	var whereParts []string
	var params []any
	joins := make(map[string]bool)

	appendCondition := func(condition string) {
		if len(whereParts) > 0 {
			last := whereParts[len(whereParts)-1]
			if last != string(ConnAnd) && last != string(ConnOr) && last != string(ConnNot) {
				whereParts = append(whereParts, string(ConnAnd))
			}
		}
		whereParts = append(whereParts, condition)
	}

	for _, node := range seq {
		if node.IsConnective() {
			whereParts = append(whereParts, string(node.Connective))
			continue
		}

		condition, conditionParams, join := compilePredicate(node, resolver)
		if condition == "" {
			continue
		}
		if join != "" {
			joins[join] = true
		}
		appendCondition(condition)
		params = append(params, conditionParams...)
	}

	// A trailing or orphaned connective with no following predicate would
	// produce invalid SQL; drop it.
	for len(whereParts) > 0 {
		last := whereParts[len(whereParts)-1]
		if last == string(ConnAnd) || last == string(ConnOr) || last == string(ConnNot) {
			whereParts = whereParts[:len(whereParts)-1]
			continue
		}
		break
	}

	var sb strings.Builder
	sb.WriteString(baseSelect)
	for _, j := range joinClauses {
		if joins[j.table] {
			sb.WriteString(" ")
			sb.WriteString(j.clause)
		}
	}
	if len(whereParts) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(whereParts, " "))
	}
	sb.WriteString(" ORDER BY l.name")

	return CompiledQuery{Text: sb.String(), Params: params}
}

// compilePredicate returns the SQL condition, its parameters, and the join
// table the condition depends on. An empty condition means the predicate was
// not recognized and is dropped.
func compilePredicate(node Node, resolver AliasResolver) (string, []any, string) {
	value := node.Value

	switch node.Field {
	case FieldName:
		// Whole-token matching through FTS so "alon" never matches
		// inside "Malone".
		switch node.Op {
		case OpContains:
			tokens := strings.Join(strings.Fields(toString(value)), " ")
			return "fts.full_name MATCH ?", []any{tokens}, "lawyers_fts"
		case OpEquals:
			phrase := `"` + toString(value) + `"`
			return "fts.full_name MATCH ?", []any{phrase}, "lawyers_fts"
		}

	case FieldTitle:
		switch node.Op {
		case OpEquals:
			return "l.title = ?", []any{value}, ""
		case OpContains:
			return "l.title LIKE ?", []any{like(value)}, ""
		}

	case FieldSchool:
		// Match raw and normalized stored values; the alias resolver may
		// not know the variant a given profile was stored with.
		normalized := toString(value)
		if resolver != nil {
			normalized = resolver.NormalizeSchool(normalized)
		}
		switch node.Op {
		case OpContains:
			return "(e.school_name LIKE ? OR e.school_normalized LIKE ?)",
				[]any{like(value), "%" + normalized + "%"}, "educations"
		case OpEquals:
			return "(e.school_name = ? OR e.school_normalized = ?)",
				[]any{value, normalized}, "educations"
		}

	case FieldLawYear:
		// Graduation comparisons always mean the qualifying law degree,
		// never undergraduate or other degrees on record.
		var cmp string
		switch node.Op {
		case OpGreaterThan:
			cmp = ">"
		case OpLessThan:
			cmp = "<"
		case OpAtLeast:
			cmp = ">="
		case OpAtMost:
			cmp = "<="
		case OpEquals:
			cmp = "="
		default:
			return "", nil, ""
		}
		return "(e.year " + cmp + " ? AND e.is_law_degree = 1)", []any{value}, "educations"

	case FieldPractice:
		switch node.Op {
		case OpEquals:
			return "p.practice_type = ?", []any{value}, "practices"
		case OpContains:
			return "p.practice_type LIKE ?", []any{like(value)}, "practices"
		}

	case FieldIndustry:
		switch node.Op {
		case OpEquals:
			return "ind.industry = ?", []any{value}, "industries"
		case OpContains:
			return "ind.industry LIKE ?", []any{like(value)}, "industries"
		}

	case FieldRegion:
		switch node.Op {
		case OpEquals:
			return "r.region = ?", []any{value}, "regions"
		case OpContains:
			return "r.region LIKE ?", []any{like(value)}, "regions"
		}

	case FieldLanguage:
		switch node.Op {
		case OpEquals:
			return "LOWER(lang.language) = LOWER(?)", []any{value}, "languages"
		case OpContains:
			return "LOWER(lang.language) LIKE LOWER(?)", []any{like(value)}, "languages"
		}
	}

	return "", nil, ""
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func like(v any) string {
	return "%" + toString(v) + "%"
}
