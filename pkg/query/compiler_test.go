package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver map[string]string

func (r fakeResolver) NormalizeSchool(name string) string {
	if canonical, ok := r[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

func TestCompileEmptySequence(t *testing.T) {
	q := Compile(nil, nil)
	assert.Equal(t, "SELECT DISTINCT l.id, l.name, l.url FROM lawyers l ORDER BY l.name", q.Text)
	assert.Empty(t, q.Params)
}

func TestCompileNamePredicate(t *testing.T) {
	t.Run("contains uses whole-token match", func(t *testing.T) {
		q := Compile(Sequence{Predicate(FieldName, OpContains, "john  smith")}, nil)
		assert.Contains(t, q.Text, "INNER JOIN lawyers_fts fts ON l.id = fts.rowid")
		assert.Contains(t, q.Text, "WHERE fts.full_name MATCH ?")
		assert.Equal(t, []any{"john smith"}, q.Params)
	})

	t.Run("equals uses a quoted phrase", func(t *testing.T) {
		q := Compile(Sequence{Predicate(FieldName, OpEquals, "John Smith")}, nil)
		assert.Equal(t, []any{`"John Smith"`}, q.Params)
	})
}

func TestCompileSchoolPredicate(t *testing.T) {
	resolver := fakeResolver{"yale": "Yale University"}
	q := Compile(Sequence{Predicate(FieldSchool, OpContains, "yale")}, resolver)

	assert.Contains(t, q.Text, "LEFT JOIN educations e ON l.id = e.lawyer_id")
	assert.Contains(t, q.Text, "(e.school_name LIKE ? OR e.school_normalized LIKE ?)")
	assert.Equal(t, []any{"%yale%", "%Yale University%"}, q.Params)
}

func TestCompileSchoolWithoutResolver(t *testing.T) {
	q := Compile(Sequence{Predicate(FieldSchool, OpEquals, "Harvard")}, nil)
	assert.Equal(t, []any{"Harvard", "Harvard"}, q.Params)
}

func TestCompileLawYearRestrictsToLawDegree(t *testing.T) {
	for op, cmp := range map[Operator]string{
		OpGreaterThan: ">",
		OpLessThan:    "<",
		OpAtLeast:     ">=",
		OpAtMost:      "<=",
		OpEquals:      "=",
	} {
		q := Compile(Sequence{Predicate(FieldLawYear, op, 2015)}, nil)
		assert.Contains(t, q.Text, "(e.year "+cmp+" ? AND e.is_law_degree = 1)", "op %s", op)
		assert.Equal(t, []any{2015}, q.Params)
	}
}

func TestCompileImplicitAnd(t *testing.T) {
	seq := Sequence{
		Predicate(FieldTitle, OpEquals, "Partner"),
		Predicate(FieldRegion, OpEquals, "Asia"),
	}
	q := Compile(seq, nil)
	assert.Contains(t, q.Text, "l.title = ? AND r.region = ?")
	assert.Equal(t, []any{"Partner", "Asia"}, q.Params)
}

func TestCompileExplicitConnectives(t *testing.T) {
	seq := Sequence{
		Predicate(FieldPractice, OpEquals, "Tax"),
		Or(),
		Predicate(FieldPractice, OpEquals, "Litigation"),
	}
	q := Compile(seq, nil)
	assert.Contains(t, q.Text, "p.practice_type = ? OR p.practice_type = ?")
}

func TestCompileTrailingConnectiveDropped(t *testing.T) {
	seq := Sequence{
		Predicate(FieldTitle, OpEquals, "Partner"),
		And(),
	}
	q := Compile(seq, nil)
	assert.True(t, strings.HasSuffix(q.Text, "l.title = ? ORDER BY l.name"), q.Text)
}

func TestCompileDropsUnrecognizedPredicates(t *testing.T) {
	seq := Sequence{
		Predicate(Field("bogus"), OpEquals, "x"),
		Predicate(FieldTitle, OpEquals, "Partner"),
	}
	q := Compile(seq, nil)
	assert.Contains(t, q.Text, "WHERE l.title = ?")
	assert.Equal(t, []any{"Partner"}, q.Params)
}

func TestCompileDeduplicatesJoins(t *testing.T) {
	seq := Sequence{
		Predicate(FieldSchool, OpContains, "Yale"),
		Predicate(FieldLawYear, OpGreaterThan, 2010),
	}
	q := Compile(seq, nil)
	assert.Equal(t, 1, strings.Count(q.Text, "LEFT JOIN educations"))
}

func TestCompileLanguageCaseInsensitive(t *testing.T) {
	q := Compile(Sequence{Predicate(FieldLanguage, OpEquals, "Spanish")}, nil)
	assert.Contains(t, q.Text, "LOWER(lang.language) = LOWER(?)")
}

func TestCompileOrdersByName(t *testing.T) {
	seq := Sequence{Predicate(FieldTitle, OpEquals, "Associate")}
	q := Compile(seq, nil)
	assert.True(t, strings.HasSuffix(q.Text, "ORDER BY l.name"))
	assert.True(t, strings.HasPrefix(q.Text, "SELECT DISTINCT l.id, l.name, l.url"))
}
