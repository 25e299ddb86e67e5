// Package query implements the structured half of the resolution pipeline:
// the rule/LLM query classifier, the natural-language predicate parser, and
// the compiler from predicate sequences to parameterized SQL.
package query

// Field names a structured attribute a predicate can constrain.
type Field string

const (
	FieldName     Field = "name"
	FieldTitle    Field = "title"
	FieldSchool   Field = "school"
	FieldLawYear  Field = "law_school_year"
	FieldPractice Field = "practice"
	FieldIndustry Field = "industry"
	FieldRegion   Field = "region"
	FieldLanguage Field = "language"
)

// Operator is a predicate comparison operator.
type Operator string

const (
	OpEquals      Operator = "eq"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "gt"
	OpLessThan    Operator = "lt"
	OpAtLeast     Operator = "gte"
	OpAtMost      Operator = "lte"
)

// Connective is a boolean operator between predicates.
type Connective string

const (
	ConnAnd Connective = "AND"
	ConnOr  Connective = "OR"
	ConnNot Connective = "NOT"
)

// Node is one element of a predicate sequence: either a connective or a
// field/operator/value predicate, never both.
type Node struct {
	Connective Connective `json:"connective,omitempty"`
	Field      Field      `json:"field,omitempty"`
	Op         Operator   `json:"op,omitempty"`
	Value      any        `json:"value,omitempty"`
}

// IsConnective reports whether the node is a boolean connective.
func (n Node) IsConnective() bool {
	return n.Connective != ""
}

// Sequence is the ordered predicate sequence produced by the parser. An
// empty sequence means "match everything".
type Sequence []Node

// HasField reports whether any predicate in the sequence constrains field.
func (s Sequence) HasField(field Field) bool {
	for _, n := range s {
		if !n.IsConnective() && n.Field == field {
			return true
		}
	}
	return false
}

// Predicate builds a predicate node.
func Predicate(field Field, op Operator, value any) Node {
	return Node{Field: field, Op: op, Value: value}
}

// And is the AND connective node.
func And() Node { return Node{Connective: ConnAnd} }

// Or is the OR connective node.
func Or() Node { return Node{Connective: ConnOr} }

// Not is the NOT connective node.
func Not() Node { return Node{Connective: ConnNot} }

// CompiledQuery is an executable storage query. Values are always carried in
// Params and never interpolated into Text.
type CompiledQuery struct {
	Text   string
	Params []any
}

// AliasResolver normalizes school names. Implementations fall back to
// returning the input unchanged when no mapping exists.
type AliasResolver interface {
	NormalizeSchool(name string) string
}
