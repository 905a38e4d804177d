package filtering

import (
	"fmt"
	"reflect"
	"strings"
)

// Operator is a closed enumeration of the clause operators that can be looked
// up by tag, used by [Any] and by the parser's comparison dispatch.
type Operator string

const (
	// OperatorEq is the equality comparison.
	OperatorEq Operator = "eq"
	// OperatorNe is the inequality comparison.
	OperatorNe Operator = "ne"
	// OperatorGt is the greater-than comparison.
	OperatorGt Operator = "gt"
	// OperatorLt is the less-than comparison.
	OperatorLt Operator = "lt"
	// OperatorGe is the greater-than-or-equal comparison.
	OperatorGe Operator = "ge"
	// OperatorLe is the less-than-or-equal comparison.
	OperatorLe Operator = "le"
	// OperatorContains is the substring predicate.
	OperatorContains Operator = "contains"
	// OperatorStartsWith is the prefix predicate.
	OperatorStartsWith Operator = "startswith"
	// OperatorEndsWith is the suffix predicate.
	OperatorEndsWith Operator = "endswith"
)

// clauseGenerators maps each operator tag to its clause generator. Absence of
// an entry is the ErrInvalidOperator condition; the logical operators, in and
// any itself are deliberately not registered.
var clauseGenerators = map[Operator]func(field string, value any) (string, error){
	OperatorEq:         Eq,
	OperatorNe:         Ne,
	OperatorGt:         Gt,
	OperatorLt:         Lt,
	OperatorGe:         Ge,
	OperatorLe:         Le,
	OperatorContains:   Contains,
	OperatorStartsWith: StartsWith,
	OperatorEndsWith:   EndsWith,
}

// comparison emits "<field> <op> <formatted value>".
func comparison(op string, field string, value any) (string, error) {
	formatted, err := formatValue(value)
	if err != nil {
		return "", ErrInvalidArgument{op: op, err: err}
	}
	return fmt.Sprintf("%s %s %s", field, op, formatted), nil
}

// predicate emits "<fn>(<field>, <formatted value>)".
func predicate(fn string, field string, value any) (string, error) {
	formatted, err := formatValue(value)
	if err != nil {
		return "", ErrInvalidArgument{op: fn, err: err}
	}
	return fmt.Sprintf("%s(%s, %s)", fn, field, formatted), nil
}

// Eq returns an equality clause, for example "name eq 'Miguel'".
//
// May return an ErrInvalidArgument error if the value type is unsupported.
func Eq(field string, value any) (string, error) {
	return comparison("eq", field, value)
}

// Ne returns an inequality clause, for example "status ne 'Archived'".
//
// May return an ErrInvalidArgument error if the value type is unsupported.
func Ne(field string, value any) (string, error) {
	return comparison("ne", field, value)
}

// Gt returns a greater-than clause, for example "age gt 30".
//
// May return an ErrInvalidArgument error if the value type is unsupported.
func Gt(field string, value any) (string, error) {
	return comparison("gt", field, value)
}

// Lt returns a less-than clause, for example "age lt 65".
//
// May return an ErrInvalidArgument error if the value type is unsupported.
func Lt(field string, value any) (string, error) {
	return comparison("lt", field, value)
}

// Ge returns a greater-than-or-equal clause, for example "points ge 1".
//
// May return an ErrInvalidArgument error if the value type is unsupported.
func Ge(field string, value any) (string, error) {
	return comparison("ge", field, value)
}

// Le returns a less-than-or-equal clause, for example "points le 10".
//
// May return an ErrInvalidArgument error if the value type is unsupported.
func Le(field string, value any) (string, error) {
	return comparison("le", field, value)
}

// Contains returns a substring predicate clause, for example
// "contains(department, 'Sales')".
//
// May return an ErrInvalidArgument error if the value type is unsupported.
func Contains(field string, value any) (string, error) {
	return predicate("contains", field, value)
}

// StartsWith returns a prefix predicate clause, for example
// "startswith(name, 'Mi')".
//
// May return an ErrInvalidArgument error if the value type is unsupported.
func StartsWith(field string, value any) (string, error) {
	return predicate("startswith", field, value)
}

// EndsWith returns a suffix predicate clause, for example
// "endswith(name, 'el')".
//
// May return an ErrInvalidArgument error if the value type is unsupported.
func EndsWith(field string, value any) (string, error) {
	return predicate("endswith", field, value)
}

/*
In returns a collection membership clause, for example
"status in ('Active', 'Pending')".

The values argument must be a slice or array; any element type supported by
the comparisons is accepted, including mixed element types via []any.

May return an ErrInvalidArgument error if values is not a slice or if an
element type is unsupported.
*/
func In(field string, values any) (string, error) {
	v := reflect.ValueOf(values)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return "", ErrInvalidArgument{op: "in", err: fmt.Errorf("values must be a slice, got %T", values)}
	}

	formatted := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		f, err := formatValue(v.Index(i).Interface())
		if err != nil {
			return "", ErrInvalidArgument{op: "in", err: err}
		}
		formatted = append(formatted, f)
	}

	return fmt.Sprintf("%s in (%s)", field, strings.Join(formatted, ", ")), nil
}

/*
Any returns a lambda clause over a collection-valued field, applying the given
operator to each member via the bound variable x. For example:

	Any("tags", filtering.OperatorEq, "viz")
	// (tags/any(x:(x eq 'viz')))

	Any("tags", filtering.OperatorContains, "ui")
	// (tags/any(x:(contains(x, 'ui'))))

Only the comparison and string predicate operators can be applied inside the
lambda. May return an ErrInvalidOperator error if the operator has no clause
generator, or an ErrInvalidArgument error if the value type is unsupported.
*/
func Any(field string, operator Operator, value any) (string, error) {
	clause, ok := clauseGenerators[operator]
	if !ok {
		return "", ErrInvalidOperator{operator: string(operator)}
	}

	inner, err := clause("x", value)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("(%s/any(x:(%s)))", field, inner), nil
}

/*
Builder assembles a filter expression as an ordered sequence of formatted
clause fragments.

Every mutator appends one fragment and returns the same instance for
chaining; [Builder.Build] joins the fragments with single spaces. The builder
is a token-append machine, not a validating grammar: malformed sequences
(double operators, unclosed groups) are accepted silently and surface only as
malformed output text.

A Builder is not safe for concurrent use; callers needing concurrency must
[Builder.Clone] or synchronise externally.
*/
type Builder struct {
	parts []string // The ordered clause fragments
	err   error    // The first clause error, if any
}

// NewBuilder creates a new, empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// append records the clause unless a previous clause already failed; the
// first error is kept and surfaced via Err.
func (b *Builder) append(clause string, err error) *Builder {
	if b.err != nil {
		return b
	}
	if err != nil {
		b.err = err
		return b
	}
	b.parts = append(b.parts, clause)
	return b
}

// And appends the logical and keyword.
func (b *Builder) And() *Builder {
	return b.append("and", nil)
}

// Or appends the logical or keyword.
func (b *Builder) Or() *Builder {
	return b.append("or", nil)
}

// Not appends the logical not keyword.
func (b *Builder) Not() *Builder {
	return b.append("not", nil)
}

// OpenGroup appends an opening parenthesis. No balance checking is performed.
func (b *Builder) OpenGroup() *Builder {
	return b.append("(", nil)
}

// CloseGroup appends a closing parenthesis. No balance checking is performed.
func (b *Builder) CloseGroup() *Builder {
	return b.append(")", nil)
}

// Eq appends an equality clause.
func (b *Builder) Eq(field string, value any) *Builder {
	return b.append(Eq(field, value))
}

// Ne appends an inequality clause.
func (b *Builder) Ne(field string, value any) *Builder {
	return b.append(Ne(field, value))
}

// Gt appends a greater-than clause.
func (b *Builder) Gt(field string, value any) *Builder {
	return b.append(Gt(field, value))
}

// Lt appends a less-than clause.
func (b *Builder) Lt(field string, value any) *Builder {
	return b.append(Lt(field, value))
}

// Ge appends a greater-than-or-equal clause.
func (b *Builder) Ge(field string, value any) *Builder {
	return b.append(Ge(field, value))
}

// Le appends a less-than-or-equal clause.
func (b *Builder) Le(field string, value any) *Builder {
	return b.append(Le(field, value))
}

// Contains appends a substring predicate clause.
func (b *Builder) Contains(field string, value any) *Builder {
	return b.append(Contains(field, value))
}

// StartsWith appends a prefix predicate clause.
func (b *Builder) StartsWith(field string, value any) *Builder {
	return b.append(StartsWith(field, value))
}

// EndsWith appends a suffix predicate clause.
func (b *Builder) EndsWith(field string, value any) *Builder {
	return b.append(EndsWith(field, value))
}

// In appends a collection membership clause. The values argument must be a
// slice or array; see [In].
func (b *Builder) In(field string, values any) *Builder {
	return b.append(In(field, values))
}

// Any appends a lambda clause over a collection-valued field; see [Any].
func (b *Builder) Any(field string, operator Operator, value any) *Builder {
	return b.append(Any(field, operator, value))
}

// Err returns the first error recorded by a failed mutator, or nil. Once a
// mutator fails, subsequent mutators append nothing.
func (b *Builder) Err() error {
	return b.err
}

// Clone returns a new Builder with an independent copy of the clause
// sequence. Later mutation of either instance does not affect the other.
func (b *Builder) Clone() *Builder {
	parts := make([]string, len(b.parts))
	copy(parts, b.parts)
	return &Builder{
		parts: parts,
		err:   b.err,
	}
}

// Build joins the clause sequence with single spaces, omitting the space
// directly after an opening group and before a closing one. It is pure and
// repeatable, performing no mutation.
func (b *Builder) Build() string {
	return joinParts(b.parts)
}

// joinParts assembles clause fragments with single spaces, except directly
// after "(" and before ")".
func joinParts(parts []string) string {
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 && part != ")" && parts[i-1] != "(" {
			sb.WriteByte(' ')
		}
		sb.WriteString(part)
	}
	return sb.String()
}
