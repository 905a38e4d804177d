package filtering

import (
	"errors"
	"fmt"
	"strings"
)

// comparisonMutators maps each comparison keyword to its Builder mutator.
// Absence of an entry is a syntax error, never a silent no-op.
var comparisonMutators = map[string]func(*Builder, string, any) *Builder{
	"eq": (*Builder).Eq,
	"ne": (*Builder).Ne,
	"gt": (*Builder).Gt,
	"lt": (*Builder).Lt,
	"ge": (*Builder).Ge,
	"le": (*Builder).Le,
}

// predicateMutators maps each string predicate name to its Builder mutator.
var predicateMutators = map[string]func(*Builder, string, any) *Builder{
	"contains":   (*Builder).Contains,
	"startswith": (*Builder).StartsWith,
	"endswith":   (*Builder).EndsWith,
}

// functionCall is the fixed-shape record produced by structurally splitting a
// captured function-call token.
type functionCall struct {
	name     string // The predicate name
	field    string // The first argument
	rawValue string // The remainder after the first comma, taken as one value
}

// splitFunctionCall splits a captured call span such as
// "contains(department, 'Sales')" into its name, field and raw value. The
// first comma separates the field from the remainder; the remainder is the
// single value argument even if it contains further commas.
func splitFunctionCall(text string) (functionCall, error) {
	open := strings.IndexByte(text, '(')
	inner := text[open+1 : len(text)-1]

	comma := strings.IndexByte(inner, ',')
	if comma < 0 {
		return functionCall{}, fmt.Errorf("expected two arguments in %q", text)
	}

	return functionCall{
		name:     text[:open],
		field:    strings.TrimSpace(inner[:comma]),
		rawValue: strings.TrimSpace(inner[comma+1:]),
	}, nil
}

/*
Parse converts a filter expression into a [Builder] whose clause sequence is
semantically equivalent to the input. The returned builder can be inspected,
extended with further clauses, and rebuilt.

Examples:

	Parse("name eq 'John' and age gt 30")
	Parse("status in ('Active', 'Pending')")
	Parse("contains(department, 'Sales') or startswith(name, 'Mi')")
	Parse("(a eq 'x' or a eq 'y') and n ge 1")

The token stream is replayed as builder calls in one forward pass with a
single cursor and no backtracking. Output is normalised: single spaces between
clauses, canonical value formatting. An empty or whitespace-only filter yields
an empty builder.

May return an ErrInvalidFilter error carrying the offending token and its
index if the stream cannot be recombined. A failed parse returns no builder.
*/
func Parse(filter string) (*Builder, error) {
	builder := NewBuilder()

	trimmed := strings.TrimSpace(filter)
	if trimmed == "" {
		return builder, nil
	}

	tokens := tokenize(trimmed)
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		switch tok.kind {
		case tokenOpenParen:
			builder.OpenGroup()
			i++
		case tokenCloseParen:
			builder.CloseGroup()
			i++
		case tokenComma:
			return nil, ErrInvalidFilter{
				filter: filter,
				token:  tok.text,
				index:  i,
				err:    errors.New("unexpected ',' outside an in list"),
			}
		case tokenFunction:
			call, err := splitFunctionCall(tok.text)
			if err != nil {
				return nil, ErrInvalidFilter{
					filter: filter,
					token:  tok.text,
					index:  i,
					err:    err,
				}
			}

			mutator, ok := predicateMutators[call.name]
			if !ok {
				return nil, ErrInvalidFilter{
					filter: filter,
					token:  tok.text,
					index:  i,
					err:    fmt.Errorf("unsupported function %q", call.name),
				}
			}

			mutator(builder, call.field, parseValue(call.rawValue))
			i++
		case tokenKeyword:
			switch tok.text {
			case "and":
				builder.And()
				i++
			case "or":
				builder.Or()
				i++
			case "not":
				builder.Not()
				i++
			default:
				return nil, ErrInvalidFilter{
					filter: filter,
					token:  tok.text,
					index:  i,
					err:    fmt.Errorf("operator %q requires a preceding field", tok.text),
				}
			}
		default:
			// A bare or quoted token starts a comparison clause: the cursor
			// must find an operator next.
			field := tok.text
			if i+1 >= len(tokens) {
				return nil, ErrInvalidFilter{
					filter: filter,
					token:  field,
					index:  i,
					err:    fmt.Errorf("missing operator after field %q", field),
				}
			}

			op := tokens[i+1]
			if op.kind != tokenKeyword {
				return nil, ErrInvalidFilter{
					filter: filter,
					token:  op.text,
					index:  i + 1,
					err:    fmt.Errorf("expected operator after field %q", field),
				}
			}

			switch {
			case op.text == "in":
				next, values, err := collectMembershipList(filter, tokens, i+2)
				if err != nil {
					return nil, err
				}
				builder.In(field, values)
				i = next
			case comparisonMutators[op.text] != nil:
				if i+2 >= len(tokens) {
					return nil, ErrInvalidFilter{
						filter: filter,
						token:  op.text,
						index:  i + 1,
						err:    fmt.Errorf("missing value after operator %q", op.text),
					}
				}

				value := tokens[i+2]
				if value.kind != tokenBare && value.kind != tokenString {
					return nil, ErrInvalidFilter{
						filter: filter,
						token:  value.text,
						index:  i + 2,
						err:    fmt.Errorf("expected value after operator %q", op.text),
					}
				}

				comparisonMutators[op.text](builder, field, parseValue(value.text))
				i += 3
			default:
				return nil, ErrInvalidFilter{
					filter: filter,
					token:  op.text,
					index:  i + 1,
					err:    fmt.Errorf("unsupported operator %q after field %q", op.text, field),
				}
			}
		}
	}

	if err := builder.Err(); err != nil {
		return nil, err
	}

	return builder, nil
}

// collectMembershipList consumes an in membership list starting at the
// expected '(' token, skipping comma tokens and collecting every remaining
// token as a parsed value up to the matching ')'. Nested groups inside the
// list are not supported. Returns the token index just past the ')'.
func collectMembershipList(filter string, tokens []token, start int) (int, []any, error) {
	if start >= len(tokens) || tokens[start].kind != tokenOpenParen {
		index := start
		if index >= len(tokens) {
			index = len(tokens) - 1
		}
		return 0, nil, ErrInvalidFilter{
			filter: filter,
			token:  tokens[index].text,
			index:  index,
			err:    errors.New("expected '(' after 'in'"),
		}
	}

	values := []any{}
	j := start + 1
	for {
		if j >= len(tokens) {
			return 0, nil, ErrInvalidFilter{
				filter: filter,
				token:  tokens[j-1].text,
				index:  j - 1,
				err:    errors.New("unterminated membership list"),
			}
		}

		switch tokens[j].kind {
		case tokenCloseParen:
			return j + 1, values, nil
		case tokenComma:
			j++
		case tokenOpenParen:
			return 0, nil, ErrInvalidFilter{
				filter: filter,
				token:  tokens[j].text,
				index:  j,
				err:    errors.New("nested groups are not supported in an in list"),
			}
		default:
			values = append(values, parseValue(tokens[j].text))
			j++
		}
	}
}
