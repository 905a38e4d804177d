package filtering

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/iancoleman/strcase"
)

// sqlComparisons maps each comparison keyword to its Spanner SQL operator.
var sqlComparisons = map[string]string{
	"eq": "=",
	"ne": "!=",
	"gt": ">",
	"ge": ">=",
	"lt": "<",
	"le": "<=",
}

// TranspileOptions configures the behavior of [TranspileSpanner].
type TranspileOptions struct {
	snakeCase bool
	reserved  map[string]bool
	columns   map[string]string
}

// TranspileOption is a functional option for the TranspileSpanner method.
type TranspileOption func(*TranspileOptions)

// WithSnakeCaseColumns converts filter field names to snake_case column
// names, so a filter over "createTime" targets the "create_time" column.
func WithSnakeCaseColumns() TranspileOption {
	return func(opts *TranspileOptions) {
		opts.snakeCase = true
	}
}

// WithReservedColumns wraps the named columns in backticks in the generated
// SQL. This is only required for columns named after reserved SQL keywords.
//
// Example:
//
//	TranspileSpanner("select eq 'value'", WithReservedColumns("select"))
func WithReservedColumns(names ...string) TranspileOption {
	return func(opts *TranspileOptions) {
		for _, name := range names {
			opts.reserved[name] = true
		}
	}
}

// WithColumn maps a filter field name to an explicit column name, taking
// precedence over snake_case conversion.
func WithColumn(field string, column string) TranspileOption {
	return func(opts *TranspileOptions) {
		opts.columns[field] = column
	}
}

// column resolves a filter field name to its SQL column reference.
func (o *TranspileOptions) column(field string) string {
	column := field
	if mapped, ok := o.columns[field]; ok {
		column = mapped
	} else if o.snakeCase {
		column = strcase.ToSnake(field)
	}

	if o.reserved[column] {
		column = fmt.Sprintf("`%s`", column)
	}

	return column
}

/*
TranspileSpanner converts a filter expression into a parameterized Spanner
WHERE clause fragment.

Examples:

	TranspileSpanner("name eq 'Miguel' and age gt 30")
	// SQL:    name = @p0 AND age > @p1
	// Params: map[string]any{"p0": "Miguel", "p1": int64(30)}

	TranspileSpanner("status in ('Active', 'Pending')")
	// SQL:    status IN UNNEST(@p0)
	// Params: map[string]any{"p0": []string{"Active", "Pending"}}

	TranspileSpanner("contains(department, 'Sales')")
	// SQL:    department LIKE @p0
	// Params: map[string]any{"p0": "%Sales%"}

Comparison values are parameterized with their most concrete type: quoted
literals as strings, decimal numbers as int64/float64, true/false as bool and
canonical timestamp text as time.Time. Membership lists are concretized to
typed slices where all elements share a type.

May return an ErrInvalidFilter error on any violation [Parse] would report.
*/
func TranspileSpanner(filter string, opts ...TranspileOption) (*spanner.Statement, error) {
	options := &TranspileOptions{
		reserved: map[string]bool{},
		columns:  map[string]string{},
	}
	for _, opt := range opts {
		opt(options)
	}

	params := map[string]any{}

	trimmed := strings.TrimSpace(filter)
	if trimmed == "" {
		return &spanner.Statement{SQL: "", Params: params}, nil
	}

	var parts []string
	tokens := tokenize(trimmed)
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		switch tok.kind {
		case tokenOpenParen:
			parts = append(parts, "(")
			i++
		case tokenCloseParen:
			parts = append(parts, ")")
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

			column := options.column(call.field)
			value := transpileValue(call.rawValue)
			paramName := fmt.Sprintf("p%d", len(params))

			switch call.name {
			case "contains":
				params[paramName] = fmt.Sprintf("%%%v%%", value)
				parts = append(parts, fmt.Sprintf("%s LIKE @%s", column, paramName))
			case "startswith":
				params[paramName] = value
				parts = append(parts, fmt.Sprintf("STARTS_WITH(%s, @%s)", column, paramName))
			case "endswith":
				params[paramName] = value
				parts = append(parts, fmt.Sprintf("ENDS_WITH(%s, @%s)", column, paramName))
			default:
				return nil, ErrInvalidFilter{
					filter: filter,
					token:  tok.text,
					index:  i,
					err:    fmt.Errorf("unsupported function %q", call.name),
				}
			}
			i++
		case tokenKeyword:
			switch tok.text {
			case "and":
				parts = append(parts, "AND")
				i++
			case "or":
				parts = append(parts, "OR")
				i++
			case "not":
				parts = append(parts, "NOT")
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

			column := options.column(field)
			switch {
			case op.text == "in":
				next, values, err := collectMembershipList(filter, tokens, i+2)
				if err != nil {
					return nil, err
				}

				for idx, value := range values {
					if raw, ok := value.(rawValue); ok {
						values[idx] = promoteRawValue(raw)
					}
				}

				paramName := fmt.Sprintf("p%d", len(params))
				params[paramName] = convertToConcreteType(values)
				parts = append(parts, fmt.Sprintf("%s IN UNNEST(@%s)", column, paramName))
				i = next
			case sqlComparisons[op.text] != "":
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

				paramName := fmt.Sprintf("p%d", len(params))
				params[paramName] = transpileValue(value.text)
				parts = append(parts, fmt.Sprintf("%s %s @%s", column, sqlComparisons[op.text], paramName))
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

	return &spanner.Statement{
		SQL:    joinParts(parts),
		Params: params,
	}, nil
}

// transpileValue parses a token into its most concrete parameter type.
func transpileValue(text string) any {
	value := parseValue(text)
	raw, ok := value.(rawValue)
	if !ok {
		return value
	}
	return promoteRawValue(raw)
}

// promoteRawValue concretizes a raw token: booleans and canonical timestamp
// text become typed parameters, anything else stays a plain string.
func promoteRawValue(raw rawValue) any {
	switch string(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	if t, err := time.Parse(timestampLayout, string(raw)); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, string(raw)); err == nil {
		return t
	}
	return string(raw)
}
