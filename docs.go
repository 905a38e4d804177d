/*
Package filtering provides a fluent builder and a parser for an OData-style
$filter expression grammar.

The builder assembles filter text from typed clause operations; the parser
converts existing filter text back into the same builder representation so it
can be inspected or extended. The two form a closed loop: builder output is
parser input.

# Basic Usage

Build a filter from typed clauses:

	filter := filtering.NewBuilder().
	    OpenGroup().
	    Eq("status", "Active").
	    Or().
	    Eq("status", "Pending").
	    CloseGroup().
	    And().
	    Ge("points", 1).
	    Build()
	// (status eq 'Active' or status eq 'Pending') and points ge 1

Parse existing filter text and extend it:

	builder, err := filtering.Parse("name eq 'John' and age gt 30")
	if err != nil {
	    return err
	}
	filter := builder.And().Contains("department", "Sales").Build()
	// name eq 'John' and age gt 30 and contains(department, 'Sales')

# Supported Operators

Comparison operators:

	eq    Equal
	ne    Not equal
	gt    Greater than
	ge    Greater than or equal
	lt    Less than
	le    Less than or equal

Logical operators and grouping:

	and, or, not
	( ... )

Membership and collection operators:

	field in (v1, v2, ...)
	(field/any(x:(x eq v)))    built via Any; builder-only, not parsed

String predicates:

	contains(field, value)
	startswith(field, value)
	endswith(field, value)

# Value Formatting

Strings are single-quoted with embedded quotes doubled ('O''Brien'), booleans
and numbers render in decimal text, and time.Time / timestamppb.Timestamp
values render as UTC ISO 8601 with millisecond precision and a Z suffix
(2021-01-01T00:00:00.000Z).

# Spanner

TranspileSpanner converts filter text into a parameterized Spanner WHERE
clause fragment:

	stmt, err := filtering.TranspileSpanner("name eq 'Alice' and age gt 18")
	if err != nil {
	    return err
	}
	// stmt.SQL: "name = @p0 AND age > @p1"
	// stmt.Params: map[string]any{"p0": "Alice", "p1": int64(18)}

# Error Handling

The package returns typed errors that can be checked:

	builder, err := filtering.Parse(filter)
	if err != nil {
	    var invalidFilter filtering.ErrInvalidFilter
	    if errors.As(err, &invalidFilter) {
	        // Handle invalid filter syntax
	    }
	}

[ErrInvalidFilter], [ErrInvalidArgument] and [ErrInvalidOperator] all
implement the gRPC status interface, returning codes.InvalidArgument.

# Thread Safety

The package-level clause generators, [Parse] and [TranspileSpanner] are safe
for concurrent use. A [Builder] instance holds unshared mutable state and is
not safe for concurrent mutation; clone or synchronise externally.
*/
package filtering
