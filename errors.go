package filtering

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInvalidArgument is returned when a clause generator is given a malformed
// argument.
//
// Common causes include:
//   - Passing a non-slice value to In
//   - Passing a value of an unsupported type to a comparison or predicate
//
// Example usage:
//
//	clause, err := filtering.In("status", "active")
//	if err != nil {
//	    var invalidArgument filtering.ErrInvalidArgument
//	    if errors.As(err, &invalidArgument) {
//	        log.Printf("Invalid argument: %v", err)
//	    }
//	}
//
// This error implements the gRPC status interface and returns codes.InvalidArgument.
type ErrInvalidArgument struct {
	op  string // The clause operation that rejected the argument
	err error  // The underlying error
}

// Error returns a formatted error message including the operation and underlying error.
func (e ErrInvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument(%s): %v", e.op, e.err)
}

// Is implements error matching for errors.Is().
// Returns true if target is an ErrInvalidArgument or matches the underlying error.
func (e ErrInvalidArgument) Is(target error) bool {
	var errInvalidArgument ErrInvalidArgument
	return errors.As(target, &errInvalidArgument) || errors.Is(e.err, target)
}

// GRPCStatus returns the gRPC status for this error.
// Returns codes.InvalidArgument to indicate a client error.
func (e ErrInvalidArgument) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// ErrInvalidOperator is returned when an Any clause requests an operator that
// has no registered clause generator.
//
// Only the comparison operators (eq, ne, gt, lt, ge, le) and the string
// predicates (contains, startswith, endswith) may be applied inside an Any
// lambda. The logical operators, in, and any itself cannot be wrapped.
//
// Example usage:
//
//	clause, err := filtering.Any("tags", filtering.OperatorAnd, 1)
//	if err != nil {
//	    var invalidOperator filtering.ErrInvalidOperator
//	    if errors.As(err, &invalidOperator) {
//	        log.Printf("Invalid operator: %v", err)
//	    }
//	}
//
// This error implements the gRPC status interface and returns codes.InvalidArgument.
type ErrInvalidOperator struct {
	operator string // The operator tag that has no clause generator
}

// Error returns a formatted error message including the operator tag.
func (e ErrInvalidOperator) Error() string {
	return fmt.Sprintf("invalid operator(%s): no clause generator registered", e.operator)
}

// Is implements error matching for errors.Is().
// Returns true if target is an ErrInvalidOperator.
func (e ErrInvalidOperator) Is(target error) bool {
	var errInvalidOperator ErrInvalidOperator
	return errors.As(target, &errInvalidOperator)
}

// GRPCStatus returns the gRPC status for this error.
// Returns codes.InvalidArgument to indicate a client error.
func (e ErrInvalidOperator) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// ErrInvalidFilter is returned when a filter expression cannot be recombined
// into a Builder.
//
// Common causes include:
//   - A field name with no operator following it
//   - A comparison operator with no value following it
//   - A missing '(' after the in operator
//   - An unterminated in membership list
//   - An unsupported operator keyword
//
// The error carries the offending token and its index in the token stream,
// available via [ErrInvalidFilter.Token] and [ErrInvalidFilter.Index].
//
// Example usage:
//
//	builder, err := filtering.Parse(filter)
//	if err != nil {
//	    var invalidFilter filtering.ErrInvalidFilter
//	    if errors.As(err, &invalidFilter) {
//	        log.Printf("Invalid filter at token %d: %v", invalidFilter.Index(), err)
//	    }
//	}
//
// This error implements the gRPC status interface and returns codes.InvalidArgument.
type ErrInvalidFilter struct {
	filter string // The original filter expression that failed
	token  string // The offending token
	index  int    // The index of the offending token in the token stream
	err    error  // The underlying parsing error
}

// Error returns a formatted error message including the filter, the offending
// token and its index, and the underlying error.
func (e ErrInvalidFilter) Error() string {
	return fmt.Sprintf("invalid filter(%s): token %q at index %d: %v", e.filter, e.token, e.index, e.err)
}

// Token returns the offending token.
func (e ErrInvalidFilter) Token() string {
	return e.token
}

// Index returns the index of the offending token in the token stream.
func (e ErrInvalidFilter) Index() int {
	return e.index
}

// Is implements error matching for errors.Is().
// Returns true if target is an ErrInvalidFilter or matches the underlying error.
func (e ErrInvalidFilter) Is(target error) bool {
	var errInvalidFilter ErrInvalidFilter
	return errors.As(target, &errInvalidFilter) || errors.Is(e.err, target)
}

// GRPCStatus returns the gRPC status for this error.
// Returns codes.InvalidArgument to indicate a client error.
func (e ErrInvalidFilter) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}
