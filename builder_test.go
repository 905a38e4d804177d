package filtering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// BuilderSuite is the main test suite for the clause generators and the Builder
type BuilderSuite struct {
	suite.Suite
}

// assertClause is a helper to validate a generated clause
func (s *BuilderSuite) assertClause(expected string, clause string, err error) {
	require.NoError(s.T(), err, "Failed to generate clause, expected: %s", expected)
	assert.Equal(s.T(), expected, clause)
}

// TestBuilderSuite runs the main builder test suite
func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

// =============================================================================
// Comparison Clause Tests
// =============================================================================

func (s *BuilderSuite) TestEquality() {
	clause, err := Eq("name", "Miguel")
	s.assertClause("name eq 'Miguel'", clause, err)
}

func (s *BuilderSuite) TestEqualityWithInt() {
	clause, err := Eq("age", 25)
	s.assertClause("age eq 25", clause, err)
}

func (s *BuilderSuite) TestEqualityWithFloat() {
	clause, err := Eq("price", 19.99)
	s.assertClause("price eq 19.99", clause, err)
}

func (s *BuilderSuite) TestEqualityWithBool() {
	clause, err := Eq("active", true)
	s.assertClause("active eq true", clause, err)
}

func (s *BuilderSuite) TestInequality() {
	clause, err := Ne("status", "Archived")
	s.assertClause("status ne 'Archived'", clause, err)
}

func (s *BuilderSuite) TestGreaterThan() {
	clause, err := Gt("age", 30)
	s.assertClause("age gt 30", clause, err)
}

func (s *BuilderSuite) TestGreaterThanOrEqual() {
	clause, err := Ge("points", 1)
	s.assertClause("points ge 1", clause, err)
}

func (s *BuilderSuite) TestLessThan() {
	clause, err := Lt("age", 65)
	s.assertClause("age lt 65", clause, err)
}

func (s *BuilderSuite) TestLessThanOrEqual() {
	clause, err := Le("points", int64(10))
	s.assertClause("points le 10", clause, err)
}

func (s *BuilderSuite) TestUnsupportedValueType() {
	_, err := Eq("config", struct{ A int }{A: 1})
	require.Error(s.T(), err)

	var invalidArgument ErrInvalidArgument
	assert.ErrorAs(s.T(), err, &invalidArgument)
	assert.Equal(s.T(), codes.InvalidArgument, status.Code(err))
}

// =============================================================================
// Value Formatting Tests
// =============================================================================

func (s *BuilderSuite) TestStringQuoteEscaping() {
	clause, err := Eq("name", "O'Brien")
	s.assertClause("name eq 'O''Brien'", clause, err)
}

func (s *BuilderSuite) TestStringMultipleQuoteEscaping() {
	clause, err := Eq("note", "it's Bob's")
	s.assertClause("note eq 'it''s Bob''s'", clause, err)
}

func (s *BuilderSuite) TestTimestampValue() {
	created := time.Date(2021, time.January, 2, 3, 4, 5, 600000000, time.UTC)
	clause, err := Ge("create_time", created)
	s.assertClause("create_time ge 2021-01-02T03:04:05.600Z", clause, err)
}

func (s *BuilderSuite) TestTimestampValueConvertsToUTC() {
	zone := time.FixedZone("UTC+2", 2*60*60)
	created := time.Date(2021, time.January, 2, 5, 4, 5, 0, zone)
	clause, err := Ge("create_time", created)
	s.assertClause("create_time ge 2021-01-02T03:04:05.000Z", clause, err)
}

func (s *BuilderSuite) TestTimestampProtoValue() {
	created := timestamppb.New(time.Date(2021, time.January, 2, 3, 4, 5, 0, time.UTC))
	clause, err := Ge("create_time", created)
	s.assertClause("create_time ge 2021-01-02T03:04:05.000Z", clause, err)
}

// =============================================================================
// Membership Clause Tests
// =============================================================================

func (s *BuilderSuite) TestInWithStrings() {
	clause, err := In("status", []string{"Active", "Pending"})
	s.assertClause("status in ('Active', 'Pending')", clause, err)
}

func (s *BuilderSuite) TestInWithInts() {
	clause, err := In("age", []int{18, 21, 65})
	s.assertClause("age in (18, 21, 65)", clause, err)
}

func (s *BuilderSuite) TestInWithMixedValues() {
	clause, err := In("code", []any{"a", 1, true})
	s.assertClause("code in ('a', 1, true)", clause, err)
}

func (s *BuilderSuite) TestInWithEmptySlice() {
	clause, err := In("status", []string{})
	s.assertClause("status in ()", clause, err)
}

func (s *BuilderSuite) TestInRejectsNonSlice() {
	_, err := In("status", "Active")
	require.Error(s.T(), err)

	var invalidArgument ErrInvalidArgument
	assert.ErrorAs(s.T(), err, &invalidArgument)
	assert.Equal(s.T(), codes.InvalidArgument, status.Code(err))
}

// =============================================================================
// String Predicate Tests
// =============================================================================

func (s *BuilderSuite) TestContains() {
	clause, err := Contains("department", "Sales")
	s.assertClause("contains(department, 'Sales')", clause, err)
}

func (s *BuilderSuite) TestStartsWith() {
	clause, err := StartsWith("name", "Mi")
	s.assertClause("startswith(name, 'Mi')", clause, err)
}

func (s *BuilderSuite) TestEndsWith() {
	clause, err := EndsWith("name", "el")
	s.assertClause("endswith(name, 'el')", clause, err)
}

// =============================================================================
// Any Lambda Clause Tests
// =============================================================================

func (s *BuilderSuite) TestAnyWithComparison() {
	clause, err := Any("tags", OperatorEq, "viz")
	s.assertClause("(tags/any(x:(x eq 'viz')))", clause, err)
}

func (s *BuilderSuite) TestAnyWithPredicate() {
	clause, err := Any("tags", OperatorContains, "ui")
	s.assertClause("(tags/any(x:(contains(x, 'ui'))))", clause, err)
}

func (s *BuilderSuite) TestAnyRejectsUnknownOperator() {
	_, err := Any("tags", Operator("and"), 1)
	require.Error(s.T(), err)

	var invalidOperator ErrInvalidOperator
	assert.ErrorAs(s.T(), err, &invalidOperator)
	assert.Equal(s.T(), codes.InvalidArgument, status.Code(err))
}

func (s *BuilderSuite) TestAnyRejectsIn() {
	_, err := Any("tags", Operator("in"), []string{"a"})
	require.Error(s.T(), err)

	var invalidOperator ErrInvalidOperator
	assert.ErrorAs(s.T(), err, &invalidOperator)
}

func (s *BuilderSuite) TestAnyPropagatesValueError() {
	_, err := Any("tags", OperatorEq, struct{}{})
	require.Error(s.T(), err)

	var invalidArgument ErrInvalidArgument
	assert.ErrorAs(s.T(), err, &invalidArgument)
}

// =============================================================================
// Builder Chaining Tests
// =============================================================================

func (s *BuilderSuite) TestEmptyBuilder() {
	assert.Equal(s.T(), "", NewBuilder().Build())
}

func (s *BuilderSuite) TestSingleClause() {
	filter := NewBuilder().Eq("name", "Miguel").Build()
	assert.Equal(s.T(), "name eq 'Miguel'", filter)
}

func (s *BuilderSuite) TestChainedClauses() {
	filter := NewBuilder().
		Eq("name", "John").
		And().
		Gt("age", 30).
		Build()
	assert.Equal(s.T(), "name eq 'John' and age gt 30", filter)
}

func (s *BuilderSuite) TestGroupedClauses() {
	filter := NewBuilder().
		OpenGroup().
		Eq("status", "Active").
		Or().
		Eq("status", "Pending").
		CloseGroup().
		And().
		Ge("points", 1).
		Build()
	assert.Equal(s.T(), "(status eq 'Active' or status eq 'Pending') and points ge 1", filter)
}

func (s *BuilderSuite) TestNotClause() {
	filter := NewBuilder().
		Not().
		OpenGroup().
		Eq("status", "Archived").
		CloseGroup().
		Build()
	assert.Equal(s.T(), "not (status eq 'Archived')", filter)
}

func (s *BuilderSuite) TestInClause() {
	filter := NewBuilder().In("status", []string{"Active", "Pending"}).Build()
	assert.Equal(s.T(), "status in ('Active', 'Pending')", filter)
}

func (s *BuilderSuite) TestAnyClause() {
	filter := NewBuilder().Any("tags", OperatorStartsWith, "go-").Build()
	assert.Equal(s.T(), "(tags/any(x:(startswith(x, 'go-'))))", filter)
}

func (s *BuilderSuite) TestBuildIsRepeatable() {
	builder := NewBuilder().Eq("name", "Miguel")
	assert.Equal(s.T(), builder.Build(), builder.Build())

	builder.And().Gt("age", 30)
	assert.Equal(s.T(), "name eq 'Miguel' and age gt 30", builder.Build())
}

func (s *BuilderSuite) TestCloneIsIndependent() {
	original := NewBuilder().Eq("name", "Miguel")
	clone := original.Clone()

	clone.And().Gt("age", 30)

	assert.Equal(s.T(), "name eq 'Miguel'", original.Build())
	assert.Equal(s.T(), "name eq 'Miguel' and age gt 30", clone.Build())
}

// =============================================================================
// Builder Error Tests
// =============================================================================

func (s *BuilderSuite) TestErrIsNilByDefault() {
	assert.NoError(s.T(), NewBuilder().Eq("name", "Miguel").Err())
}

func (s *BuilderSuite) TestErrKeepsFirstError() {
	builder := NewBuilder().
		Eq("name", "Miguel").
		In("status", "Active").
		Gt("age", 30)

	require.Error(s.T(), builder.Err())

	var invalidArgument ErrInvalidArgument
	assert.ErrorAs(s.T(), builder.Err(), &invalidArgument)

	// Mutators after the first failure append nothing.
	assert.Equal(s.T(), "name eq 'Miguel'", builder.Build())
}
