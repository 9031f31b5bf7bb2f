// Package store defines the backend-agnostic persistence port.
//
// One logical contract, two interchangeable implementations (an embedded
// in-process engine and a remote Postgres service): both must produce
// value-equal row sets for the same query over the same stored data. The
// contract-test suite in internal/adapters/contracttest is the executable
// form of that property.
package store

import "context"

// Row is a single relation row keyed by column name. Values are normalized
// per column type (see NormalizeValue) so rows compare equal across backends.
type Row map[string]any

// Op is a filter operator.
type Op string

const (
	// OpEq matches on exact equality.
	OpEq Op = "eq"
	// OpContains matches on a case-insensitive substring.
	OpContains Op = "contains"
)

// Cond is a single field predicate. Values are always bound as parameters by
// the executing adapter, never interpolated into query text.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Eq builds an equality condition.
func Eq(field string, value any) Cond {
	return Cond{Field: field, Op: OpEq, Value: value}
}

// Contains builds a case-insensitive substring condition.
func Contains(field, substr string) Cond {
	return Cond{Field: field, Op: OpContains, Value: substr}
}

// Clause is a disjunction of conditions: it matches when any condition does.
type Clause struct {
	Any []Cond
}

// AnyOf groups conditions into one OR-clause.
func AnyOf(conds ...Cond) Clause {
	return Clause{Any: conds}
}

// Order is a sort key. Field must name a column of the queried relation.
type Order struct {
	Field string
	Desc  bool
}

// Query describes a parameterized read against one relation. Clauses in
// Where are ANDed together; conditions within a clause are ORed.
type Query struct {
	From    string
	Where   []Clause
	OrderBy []Order
	Limit   int
}

// Adapter executes storage operations against one physical backend.
//
// Failure semantics: implementations never let raw backend errors cross this
// boundary. Zero rows from SelectOne is ErrNotFound; unique violations are a
// *ConflictError; a broken reference wraps ErrNotFound; engine or network
// failures wrap ErrUnavailable; schema declaration failures wrap ErrSchema.
type Adapter interface {
	// EnsureSchema idempotently declares the relations described by
	// Relations(). Safe to call on every startup.
	EnsureSchema(ctx context.Context) error

	// Select returns the ordered sequence of rows matching q.
	Select(ctx context.Context, q Query) ([]Row, error)

	// SelectOne returns the first row matching q, or ErrNotFound when zero
	// rows match. A "not found" is distinct from an execution error.
	SelectOne(ctx context.Context, q Query) (Row, error)

	// Insert stores one row in the named relation and returns its id.
	// The row must carry a core-generated "id" value.
	Insert(ctx context.Context, relation string, row Row) (string, error)

	// Count returns the number of rows in the named relation.
	Count(ctx context.Context, relation string) (int64, error)
}
