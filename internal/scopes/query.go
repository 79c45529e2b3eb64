package scopes

// Op is a filter comparison operator.
type Op string

const (
	OpEq       Op = "eq"
	OpNeq      Op = "neq"
	OpContains Op = "contains"
	OpIn       Op = "in"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
)

// Cond is one field condition.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of conditions.
type Filter []Cond

// Eq is shorthand for a single equality filter.
func Eq(field string, value any) Filter {
	return Filter{{Field: field, Op: OpEq, Value: value}}
}

// And returns a new filter with the conditions of both. The receiver is not
// modified: scoped operations must never mutate a caller-supplied filter.
func (f Filter) And(conds ...Cond) Filter {
	merged := make(Filter, 0, len(f)+len(conds))
	merged = append(merged, f...)
	merged = append(merged, conds...)

	return merged
}

// Query is the read-side option set for list operations.
type Query struct {
	Filter  Filter
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Aggregation describes a scoped aggregate operation.
type Aggregation struct {
	Filter Filter
	Count  bool
	Sum    []string
	Avg    []string
	Min    []string
	Max    []string
}

// Grouping describes a scoped group-by operation.
type Grouping struct {
	Filter Filter
	By     []string
	Count  bool
	Sum    []string
}

// Record is one persisted row keyed by column name.
type Record map[string]any

// UpdateParams is the single supported call shape for scoped updates: a
// filter identifying the target and the data to apply.
type UpdateParams struct {
	Where Filter
	Data  Record
}
