package scopes

import "context"

// Repository is the per-model persistence surface this layer scopes.
// Implementations are black boxes: they apply filters verbatim and perform
// no tenant checks of their own. Point lookups return (nil, nil) when no
// record matches.
type Repository interface {
	FindMany(ctx context.Context, query Query) ([]Record, error)
	FindFirst(ctx context.Context, query Query) (Record, error)
	FindUnique(ctx context.Context, filter Filter) (Record, error)

	Count(ctx context.Context, filter Filter) (int64, error)
	Aggregate(ctx context.Context, agg Aggregation) (Record, error)
	GroupBy(ctx context.Context, grouping Grouping) ([]Record, error)

	Create(ctx context.Context, data Record) (Record, error)
	Update(ctx context.Context, filter Filter, data Record) (Record, error)
	UpdateMany(ctx context.Context, filter Filter, data Record) (int64, error)
	Delete(ctx context.Context, filter Filter) (Record, error)
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
}
