package scopes

import (
	"context"
	"math"

	"github.com/looplj/orghub/internal/contexts"
	"github.com/looplj/orghub/internal/log"
	"github.com/looplj/orghub/internal/objects"
)

// Store executes repository operations restricted to the caller's accessible
// sub-organization set. Every operation reads the authorization context
// attached to ctx; calls without one fail validation.
//
// Single-record update and delete run a scoped point lookup before the
// mutation. The two steps are not wrapped in a transaction: a concurrent
// mutation of the same record between check and write is not detected. This
// is a documented limitation of the layer, not an oversight.
type Store struct {
	registry *Registry
}

func NewStore(registry *Registry) *Store {
	return &Store{registry: registry}
}

func (s *Store) prepare(ctx context.Context, model Model) (Repository, *objects.OrgContext, error) {
	orgCtx, ok := contexts.GetOrgContext(ctx)
	if !ok {
		return nil, nil, objects.E(objects.KindValidation, "scoped operation requires an organization context")
	}

	repo, err := s.registry.Repository(model)
	if err != nil {
		return nil, nil, objects.Wrap(objects.KindValidation, "unknown model", err)
	}

	return repo, orgCtx, nil
}

// scopeFilter augments the caller's filter with the partition restriction.
// The caller's filter is never mutated.
func scopeFilter(filter Filter, orgCtx *objects.OrgContext) Filter {
	return filter.And(Cond{Field: PartitionField, Op: OpIn, Value: orgCtx.SubOrganizationIDs})
}

// FindMany returns all in-scope records matching the query.
func (s *Store) FindMany(ctx context.Context, model Model, query Query) ([]Record, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return nil, err
	}

	query.Filter = scopeFilter(query.Filter, orgCtx)

	return repo.FindMany(ctx, query)
}

// FindFirst performs the lookup without the partition filter and checks
// ownership on the result, exactly like FindUnique: an out-of-scope first
// match yields nil rather than falling through to a later in-scope row.
func (s *Store) FindFirst(ctx context.Context, model Model, query Query) (Record, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return nil, err
	}

	record, err := repo.FindFirst(ctx, query)
	if err != nil {
		return nil, err
	}

	if record == nil || !recordInScope(record, orgCtx) {
		return nil, nil
	}

	return record, nil
}

// FindUnique performs the point lookup without the partition filter, then
// checks ownership on the result. Absent records and records belonging to
// another tenant produce the identical outcome (nil, nil): callers cannot
// probe for the existence of other tenants' data.
func (s *Store) FindUnique(ctx context.Context, model Model, filter Filter) (Record, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return nil, err
	}

	record, err := repo.FindUnique(ctx, filter)
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, nil
	}

	if !recordInScope(record, orgCtx) {
		return nil, nil
	}

	return record, nil
}

// Count counts in-scope records. Bulk semantics: filter augmentation only.
func (s *Store) Count(ctx context.Context, model Model, filter Filter) (int64, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return 0, err
	}

	return repo.Count(ctx, scopeFilter(filter, orgCtx))
}

// Aggregate aggregates over in-scope records.
func (s *Store) Aggregate(ctx context.Context, model Model, agg Aggregation) (Record, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return nil, err
	}

	agg.Filter = scopeFilter(agg.Filter, orgCtx)

	return repo.Aggregate(ctx, agg)
}

// GroupBy groups in-scope records.
func (s *Store) GroupBy(ctx context.Context, model Model, grouping Grouping) ([]Record, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return nil, err
	}

	grouping.Filter = scopeFilter(grouping.Filter, orgCtx)

	return repo.GroupBy(ctx, grouping)
}

// Create inserts a record into the caller's tenant. An explicit partition id
// must be in the accessible set; when omitted, the first accessible id is
// assigned.
func (s *Store) Create(ctx context.Context, model Model, data Record) (Record, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return nil, err
	}

	if raw, ok := data[PartitionField]; ok {
		partitionID, ok := toInt64(raw)
		if !ok || !orgCtx.HasSubOrganization(partitionID) {
			return nil, objects.Ef(objects.KindInvalidSubOrganization, "sub-organization %v is not accessible", raw)
		}
	} else {
		if len(orgCtx.SubOrganizationIDs) == 0 {
			return nil, objects.E(objects.KindValidation, "organization has no accessible sub-organizations")
		}

		data = cloneRecord(data)
		data[PartitionField] = orgCtx.SubOrganizationIDs[0]
	}

	return repo.Create(ctx, data)
}

// Update mutates a single in-scope record. The target is resolved with the
// anti-enumeration point lookup first; out-of-scope and absent targets fail
// identically with not-found and no mutation is issued. Moving a record to
// another partition requires the new partition to be accessible.
func (s *Store) Update(ctx context.Context, model Model, params UpdateParams) (Record, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return nil, err
	}

	existing, err := s.FindUnique(ctx, model, params.Where)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, objects.E(objects.KindNotFound, "record not found")
	}

	if raw, ok := params.Data[PartitionField]; ok {
		partitionID, ok := toInt64(raw)
		if !ok || !orgCtx.HasSubOrganization(partitionID) {
			return nil, objects.Ef(objects.KindInvalidSubOrganization, "sub-organization %v is not accessible", raw)
		}
	}

	// The write itself carries the partition restriction. The gate above only
	// inspects the first match, so a non-unique filter must not be allowed to
	// reach rows in other tenants.
	return repo.Update(ctx, scopeFilter(params.Where, orgCtx), params.Data)
}

// UpdateMany mutates all in-scope records matching the filter. Bulk
// semantics: filter augmentation only, no per-record existence check.
func (s *Store) UpdateMany(ctx context.Context, model Model, filter Filter, data Record) (int64, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return 0, err
	}

	if raw, ok := data[PartitionField]; ok {
		partitionID, ok := toInt64(raw)
		if !ok || !orgCtx.HasSubOrganization(partitionID) {
			return 0, objects.Ef(objects.KindInvalidSubOrganization, "sub-organization %v is not accessible", raw)
		}
	}

	return repo.UpdateMany(ctx, scopeFilter(filter, orgCtx), data)
}

// Delete removes a single in-scope record, with the same existence and
// ownership gate as Update.
func (s *Store) Delete(ctx context.Context, model Model, filter Filter) (Record, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return nil, err
	}

	existing, err := s.FindUnique(ctx, model, filter)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, objects.E(objects.KindNotFound, "record not found")
	}

	log.Debug(ctx, "scopes: delete", log.String("model", string(model)))

	return repo.Delete(ctx, scopeFilter(filter, orgCtx))
}

// DeleteMany removes all in-scope records matching the filter. Bulk
// semantics: filter augmentation only.
func (s *Store) DeleteMany(ctx context.Context, model Model, filter Filter) (int64, error) {
	repo, orgCtx, err := s.prepare(ctx, model)
	if err != nil {
		return 0, err
	}

	return repo.DeleteMany(ctx, scopeFilter(filter, orgCtx))
}

func recordInScope(record Record, orgCtx *objects.OrgContext) bool {
	raw, ok := record[PartitionField]
	if !ok {
		return false
	}

	partitionID, ok := toInt64(raw)
	if !ok {
		return false
	}

	return orgCtx.HasSubOrganization(partitionID)
}

func cloneRecord(data Record) Record {
	clone := make(Record, len(data)+1)
	for key, value := range data {
		clone[key] = value
	}

	return clone
}

// toInt64 normalizes the numeric representations a partition id may arrive
// in: drivers scan int64, JSON decodes float64, callers pass int. Fractional
// floats do not identify a partition and are rejected.
func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}

		return int64(v), true
	default:
		return 0, false
	}
}
