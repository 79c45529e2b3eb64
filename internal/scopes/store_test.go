package scopes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/orghub/internal/contexts"
	"github.com/looplj/orghub/internal/objects"
)

// spyRepository records calls and returns canned results.
type spyRepository struct {
	findManyQueries  []Query
	findFirstQueries []Query
	firstResult      Record
	uniqueResults    map[int64]Record
	uniqueFallback   Record

	createCalls     int
	createData      []Record
	updateCalls     int
	updateFilters   []Filter
	deleteCalls     int
	deleteFilters   []Filter
	updateManyCalls int
	deleteManyCalls int

	lastFilter Filter
}

func newSpyRepository() *spyRepository {
	return &spyRepository{uniqueResults: make(map[int64]Record)}
}

func (r *spyRepository) FindMany(ctx context.Context, query Query) ([]Record, error) {
	r.findManyQueries = append(r.findManyQueries, query)
	return nil, nil
}

func (r *spyRepository) FindFirst(ctx context.Context, query Query) (Record, error) {
	r.findFirstQueries = append(r.findFirstQueries, query)
	return r.firstResult, nil
}

func (r *spyRepository) FindUnique(ctx context.Context, filter Filter) (Record, error) {
	r.lastFilter = filter

	for _, cond := range filter {
		if cond.Field == "id" && cond.Op == OpEq {
			if id, ok := toInt64(cond.Value); ok {
				if record, found := r.uniqueResults[id]; found {
					return record, nil
				}
			}
		}
	}

	return r.uniqueFallback, nil
}

func (r *spyRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	r.lastFilter = filter
	return 0, nil
}

func (r *spyRepository) Aggregate(ctx context.Context, agg Aggregation) (Record, error) {
	r.lastFilter = agg.Filter
	return Record{}, nil
}

func (r *spyRepository) GroupBy(ctx context.Context, grouping Grouping) ([]Record, error) {
	r.lastFilter = grouping.Filter
	return nil, nil
}

func (r *spyRepository) Create(ctx context.Context, data Record) (Record, error) {
	r.createCalls++
	r.createData = append(r.createData, data)

	return data, nil
}

func (r *spyRepository) Update(ctx context.Context, filter Filter, data Record) (Record, error) {
	r.updateCalls++
	r.updateFilters = append(r.updateFilters, filter)

	return data, nil
}

func (r *spyRepository) UpdateMany(ctx context.Context, filter Filter, data Record) (int64, error) {
	r.updateManyCalls++
	r.lastFilter = filter

	return 0, nil
}

func (r *spyRepository) Delete(ctx context.Context, filter Filter) (Record, error) {
	r.deleteCalls++
	r.deleteFilters = append(r.deleteFilters, filter)

	return Record{}, nil
}

func (r *spyRepository) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	r.deleteManyCalls++
	r.lastFilter = filter

	return 0, nil
}

func newTestStore(repo Repository) *Store {
	registry := NewRegistry()
	registry.Register(ModelProjects, repo)

	return NewStore(registry)
}

func orgContext(subOrgIDs ...int64) context.Context {
	return contexts.WithOrgContext(context.Background(), &objects.OrgContext{
		OrganizationID:     1,
		WorkOSOrgID:        "org_test",
		SubOrganizationIDs: subOrgIDs,
	})
}

func TestStore_RequiresContext(t *testing.T) {
	repo := newSpyRepository()
	store := newTestStore(repo)
	ctx := context.Background()

	_, err := store.FindMany(ctx, ModelProjects, Query{})
	assert.Equal(t, objects.KindValidation, objects.KindOf(err))

	_, err = store.Create(ctx, ModelProjects, Record{"title": "x"})
	assert.Equal(t, objects.KindValidation, objects.KindOf(err))

	_, err = store.Update(ctx, ModelProjects, UpdateParams{Where: Eq("id", 1)})
	assert.Equal(t, objects.KindValidation, objects.KindOf(err))

	assert.Zero(t, repo.createCalls)
	assert.Zero(t, repo.updateCalls)
}

func TestStore_UnknownModel(t *testing.T) {
	store := newTestStore(newSpyRepository())

	_, err := store.FindMany(orgContext(1), ModelCourses, Query{})
	assert.Equal(t, objects.KindValidation, objects.KindOf(err))
}

func TestStore_FindMany_AugmentsFilter(t *testing.T) {
	repo := newSpyRepository()
	store := newTestStore(repo)

	caller := Filter{{Field: "title", Op: OpContains, Value: "x"}}

	_, err := store.FindMany(orgContext(1, 2), ModelProjects, Query{Filter: caller})
	require.NoError(t, err)

	require.Len(t, repo.findManyQueries, 1)
	got := repo.findManyQueries[0].Filter
	require.Len(t, got, 2)
	assert.Equal(t, Cond{Field: "title", Op: OpContains, Value: "x"}, got[0])
	assert.Equal(t, Cond{Field: PartitionField, Op: OpIn, Value: []int64{1, 2}}, got[1])

	// The caller's filter must stay untouched.
	assert.Len(t, caller, 1)
}

func TestStore_FindUnique_AntiEnumeration(t *testing.T) {
	repo := newSpyRepository()
	repo.uniqueResults[10] = Record{"id": int64(10), PartitionField: int64(99), "title": "other tenant"}
	store := newTestStore(repo)

	ctx := orgContext(7, 9)

	absent, errAbsent := store.FindUnique(ctx, ModelProjects, Eq("id", 11))
	foreign, errForeign := store.FindUnique(ctx, ModelProjects, Eq("id", 10))

	// Nonexistence and out-of-tenant existence must be indistinguishable.
	require.NoError(t, errAbsent)
	require.NoError(t, errForeign)
	assert.Nil(t, absent)
	assert.Nil(t, foreign)
	assert.Equal(t, absent, foreign)

	repo.uniqueResults[12] = Record{"id": int64(12), PartitionField: int64(7), "title": "mine"}

	mine, err := store.FindUnique(ctx, ModelProjects, Eq("id", 12))
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, "mine", mine["title"])
}

func TestStore_FindFirst_PointLookup(t *testing.T) {
	repo := newSpyRepository()
	store := newTestStore(repo)

	ctx := orgContext(7, 9)
	caller := Filter{{Field: "title", Op: OpEq, Value: "x"}}

	t.Run("no match", func(t *testing.T) {
		got, err := store.FindFirst(ctx, ModelProjects, Query{Filter: caller})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("out-of-tenant match reads as absent", func(t *testing.T) {
		repo.firstResult = Record{"id": int64(3), PartitionField: int64(99), "title": "x"}

		got, err := store.FindFirst(ctx, ModelProjects, Query{Filter: caller})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("in-tenant match", func(t *testing.T) {
		repo.firstResult = Record{"id": int64(4), PartitionField: int64(9), "title": "x"}

		got, err := store.FindFirst(ctx, ModelProjects, Query{Filter: caller})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(4), got["id"])
	})

	// The repository sees the caller's filter as-is, with no tenant condition
	// added. Scoping happens on the result, like FindUnique.
	require.Len(t, repo.findFirstQueries, 3)

	for _, q := range repo.findFirstQueries {
		assert.Equal(t, caller, q.Filter)
	}
}

func TestStore_Create(t *testing.T) {
	t.Run("defaults to first accessible sub-organization", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)

		created, err := store.Create(orgContext(7, 9), ModelProjects, Record{"title": "x"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), created[PartitionField])
		assert.Equal(t, 1, repo.createCalls)
	})

	t.Run("explicit accessible sub-organization", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)

		created, err := store.Create(orgContext(7, 9), ModelProjects, Record{"title": "x", PartitionField: int64(9)})
		require.NoError(t, err)
		assert.Equal(t, int64(9), created[PartitionField])
	})

	t.Run("inaccessible sub-organization performs no insert", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)

		_, err := store.Create(orgContext(7, 9), ModelProjects, Record{"title": "x", PartitionField: int64(99)})
		assert.Equal(t, objects.KindInvalidSubOrganization, objects.KindOf(err))
		assert.Zero(t, repo.createCalls)
	})

	t.Run("fractional sub-organization id performs no insert", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)

		// JSON decodes numbers as float64; 7.5 must not validate as 7.
		_, err := store.Create(orgContext(7, 9), ModelProjects, Record{"title": "x", PartitionField: float64(7.5)})
		assert.Equal(t, objects.KindInvalidSubOrganization, objects.KindOf(err))
		assert.Zero(t, repo.createCalls)
	})

	t.Run("empty accessible set", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)

		_, err := store.Create(orgContext(), ModelProjects, Record{"title": "x"})
		assert.Equal(t, objects.KindValidation, objects.KindOf(err))
		assert.Zero(t, repo.createCalls)
	})

	t.Run("does not mutate caller data", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)
		data := Record{"title": "x"}

		_, err := store.Create(orgContext(7), ModelProjects, data)
		require.NoError(t, err)
		assert.NotContains(t, data, PartitionField)
	})
}

func TestStore_Update(t *testing.T) {
	t.Run("absent target fails not-found with zero mutations", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)

		_, err := store.Update(orgContext(7), ModelProjects, UpdateParams{
			Where: Eq("id", 404),
			Data:  Record{"title": "y"},
		})
		assert.Equal(t, objects.KindNotFound, objects.KindOf(err))
		assert.Zero(t, repo.updateCalls)
	})

	t.Run("out-of-tenant target fails not-found with zero mutations", func(t *testing.T) {
		repo := newSpyRepository()
		repo.uniqueResults[10] = Record{"id": int64(10), PartitionField: int64(99)}
		store := newTestStore(repo)

		_, err := store.Update(orgContext(7), ModelProjects, UpdateParams{
			Where: Eq("id", 10),
			Data:  Record{"title": "y"},
		})
		assert.Equal(t, objects.KindNotFound, objects.KindOf(err))
		assert.Zero(t, repo.updateCalls)
	})

	t.Run("in-scope target updates", func(t *testing.T) {
		repo := newSpyRepository()
		repo.uniqueResults[10] = Record{"id": int64(10), PartitionField: int64(7)}
		store := newTestStore(repo)

		_, err := store.Update(orgContext(7), ModelProjects, UpdateParams{
			Where: Eq("id", 10),
			Data:  Record{"title": "y"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.updateCalls)
	})

	t.Run("moving to inaccessible partition is rejected", func(t *testing.T) {
		repo := newSpyRepository()
		repo.uniqueResults[10] = Record{"id": int64(10), PartitionField: int64(7)}
		store := newTestStore(repo)

		_, err := store.Update(orgContext(7), ModelProjects, UpdateParams{
			Where: Eq("id", 10),
			Data:  Record{PartitionField: int64(99)},
		})
		assert.Equal(t, objects.KindInvalidSubOrganization, objects.KindOf(err))
		assert.Zero(t, repo.updateCalls)
	})

	t.Run("moving to accessible partition is allowed", func(t *testing.T) {
		repo := newSpyRepository()
		repo.uniqueResults[10] = Record{"id": int64(10), PartitionField: int64(7)}
		store := newTestStore(repo)

		_, err := store.Update(orgContext(7, 9), ModelProjects, UpdateParams{
			Where: Eq("id", 10),
			Data:  Record{PartitionField: int64(9)},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.updateCalls)
	})

	t.Run("mutation filter carries the partition restriction", func(t *testing.T) {
		repo := newSpyRepository()
		repo.uniqueFallback = Record{"id": int64(10), PartitionField: int64(7)}
		store := newTestStore(repo)

		// A non-unique filter passes the gate on an in-scope first match; the
		// write itself must still be unable to reach rows in other tenants.
		_, err := store.Update(orgContext(7), ModelProjects, UpdateParams{
			Where: Eq("status", "draft"),
			Data:  Record{"status": "archived"},
		})
		require.NoError(t, err)

		require.Len(t, repo.updateFilters, 1)
		got := repo.updateFilters[0]
		require.Len(t, got, 2)
		assert.Equal(t, Cond{Field: "status", Op: OpEq, Value: "draft"}, got[0])
		assert.Equal(t, Cond{Field: PartitionField, Op: OpIn, Value: []int64{7}}, got[1])
	})
}

func TestStore_Delete(t *testing.T) {
	t.Run("absent target fails not-found with zero mutations", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)

		_, err := store.Delete(orgContext(7), ModelProjects, Eq("id", 404))
		assert.Equal(t, objects.KindNotFound, objects.KindOf(err))
		assert.Zero(t, repo.deleteCalls)
	})

	t.Run("out-of-tenant target fails not-found with zero mutations", func(t *testing.T) {
		repo := newSpyRepository()
		repo.uniqueResults[10] = Record{"id": int64(10), PartitionField: int64(99)}
		store := newTestStore(repo)

		_, err := store.Delete(orgContext(7), ModelProjects, Eq("id", 10))
		assert.Equal(t, objects.KindNotFound, objects.KindOf(err))
		assert.Zero(t, repo.deleteCalls)
	})

	t.Run("in-scope target deletes", func(t *testing.T) {
		repo := newSpyRepository()
		repo.uniqueResults[10] = Record{"id": int64(10), PartitionField: int64(7)}
		store := newTestStore(repo)

		_, err := store.Delete(orgContext(7), ModelProjects, Eq("id", 10))
		require.NoError(t, err)
		assert.Equal(t, 1, repo.deleteCalls)
	})

	t.Run("mutation filter carries the partition restriction", func(t *testing.T) {
		repo := newSpyRepository()
		repo.uniqueFallback = Record{"id": int64(10), PartitionField: int64(7)}
		store := newTestStore(repo)

		_, err := store.Delete(orgContext(7), ModelProjects, Eq("status", "draft"))
		require.NoError(t, err)

		require.Len(t, repo.deleteFilters, 1)
		got := repo.deleteFilters[0]
		require.Len(t, got, 2)
		assert.Equal(t, Cond{Field: "status", Op: OpEq, Value: "draft"}, got[0])
		assert.Equal(t, Cond{Field: PartitionField, Op: OpIn, Value: []int64{7}}, got[1])
	})
}

func TestStore_BulkOperations(t *testing.T) {
	t.Run("update-many augments filter without existence check", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)

		_, err := store.UpdateMany(orgContext(1, 2), ModelProjects, Eq("status", "draft"), Record{"status": "archived"})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.updateManyCalls)

		require.Len(t, repo.lastFilter, 2)
		assert.Equal(t, Cond{Field: PartitionField, Op: OpIn, Value: []int64{1, 2}}, repo.lastFilter[1])
	})

	t.Run("delete-many augments filter", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)

		_, err := store.DeleteMany(orgContext(1, 2), ModelProjects, Eq("status", "draft"))
		require.NoError(t, err)
		assert.Equal(t, 1, repo.deleteManyCalls)
		assert.Equal(t, Cond{Field: PartitionField, Op: OpIn, Value: []int64{1, 2}}, repo.lastFilter[1])
	})

	t.Run("count and aggregate and group-by augment filter", func(t *testing.T) {
		repo := newSpyRepository()
		store := newTestStore(repo)
		ctx := orgContext(3)

		_, err := store.Count(ctx, ModelProjects, nil)
		require.NoError(t, err)
		assert.Equal(t, Cond{Field: PartitionField, Op: OpIn, Value: []int64{3}}, repo.lastFilter[0])

		_, err = store.Aggregate(ctx, ModelProjects, Aggregation{Count: true})
		require.NoError(t, err)
		assert.Equal(t, Cond{Field: PartitionField, Op: OpIn, Value: []int64{3}}, repo.lastFilter[0])

		_, err = store.GroupBy(ctx, ModelProjects, Grouping{By: []string{"status"}, Count: true})
		require.NoError(t, err)
		assert.Equal(t, Cond{Field: PartitionField, Op: OpIn, Value: []int64{3}}, repo.lastFilter[0])
	})
}
