package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/looplj/orghub/internal/scopes"
)

// TableRepository is a generic table-backed implementation of
// scopes.Repository. It applies filters verbatim and performs no tenant
// checks of its own; scoping is entirely the caller's concern.
//
// Field names are validated against a per-table column allow-list, so caller
// input can never reach the SQL text as an identifier.
type TableRepository struct {
	db      *sql.DB
	table   string
	columns []string
}

func NewTableRepository(db *sql.DB, table string, columns []string) *TableRepository {
	return &TableRepository{db: db, table: table, columns: columns}
}

// NewRegistry builds the repository registry for all scoped models.
func NewRegistry(db *sql.DB) *scopes.Registry {
	registry := scopes.NewRegistry()

	registry.Register(scopes.ModelProjects, NewTableRepository(db, "projects",
		[]string{"id", "sub_organization_id", "title", "status", "budget", "created_at", "updated_at"}))
	registry.Register(scopes.ModelCourses, NewTableRepository(db, "courses",
		[]string{"id", "sub_organization_id", "title", "status", "capacity", "created_at", "updated_at"}))
	registry.Register(scopes.ModelEvents, NewTableRepository(db, "events",
		[]string{"id", "sub_organization_id", "title", "status", "starts_at", "created_at", "updated_at"}))
	registry.Register(scopes.ModelParticipants, NewTableRepository(db, "participants",
		[]string{"id", "sub_organization_id", "name", "email", "status", "created_at", "updated_at"}))

	return registry
}

func (r *TableRepository) column(name string) (string, error) {
	if lo.Contains(r.columns, name) {
		return name, nil
	}

	return "", fmt.Errorf("pg: unknown column %q on table %q", name, r.table)
}

// whereClause renders the filter as a conjunction, appending arguments to
// args. Returns an empty string for an empty filter.
func (r *TableRepository) whereClause(filter scopes.Filter, args *[]any) (string, error) {
	if len(filter) == 0 {
		return "", nil
	}

	var parts []string

	for _, cond := range filter {
		column, err := r.column(cond.Field)
		if err != nil {
			return "", err
		}

		switch cond.Op {
		case scopes.OpEq:
			*args = append(*args, cond.Value)
			parts = append(parts, fmt.Sprintf("%s = $%d", column, len(*args)))
		case scopes.OpNeq:
			*args = append(*args, cond.Value)
			parts = append(parts, fmt.Sprintf("%s <> $%d", column, len(*args)))
		case scopes.OpContains:
			*args = append(*args, fmt.Sprintf("%%%v%%", cond.Value))
			parts = append(parts, fmt.Sprintf("%s ilike $%d", column, len(*args)))
		case scopes.OpGt:
			*args = append(*args, cond.Value)
			parts = append(parts, fmt.Sprintf("%s > $%d", column, len(*args)))
		case scopes.OpGte:
			*args = append(*args, cond.Value)
			parts = append(parts, fmt.Sprintf("%s >= $%d", column, len(*args)))
		case scopes.OpLt:
			*args = append(*args, cond.Value)
			parts = append(parts, fmt.Sprintf("%s < $%d", column, len(*args)))
		case scopes.OpLte:
			*args = append(*args, cond.Value)
			parts = append(parts, fmt.Sprintf("%s <= $%d", column, len(*args)))
		case scopes.OpIn:
			placeholders, err := expandIn(cond.Value, args)
			if err != nil {
				return "", err
			}

			parts = append(parts, fmt.Sprintf("%s in (%s)", column, placeholders))
		default:
			return "", fmt.Errorf("pg: unsupported operator %q", cond.Op)
		}
	}

	return " where " + strings.Join(parts, " and "), nil
}

// expandIn expands a slice value to one placeholder per element. An empty
// slice yields a never-true predicate.
func expandIn(value any, args *[]any) (string, error) {
	var values []any

	switch v := value.(type) {
	case []int64:
		for _, item := range v {
			values = append(values, item)
		}
	case []string:
		for _, item := range v {
			values = append(values, item)
		}
	case []any:
		values = v
	default:
		return "", fmt.Errorf("pg: IN requires a slice value, got %T", value)
	}

	if len(values) == 0 {
		return "null", nil
	}

	placeholders := make([]string, len(values))
	for i, item := range values {
		*args = append(*args, item)
		placeholders[i] = fmt.Sprintf("$%d", len(*args))
	}

	return strings.Join(placeholders, ", "), nil
}

func (r *TableRepository) scanRows(rows *sql.Rows) ([]scopes.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []scopes.Record

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		record := make(scopes.Record, len(columns))
		for i, column := range columns {
			record[column] = normalizeValue(values[i])
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// normalizeValue converts driver byte slices to strings so records compare
// cleanly in callers and tests.
func normalizeValue(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}

	return value
}

func (r *TableRepository) FindMany(ctx context.Context, query scopes.Query) ([]scopes.Record, error) {
	var args []any

	where, err := r.whereClause(query.Filter, &args)
	if err != nil {
		return nil, err
	}

	sb := strings.Builder{}
	sb.WriteString("select ")
	sb.WriteString(strings.Join(r.columns, ", "))
	sb.WriteString(" from ")
	sb.WriteString(r.table)
	sb.WriteString(where)

	if query.OrderBy != "" {
		column, err := r.column(query.OrderBy)
		if err != nil {
			return nil, err
		}

		sb.WriteString(" order by ")
		sb.WriteString(column)

		if query.Desc {
			sb.WriteString(" desc")
		}
	}

	if query.Limit > 0 {
		args = append(args, query.Limit)
		sb.WriteString(fmt.Sprintf(" limit $%d", len(args)))
	}

	if query.Offset > 0 {
		args = append(args, query.Offset)
		sb.WriteString(fmt.Sprintf(" offset $%d", len(args)))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *TableRepository) FindFirst(ctx context.Context, query scopes.Query) (scopes.Record, error) {
	query.Limit = 1

	records, err := r.FindMany(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}

	return records[0], nil
}

func (r *TableRepository) FindUnique(ctx context.Context, filter scopes.Filter) (scopes.Record, error) {
	return r.FindFirst(ctx, scopes.Query{Filter: filter})
}

func (r *TableRepository) Count(ctx context.Context, filter scopes.Filter) (int64, error) {
	var args []any

	where, err := r.whereClause(filter, &args)
	if err != nil {
		return 0, err
	}

	var count int64

	row := r.db.QueryRowContext(ctx, "select count(*) from "+r.table+where, args...)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table, err)
	}

	return count, nil
}

func (r *TableRepository) Aggregate(ctx context.Context, agg scopes.Aggregation) (scopes.Record, error) {
	var selects []string

	if agg.Count {
		selects = append(selects, "count(*) as count")
	}

	functions := []struct {
		name   string
		fields []string
	}{
		{"sum", agg.Sum},
		{"avg", agg.Avg},
		{"min", agg.Min},
		{"max", agg.Max},
	}

	for _, fn := range functions {
		for _, field := range fn.fields {
			column, err := r.column(field)
			if err != nil {
				return nil, err
			}

			selects = append(selects, fmt.Sprintf("%s(%s) as %s_%s", fn.name, column, fn.name, column))
		}
	}

	if len(selects) == 0 {
		return nil, errors.New("pg: aggregation selects nothing")
	}

	var args []any

	where, err := r.whereClause(agg.Filter, &args)
	if err != nil {
		return nil, err
	}

	query := "select " + strings.Join(selects, ", ") + " from " + r.table + where

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", r.table, err)
	}
	defer rows.Close()

	records, err := r.scanRows(rows)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return scopes.Record{}, nil
	}

	return records[0], nil
}

func (r *TableRepository) GroupBy(ctx context.Context, grouping scopes.Grouping) ([]scopes.Record, error) {
	if len(grouping.By) == 0 {
		return nil, errors.New("pg: group-by requires at least one column")
	}

	var groupColumns []string

	for _, field := range grouping.By {
		column, err := r.column(field)
		if err != nil {
			return nil, err
		}

		groupColumns = append(groupColumns, column)
	}

	selects := append([]string{}, groupColumns...)

	if grouping.Count {
		selects = append(selects, "count(*) as count")
	}

	for _, field := range grouping.Sum {
		column, err := r.column(field)
		if err != nil {
			return nil, err
		}

		selects = append(selects, fmt.Sprintf("sum(%s) as sum_%s", column, column))
	}

	var args []any

	where, err := r.whereClause(grouping.Filter, &args)
	if err != nil {
		return nil, err
	}

	query := "select " + strings.Join(selects, ", ") + " from " + r.table + where +
		" group by " + strings.Join(groupColumns, ", ")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to group %s: %w", r.table, err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *TableRepository) Create(ctx context.Context, data scopes.Record) (scopes.Record, error) {
	if len(data) == 0 {
		return nil, errors.New("pg: create requires data")
	}

	var (
		columns      []string
		placeholders []string
		args         []any
	)

	// Iterate the allow-list for a stable column order.
	for _, column := range r.columns {
		value, ok := data[column]
		if !ok {
			continue
		}

		args = append(args, value)
		columns = append(columns, column)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("pg: no known columns in create data for table %q", r.table)
	}

	query := fmt.Sprintf("insert into %s (%s) values (%s) returning %s",
		r.table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(r.columns, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", r.table, err)
	}
	defer rows.Close()

	records, err := r.scanRows(rows)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", r.table)
	}

	return records[0], nil
}

// setClause renders the update assignments, appending arguments to args.
func (r *TableRepository) setClause(data scopes.Record, args *[]any) (string, error) {
	var sets []string

	for _, column := range r.columns {
		value, ok := data[column]
		if !ok {
			continue
		}

		*args = append(*args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(*args)))
	}

	if len(sets) == 0 {
		return "", fmt.Errorf("pg: no known columns in update data for table %q", r.table)
	}

	return strings.Join(sets, ", "), nil
}

func (r *TableRepository) Update(ctx context.Context, filter scopes.Filter, data scopes.Record) (scopes.Record, error) {
	var args []any

	sets, err := r.setClause(data, &args)
	if err != nil {
		return nil, err
	}

	where, err := r.whereClause(filter, &args)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("update %s set %s%s returning %s",
		r.table, sets, where, strings.Join(r.columns, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", r.table, err)
	}
	defer rows.Close()

	records, err := r.scanRows(rows)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}

	return records[0], nil
}

func (r *TableRepository) UpdateMany(ctx context.Context, filter scopes.Filter, data scopes.Record) (int64, error) {
	var args []any

	sets, err := r.setClause(data, &args)
	if err != nil {
		return 0, err
	}

	where, err := r.whereClause(filter, &args)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, fmt.Sprintf("update %s set %s%s", r.table, sets, where), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", r.table, err)
	}

	return result.RowsAffected()
}

func (r *TableRepository) Delete(ctx context.Context, filter scopes.Filter) (scopes.Record, error) {
	var args []any

	where, err := r.whereClause(filter, &args)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("delete from %s%s returning %s", r.table, where, strings.Join(r.columns, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete from %s: %w", r.table, err)
	}
	defer rows.Close()

	records, err := r.scanRows(rows)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}

	return records[0], nil
}

func (r *TableRepository) DeleteMany(ctx context.Context, filter scopes.Filter) (int64, error) {
	var args []any

	where, err := r.whereClause(filter, &args)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, "delete from "+r.table+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", r.table, err)
	}

	return result.RowsAffected()
}

var _ scopes.Repository = (*TableRepository)(nil)
