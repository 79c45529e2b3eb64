// Package pg implements the persistence surfaces of the engine on postgres:
// the resolver's RBAC lookups, organization resolution, and the generic
// table-backed repositories behind the scoped data access layer.
package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaDDL string

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying pool for services that run their own SQL.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate applies the schema. Statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}
