package biz

import (
	"database/sql"
)

// AbstractService carries the shared database handle for services that talk
// to postgres directly instead of going through the scoped store.
type AbstractService struct {
	db *sql.DB
}
