// Package model provides domain model for sqlmodel
package model

import (
	"context"
	"database/sql/driver"
)

// Conn is a database connection handle a query executes against.
// Implementations are borrowed by queries, never closed by them.
type Conn interface {
	// Prepare validates and prepares query. Some backends defer validation
	// to execution, so a successful Prepare does not guarantee Execute succeeds.
	Prepare(ctx context.Context, query string) (Stmt, error)
	// LastInsertID returns the id of the most recently inserted row, or an
	// empty string when the backend cannot report it.
	LastInsertID(ctx context.Context) (string, error)
}

// Stmt is a prepared statement produced by Conn.Prepare.
type Stmt interface {
	// Bind sets the value of the 1-based placeholder position.
	Bind(position int, value driver.Value) error
	// Execute runs the statement with the bound values and buffers every row.
	Execute(ctx context.Context) error
	// FetchAll returns the column names and the rows buffered by Execute.
	FetchAll() (columns []string, rows [][]any)
	// RowsAffected returns the affected row count of the last Execute, or -1.
	RowsAffected() int64
	// Close releases the statement.
	Close() error
}
