package driver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/mtoolkit/sqlmodel/domain/model"
	"modernc.org/sqlite"
)

// SQLiteDriverName is the database/sql name modernc.org/sqlite registers under
const SQLiteDriverName = "sqlite"

// conner is the subset of *sqlx.DB, *sqlx.Conn and *sqlx.Tx a Connection needs
type conner interface {
	PreparexContext(ctx context.Context, query string) (*sqlx.Stmt, error)
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

// Connection implements model.Conn on top of a database/sql pool.
// It holds one pinned connection for its whole lifetime.
type Connection struct {
	mu      sync.Mutex
	db      *sqlx.DB   // nil for connections built from a borrowed *sqlx.Conn
	conn    *sqlx.Conn // pinned physical connection
	q       conner
	dialect Dialect
	ownsDB  bool
	// ownsConn is false when conn was handed in by the caller
	ownsConn bool
	closed   bool
}

var _ model.Conn = (*Connection)(nil)

// Open opens a database with the given database/sql driver name and DSN and
// pins one connection to it. The returned Connection owns the pool.
func Open(ctx context.Context, driverName, dsn string) (*Connection, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn, err := newConnection(ctx, db, true)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, errors.Join(err, fmt.Errorf("failed to close database: %w", closeErr))
		}
		return nil, err
	}
	return conn, nil
}

// OpenSQLite opens an SQLite database through modernc.org/sqlite.
// Use ":memory:" for a private in-memory database.
func OpenSQLite(ctx context.Context, dsn string) (*Connection, error) {
	return Open(ctx, SQLiteDriverName, dsn)
}

// New pins a connection from a borrowed pool. Closing the returned
// Connection releases the pinned connection but leaves db open.
func New(ctx context.Context, db *sqlx.DB) (*Connection, error) {
	return newConnection(ctx, db, false)
}

// NewFromDB wraps a plain *sql.DB. The driver name is detected from the
// registered driver; unknown drivers get the generic dialect.
func NewFromDB(ctx context.Context, db *sql.DB) (*Connection, error) {
	return New(ctx, sqlx.NewDb(db, DriverNameOf(db.Driver())))
}

// FromConn wraps an already pinned *sqlx.Conn. driverName selects the
// placeholder style and dialect. conn is borrowed: closing the Connection
// leaves it open.
func FromConn(conn *sqlx.Conn, driverName string) *Connection {
	return &Connection{
		conn:    conn,
		q:       conn,
		dialect: DialectFor(driverName),
	}
}

func newConnection(ctx context.Context, db *sqlx.DB, owns bool) (*Connection, error) {
	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", newError(err))
	}

	return &Connection{
		db:      db,
		conn:    conn,
		q:       conn,
		dialect:  DialectFor(db.DriverName()),
		ownsDB:   owns,
		ownsConn: true,
	}, nil
}

// DriverNameOf returns the database/sql name of a known driver, or an empty string.
func DriverNameOf(d driver.Driver) string {
	switch d.(type) {
	case *sqlite.Driver:
		return SQLiteDriverName
	default:
		return ""
	}
}

// Dialect returns the SQL dialect of the connection
func (c *Connection) Dialect() Dialect {
	return c.dialect
}

// DB returns the pool the connection was pinned from, or nil
func (c *Connection) DB() *sqlx.DB {
	return c.db
}

// Prepare implements model.Conn. Placeholders written as '?' are rebound to
// the dialect's style before the statement is sent to the database.
func (c *Connection) Prepare(ctx context.Context, query string) (model.Stmt, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	stmt, err := c.q.PreparexContext(ctx, c.q.Rebind(query))
	if err != nil {
		return nil, newError(err)
	}
	return &Statement{conn: c, stmt: stmt, affected: -1}, nil
}

// LastInsertID implements model.Conn
func (c *Connection) LastInsertID(ctx context.Context) (string, error) {
	if err := c.checkOpen(); err != nil {
		return "", err
	}
	if c.dialect.LastInsertIDQuery == "" {
		return "", nil
	}

	var id sql.NullString
	if err := c.q.QueryRowxContext(ctx, c.dialect.LastInsertIDQuery).Scan(&id); err != nil {
		return "", newError(err)
	}
	return id.String, nil
}

// rowsAffected asks the database for the change count of the last statement
func (c *Connection) rowsAffected(ctx context.Context) int64 {
	if c.dialect.RowsAffectedQuery == "" {
		return -1
	}

	var n int64
	if err := c.q.QueryRowxContext(ctx, c.dialect.RowsAffectedQuery).Scan(&n); err != nil {
		return -1
	}
	return n
}

func (c *Connection) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// Close releases the pinned connection it acquired and, when the Connection
// was opened with Open or OpenSQLite, the pool. Closing twice is a no-op.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if c.conn != nil && c.ownsConn {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release connection: %w", err))
		}
	}
	if c.ownsDB && c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Statement implements model.Stmt. Execute buffers the complete row set so
// the underlying cursor is closed before the statement reports success.
type Statement struct {
	conn     *Connection
	stmt     *sqlx.Stmt
	args     []interface{}
	columns  []string
	rows     [][]any
	affected int64
	executed bool
}

var _ model.Stmt = (*Statement)(nil)

// Bind implements model.Stmt
func (s *Statement) Bind(position int, value driver.Value) error {
	if position < 1 {
		return &Error{
			Message: fmt.Sprintf("%v: %d", ErrInvalidPosition, position),
			Err:     ErrInvalidPosition,
		}
	}

	converted, err := driver.DefaultParameterConverter.ConvertValue(value)
	if err != nil {
		return newError(fmt.Errorf("failed to bind parameter %d: %w", position, err))
	}

	for len(s.args) < position {
		s.args = append(s.args, nil)
	}
	s.args[position-1] = converted
	return nil
}

// Execute implements model.Stmt
func (s *Statement) Execute(ctx context.Context) error {
	if err := s.conn.checkOpen(); err != nil {
		return err
	}

	s.executed = false
	s.columns = nil
	s.rows = nil
	s.affected = -1

	rows, err := s.stmt.QueryxContext(ctx, s.args...)
	if err != nil {
		if bindErr := newBindError(err); bindErr != nil {
			return bindErr
		}
		return newError(err)
	}

	columns, rowSet, err := scanAll(rows)
	if closeErr := rows.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return newError(err)
	}

	s.columns = columns
	s.rows = rowSet
	if len(columns) > 0 {
		// row-returning statements (SELECT, INSERT ... RETURNING) report their row count
		s.affected = int64(len(rowSet))
	} else {
		s.affected = s.conn.rowsAffected(ctx)
	}
	s.executed = true
	return nil
}

// scanAll reads every remaining row with SliceScan
func scanAll(rows *sqlx.Rows) ([]string, [][]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateColumnCount(len(columns)); err != nil {
		return nil, nil, err
	}

	var rowSet [][]any
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, nil, err
		}
		rowSet = append(rowSet, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, rowSet, nil
}

// FetchAll implements model.Stmt. It returns nil slices before Execute.
func (s *Statement) FetchAll() ([]string, [][]any) {
	if !s.executed {
		return nil, nil
	}
	return s.columns, s.rows
}

// RowsAffected implements model.Stmt
func (s *Statement) RowsAffected() int64 {
	return s.affected
}

// Close implements model.Stmt
func (s *Statement) Close() error {
	return s.stmt.Close()
}
