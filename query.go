package sqlmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
)

// QueryOption configures a Query
type QueryOption func(*Query)

// WithLogger sets the logger used to report execution failures at debug level
func WithLogger(logger *slog.Logger) QueryOption {
	return func(q *Query) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// Query is an SQL statement with its ordered parameters and the connection it
// runs on. The connection is borrowed; a Query never closes it.
type Query struct {
	query     string
	conn      Conn
	params    []Param
	lastError SQLError
	result    *Result
	logger    *slog.Logger
}

// NewQuery creates a query for conn
func NewQuery(conn Conn, query string, opts ...QueryOption) *Query {
	q := &Query{
		query:  query,
		conn:   conn,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Query returns the SQL text
func (q *Query) Query() string {
	return q.query
}

// SetQuery replaces the SQL text without validating it
func (q *Query) SetQuery(query string) {
	q.query = query
}

// Conn returns the connection the query runs on
func (q *Query) Conn() Conn {
	return q.conn
}

// BindValue appends a parameter. Values of a kind NewParam rejects return
// ErrInvalidParameterType and leave the parameters unchanged.
func (q *Query) BindValue(v any) error {
	p, err := NewParam(v)
	if err != nil {
		return err
	}
	q.params = append(q.params, p)
	return nil
}

// BindParam appends an already typed parameter
func (q *Query) BindParam(p Param) {
	q.params = append(q.params, p)
}

// BindValues replaces every parameter. A single slice argument, such as
// []any, []Param or []string, is used as the parameter list itself; []byte
// stays one value. Either every value is accepted or the parameters are left
// unchanged.
func (q *Query) BindValues(values ...any) error {
	if len(values) == 1 {
		values = expandList(values)
	}

	params := make([]Param, 0, len(values))
	for i, v := range values {
		p, err := NewParam(v)
		if err != nil {
			return fmt.Errorf("parameter %d: %w", i+1, err)
		}
		params = append(params, p)
	}
	q.params = params
	return nil
}

func expandList(values []any) []any {
	switch list := values[0].(type) {
	case []any:
		return list
	case []byte:
		return values
	}

	rv := reflect.ValueOf(values[0])
	if rv.Kind() != reflect.Slice {
		return values
	}
	expanded := make([]any, rv.Len())
	for i := range expanded {
		expanded[i] = rv.Index(i).Interface()
	}
	return expanded
}

// Params returns a copy of the bound parameters
func (q *Query) Params() []Param {
	return slices.Clone(q.params)
}

// ClearParams removes every bound parameter
func (q *Query) ClearParams() {
	q.params = nil
}

// Prepare asks the connection to prepare query and, on success, stores it as
// the SQL text. A successful Prepare does not guarantee a successful Exec:
// some backends only validate at execution.
func (q *Query) Prepare(ctx context.Context, query string) error {
	if q.conn == nil {
		return ErrNoConnection
	}

	stmt, err := q.conn.Prepare(ctx, query)
	if err != nil {
		return newSQLErrorFrom(err, ErrorTypeConnection)
	}
	q.query = query

	if err := stmt.Close(); err != nil {
		q.logger.Debug("failed to close prepared statement", "error", err)
	}
	return nil
}

// Exec prepares the SQL text, binds every parameter in order and executes
// it. On success the buffered rows become the new Result and nil is
// returned. On failure the returned error is the SQLError also reported by
// LastError, and Result is empty.
func (q *Query) Exec(ctx context.Context) error {
	q.lastError = SQLError{}

	if q.conn == nil {
		return q.fail("connect", newSQLErrorFrom(ErrNoConnection, ErrorTypeConnection))
	}

	stmt, err := q.conn.Prepare(ctx, q.query)
	if err != nil {
		return q.fail("prepare", newSQLErrorFrom(err, ErrorTypeConnection))
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			q.logger.Debug("failed to close statement", "error", closeErr)
		}
	}()

	for i, p := range q.params {
		value, err := p.Value()
		if err != nil {
			return q.fail("bind", newSQLErrorFrom(err, ErrorTypeUnknown))
		}
		if err := stmt.Bind(i+1, value); err != nil {
			return q.fail("bind", newSQLErrorFrom(err, ErrorTypeBinding))
		}
	}

	if err := stmt.Execute(ctx); err != nil {
		if errors.Is(err, ErrArgumentCount) {
			return q.fail("bind", newSQLErrorFrom(err, ErrorTypeBinding))
		}
		return q.fail("execute", newSQLErrorFrom(err, ErrorTypeStatement))
	}

	columns, rows := stmt.FetchAll()
	q.result = NewResult(columns, rows, stmt.RowsAffected(), SQLError{})
	return nil
}

func (q *Query) fail(stage string, sqlErr SQLError) error {
	q.lastError = sqlErr
	q.result = newEmptyResult(sqlErr)
	q.logger.Debug("query failed",
		"stage", stage,
		"type", sqlErr.Type().String(),
		"code", sqlErr.Code(),
		"error", sqlErr.Text(),
	)
	return sqlErr
}

// Result returns the result of the last Exec, or nil before the first Exec
func (q *Query) Result() *Result {
	return q.result
}

// LastError returns the error of the last Exec. It is empty after a successful Exec.
func (q *Query) LastError() SQLError {
	return q.lastError
}

// LastInsertID returns the id of the most recently inserted row on the connection
func (q *Query) LastInsertID(ctx context.Context) (string, error) {
	if q.conn == nil {
		return "", ErrNoConnection
	}
	return q.conn.LastInsertID(ctx)
}

// NumRowsAffected returns the affected row count of the last Exec, or -1
// before the first Exec
func (q *Query) NumRowsAffected() int64 {
	if q.result == nil {
		return -1
	}
	return q.result.NumRowsAffected()
}
