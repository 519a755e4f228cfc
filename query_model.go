package sqlmodel

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mtoolkit/sqlmodel/domain/model"
)

// QueryModel presents the result of a query as a read-only table
type QueryModel struct {
	model.BaseModel

	registry *Registry
	query    *Query
	opts     []QueryOption

	// owned is the connection Wrap created for the current query, if any
	owned io.Closer
}

var _ model.EditableModel = (*QueryModel)(nil)

// NewQueryModel creates an empty model. registry supplies the default
// connection and may be nil.
func NewQueryModel(registry *Registry, opts ...QueryOption) *QueryModel {
	return &QueryModel{registry: registry, opts: opts}
}

// SetQuery runs query on handle and replaces the model content with its
// result. A nil handle selects the registry's default connection; other
// handles are converted with Wrap. When the query fails its error is
// returned and the model is left empty but usable.
func (m *QueryModel) SetQuery(ctx context.Context, query string, handle any) error {
	conn, owned, err := m.resolve(ctx, handle)
	if err != nil {
		return err
	}
	if err := m.release(); err != nil {
		return errors.Join(err, closeOwned(owned))
	}

	m.owned = owned
	m.query = NewQuery(conn, query, m.opts...)
	return m.query.Exec(ctx)
}

func (m *QueryModel) resolve(ctx context.Context, handle any) (Conn, io.Closer, error) {
	if handle == nil {
		if m.registry == nil {
			return nil, nil, fmt.Errorf("%w: no registry", ErrNoConnection)
		}
		conn, ok := m.registry.Default()
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q is not registered", ErrNoConnection, DefaultConnectionName)
		}
		return conn, nil, nil
	}

	if conn, ok := handle.(Conn); ok {
		return conn, nil, nil
	}
	conn, err := Wrap(ctx, handle)
	if err != nil {
		return nil, nil, err
	}
	closer, _ := conn.(io.Closer)
	return conn, closer, nil
}

func closeOwned(c io.Closer) error {
	if c == nil {
		return nil
	}
	return c.Close()
}

func (m *QueryModel) release() error {
	err := closeOwned(m.owned)
	m.owned = nil
	return err
}

// Close releases the connection the model created for a wrapped handle.
// Connections supplied as Conn or through the registry are left open.
func (m *QueryModel) Close() error {
	return m.release()
}

// Query returns the underlying query, or nil before SetQuery
func (m *QueryModel) Query() *Query {
	return m.query
}

// Result returns the result of the current query, or nil before SetQuery
func (m *QueryModel) Result() *Result {
	if m.query == nil {
		return nil
	}
	return m.query.Result()
}

// LastError returns the error of the current query
func (m *QueryModel) LastError() SQLError {
	if m.query == nil {
		return SQLError{}
	}
	return m.query.LastError()
}

// RowCount returns the number of rows
func (m *QueryModel) RowCount() int {
	if r := m.Result(); r != nil {
		return r.RowCount()
	}
	return 0
}

// ColumnCount returns the number of columns
func (m *QueryModel) ColumnCount() int {
	if r := m.Result(); r != nil {
		return r.ColumnCount()
	}
	return 0
}

// Data returns the value at row and column, or nil when out of range
func (m *QueryModel) Data(row, column int) any {
	r := m.Result()
	if r == nil {
		return nil
	}
	v, err := r.DataAt(row, column)
	if err != nil {
		return nil
	}
	return v
}

// HeaderData returns the column name for horizontal headers and the 0-based
// row number for vertical headers, or nil when section is out of range
func (m *QueryModel) HeaderData(section int, orientation Orientation) any {
	r := m.Result()
	if r == nil || section < 0 {
		return nil
	}

	switch orientation {
	case model.Horizontal:
		if section < r.ColumnCount() {
			return r.fields[section]
		}
	case model.Vertical:
		if section < r.RowCount() {
			return section
		}
	}
	return nil
}
