package sqlmodel

import (
	"database/sql"
	"fmt"
	"iter"
	"reflect"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/mtoolkit/sqlmodel/domain/model"
)

const (
	// BeforeFirstRow is reported by At when the cursor is before the first row
	BeforeFirstRow = -1
	// AfterLastRow is reported by At when the cursor is past the last row
	AfterLastRow = -2
)

// mapper matches columns to struct fields the way sqlx does: the db tag, or
// the lowercased field name.
var mapper = reflectx.NewMapperFunc("db", sqlx.NameMapper)

// Result is a fully buffered result set with a cursor. Row data never changes
// after construction; only the cursor position moves. Rows may be read
// concurrently, the cursor is not synchronized.
type Result struct {
	fields       []string
	rows         [][]any
	position     int
	rowsAffected int64
	lastError    SQLError
}

// NewResult builds a result from column names and rows. Duplicate column
// names collapse into the first position, keeping the last value of each row.
// Fields come from the first row: a result without rows has no fields.
func NewResult(columns []string, rows [][]any, rowsAffected int64, lastError SQLError) *Result {
	if len(rows) == 0 {
		return &Result{rowsAffected: rowsAffected, lastError: lastError}
	}
	fields, rows := normalizeColumns(columns, rows)
	return &Result{
		fields:       fields,
		rows:         rows,
		rowsAffected: rowsAffected,
		lastError:    lastError,
	}
}

// newEmptyResult returns the result left behind by a failed execution
func newEmptyResult(lastError SQLError) *Result {
	return &Result{rowsAffected: -1, lastError: lastError}
}

func normalizeColumns(columns []string, rows [][]any) ([]string, [][]any) {
	index := make(map[string]int, len(columns))
	fields := make([]string, 0, len(columns))
	target := make([]int, len(columns))
	for i, name := range columns {
		pos, ok := index[name]
		if !ok {
			pos = len(fields)
			index[name] = pos
			fields = append(fields, name)
		}
		target[i] = pos
	}
	if len(fields) == len(columns) {
		return fields, rows
	}

	normalized := make([][]any, len(rows))
	for r, row := range rows {
		out := make([]any, len(fields))
		for i, v := range row {
			if i < len(target) {
				out[target[i]] = v
			}
		}
		normalized[r] = out
	}
	return fields, normalized
}

// RowCount returns the number of rows
func (r *Result) RowCount() int {
	return len(r.rows)
}

// ColumnCount returns the number of distinct columns
func (r *Result) ColumnCount() int {
	return len(r.fields)
}

// Fields returns the column names in order
func (r *Result) Fields() []string {
	return slices.Clone(r.fields)
}

// ColumnInfo returns the column names with the data type inferred from every row
func (r *Result) ColumnInfo() []ColumnInfo {
	return model.InferColumnsInfo(r.fields, r.rows)
}

// Data returns the value of the named column in row
func (r *Result) Data(row int, column string) (any, error) {
	col := slices.Index(r.fields, column)
	if col < 0 {
		return nil, fmt.Errorf("%w: column %q", ErrOutOfRange, column)
	}
	return r.DataAt(row, col)
}

// DataAt returns the value at row and column
func (r *Result) DataAt(row, column int) (any, error) {
	if row < 0 || row >= len(r.rows) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrOutOfRange, row, len(r.rows))
	}
	if column < 0 || column >= len(r.fields) {
		return nil, fmt.Errorf("%w: column %d of %d", ErrOutOfRange, column, len(r.fields))
	}
	values := r.rows[row]
	if column >= len(values) {
		return nil, nil
	}
	return values[column], nil
}

// At returns the cursor position, BeforeFirstRow when it is negative or
// AfterLastRow when it is beyond RowCount. A position equal to RowCount is
// reported as is.
func (r *Result) At() int {
	switch {
	case r.position < 0:
		return BeforeFirstRow
	case r.position > len(r.rows):
		return AfterLastRow
	default:
		return r.position
	}
}

// SetAt moves the cursor without bounds checking
func (r *Result) SetAt(position int) {
	r.position = position
}

// Next advances the cursor by one row
func (r *Result) Next() {
	r.position++
}

// Rewind moves the cursor to the first row
func (r *Result) Rewind() {
	r.position = 0
}

// Valid reports whether the cursor is on a row
func (r *Result) Valid() bool {
	return r.position >= 0 && r.position < len(r.rows)
}

// Record returns a snapshot of the row under the cursor
func (r *Result) Record() (*Record, error) {
	rec, ok := r.RecordAt(r.position)
	if !ok {
		return nil, fmt.Errorf("%w: cursor at %d of %d", ErrIndexOutOfRange, r.position, len(r.rows))
	}
	return rec, nil
}

// RecordAt returns a snapshot of row i. Changes to the record do not affect the result.
func (r *Result) RecordAt(i int) (*Record, bool) {
	if !r.Has(i) {
		return nil, false
	}
	return NewRecord(r.fields, r.rows[i]), true
}

// Has reports whether row i exists
func (r *Result) Has(i int) bool {
	return i >= 0 && i < len(r.rows)
}

// All rewinds the cursor and iterates over every row, advancing the cursor
// as it goes. When the loop completes the cursor is past the last row; when
// it stops early the cursor stays on the last yielded row.
func (r *Result) All() iter.Seq2[int, *Record] {
	return func(yield func(int, *Record) bool) {
		for r.Rewind(); r.Valid(); r.Next() {
			rec, _ := r.RecordAt(r.position)
			if !yield(r.position, rec) {
				return
			}
		}
	}
}

// Rows returns a copy of every row
func (r *Result) Rows() [][]any {
	rows := make([][]any, len(r.rows))
	for i, row := range r.rows {
		rows[i] = slices.Clone(row)
	}
	return rows
}

// NumRowsAffected returns the affected row count reported for the statement, or -1
func (r *Result) NumRowsAffected() int64 {
	return r.rowsAffected
}

// LastError returns the error captured when the result was produced
func (r *Result) LastError() SQLError {
	return r.lastError
}

// ObjectAt copies row i into the struct pointed to by dest. Columns are
// matched to fields by db tag or lowercased field name and unmatched columns
// are skipped. Values are assigned as they are; a value whose type is not
// assignable to its field returns ErrConversion, unless the field
// implements sql.Scanner. On failure dest keeps its previous value.
func (r *Result) ObjectAt(i int, dest any) error {
	if !r.Has(i) {
		return fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, i, len(r.rows))
	}

	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a non-nil struct pointer", ErrInvalidTarget, dest)
	}
	v = v.Elem()

	// fill a copy so a failing column leaves dest untouched
	scratch := reflect.New(v.Type()).Elem()
	scratch.Set(v)

	traversals := mapper.TraversalsByName(v.Type(), r.fields)
	row := r.rows[i]
	for col, traversal := range traversals {
		if len(traversal) == 0 || col >= len(row) {
			continue
		}
		field := reflectx.FieldByIndexes(scratch, traversal)
		if err := assign(field, row[col]); err != nil {
			return fmt.Errorf("column %q: %w", r.fields[col], err)
		}
	}
	v.Set(scratch)
	return nil
}

// CurrentObject copies the row under the cursor into dest
func (r *Result) CurrentObject(dest any) error {
	return r.ObjectAt(r.position, dest)
}

func assign(field reflect.Value, value any) error {
	if scanner, ok := field.Addr().Interface().(sql.Scanner); ok {
		if err := scanner.Scan(value); err != nil {
			return fmt.Errorf("%w: %w", ErrConversion, err)
		}
		return nil
	}

	if value == nil {
		field.SetZero()
		return nil
	}

	rv := reflect.ValueOf(value)
	if !rv.Type().AssignableTo(field.Type()) {
		return fmt.Errorf("%w: cannot assign %T to %s", ErrConversion, value, field.Type())
	}
	field.Set(rv)
	return nil
}
