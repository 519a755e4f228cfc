package sqlmodel

import (
	"database/sql"
	"iter"
	"slices"
)

// Record is one row of a result: an ordered mapping from column name to
// value. Names are unique and keep their insertion order.
type Record struct {
	names  []string
	values map[string]any
}

// NewRecord creates a record from parallel name and value slices. A name that
// occurs more than once keeps its first position and takes the last value.
// Missing values are NULL.
func NewRecord(names []string, values []any) *Record {
	r := &Record{
		names:  make([]string, 0, len(names)),
		values: make(map[string]any, len(names)),
	}
	for i, name := range names {
		var v any
		if i < len(values) {
			v = values[i]
		}
		if _, ok := r.values[name]; !ok {
			r.names = append(r.names, name)
		}
		r.values[name] = v
	}
	return r
}

// Contains reports whether the record has a column named name
func (r *Record) Contains(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Count returns the number of columns
func (r *Record) Count() int {
	return len(r.names)
}

// IsEmpty reports whether the record has no columns
func (r *Record) IsEmpty() bool {
	return len(r.names) == 0
}

// Names returns the column names in order
func (r *Record) Names() []string {
	return slices.Clone(r.names)
}

// Field returns the named column as a Field with an inferred type
func (r *Record) Field(name string) (*Field, bool) {
	v, ok := r.values[name]
	if !ok {
		return nil, false
	}
	return newFieldOf(name, v), true
}

// FieldName returns the name of the column at index
func (r *Record) FieldName(index int) (string, bool) {
	if index < 0 || index >= len(r.names) {
		return "", false
	}
	return r.names[index], true
}

// IndexOf returns the position of the column named name, or -1.
// Names are compared case-sensitively.
func (r *Record) IndexOf(name string) int {
	return slices.Index(r.names, name)
}

// Value returns the raw value of the named column, or nil when the column is
// absent or NULL.
//
// Deprecated: Value cannot tell a NULL from a missing column; use Get or a typed getter.
func (r *Record) Value(name string) any {
	return r.values[name]
}

// ValueAt returns the raw value of the column at index, or nil
func (r *Record) ValueAt(index int) any {
	v, _ := r.GetAt(index)
	return v
}

// Get returns the raw value of the named column
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// GetAt returns the raw value of the column at index
func (r *Record) GetAt(index int) (any, bool) {
	name, ok := r.FieldName(index)
	if !ok {
		return nil, false
	}
	return r.values[name], true
}

// Int returns the named column coerced to an integer.
// The result is NULL when the column is absent or NULL.
func (r *Record) Int(name string) (sql.NullInt64, error) {
	return toInt(r.values[name])
}

// IntAt returns the column at index coerced to an integer
func (r *Record) IntAt(index int) (sql.NullInt64, error) {
	return toInt(r.ValueAt(index))
}

// Float returns the named column coerced to a float
func (r *Record) Float(name string) (sql.NullFloat64, error) {
	return toFloat(r.values[name])
}

// FloatAt returns the column at index coerced to a float
func (r *Record) FloatAt(index int) (sql.NullFloat64, error) {
	return toFloat(r.ValueAt(index))
}

// Bool returns the named column coerced to a boolean
func (r *Record) Bool(name string) (sql.NullBool, error) {
	return toBool(r.values[name])
}

// BoolAt returns the column at index coerced to a boolean
func (r *Record) BoolAt(index int) (sql.NullBool, error) {
	return toBool(r.ValueAt(index))
}

// String returns the named column rendered as text
func (r *Record) String(name string) (sql.NullString, error) {
	return toString(r.values[name])
}

// StringAt returns the column at index rendered as text
func (r *Record) StringAt(index int) (sql.NullString, error) {
	return toString(r.ValueAt(index))
}

// IsNull reports whether the named column is absent or NULL
func (r *Record) IsNull(name string) bool {
	return r.values[name] == nil
}

// SetNull sets the named column to NULL. It is a no-op when the column is absent.
func (r *Record) SetNull(name string) {
	if _, ok := r.values[name]; ok {
		r.values[name] = nil
	}
}

// Remove deletes the named column. It is a no-op when the column is absent.
func (r *Record) Remove(name string) {
	i := r.IndexOf(name)
	if i < 0 {
		return
	}
	r.names = slices.Delete(r.names, i, i+1)
	delete(r.values, name)
}

// Clear removes every column
func (r *Record) Clear() {
	r.names = r.names[:0]
	clear(r.values)
}

// ClearValues sets every column to NULL
func (r *Record) ClearValues() {
	for name := range r.values {
		r.values[name] = nil
	}
}

// All iterates over the columns in order
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, name := range r.names {
			if !yield(name, r.values[name]) {
				return
			}
		}
	}
}
