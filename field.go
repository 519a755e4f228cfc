package sqlmodel

import "github.com/mtoolkit/sqlmodel/domain/model"

// Field is a single named, typed value of a record
type Field struct {
	name         string
	dataType     DataType
	value        any
	defaultValue any
	length       int
}

// NewField creates an empty field with an unknown length
func NewField(name string, dataType DataType) *Field {
	return &Field{name: name, dataType: dataType, length: -1}
}

// newFieldOf builds a field for value, inferring its type
func newFieldOf(name string, value any) *Field {
	f := NewField(name, model.DataTypeOf(value))
	f.value = value
	return f
}

// Name returns the field name
func (f *Field) Name() string { return f.name }

// SetName sets the field name
func (f *Field) SetName(name string) { f.name = name }

// Type returns the data type
func (f *Field) Type() DataType { return f.dataType }

// SetType sets the data type
func (f *Field) SetType(dataType DataType) { f.dataType = dataType }

// Value returns the raw value
func (f *Field) Value() any { return f.value }

// SetValue sets the raw value
func (f *Field) SetValue(value any) { f.value = value }

// DefaultValue returns the default value
func (f *Field) DefaultValue() any { return f.defaultValue }

// SetDefaultValue sets the default value
func (f *Field) SetDefaultValue(value any) { f.defaultValue = value }

// Length returns the declared length, -1 when unknown
func (f *Field) Length() int { return f.length }

// SetLength sets the declared length
func (f *Field) SetLength(length int) { f.length = length }

// IsNull reports whether the value is SQL NULL
func (f *Field) IsNull() bool { return f.value == nil }

// Clear resets every attribute, including the name
func (f *Field) Clear() {
	*f = Field{dataType: model.DataTypeUnknown, length: -1}
}
