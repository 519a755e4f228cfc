// Package model provides domain model for sqlmodel
package model

// Orientation selects the header a section index refers to
type Orientation int

const (
	// Horizontal addresses column headers
	Horizontal Orientation = iota
	// Vertical addresses row headers
	Vertical
)

// String returns the string representation of Orientation
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// TableModel is the row/column data contract consumed by views and printers.
type TableModel interface {
	// RowCount returns the number of rows.
	RowCount() int
	// ColumnCount returns the number of columns.
	ColumnCount() int
	// Data returns the value at row and column, or nil when out of range.
	Data(row, column int) any
	// HeaderData returns the header for section in the given orientation.
	HeaderData(section int, orientation Orientation) any
	// SetHeaderData sets the header for section and reports whether it was updated.
	SetHeaderData(section int, orientation Orientation, value any) bool
	// HasChildren reports whether the item at row and column has children.
	HasChildren(row, column int) bool
}

// EditableModel is a TableModel that accepts cell writes.
type EditableModel interface {
	TableModel
	// SetData stores value at row and column.
	SetData(row, column int, value any) error
}

// BaseModel provides the default header, hierarchy and write behavior of a
// flat read-only model. Embed it and implement RowCount, ColumnCount and Data.
type BaseModel struct{}

// HeaderData returns nil
func (BaseModel) HeaderData(int, Orientation) any {
	return nil
}

// SetHeaderData returns false
func (BaseModel) SetHeaderData(int, Orientation, any) bool {
	return false
}

// HasChildren returns false
func (BaseModel) HasChildren(int, int) bool {
	return false
}

// SetData returns ErrReadOnly
func (BaseModel) SetData(int, int, any) error {
	return ErrReadOnly
}
