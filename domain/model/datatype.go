// Package model provides domain model for sqlmodel
package model

import "time"

// DataType represents the scalar kind of a database value
type DataType int

const (
	// DataTypeUnknown represents a value whose kind cannot be determined
	DataTypeUnknown DataType = iota
	// DataTypeNull represents SQL NULL
	DataTypeNull
	// DataTypeInteger represents any signed or unsigned integer
	DataTypeInteger
	// DataTypeFloat represents a floating point number
	DataTypeFloat
	// DataTypeBoolean represents a boolean
	DataTypeBoolean
	// DataTypeString represents text
	DataTypeString
	// DataTypeBytes represents a BLOB
	DataTypeBytes
	// DataTypeTime represents a date, time or timestamp
	DataTypeTime
)

// String returns the lowercase name of the data type
func (dt DataType) String() string {
	switch dt {
	case DataTypeNull:
		return "null"
	case DataTypeInteger:
		return "integer"
	case DataTypeFloat:
		return "float"
	case DataTypeBoolean:
		return "boolean"
	case DataTypeString:
		return "string"
	case DataTypeBytes:
		return "bytes"
	case DataTypeTime:
		return "time"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the data type is an integer or a float
func (dt DataType) IsNumeric() bool {
	return dt == DataTypeInteger || dt == DataTypeFloat
}

// DataTypeOf infers the data type of a value returned by a database driver.
func DataTypeOf(v any) DataType {
	switch v.(type) {
	case nil:
		return DataTypeNull
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return DataTypeInteger
	case float32, float64:
		return DataTypeFloat
	case bool:
		return DataTypeBoolean
	case string:
		return DataTypeString
	case []byte:
		return DataTypeBytes
	case time.Time:
		return DataTypeTime
	default:
		return DataTypeUnknown
	}
}
